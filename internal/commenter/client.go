package commenter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ytget/codesage/internal/model"
)

// Timing defaults for talking to the local server
const (
	DefaultServerURL      = "http://127.0.0.1:5000"
	DefaultReadyTimeout   = 30 * time.Second
	DefaultPollInterval   = 1 * time.Second
	DefaultStatusTimeout  = 5 * time.Second
	DefaultRequestTimeout = 60 * time.Second

	statusPath   = "/status"
	generatePath = "/generate-comment"
)

// Client talks to the local comment server
type Client struct {
	baseURL        string
	httpClient     *http.Client
	statusTimeout  time.Duration
	requestTimeout time.Duration
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{},
		statusTimeout:  DefaultStatusTimeout,
		requestTimeout: DefaultRequestTimeout,
	}
}

// BaseURL returns the server base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Status performs a single readiness check
func (c *Client) Status(ctx context.Context) (model.ServerState, error) {
	ctx, cancel := context.WithTimeout(ctx, c.statusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+statusPath, nil)
	if err != nil {
		return model.ServerStateLoading, &ClientError{Type: ErrTypeConnection, Message: ErrConnection.Message, Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ServerStateLoading, &ClientError{Type: ErrTypeConnection, Message: ErrConnection.Message, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.ServerStateLoading, &ClientError{Type: ErrTypeConnection, Message: ErrConnection.Message, Cause: err}
	}

	if resp.StatusCode == http.StatusOK && gjson.GetBytes(body, "status").String() == string(model.ServerStateReady) {
		return model.ServerStateReady, nil
	}
	return model.ServerStateLoading, nil
}

// WaitReady polls the status endpoint every interval until the server is
// ready or timeout elapses. Connection failures while polling are expected
// and only end the wait when the timeout does.
func (c *Client) WaitReady(ctx context.Context, timeout, interval time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		state, _ := c.Status(ctx)
		if state.IsReady() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrNotReady
		case <-ticker.C:
		}
	}
}

// GenerateComment requests a comment for one block of code
func (c *Client) GenerateComment(ctx context.Context, code string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return "", &ClientError{Type: ErrTypeBadInput, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: ErrConnection.Message, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: ErrConnection.Message, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: ErrConnection.Message, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errType := ErrTypeServer
		if resp.StatusCode == http.StatusBadRequest {
			errType = ErrTypeBadInput
		}
		return "", &ClientError{
			Type:       errType,
			Message:    serverMessage(body, resp.Status),
			StatusCode: resp.StatusCode,
		}
	}

	comment := gjson.GetBytes(body, "comment")
	if !comment.Exists() {
		return "", &ClientError{Type: ErrTypeServer, Message: serverMessage(body, ErrServer.Message), StatusCode: resp.StatusCode}
	}
	return comment.String(), nil
}

// serverMessage returns the "error" field of a server body or fallback
func serverMessage(body []byte, fallback string) string {
	if msg := gjson.GetBytes(body, "error").String(); msg != "" {
		return msg
	}
	return fallback
}
