package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// Defaults mirror the decoding setup of the fine-tuned commenter model
const (
	DefaultBaseURL   = "http://127.0.0.1:11434"
	DefaultModel     = "codet5-commenter"
	DefaultTimeout   = 60 * time.Second
	DefaultMaxTokens = 256
	DefaultMaxInput  = 512

	// PromptPrefix is the task prefix the model was fine-tuned with
	PromptPrefix = "summarize: "
)

// Generator produces a comment for a block of code
type Generator interface {
	Generate(ctx context.Context, code string) (string, error)
}

// ClientConfig holds configuration options for the backend client
type ClientConfig struct {
	BaseURL   string
	Model     string
	Timeout   time.Duration
	MaxTokens int
	MaxInput  int
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   DefaultBaseURL,
		Model:     DefaultModel,
		Timeout:   DefaultTimeout,
		MaxTokens: DefaultMaxTokens,
		MaxInput:  DefaultMaxInput,
	}
}

// Client handles communication with the model backend.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a client, filling zero config values with defaults
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultMaxTokens
	}
	if config.MaxInput == 0 {
		config.MaxInput = DefaultMaxInput
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.config.Model
}

// Load verifies that the backend is up and the model is available. It is
// the equivalent of loading the model: once it succeeds, Generate can serve.
func (c *Client) Load(ctx context.Context) error {
	resp, err := c.post(ctx, "/api/show", ShowModelRequest{Name: c.config.Model})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &ClientError{Type: ErrTypeModelNotFound, Message: "model not found: " + c.config.Model}
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp, "failed to load model")
	}
	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Generate asks the model for a comment describing code
func (c *Client) Generate(ctx context.Context, code string) (string, error) {
	req := GenerateRequest{
		Model:  c.config.Model,
		Prompt: PromptPrefix + code,
		Stream: false,
		Options: &Options{
			Temperature: 0,
			NumPredict:  c.config.MaxTokens,
			NumCtx:      c.config.MaxInput + c.config.MaxTokens,
		},
	}

	resp, err := c.post(ctx, "/api/generate", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrModelNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp, "generate request failed")
	}

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return strings.TrimSpace(result.Response), nil
}

// post marshals body and sends it, mapping transport failures to client errors
func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeNotRunning, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
		}
		return nil, &ClientError{Type: ErrTypeNotRunning, Message: "model backend is not running", Cause: err}
	}
	return resp, nil
}

// statusError reads the backend error body, falling back to the HTTP status
func statusError(resp *http.Response, fallback string) error {
	var be backendError
	if err := json.NewDecoder(resp.Body).Decode(&be); err == nil && be.Error != "" {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: be.Error}
	}
	return &ClientError{Type: ErrTypeInvalidResponse, Message: fallback + ": " + resp.Status}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
