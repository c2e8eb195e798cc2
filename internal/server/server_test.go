package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/codesage/internal/model"
)

type mockModel struct {
	loadErr  error
	generate func(ctx context.Context, code string) (string, error)
	calls    []string
}

func (m *mockModel) Load(ctx context.Context) error {
	return m.loadErr
}

func (m *mockModel) Generate(ctx context.Context, code string) (string, error) {
	m.calls = append(m.calls, code)
	if m.generate != nil {
		return m.generate(ctx, code)
	}
	return "comment for " + code, nil
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var decoded map[string]string
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func TestStatus_LoadingThenReady(t *testing.T) {
	s := New()

	rec, body := do(t, s, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "loading", body["status"])
	assert.Equal(t, model.ServerStateLoading, s.State())

	require.NoError(t, s.LoadModel(context.Background(), &mockModel{}))

	rec, body = do(t, s, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestLoadModel_FailureKeepsLoading(t *testing.T) {
	s := New()
	err := s.LoadModel(context.Background(), &mockModel{loadErr: errors.New("weights missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights missing")

	rec, _ := do(t, s, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, body := do(t, s, http.MethodPost, "/generate-comment", `{"code":"x = 1"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Model not loaded", body["error"])
}

func TestGenerateComment_Success(t *testing.T) {
	s := New()
	m := &mockModel{}
	require.NoError(t, s.LoadModel(context.Background(), m))

	rec, body := do(t, s, http.MethodPost, "/generate-comment", `{"code":"def f():\n    pass"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "comment for def f():\n    pass", body["comment"])
	assert.Equal(t, []string{"def f():\n    pass"}, m.calls)
}

func TestGenerateComment_MissingCode(t *testing.T) {
	s := New()
	m := &mockModel{}
	require.NoError(t, s.LoadModel(context.Background(), m))

	payloads := []string{
		``,
		`{}`,
		`{"source":"x = 1"}`,
		`{"code":null}`,
		`["code"]`,
		`not json`,
	}
	for _, payload := range payloads {
		rec, body := do(t, s, http.MethodPost, "/generate-comment", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code, payload)
		assert.Equal(t, "No code provided", body["error"], payload)
	}
	assert.Empty(t, m.calls)
}

func TestGenerateComment_GenerationFailure(t *testing.T) {
	s := New()
	require.NoError(t, s.LoadModel(context.Background(), &mockModel{
		generate: func(ctx context.Context, code string) (string, error) {
			return "", errors.New("CUDA out of memory")
		},
	}))

	rec, body := do(t, s, http.MethodPost, "/generate-comment", `{"code":"x = 1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "CUDA out of memory", body["error"])
}

func TestGenerateComment_BodyTooLarge(t *testing.T) {
	s := New()
	require.NoError(t, s.LoadModel(context.Background(), &mockModel{}))

	big := `{"code":"` + strings.Repeat("a", MaxRequestBodySize) + `"}`
	rec, body := do(t, s, http.MethodPost, "/generate-comment", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Request body too large", body["error"])
}

func TestRoutes_NotFoundAndMethod(t *testing.T) {
	s := New()

	rec, _ := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/generate-comment", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServeListener_ShutdownOnCancel(t *testing.T) {
	s := New()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/status")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusServiceUnavailable
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}
