package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/ytget/codesage/internal/logger"
	"github.com/ytget/codesage/internal/model"
)

// Error messages returned to clients
const (
	msgModelNotLoaded = "Model not loaded"
	msgNoCode         = "No code provided"
	msgBodyTooLarge   = "Request body too large"
)

// StatusResponse is the body of GET /status
type StatusResponse struct {
	Status model.ServerState `json:"status"`
}

// GenerateRequest is the body of POST /generate-comment
type GenerateRequest struct {
	Code string `json:"code"`
}

// GenerateResponse is the success body of POST /generate-comment
type GenerateResponse struct {
	Comment string `json:"comment"`
}

// ErrorResponse is the body of every non-2xx generate response
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := s.State()
	code := http.StatusOK
	if !state.IsReady() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, StatusResponse{Status: state})
}

func (s *Server) handleGenerateComment(w http.ResponseWriter, r *http.Request) {
	gen := s.generator()
	if gen == nil {
		writeError(w, http.StatusServiceUnavailable, msgModelNotLoaded)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgNoCode)
		return
	}

	code, ok := codeField(body)
	if !ok {
		writeError(w, http.StatusBadRequest, msgNoCode)
		return
	}

	comment, err := gen.Generate(r.Context(), code)
	if err != nil {
		logger.Error("Generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Comment: comment})
}

// codeField extracts "code" from a JSON object body. A body that is not a
// JSON object or has no code key is rejected.
func codeField(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return "", false
	}
	code := root.Get("code")
	if !code.Exists() || code.Type == gjson.Null {
		return "", false
	}
	return code.String(), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
