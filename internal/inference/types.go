package inference

// Options are the decoding parameters sent with every generate call
type Options struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"` // max tokens to generate
	NumCtx      int     `json:"num_ctx,omitempty"`     // context window size
}

// GenerateRequest is the request body for /api/generate
type GenerateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *Options `json:"options,omitempty"`
}

// GenerateResponse is the non-streaming response from /api/generate
type GenerateResponse struct {
	Model      string `json:"model"`
	Response   string `json:"response"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason,omitempty"`
	EvalCount  int    `json:"eval_count,omitempty"`
}

// ShowModelRequest is the request body for /api/show
type ShowModelRequest struct {
	Name string `json:"name"`
}

// backendError is the error body returned by the backend
type backendError struct {
	Error string `json:"error"`
}
