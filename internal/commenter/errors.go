package commenter

// ErrorType classifies client-side failures
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeNotReady means the server did not report ready in time
	ErrTypeNotReady
	// ErrTypeConnection means the request never got an HTTP response
	ErrTypeConnection
	// ErrTypeServer means the server answered with an error
	ErrTypeServer
	// ErrTypeBadInput means the server rejected the request body
	ErrTypeBadInput
)

// ClientError is returned by Client and Service operations
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int // HTTP status for server errors, 0 otherwise
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches client errors by type
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Sentinel errors for errors.Is checks
var (
	ErrNotReady   = &ClientError{Type: ErrTypeNotReady, Message: "Local server is not ready. Please ensure the server is running."}
	ErrConnection = &ClientError{Type: ErrTypeConnection, Message: "Failed to connect to local server"}
	ErrServer     = &ClientError{Type: ErrTypeServer, Message: "Unknown API error"}
	ErrBadInput   = &ClientError{Type: ErrTypeBadInput, Message: "bad input"}
)
