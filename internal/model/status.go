package model

// JobStatus represents the status of a comment generation job
type JobStatus string

const (
	// JobStatusPending means the job is created but not started
	JobStatusPending JobStatus = "Pending"

	// JobStatusWaiting means the worker is polling the server for readiness
	JobStatusWaiting JobStatus = "Waiting"

	// JobStatusGenerating means block requests are in progress
	JobStatusGenerating JobStatus = "Generating"

	// JobStatusCancelled means the job was cancelled by user
	JobStatusCancelled JobStatus = "Cancelled"

	// JobStatusCompleted means every block got a comment
	JobStatusCompleted JobStatus = "Completed"

	// JobStatusError means the job stopped on the first failure
	JobStatusError JobStatus = "Error"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job is in an active state
func (js JobStatus) IsActive() bool {
	return js == JobStatusWaiting || js == JobStatusGenerating
}

// IsFinished returns true if the job is in a finished state (completed, cancelled, or error)
func (js JobStatus) IsFinished() bool {
	return js == JobStatusCompleted || js == JobStatusCancelled || js == JobStatusError
}

// ServerState is the readiness of the local inference server
type ServerState string

const (
	ServerStateLoading ServerState = "loading"
	ServerStateReady   ServerState = "ready"
)

// IsReady reports whether the server can serve generation requests
func (s ServerState) IsReady() bool {
	return s == ServerStateReady
}
