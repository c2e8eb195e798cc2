package commenter

import (
	"context"
	"time"

	"github.com/ytget/codesage/internal/model"
)

// Callbacks receive job progress. They are called from the worker
// goroutine; UI code must hop to its own thread before touching widgets.
type Callbacks struct {
	// OnUpdate is called on every job status change
	OnUpdate func(job model.Job)
	// OnResult is called once per block, in block order
	OnResult func(job model.Job, result model.CommentResult)
	// OnFinished is called once after every block has a comment
	OnFinished func(job model.Job)
	// OnError is called once when the job stops on a failure
	OnError func(job model.Job, err error)
}

// Commenter defines the interface for the comment generation service.
type Commenter interface {
	SetCallbacks(cb Callbacks)
	Start(blocks []model.CodeBlock) (model.Job, error)
	Run(ctx context.Context, blocks []model.CodeBlock) (model.Job, error)
	GetJob(id string) (model.Job, bool)
	ActiveJob() (model.Job, bool)
	Cancel(id string) error
	CancelActive()
	SetServerURL(url string)
	SetReadyTimeout(d time.Duration)
}
