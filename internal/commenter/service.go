package commenter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/codesage/internal/logger"
	"github.com/ytget/codesage/internal/model"
)

// JobIDPrefix prefixes generated job IDs
const JobIDPrefix = "job-"

// ErrJobActive is returned by Start while another job is running
var ErrJobActive = errors.New("a comment generation job is already running")

var _ Commenter = (*Service)(nil)

// Service runs comment generation jobs, one at a time
type Service struct {
	jobs         map[string]*model.Job
	cancels      map[string]context.CancelFunc
	jobsMutex    sync.RWMutex
	activeID     string
	client       *Client
	readyTimeout time.Duration
	pollInterval time.Duration
	callbacks    Callbacks
}

// NewService creates a service for the server at serverURL
func NewService(serverURL string, readyTimeout time.Duration) *Service {
	if readyTimeout <= 0 {
		readyTimeout = DefaultReadyTimeout
	}
	return &Service{
		jobs:         make(map[string]*model.Job),
		cancels:      make(map[string]context.CancelFunc),
		client:       NewClient(serverURL),
		readyTimeout: readyTimeout,
		pollInterval: DefaultPollInterval,
	}
}

// SetCallbacks sets the callbacks for job progress
func (s *Service) SetCallbacks(cb Callbacks) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()
	s.callbacks = cb
}

// SetServerURL points subsequent jobs at a different server
func (s *Service) SetServerURL(url string) {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()
	s.client = NewClient(url)
}

// SetReadyTimeout sets how long a job waits for the server to become ready
func (s *Service) SetReadyTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultReadyTimeout
	}
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()
	s.readyTimeout = d
}

// SetPollInterval sets how often readiness is polled
func (s *Service) SetPollInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultPollInterval
	}
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()
	s.pollInterval = d
}

// Start creates a job for blocks and runs it on a background goroutine
func (s *Service) Start(blocks []model.CodeBlock) (model.Job, error) {
	job, ctx, err := s.newJob(context.Background(), blocks)
	if err != nil {
		return model.Job{}, err
	}
	snapshot := s.snapshot(job)
	go s.runJob(ctx, job)
	return snapshot, nil
}

// Run creates a job for blocks and runs it on the calling goroutine. The
// returned error is the one that stopped the job, if any.
func (s *Service) Run(ctx context.Context, blocks []model.CodeBlock) (model.Job, error) {
	job, jobCtx, err := s.newJob(ctx, blocks)
	if err != nil {
		return model.Job{}, err
	}
	runErr := s.runJob(jobCtx, job)
	return s.snapshot(job), runErr
}

// GetJob returns a copy of a job by ID
func (s *Service) GetJob(id string) (model.Job, bool) {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()
	job, exists := s.jobs[id]
	if !exists {
		return model.Job{}, false
	}
	return copyJob(job), true
}

// ActiveJob returns a copy of the running job, if any
func (s *Service) ActiveJob() (model.Job, bool) {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()
	if s.activeID == "" {
		return model.Job{}, false
	}
	return copyJob(s.jobs[s.activeID]), true
}

// Cancel stops a running job
func (s *Service) Cancel(id string) error {
	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}
	if !job.Status.IsActive() && job.Status != model.JobStatusPending {
		return fmt.Errorf("job is not active: %s", job.Status)
	}
	if cancel, ok := s.cancels[id]; ok {
		cancel()
	}
	return nil
}

// CancelActive stops the running job, if any
func (s *Service) CancelActive() {
	s.jobsMutex.RLock()
	id := s.activeID
	s.jobsMutex.RUnlock()
	if id != "" {
		_ = s.Cancel(id)
	}
}

func (s *Service) newJob(parent context.Context, blocks []model.CodeBlock) (*model.Job, context.Context, error) {
	if len(blocks) == 0 {
		return nil, nil, errors.New("no code blocks to comment")
	}

	s.jobsMutex.Lock()
	defer s.jobsMutex.Unlock()

	if s.activeID != "" {
		return nil, nil, ErrJobActive
	}

	job := &model.Job{
		ID:        generateJobID(),
		Blocks:    append([]model.CodeBlock(nil), blocks...),
		Status:    model.JobStatusPending,
		StartedAt: time.Now(),
	}

	ctx, cancel := context.WithCancel(parent)
	s.jobs[job.ID] = job
	s.cancels[job.ID] = cancel
	s.activeID = job.ID
	return job, ctx, nil
}

// runJob waits for the server, then requests one comment per block in order
func (s *Service) runJob(ctx context.Context, job *model.Job) error {
	s.jobsMutex.RLock()
	client := s.client
	readyTimeout := s.readyTimeout
	pollInterval := s.pollInterval
	s.jobsMutex.RUnlock()

	s.setStatus(job, model.JobStatusWaiting)
	logger.Debug("Job %s waiting for %s", job.ID, client.BaseURL())
	if err := client.WaitReady(ctx, readyTimeout, pollInterval); err != nil {
		return s.finish(ctx, job, err)
	}

	s.setStatus(job, model.JobStatusGenerating)
	for i, block := range job.Blocks {
		if err := ctx.Err(); err != nil {
			return s.finish(ctx, job, err)
		}

		logger.Debug("Job %s: block %d/%d %s, %d lines", job.ID, i+1, len(job.Blocks), block.Label(), block.LineCount())
		comment, err := client.GenerateComment(ctx, block.Text)
		if err != nil {
			logger.Warn("Block %d/%d (%s) failed for job %s: %v", i+1, len(job.Blocks), block.Label(), job.ID, err)
			return s.finish(ctx, job, err)
		}

		result := model.CommentResult{Block: block, Comment: comment}
		s.jobsMutex.Lock()
		job.Results = append(job.Results, result)
		snapshot := copyJob(job)
		cb := s.callbacks.OnResult
		s.jobsMutex.Unlock()

		if cb != nil {
			cb(snapshot, result)
		}
	}

	return s.finish(ctx, job, nil)
}

// finish records the final status and fires exactly one terminal callback.
// Cancellation is reported through OnUpdate only.
func (s *Service) finish(ctx context.Context, job *model.Job, err error) error {
	status := model.JobStatusCompleted
	switch {
	case err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()):
		status = model.JobStatusCancelled
	case err != nil:
		status = model.JobStatusError
	}

	s.jobsMutex.Lock()
	job.Status = status
	job.FinishedAt = time.Now()
	if status == model.JobStatusError {
		job.LastError = err.Error()
	}
	if cancel, ok := s.cancels[job.ID]; ok {
		cancel()
		delete(s.cancels, job.ID)
	}
	if s.activeID == job.ID {
		s.activeID = ""
	}
	snapshot := copyJob(job)
	cb := s.callbacks
	s.jobsMutex.Unlock()

	logger.Info("Job %s finished: status=%s blocks=%s elapsed=%s", job.ID, status, snapshot.GetProgressString(), snapshot.Elapsed().Round(time.Millisecond))

	if cb.OnUpdate != nil {
		cb.OnUpdate(snapshot)
	}
	switch status {
	case model.JobStatusCompleted:
		if cb.OnFinished != nil {
			cb.OnFinished(snapshot)
		}
	case model.JobStatusError:
		if cb.OnError != nil {
			cb.OnError(snapshot, err)
		}
	}

	if status == model.JobStatusCompleted {
		return nil
	}
	return err
}

// setStatus updates a job status and notifies OnUpdate
func (s *Service) setStatus(job *model.Job, status model.JobStatus) {
	s.jobsMutex.Lock()
	job.Status = status
	snapshot := copyJob(job)
	cb := s.callbacks.OnUpdate
	s.jobsMutex.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

func (s *Service) snapshot(job *model.Job) model.Job {
	s.jobsMutex.RLock()
	defer s.jobsMutex.RUnlock()
	return copyJob(job)
}

// copyJob returns a job whose slices are safe to read after the lock is released
func copyJob(job *model.Job) model.Job {
	c := *job
	c.Blocks = append([]model.CodeBlock(nil), job.Blocks...)
	c.Results = append([]model.CommentResult(nil), job.Results...)
	return c
}

// generateJobID generates a unique job ID
func generateJobID() string {
	return JobIDPrefix + uuid.NewString()
}
