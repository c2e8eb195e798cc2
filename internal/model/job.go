package model

import (
	"fmt"
	"time"
)

// Job is a single run of the comment worker over a list of blocks
type Job struct {
	ID         string
	Blocks     []CodeBlock
	Results    []CommentResult
	Status     JobStatus
	LastError  string    // last error message if any
	StartedAt  time.Time // when the job was created
	FinishedAt time.Time // when the job reached a finished state
}

// Done returns how many blocks already have a comment
func (j *Job) Done() int {
	return len(j.Results)
}

// Total returns how many blocks the job covers
func (j *Job) Total() int {
	return len(j.Blocks)
}

// Progress returns completion in the range 0.0 to 1.0
func (j *Job) Progress() float64 {
	if j.Total() == 0 {
		return 0
	}
	return float64(j.Done()) / float64(j.Total())
}

// GetProgressString returns progress formatted as "done/total"
func (j *Job) GetProgressString() string {
	return fmt.Sprintf("%d/%d", j.Done(), j.Total())
}

// Elapsed returns the job runtime; running jobs are measured against now
func (j *Job) Elapsed() time.Duration {
	if j.StartedAt.IsZero() {
		return 0
	}
	if j.FinishedAt.IsZero() {
		return time.Since(j.StartedAt)
	}
	return j.FinishedAt.Sub(j.StartedAt)
}
