package domain

import "time"

// JobStatus represents the state of an asynchronous summarize job.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// SummarizeJob tracks a summarize request running in the background.
type SummarizeJob struct {
	JobID       string     `json:"job_id"`
	ThreadID    string     `json:"thread_id"`
	Status      JobStatus  `json:"status"`
	SummaryID   int64      `json:"summary_id,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
