package lawdoc

import (
	"context"
	"time"
)

// JobStatus is the lifecycle state of a crawl job.
type JobStatus string

// Job statuses. A job starts running and ends completed or failed.
const (
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job records the status of a fire-and-forget crawl.
type Job struct {
	ID          string      `json:"id"`
	Status      JobStatus   `json:"status"`
	URLs        []string    `json:"urls"`
	State       string      `json:"state"`
	StartedAt   time.Time   `json:"startTime"`
	CompletedAt *time.Time  `json:"completedTime,omitempty"`
	Error       string      `json:"error,omitempty"`
	Result      *CrawlStats `json:"result,omitempty"`
}

// JobService persists crawl job status.
type JobService interface {
	// CreateJob assigns an ID and stores a new job.
	CreateJob(ctx context.Context, job *Job) error

	// FindJobByID retrieves a job by ID.
	// Returns ENOTFOUND if the job does not exist.
	FindJobByID(ctx context.Context, id string) (*Job, error)

	// UpdateJob overwrites the stored job.
	// Returns ENOTFOUND if the job does not exist.
	UpdateJob(ctx context.Context, job *Job) error
}
