package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lawdoc"
)

// JobRunner runs crawls as jobs whose status is persisted while they run.
type JobRunner struct {
	Jobs    lawdoc.JobService
	Crawler *Crawler
	Logger  *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Start validates the request and records a running job for it. The crawl
// itself is performed by Run, typically in its own goroutine.
func (r *JobRunner) Start(ctx context.Context, req lawdoc.CrawlRequest) (*lawdoc.Job, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	job := &lawdoc.Job{
		Status:    lawdoc.JobRunning,
		URLs:      req.URLs,
		State:     req.State,
		StartedAt: r.now(),
	}
	if err := r.Jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Run crawls for a started job and records its completion or failure.
func (r *JobRunner) Run(ctx context.Context, job *lawdoc.Job) error {
	stats, err := r.Crawler.Crawl(ctx, lawdoc.CrawlRequest{URLs: job.URLs, State: job.State})

	completed := r.now()
	job.CompletedAt = &completed
	job.Result = stats
	if err != nil {
		job.Status = lawdoc.JobFailed
		job.Error = err.Error()
	} else {
		job.Status = lawdoc.JobCompleted
	}

	// The crawl context may already be done; the status must still land.
	if uerr := r.Jobs.UpdateJob(context.WithoutCancel(ctx), job); uerr != nil {
		r.logger().Error("update job status", "job", job.ID, "err", uerr)
		if err == nil {
			err = uerr
		}
	}
	return err
}

func (r *JobRunner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *JobRunner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
