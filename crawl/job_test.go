package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/crawl"
	"github.com/fwojciec/lawdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRunner(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

	newRunner := func(updated *[]lawdoc.Job) *crawl.JobRunner {
		return &crawl.JobRunner{
			Jobs: &mock.JobService{
				CreateJobFn: func(_ context.Context, job *lawdoc.Job) error {
					job.ID = "job-1"
					return nil
				},
				UpdateJobFn: func(_ context.Context, job *lawdoc.Job) error {
					*updated = append(*updated, *job)
					return nil
				},
			},
			Crawler: newCrawler(okFetcher(&recorder{}), storeAll(nil)),
			Now:     func() time.Time { return now },
		}
	}

	t.Run("start records a running job", func(t *testing.T) {
		t.Parallel()

		var updated []lawdoc.Job
		r := newRunner(&updated)

		job, err := r.Start(context.Background(), request("https://sos.ohio.gov/"))

		require.NoError(t, err)
		assert.Equal(t, "job-1", job.ID)
		assert.Equal(t, lawdoc.JobRunning, job.Status)
		assert.Equal(t, now, job.StartedAt)
		assert.Equal(t, "Ohio", job.State)
	})

	t.Run("start records the display form of the state", func(t *testing.T) {
		t.Parallel()

		var updated []lawdoc.Job
		r := newRunner(&updated)

		job, err := r.Start(context.Background(), lawdoc.CrawlRequest{URLs: []string{"https://www.tn.gov/"}, State: "tennessee"})

		require.NoError(t, err)
		assert.Equal(t, "Tennessee", job.State)
	})

	t.Run("start rejects invalid requests", func(t *testing.T) {
		t.Parallel()

		var updated []lawdoc.Job
		r := newRunner(&updated)

		_, err := r.Start(context.Background(), lawdoc.CrawlRequest{URLs: []string{"https://sos.ohio.gov/"}})

		assert.Equal(t, lawdoc.EINVALID, lawdoc.ErrorCode(err))
	})

	t.Run("run marks the job completed with stats", func(t *testing.T) {
		t.Parallel()

		var updated []lawdoc.Job
		r := newRunner(&updated)
		job, err := r.Start(context.Background(), request("https://sos.ohio.gov/"))
		require.NoError(t, err)

		require.NoError(t, r.Run(context.Background(), job))

		require.Len(t, updated, 1)
		assert.Equal(t, lawdoc.JobCompleted, updated[0].Status)
		require.NotNil(t, updated[0].CompletedAt)
		assert.Equal(t, now, *updated[0].CompletedAt)
		require.NotNil(t, updated[0].Result)
		assert.Equal(t, 1, updated[0].Result.Stored)
	})

	t.Run("run marks the job failed when the crawl is canceled", func(t *testing.T) {
		t.Parallel()

		var updated []lawdoc.Job
		r := newRunner(&updated)
		job, err := r.Start(context.Background(), request("https://sos.ohio.gov/"))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = r.Run(ctx, job)

		assert.ErrorIs(t, err, context.Canceled)
		require.Len(t, updated, 1)
		assert.Equal(t, lawdoc.JobFailed, updated[0].Status)
		assert.Contains(t, updated[0].Error, "context canceled")
	})
}
