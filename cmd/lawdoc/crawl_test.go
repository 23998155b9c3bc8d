package main_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/lawdoc"
	main "github.com/fwojciec/lawdoc/cmd/lawdoc"
	"github.com/fwojciec/lawdoc/crawl"
	"github.com/fwojciec/lawdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeArchive records whether a crawl committed or aborted it.
type fakeArchive struct {
	written   []string
	committed bool
	aborted   bool
}

func (a *fakeArchive) WriteDocument(_ context.Context, doc *lawdoc.Document) error {
	a.written = append(a.written, doc.URL)
	return nil
}

func (a *fakeArchive) Commit() error { a.committed = true; return nil }

func (a *fakeArchive) Abort() error { a.aborted = true; return nil }

// memoryJobs is a JobService backed by a map.
func memoryJobs() (*mock.JobService, map[string]*lawdoc.Job) {
	jobs := map[string]*lawdoc.Job{}
	svc := &mock.JobService{
		CreateJobFn: func(_ context.Context, job *lawdoc.Job) error {
			job.ID = "job-1"
			jobs[job.ID] = job
			return nil
		},
		UpdateJobFn: func(_ context.Context, job *lawdoc.Job) error {
			jobs[job.ID] = job
			return nil
		},
	}
	return svc, jobs
}

func newRunner(jobs lawdoc.JobService, fetch func(context.Context, string) (*lawdoc.Response, error)) *crawl.JobRunner {
	return &crawl.JobRunner{
		Jobs: jobs,
		Crawler: &crawl.Crawler{
			Fetcher: &mock.Fetcher{FetchFn: fetch},
			Processor: &mock.Processor{
				ProcessFn: func(_ context.Context, _ lawdoc.CrawlTask, _ *lawdoc.Response) *lawdoc.Outcome {
					return &lawdoc.Outcome{Status: lawdoc.TaskStored, Chunks: 3}
				},
			},
			Logger:     slog.New(slog.DiscardHandler),
			MaxRetries: 1,
		},
		Logger: slog.New(slog.DiscardHandler),
	}
}

func okResponse(_ context.Context, url string) (*lawdoc.Response, error) {
	return &lawdoc.Response{URL: url, StatusCode: 200, ContentType: "text/html", Body: []byte("<html></html>")}, nil
}

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("crawls seeds and reports stats", func(t *testing.T) {
		t.Parallel()

		jobs, stored := memoryJobs()
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runner: newRunner(jobs, okResponse),
		}

		cmd := &main.CrawlCmd{State: "ohio", URLs: []string{"https://sos.ohio.gov/laws"}}
		require.NoError(t, cmd.Run(deps))

		out := stdout.String()
		assert.Contains(t, out, "Started job job-1 for Ohio (1 seed URLs)")
		assert.Contains(t, out, "Processed 1 page (1 stored, 0 skipped), 3 chunks indexed")

		job := stored["job-1"]
		require.NotNil(t, job)
		assert.Equal(t, lawdoc.JobCompleted, job.Status)
		assert.Equal(t, "Ohio", job.State)
	})

	t.Run("applies flag overrides to the crawler", func(t *testing.T) {
		t.Parallel()

		jobs, _ := memoryJobs()
		runner := newRunner(jobs, okResponse)
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Runner: runner,
		}

		cmd := &main.CrawlCmd{
			State:          "Ohio",
			URLs:           []string{"https://sos.ohio.gov/laws/"},
			Filter:         []string{"/laws/"},
			Concurrency:    5,
			MaxRequests:    10,
			RestrictToPath: true,
		}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, 5, runner.Crawler.Concurrency)
		assert.Equal(t, 10, runner.Crawler.MaxRequests)
		assert.True(t, runner.Crawler.RestrictToPath)
		require.NotNil(t, runner.Crawler.Filter)
		assert.True(t, runner.Crawler.Filter.Match("https://sos.ohio.gov/laws/a"))
		assert.False(t, runner.Crawler.Filter.Match("https://sos.ohio.gov/news"))
	})

	t.Run("commits archive on success", func(t *testing.T) {
		t.Parallel()

		jobs, _ := memoryJobs()
		archive := &fakeArchive{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Runner:  newRunner(jobs, okResponse),
			Archive: archive,
		}

		cmd := &main.CrawlCmd{State: "Ohio", URLs: []string{"https://sos.ohio.gov/laws"}}
		require.NoError(t, cmd.Run(deps))

		assert.True(t, archive.committed)
		assert.False(t, archive.aborted)
	})

	t.Run("aborts archive and records failure when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		jobs, stored := memoryJobs()
		archive := &fakeArchive{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    ctx,
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Runner: newRunner(jobs, func(_ context.Context, _ string) (*lawdoc.Response, error) {
				cancel()
				return nil, lawdoc.Errorf(lawdoc.EUNAVAILABLE, "connection reset")
			}),
			Archive: archive,
		}

		cmd := &main.CrawlCmd{State: "Ohio", URLs: []string{"https://sos.ohio.gov/laws"}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.True(t, archive.aborted)
		assert.False(t, archive.committed)
		assert.Contains(t, stderr.String(), "error crawling")
		assert.Equal(t, lawdoc.JobFailed, stored["job-1"].Status)
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr}

		cmd := &main.CrawlCmd{State: "Atlantis", URLs: []string{"https://atlantis.gov"}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, lawdoc.EINVALID, lawdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "unknown state")
	})

	t.Run("rejects invalid filter before crawling", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr}

		cmd := &main.CrawlCmd{State: "Ohio", URLs: []string{"https://sos.ohio.gov"}, Filter: []string{"[invalid"}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, lawdoc.EINVALID, lawdoc.ErrorCode(err))
	})

	t.Run("preview lists sitemap URLs without crawling", func(t *testing.T) {
		t.Parallel()

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string, filter *lawdoc.URLFilter) ([]string, error) {
				assert.Equal(t, "https://sos.ohio.gov", baseURL)
				assert.Nil(t, filter)
				return []string{"https://sos.ohio.gov/a", "https://sos.ohio.gov/b"}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Sitemaps: sitemaps,
		}

		cmd := &main.CrawlCmd{State: "Ohio", URLs: []string{"https://sos.ohio.gov"}, Preview: true}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "https://sos.ohio.gov/a\nhttps://sos.ohio.gov/b\n", stdout.String())
	})
}
