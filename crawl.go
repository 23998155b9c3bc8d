package lawdoc

import (
	"context"
	"net/url"
	"strings"
	"sync/atomic"
)

// CrawlRequest starts an ingestion run.
type CrawlRequest struct {
	URLs  []string `json:"urls"`
	State string   `json:"state"`
}

// Validate returns an error if the request cannot start a crawl. The state
// must be a name NormalizeState accepts.
func (r *CrawlRequest) Validate() error {
	if len(r.URLs) == 0 {
		return Errorf(EINVALID, "at least one URL required")
	}
	if _, err := NormalizeState(r.State); err != nil {
		return err
	}
	for _, raw := range r.URLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return Errorf(EINVALID, "invalid URL %q", raw)
		}
	}
	return nil
}

// Normalize validates the request and returns a copy whose State is in
// display form, the form chunks are stored and searched under.
func (r *CrawlRequest) Normalize() (CrawlRequest, error) {
	if err := r.Validate(); err != nil {
		return CrawlRequest{}, err
	}
	out := *r
	out.State, _ = NormalizeState(r.State)
	return out, nil
}

// CrawlTask is a unit of crawl work. A task is created when its URL is
// enqueued and retired on success or when its retries are exhausted.
type CrawlTask struct {
	URL        string
	State      string
	BasePath   string
	RetryCount int
	Priority   LinkPriority
}

// BasePath returns the crawl scope root for a seed URL: its origin, or its
// origin and directory when restrictPath is set. Scheme and host are
// lower-cased.
func BasePath(seed string, restrictPath bool) (string, error) {
	u, err := url.Parse(seed)
	if err != nil || u.Host == "" {
		return "", Errorf(EINVALID, "invalid URL %q", seed)
	}
	base := strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
	if restrictPath {
		dir := u.Path
		if i := strings.LastIndex(dir, "/"); i >= 0 {
			dir = dir[:i]
		}
		base += dir
	}
	return base, nil
}

// InScope reports whether rawURL falls under basePath. The prefix must end
// at a path boundary, so "https://a.gov" does not contain
// "https://a.gov.example.com". Scheme and host compare case-insensitively.
func InScope(basePath, rawURL string) bool {
	basePath, rawURL = lowerOrigin(basePath), lowerOrigin(rawURL)
	if !strings.HasPrefix(rawURL, basePath) {
		return false
	}
	rest := rawURL[len(basePath):]
	return rest == "" || strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "?") ||
		strings.HasPrefix(rest, "#") || strings.HasSuffix(basePath, "/")
}

// lowerOrigin lower-cases the scheme and host of rawURL, leaving the path,
// query and fragment untouched.
func lowerOrigin(rawURL string) string {
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return rawURL
	}
	end := strings.IndexAny(rest, "/?#")
	if end < 0 {
		end = len(rest)
	}
	return strings.ToLower(scheme) + "://" + strings.ToLower(rest[:end]) + rest[end:]
}

// TaskStatus is the terminal state of a crawl task.
type TaskStatus int

// Terminal task states. Failed tasks count as skipped in progress totals.
const (
	TaskSkipped TaskStatus = iota
	TaskStored
)

// Outcome reports what processing a fetched response produced.
type Outcome struct {
	Status TaskStatus

	// Links are candidate URLs discovered in an HTML document.
	Links []DiscoveredLink

	Chunks int
	Tokens int

	// Err explains a skip.
	Err error
}

// Processor turns a fetched response into indexed chunks.
type Processor interface {
	Process(ctx context.Context, task CrawlTask, resp *Response) *Outcome
}

// CrawlProgress counts crawl outcomes. It is updated concurrently by
// workers; every processed task is either stored or skipped.
type CrawlProgress struct {
	processed atomic.Int64
	stored    atomic.Int64
	skipped   atomic.Int64
	chunks    atomic.Int64
	tokens    atomic.Int64
}

// Stored records a stored document with its chunk and token counts.
func (p *CrawlProgress) Stored(chunks, tokens int) {
	p.stored.Add(1)
	p.chunks.Add(int64(chunks))
	p.tokens.Add(int64(tokens))
	p.processed.Add(1)
}

// Skipped records a skipped or failed task.
func (p *CrawlProgress) Skipped() {
	p.skipped.Add(1)
	p.processed.Add(1)
}

// Snapshot returns the current counts.
func (p *CrawlProgress) Snapshot() CrawlStats {
	return CrawlStats{
		Stored:    int(p.stored.Load()),
		Skipped:   int(p.skipped.Load()),
		Chunks:    int(p.chunks.Load()),
		Tokens:    int(p.tokens.Load()),
		Processed: int(p.processed.Load()),
	}
}

// CrawlStats is a point-in-time copy of crawl progress.
type CrawlStats struct {
	Processed int `json:"processed"`
	Stored    int `json:"stored"`
	Skipped   int `json:"skipped"`
	Chunks    int `json:"chunks"`
	Tokens    int `json:"tokens,omitempty"`
}
