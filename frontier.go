package lawdoc

import "context"

// URLFrontier is the crawl queue. Tasks pop highest priority first and each
// URL is admitted at most once.
type URLFrontier interface {
	// Push queues task unless its URL was queued before, returning false
	// for duplicates.
	Push(task CrawlTask) bool

	// Requeue queues a task whose URL was already admitted, such as a
	// fetch being retried.
	Requeue(task CrawlTask)

	// Pop removes the next task, or returns false when nothing is queued.
	Pop() (CrawlTask, bool)

	// Len returns the number of queued tasks.
	Len() int

	// Seen reports whether url was ever admitted.
	Seen(url string) bool
}

// HostLimiter spaces out requests to the same host.
type HostLimiter interface {
	// Wait blocks until a request to host may proceed or ctx is done.
	Wait(ctx context.Context, host string) error
}
