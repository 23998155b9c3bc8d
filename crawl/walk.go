package crawl

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/lawdoc"
	"golang.org/x/time/rate"
)

// taskResult is what a worker reports back to the coordinator.
type taskResult struct {
	task    lawdoc.CrawlTask
	outcome *lawdoc.Outcome

	// retry is set when the fetch failed transiently.
	retry bool
	err   error
}

// walk drains the frontier with a pool of workers. The coordinator loop
// owns the frontier: it dispatches tasks, requeues retries and enqueues
// discovered links, so workers never touch shared crawl state other than
// through their results.
func (c *Crawler) walk(ctx context.Context, frontier *Frontier, progress *lawdoc.CrawlProgress) {
	concurrency := c.concurrency()
	maxRequests := c.maxRequests()
	logger := c.logger()
	progressLog := rate.Sometimes{Interval: c.progressInterval()}

	workCh := make(chan lawdoc.CrawlTask, concurrency)
	resultCh := make(chan taskResult)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range workCh {
				result := c.processTask(ctx, t)
				select {
				case resultCh <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	handle := func(result taskResult) {
		c.handleResult(ctx, result, frontier, progress)
		progressLog.Do(func() {
			stats := progress.Snapshot()
			logger.Info("crawl progress",
				"processed", stats.Processed,
				"stored", stats.Stored,
				"skipped", stats.Skipped,
				"queued", frontier.Len(),
			)
		})
	}

	// next pops the next dispatchable task. First attempts beyond the
	// request ceiling are dropped; retries of admitted tasks still run.
	dispatched := 0
	next := func() *lawdoc.CrawlTask {
		for {
			t, ok := frontier.Pop()
			if !ok {
				return nil
			}
			if t.RetryCount == 0 && dispatched >= maxRequests {
				continue
			}
			return &t
		}
	}

	pending := 0
	nextTask := next()

coordinatorLoop:
	for {
		if nextTask == nil && pending == 0 {
			break
		}
		if ctx.Err() != nil {
			break
		}

		if nextTask != nil {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case workCh <- *nextTask:
				if nextTask.RetryCount == 0 {
					dispatched++
				}
				pending++
				nextTask = nil
			case result := <-resultCh:
				pending--
				handle(result)
			}
		} else {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case result, ok := <-resultCh:
				if !ok {
					break coordinatorLoop
				}
				pending--
				handle(result)
			}
		}

		if nextTask == nil {
			nextTask = next()
		}
	}

	close(workCh)

	// Drain in-flight results so every dispatched task is counted.
	drainTimeout := time.After(5 * time.Second)
drainLoop:
	for pending > 0 {
		select {
		case result, ok := <-resultCh:
			if !ok {
				break drainLoop
			}
			pending--
			c.handleResult(ctx, result, frontier, progress)
		case <-drainTimeout:
			break drainLoop
		}
	}
}

// handleResult records a task's outcome, requeues retryable failures and
// enqueues in-scope links.
func (c *Crawler) handleResult(ctx context.Context, result taskResult, frontier *Frontier, progress *lawdoc.CrawlProgress) {
	logger := c.logger()
	t := result.task

	if result.retry {
		t.RetryCount++
		if t.RetryCount > c.maxRetries() || ctx.Err() != nil {
			logger.Warn("giving up on url", "url", t.URL, "retries", t.RetryCount-1, "err", result.err)
			progress.Skipped()
			return
		}
		logger.Debug("retrying url", "url", t.URL, "retry", t.RetryCount, "err", result.err)
		frontier.Requeue(t)
		return
	}

	outcome := result.outcome
	if outcome == nil {
		outcome = &lawdoc.Outcome{Status: lawdoc.TaskSkipped, Err: result.err}
	}
	switch outcome.Status {
	case lawdoc.TaskStored:
		progress.Stored(outcome.Chunks, outcome.Tokens)
	default:
		logger.Debug("skipped url", "url", t.URL, "err", outcome.Err)
		progress.Skipped()
	}

	for _, link := range outcome.Links {
		if !lawdoc.InScope(t.BasePath, link.URL) || !c.Filter.Match(link.URL) {
			continue
		}
		frontier.Push(lawdoc.CrawlTask{
			URL:      link.URL,
			State:    t.State,
			BasePath: t.BasePath,
			Priority: link.Priority,
		})
	}
}

// processTask runs one attempt of a task: backoff for retries, robots
// check, politeness wait, fetch and processing.
func (c *Crawler) processTask(ctx context.Context, t lawdoc.CrawlTask) taskResult {
	result := taskResult{task: t}

	if t.RetryCount > 0 {
		if err := lawdoc.Sleep(ctx, c.Backoff.Delay(t.RetryCount)); err != nil {
			result.err = err
			return result
		}
	}

	if c.Robots != nil && !c.Robots.Allowed(ctx, t.URL) {
		result.outcome = &lawdoc.Outcome{
			Status: lawdoc.TaskSkipped,
			Err:    lawdoc.Errorf(lawdoc.ESKIPPED, "disallowed by robots.txt"),
		}
		return result
	}

	if c.RateLimiter != nil {
		u, err := url.Parse(t.URL)
		if err != nil {
			result.err = lawdoc.Errorf(lawdoc.EINVALID, "invalid URL %q", t.URL)
			return result
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	resp, err := c.Fetcher.Fetch(ctx, t.URL)
	if err != nil {
		result.err = err
		result.retry = ctx.Err() == nil && lawdoc.IsRetryable(err)
		return result
	}

	result.outcome = c.Processor.Process(ctx, t, resp)
	return result
}
