package main

import (
	"fmt"

	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	state, err := lawdoc.NormalizeState(c.State)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdoc.ErrorMessage(err))
		return err
	}

	// Compile filters early so bad patterns fail before any fetch.
	filter, err := lawdoc.NewURLFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdoc.ErrorMessage(err))
		return err
	}

	if c.Preview {
		return c.preview(deps, filter)
	}

	crawler := deps.Runner.Crawler
	crawler.Filter = filter
	if c.Concurrency > 0 {
		crawler.Concurrency = c.Concurrency
	}
	if c.MaxRequests > 0 {
		crawler.MaxRequests = c.MaxRequests
	}
	if c.RestrictToPath {
		crawler.RestrictToPath = true
	}

	job, err := deps.Runner.Start(deps.Ctx, lawdoc.CrawlRequest{URLs: c.URLs, State: state})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdoc.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Started job %s for %s (%d seed URLs)\n", job.ID, state, len(job.URLs))

	if err := deps.Runner.Run(deps.Ctx, job); err != nil {
		if deps.Archive != nil {
			_ = deps.Archive.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", lawdoc.ErrorMessage(err))
		if job.Result != nil {
			fmt.Fprintf(deps.Stderr, "  %s\n", crawl.FormatStats(job.Result))
		}
		return err
	}

	if deps.Archive != nil {
		if err := deps.Archive.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: commit archive: %v\n", err)
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "  %s\n", crawl.FormatStats(job.Result))
	return nil
}

func (c *CrawlCmd) preview(deps *Dependencies, filter *lawdoc.URLFilter) error {
	for _, seed := range c.URLs {
		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, seed, filter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", seed, lawdoc.ErrorMessage(err))
			return err
		}
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
	}
	return nil
}
