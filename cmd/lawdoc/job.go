package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/crawl"
)

// Run executes the job command.
func (c *JobCmd) Run(deps *Dependencies) error {
	job, err := deps.Jobs.FindJobByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Job:     %s\n", job.ID)
	fmt.Fprintf(deps.Stdout, "Status:  %s\n", job.Status)
	fmt.Fprintf(deps.Stdout, "State:   %s\n", job.State)
	fmt.Fprintf(deps.Stdout, "URLs:    %s\n", strings.Join(job.URLs, ", "))
	fmt.Fprintf(deps.Stdout, "Started: %s\n", job.StartedAt.Format(time.RFC3339))
	if job.CompletedAt != nil {
		fmt.Fprintf(deps.Stdout, "Ended:   %s (%s)\n", job.CompletedAt.Format(time.RFC3339),
			job.CompletedAt.Sub(job.StartedAt).Round(time.Second))
	}
	if job.Error != "" {
		fmt.Fprintf(deps.Stdout, "Error:   %s\n", job.Error)
	}
	if job.Result != nil {
		fmt.Fprintf(deps.Stdout, "Result:  %s\n", crawl.FormatStats(job.Result))
	}
	return nil
}
