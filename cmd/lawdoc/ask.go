package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/lawdoc"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	question := strings.Join(c.Question, " ")

	result, err := deps.Asker.Ask(deps.Ctx, c.State, question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lawdoc.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintln(deps.Stdout, result.Answer)
	if len(result.Sources) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		for _, s := range result.Sources {
			fmt.Fprintf(deps.Stdout, "- %s: %s (score %.2f)\n", s.Title, s.URL, s.Score)
		}
	}
	if len(result.Suggestions) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSuggestions:")
		for _, s := range result.Suggestions {
			fmt.Fprintf(deps.Stdout, "- %s\n", s)
		}
	}
	return nil
}
