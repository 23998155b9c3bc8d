package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/lawdoc"
)

// Run executes the states command.
func (c *StatesCmd) Run(deps *Dependencies) error {
	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, state := range lawdoc.States() {
		if deps.Counter == nil {
			fmt.Fprintln(w, state)
			continue
		}
		n, err := deps.Counter.CountChunks(deps.Ctx, state)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", lawdoc.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(w, "%s\t%d chunks\n", state, n)
	}
	return w.Flush()
}
