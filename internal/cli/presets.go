package cli

import (
	"fmt"
	"text/tabwriter"
)

// RunPresets lists the grammars of the library with their default iterations.
func RunPresets(opts Options) error {
	engine, closeEngine, err := NewEngine(opts)
	if err != nil {
		return err
	}
	defer closeEngine()

	names, err := engine.Grammars()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(opts.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tITERATIONS\tDESCRIPTION")
	for _, name := range names {
		g, err := engine.Grammar(name)
		if err != nil {
			fmt.Fprintf(tw, "%s\t-\tinvalid: %v\n", name, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", name, g.Iterations, g.Description)
	}
	return tw.Flush()
}
