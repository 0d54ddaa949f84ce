package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdlc/internal/driver"
)

func newDepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps <file.cdl|directory>...",
		Short: "Print the include graph of component files",
		Long:  `Deps lists every file taking part in the given parses, includers before the files they include`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDeps,
	}
}

func runDeps(cmd *cobra.Command, args []string) error {
	e, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	paths, err := driver.ExpandPaths(args)
	if err != nil {
		return err
	}
	opts, err := e.driverOptions()
	if err != nil {
		return err
	}
	results, err := driver.ParseFiles(cmd.Context(), paths, opts)
	if err != nil {
		return err
	}

	g := driver.BuildIncludeGraph(results)
	order, cyclic := g.Order()
	for _, name := range append(order, cyclic...) {
		fmt.Fprintln(e.stdout, name)
		for _, inc := range g.Index.Names(g.Graph.Edges[g.Index.NameToID[name]]) {
			fmt.Fprintf(e.stdout, "  -> %s\n", inc)
		}
	}
	if len(cyclic) > 0 && !e.quiet {
		fmt.Fprintf(e.stderr, "include cycle (include-once applies): %v\n", cyclic)
	}
	return nil
}
