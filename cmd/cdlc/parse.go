package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdlc/internal/diagfmt"
	"cdlc/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.cdl>",
		Short: "Parse a component file and print its model",
		Long:  `Parse reads a component file with everything it includes and prints the namespaces, interfaces, enumerations and the module`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "pretty", "model output format (pretty|json|dump)")
	cmd.Flags().String("diag-format", "", "diagnostics format (short|pretty|json), overrides cdlc.toml")
	cmd.Flags().Bool("no-specialize", false, "leave generic specializations unbound")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "dump":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	e, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts, err := e.driverOptions()
	if err != nil {
		return err
	}
	opts.Cache = nil // дереву нужен Component, сводки из кеша недостаточно
	opts.SkipSpecialization, _ = cmd.Flags().GetBool("no-specialize")

	res, err := driver.Parse(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	if err := e.printDiagnostics(e.stderr, res, false); err != nil {
		return err
	}

	c := res.Component
	switch format {
	case "json":
		err = diagfmt.ComponentJSON(e.stdout, c, res.FileSet)
	case "dump":
		err = c.Dump(e.stdout)
	default:
		err = diagfmt.ComponentPretty(e.stdout, c, res.FileSet)
	}
	if err != nil {
		return err
	}
	if !res.Success() {
		return errFailed
	}
	return nil
}
