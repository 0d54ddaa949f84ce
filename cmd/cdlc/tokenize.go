package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdlc/internal/diagfmt"
	"cdlc/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.cdl>",
		Short: "Print the tokens of a component file",
		Long:  `Tokenize breaks a component file into tokens without parsing it; include directives are not followed`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	e, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := driver.Tokenize(args[0])
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.Len() > 0 {
		if err := diagfmt.Pretty(e.stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{Color: e.color, Max: e.cfg.MaxDiagnostics}); err != nil {
			return err
		}
	}

	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(e.stdout, result.Tokens, result.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(e.stdout, result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.Len() > 0 {
		return errFailed
	}
	return nil
}
