package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdlc/internal/driver"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file.cdl|directory>...",
		Short: "Check component files and report diagnostics",
		Long:  `Check parses every given file, and every *.cdl file below given directories, in parallel and reports their diagnostics`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().String("diag-format", "", "diagnostics format (short|pretty|json), overrides cdlc.toml")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0 = cdlc.toml or GOMAXPROCS)")
	cmd.Flags().Bool("cache", false, "reuse results of unchanged files from the parse cache")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	e, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	paths, err := driver.ExpandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files in %v", driver.SourceExt, args)
	}
	opts, err := e.driverOptions()
	if err != nil {
		return err
	}

	results, loadErr := driver.ParseFiles(cmd.Context(), paths, opts)
	if err := cmd.Context().Err(); err != nil {
		return err
	}
	if loadErr != nil {
		fmt.Fprintln(e.stderr, loadErr)
	}

	if e.cfg.DiagnosticFormat == "json" {
		if err := e.printCheckJSON(e.stdout, paths, results); err != nil {
			return err
		}
	} else if err := e.printCheckText(paths, results); err != nil {
		return err
	}

	for _, r := range results {
		if r == nil || !r.Success() {
			return errFailed
		}
	}
	return nil
}

func (e *env) printCheckText(paths []string, results []*driver.Result) error {
	failed, cached := 0, 0
	for _, r := range results {
		if r == nil {
			failed++
			continue
		}
		if r.FromCache {
			cached++
		}
		if r.Success() {
			continue
		}
		failed++
		if err := e.printDiagnostics(e.stdout, r, true); err != nil {
			return err
		}
	}
	if e.quiet {
		return nil
	}
	summary := fmt.Sprintf("checked %d file(s): %d ok, %d failed", len(paths), len(paths)-failed, failed)
	if cached > 0 {
		summary += fmt.Sprintf(", %d from cache", cached)
	}
	_, err := fmt.Fprintln(e.stderr, summary)
	return err
}
