package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cdlc/internal/version"
)

// errFailed сообщает main, что диагностики уже напечатаны и нужен код выхода 1.
var errFailed = errors.New("diagnostics reported")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cdlc",
		Short:         "Component description language front end",
		Long:          `cdlc parses component description files, reports diagnostics and prints the resulting model`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Добавляем команды
	root.AddCommand(newParseCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newDepsCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "", "colorize output (auto|on|off), overrides cdlc.toml")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("config", "", "path to cdlc.toml (default: search upwards from the working directory)")
	pf.String("trace", "", "trace output file ('-' for stderr)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 = config or unlimited)")
	pf.StringSliceP("include", "I", nil, "additional include search path")
	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file on exit")
	pf.String("runtime-trace", "", "write Go runtime trace to file")
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	if !errors.Is(err, errFailed) {
		fmt.Fprintf(os.Stderr, "cdlc: %v\n", err)
	}
	os.Exit(1)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}
