package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cdlc/internal/driver"
	"cdlc/internal/observ"
	"cdlc/internal/prof"
	"cdlc/internal/project"
	"cdlc/internal/trace"
)

// env: всё, что команда получает из конфига и глобальных флагов.
type env struct {
	cfg     project.Config
	log     *slog.Logger
	timer   *observ.Timer // nil без --timings
	quiet   bool
	color   bool
	stdout  io.Writer
	stderr  io.Writer
	tracer  *trace.Tracer
	extraIn []string // -I из командной строки, уже абсолютные
}

// setup reads config and global flags. The returned cleanup flushes the
// tracer and prints timings; it must run even when the command fails.
func setup(cmd *cobra.Command) (*env, func(), error) {
	pf := cmd.Root().PersistentFlags()
	e := &env{stdout: cmd.OutOrStdout(), stderr: cmd.ErrOrStderr()}

	cfg, err := loadConfig(pf.Lookup("config").Value.String())
	if err != nil {
		return nil, nil, err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return nil, nil, err
	}
	e.cfg = cfg

	e.quiet, _ = pf.GetBool("quiet")
	e.color = colorEnabled(cfg.Color, e.stderr)

	levelName, _ := pf.GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	e.log = slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))
	if cfg.Path != "" {
		e.log.Debug("config loaded", "path", cfg.Path)
	}

	includes, _ := pf.GetStringSlice("include")
	for _, inc := range includes {
		abs, err := filepath.Abs(inc)
		if err != nil {
			return nil, nil, err
		}
		e.extraIn = append(e.extraIn, abs)
	}

	if withTimings, _ := pf.GetBool("timings"); withTimings {
		e.timer = observ.NewTimer()
	}

	profiles, err := startProfiling(cmd)
	if err != nil {
		return nil, nil, err
	}

	e.tracer, err = setupTracing(cfg)
	if err != nil {
		_ = profiles.Stop()
		return nil, nil, err
	}
	ctx := trace.WithTracer(cmd.Context(), e.tracer)
	cmd.SetContext(ctx)

	cleanup := func() {
		if err := e.tracer.Flush(); err != nil {
			fmt.Fprintf(e.stderr, "trace: flush error: %v\n", err)
		}
		if err := e.tracer.Close(); err != nil {
			fmt.Fprintf(e.stderr, "trace: close error: %v\n", err)
		}
		if e.timer != nil && !e.quiet {
			fmt.Fprint(e.stderr, e.timer.Summary())
		}
		if err := profiles.Stop(); err != nil {
			fmt.Fprintf(e.stderr, "profile: %v\n", err)
		}
	}
	return e, cleanup, nil
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	opts.CPUProfile, _ = pf.GetString("cpu-profile")
	opts.MemProfile, _ = pf.GetString("mem-profile")
	opts.RuntimeTrace, _ = pf.GetString("runtime-trace")
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}

func loadConfig(explicit string) (project.Config, error) {
	if explicit != "" {
		return project.LoadConfig(explicit)
	}
	wd, err := os.Getwd()
	if err != nil {
		return project.Config{}, err
	}
	return project.Discover(wd)
}

// applyFlags переносит явно заданные флаги поверх конфига.
func applyFlags(cmd *cobra.Command, cfg *project.Config) error {
	pf := cmd.Root().PersistentFlags()
	if pf.Changed("color") {
		cfg.Color, _ = pf.GetString("color")
	}
	if pf.Changed("max-diagnostics") {
		cfg.MaxDiagnostics, _ = pf.GetInt("max-diagnostics")
	}
	if pf.Changed("trace") {
		cfg.TraceFile, _ = pf.GetString("trace")
		// файл без уровня: трассируем границы фаз
		if !pf.Changed("trace-level") && strings.EqualFold(cfg.TraceLevel, "off") {
			cfg.TraceLevel = trace.LevelPhase.String()
		}
	}
	if pf.Changed("trace-level") {
		cfg.TraceLevel, _ = pf.GetString("trace-level")
	}
	if f := cmd.Flags().Lookup("diag-format"); f != nil && f.Changed {
		cfg.DiagnosticFormat = f.Value.String()
	}
	if f := cmd.Flags().Lookup("jobs"); f != nil && f.Changed {
		cfg.Jobs, _ = cmd.Flags().GetInt("jobs")
	}
	if f := cmd.Flags().Lookup("cache"); f != nil && f.Changed {
		cfg.CacheEnabled, _ = cmd.Flags().GetBool("cache")
	}
	return cfg.Validate()
}

func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f) && !color.NoColor
}

func setupTracing(cfg project.Config) (*trace.Tracer, error) {
	level, err := trace.ParseLevel(cfg.TraceLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Format:     trace.FormatText,
		OutputPath: cfg.ResolvedTraceFile(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	return tracer, nil
}

// driverOptions собирает driver.Options; кеш открывается только если включён.
func (e *env) driverOptions() (driver.Options, error) {
	opts := driver.OptionsFromConfig(e.cfg)
	opts.SearchPaths = slices.Concat(e.extraIn, opts.SearchPaths)
	opts.Logger = e.log
	opts.Timer = e.timer
	if !e.cfg.CacheEnabled {
		return opts, nil
	}
	cache, err := driver.OpenDiskCache(e.cfg.ResolvedCacheDir())
	if err != nil {
		return opts, fmt.Errorf("open cache: %w", err)
	}
	opts.Cache = cache
	return opts, nil
}
