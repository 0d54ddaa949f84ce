package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"cdlc/internal/trace"
)

// Config is the merged view of cdlc.toml. Keys absent from the file keep Default values.
type Config struct {
	Path string // файл, из которого читали; "" если конфиг не найден
	Root string // каталог конфига; относительные пути считаются от него

	IncludePaths []string

	MaxDiagnostics   int
	DiagnosticFormat string // short | pretty | json
	Color            string // auto | on | off

	TraceLevel string
	TraceFile  string

	CacheDir     string
	CacheEnabled bool

	Jobs int
}

var (
	// ErrBadFormat is wrapped for an unknown [diagnostics].format.
	ErrBadFormat = errors.New("unknown diagnostics format")
	// ErrBadColor is wrapped for an unknown [diagnostics].color.
	ErrBadColor = errors.New("unknown color mode")
)

// Default returns the configuration used when no cdlc.toml exists.
func Default() Config {
	return Config{
		DiagnosticFormat: "short",
		Color:            "auto",
		TraceLevel:       "off",
		CacheDir:         ".cdlc-cache",
		CacheEnabled:     false,
		Jobs:             runtime.GOMAXPROCS(0),
	}
}

type configFile struct {
	Include struct {
		Paths []string `toml:"paths"`
	} `toml:"include"`
	Diagnostics struct {
		Max    int    `toml:"max"`
		Format string `toml:"format"`
		Color  string `toml:"color"`
	} `toml:"diagnostics"`
	Trace struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"trace"`
	Cache struct {
		Dir     string `toml:"dir"`
		Enabled bool   `toml:"enabled"`
	} `toml:"cache"`
	Build struct {
		Jobs int `toml:"jobs"`
	} `toml:"build"`
}

// LoadConfig parses path over Default.
func LoadConfig(path string) (Config, error) {
	var file configFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg := Default()
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if meta.IsDefined("include", "paths") {
		cfg.IncludePaths = file.Include.Paths
	}
	if meta.IsDefined("diagnostics", "max") {
		cfg.MaxDiagnostics = file.Diagnostics.Max
	}
	if meta.IsDefined("diagnostics", "format") {
		cfg.DiagnosticFormat = strings.TrimSpace(file.Diagnostics.Format)
	}
	if meta.IsDefined("diagnostics", "color") {
		cfg.Color = strings.TrimSpace(file.Diagnostics.Color)
	}
	if meta.IsDefined("trace", "level") {
		cfg.TraceLevel = strings.TrimSpace(file.Trace.Level)
	}
	if meta.IsDefined("trace", "file") {
		cfg.TraceFile = file.Trace.File
	}
	if meta.IsDefined("cache", "dir") {
		cfg.CacheDir = file.Cache.Dir
	}
	if meta.IsDefined("cache", "enabled") {
		cfg.CacheEnabled = file.Cache.Enabled
	}
	if meta.IsDefined("build", "jobs") {
		cfg.Jobs = file.Build.Jobs
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds cdlc.toml above startDir and loads it; without one it returns Default.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadConfig(path)
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.DiagnosticFormat {
	case "short", "pretty", "json":
	default:
		return fmt.Errorf("%w %q (want short, pretty or json)", ErrBadFormat, c.DiagnosticFormat)
	}
	switch c.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("%w %q (want auto, on or off)", ErrBadColor, c.Color)
	}
	if _, err := trace.ParseLevel(c.TraceLevel); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if c.MaxDiagnostics < 0 {
		return fmt.Errorf("[diagnostics].max must not be negative, got %d", c.MaxDiagnostics)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("[build].jobs must not be negative, got %d", c.Jobs)
	}
	return nil
}

// ResolvedIncludePaths returns the search paths made absolute against Root.
func (c Config) ResolvedIncludePaths() []string {
	out := make([]string, 0, len(c.IncludePaths))
	for _, p := range c.IncludePaths {
		out = append(out, c.resolve(p))
	}
	return out
}

// ResolvedCacheDir returns CacheDir made absolute against Root.
func (c Config) ResolvedCacheDir() string { return c.resolve(c.CacheDir) }

// ResolvedTraceFile returns TraceFile against Root; "-" and "" stay as they are.
func (c Config) ResolvedTraceFile() string {
	if c.TraceFile == "" || c.TraceFile == "-" {
		return c.TraceFile
	}
	return c.resolve(c.TraceFile)
}

func (c Config) resolve(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}
