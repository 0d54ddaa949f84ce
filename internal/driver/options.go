package driver

import (
	"crypto/sha256"
	"log/slog"
	"runtime"
	"strconv"

	"cdlc/internal/diag"
	"cdlc/internal/observ"
	"cdlc/internal/project"
)

// Options управляют одним запуском Parse/ParseFiles.
type Options struct {
	SearchPaths        []string
	SkipSpecialization bool
	// Jobs ограничивает число параллельных разборов; <=0 означает GOMAXPROCS.
	Jobs     int
	Logger   *slog.Logger
	Timer    *observ.Timer
	Cache    *DiskCache // nil: кеш выключен
	Reporter diag.Reporter
}

// OptionsFromConfig переносит настройки проекта в Options. Cache открывается отдельно.
func OptionsFromConfig(cfg project.Config) Options {
	return Options{
		SearchPaths: cfg.ResolvedIncludePaths(),
		Jobs:        cfg.Jobs,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) jobs(n int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

// settings: отпечаток опций, от которых зависят диагностики разбора.
func (o Options) settings() project.Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(strconv.FormatBool(o.SkipSpecialization)))
	for _, p := range o.SearchPaths {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(p))
	}
	var out project.Digest
	copy(out[:], h.Sum(nil))
	return out
}
