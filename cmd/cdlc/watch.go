package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"cdlc/internal/driver"
)

const watchDebounce = 150 * time.Millisecond

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] <file.cdl|directory>...",
		Short: "Re-check component files whenever they or their includes change",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWatch,
	}
	cmd.Flags().String("diag-format", "", "diagnostics format (short|pretty|json), overrides cdlc.toml")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0 = cdlc.toml or GOMAXPROCS)")
	return cmd
}

// watchSession держит последние результаты и граф include для пересборки.
type watchSession struct {
	e       *env
	args    []string // абсолютные пути из командной строки
	opts    driver.Options
	results map[string]*driver.Result
	graph   *driver.IncludeGraph
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := newWatchSession(e, args)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	ctx := cmd.Context()
	if _, err := s.check(ctx, nil); err != nil {
		return err
	}
	s.watchDirs(w)
	if !e.quiet {
		fmt.Fprintf(e.stderr, "watching %d file(s), press Ctrl+C to stop\n", len(s.results))
	}

	var (
		pending = make(map[string]bool)
		timer   = time.NewTimer(watchDebounce)
	)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, driver.SourceExt) || ev.Op == fsnotify.Chmod {
				continue
			}
			e.log.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			pending[ev.Name] = true
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			e.log.Warn("watch error", "err", err)
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			if _, err := s.check(ctx, changed); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				e.log.Error("re-check failed", "err", err)
			}
			s.watchDirs(w)
		}
	}
}

func newWatchSession(e *env, args []string) (*watchSession, error) {
	opts, err := e.driverOptions()
	if err != nil {
		return nil, err
	}
	abs := make([]string, len(args))
	for i, a := range args {
		if abs[i], err = filepath.Abs(a); err != nil {
			return nil, err
		}
	}
	return &watchSession{e: e, args: abs, opts: opts, results: make(map[string]*driver.Result)}, nil
}

// check re-parses the main files affected by changed, or everything when
// changed is nil, and prints their diagnostics. It returns the re-parsed paths.
func (s *watchSession) check(ctx context.Context, changed []string) ([]string, error) {
	mains, err := driver.ExpandPaths(s.args)
	if err != nil {
		return nil, err
	}
	for i := range mains {
		mains[i] = filepath.ToSlash(filepath.Clean(mains[i]))
	}

	var todo []string
	if changed == nil || s.graph == nil {
		todo = mains
	} else {
		todo = s.graph.Affected(changed...)
		for _, m := range mains {
			if _, seen := s.results[m]; !seen {
				todo = append(todo, m)
			}
		}
		slices.Sort(todo)
		todo = slices.Compact(todo)
		todo = slices.DeleteFunc(todo, func(p string) bool { return !slices.Contains(mains, p) })
	}
	for p := range s.results {
		if !slices.Contains(mains, p) {
			delete(s.results, p)
		}
	}
	if len(todo) == 0 {
		return nil, nil
	}

	results, loadErr := driver.ParseFiles(ctx, todo, s.opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if loadErr != nil {
		fmt.Fprintln(s.e.stderr, loadErr)
	}
	for i, r := range results {
		if r == nil {
			delete(s.results, todo[i])
			continue
		}
		s.results[todo[i]] = r
		if r.Success() {
			if !s.e.quiet {
				fmt.Fprintf(s.e.stdout, "ok %s\n", r.Path)
			}
			continue
		}
		if err := s.e.printDiagnostics(s.e.stdout, r, true); err != nil {
			return nil, err
		}
	}

	all := make([]*driver.Result, 0, len(s.results))
	for _, r := range s.results {
		all = append(all, r)
	}
	s.graph = driver.BuildIncludeGraph(all)
	return todo, nil
}

// watchDirs подписывается на каталоги всех известных файлов и аргументов.
func (s *watchSession) watchDirs(w *fsnotify.Watcher) {
	dirs := make(map[string]bool)
	for _, a := range s.args {
		if strings.HasSuffix(a, driver.SourceExt) {
			dirs[filepath.Dir(a)] = true
		} else {
			dirs[a] = true
		}
	}
	if s.graph != nil {
		for _, name := range s.graph.Index.IDToName {
			dirs[filepath.Dir(filepath.FromSlash(name))] = true
		}
	}
	watched := w.WatchList()
	for d := range dirs {
		if slices.Contains(watched, d) {
			continue
		}
		if err := w.Add(d); err != nil {
			s.e.log.Warn("cannot watch directory", "dir", d, "err", err)
		}
	}
}
