package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"cdlc/internal/trace"
)

// SourceExt - расширение исходников, которые собирает ExpandPaths.
const SourceExt = ".cdl"

// ParseFiles parses every path independently on up to opts.Jobs goroutines.
// Results keep the order of paths; a file that could not be read leaves a nil
// entry and its error is joined into the returned error. opts.Reporter, when
// set, must be safe for concurrent use.
func ParseFiles(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	results := make([]*Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "parse_files")

	// индексы уникальны для каждой горутины, мьютекс не нужен
	loadErrs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Parse(gctx, path, opts)
			if err != nil {
				loadErrs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End("canceled")
		return results, err
	}
	span.Set("files", fmt.Sprint(len(paths))).End("")
	return results, errors.Join(loadErrs...)
}

// ExpandPaths replaces every directory in args with the sorted list of
// *.cdl files below it. Plain files are kept as given.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		// Сортируем для детерминированного порядка
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
