package main

import (
	"encoding/json"
	"io"

	"cdlc/internal/diagfmt"
	"cdlc/internal/driver"
)

// printDiagnostics выводит Bag результата в формате из конфига.
func (e *env) printDiagnostics(w io.Writer, res *driver.Result, withPath bool) error {
	if res.Bag.Len() == 0 {
		return nil
	}
	switch e.cfg.DiagnosticFormat {
	case "pretty":
		return diagfmt.Pretty(w, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     e.color,
			Context:   1,
			Max:       e.cfg.MaxDiagnostics,
			ShowNotes: true,
		})
	case "json":
		return diagfmt.JSON(w, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			Max:              e.cfg.MaxDiagnostics,
			IncludeNotes:     true,
		})
	default:
		return diagfmt.Short(w, res.Bag, res.FileSet, diagfmt.ShortOpts{
			Max:      e.cfg.MaxDiagnostics,
			WithPath: withPath,
		})
	}
}

type fileReportJSON struct {
	Path      string `json:"path"`
	FromCache bool   `json:"from_cache,omitempty"`
	Error     string `json:"error,omitempty"`
	diagfmt.DiagnosticsOutput
}

type checkReportJSON struct {
	Files   []fileReportJSON `json:"files"`
	Success bool             `json:"success"`
}

func (e *env) printCheckJSON(w io.Writer, paths []string, results []*driver.Result) error {
	report := checkReportJSON{Success: true}
	for i, res := range results {
		fr := fileReportJSON{Path: paths[i]}
		if res == nil {
			fr.Error = "cannot read file"
			report.Success = false
			report.Files = append(report.Files, fr)
			continue
		}
		fr.Path = res.Path
		fr.FromCache = res.FromCache
		fr.DiagnosticsOutput = diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			Max:              e.cfg.MaxDiagnostics,
			IncludeNotes:     true,
		})
		report.Success = report.Success && fr.Success
		report.Files = append(report.Files, fr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
