package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/nb2md"
	"github.com/alnah/nb2md/internal/hints"
)

// Converter is the interface for the export service.
type Converter interface {
	Convert(ctx context.Context, path, dest string) (*nb2md.Result, error)
}

// Compile-time interface implementation check.
var _ Converter = (*nb2md.Exporter)(nil)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath   string
	Files       []string // Markdown first, then extracted files
	Diagnostics string
	Err         error
	Duration    time.Duration
}

// OutputPath returns the markdown document written, if any.
func (r ConversionResult) OutputPath() string {
	if len(r.Files) == 0 {
		return ""
	}
	return r.Files[0]
}

// convertBatch converts files with at most workers conversions in flight.
// Results keep the order of files. Once ctx is done, remaining files fail
// with the context error.
func convertBatch(ctx context.Context, conv Converter, files []FileToConvert, workers int) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]ConversionResult, len(files))

	var g errgroup.Group
	g.SetLimit(max(1, workers))
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = ConversionResult{InputPath: f.InputPath, Err: err}
				return nil
			}
			results[i] = convertFile(ctx, conv, f)
			return nil
		})
	}
	_ = g.Wait() // Per-file errors live in results.

	return results
}

// convertFile converts a single notebook and returns the result.
func convertFile(ctx context.Context, conv Converter, f FileToConvert) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: f.InputPath}

	res, err := conv.Convert(ctx, f.InputPath, f.OutputDir)
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = withHint(err)
		return result
	}

	result.Files = res.Files
	result.Diagnostics = res.Diagnostics
	return result
}

// withHint appends an actionable hint for per-notebook failures.
func withHint(err error) error {
	switch {
	case errors.Is(err, nb2md.ErrNotebookLoad):
		return fmt.Errorf("%w%s", err, hints.ForNotebookDecode())
	case errors.Is(err, nb2md.ErrWrite):
		return fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
	default:
		return err
	}
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Warnings  int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		summary.Warnings += len(diagnosticLines(r.Diagnostics))
	}
	return summary
}

// diagnosticLines splits stage diagnostics into non-empty lines.
func diagnosticLines(diag string) []string {
	var lines []string
	for line := range strings.SplitSeq(diag, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// printResultsWithWriter outputs conversion results using the provided writers.
// Stage diagnostics go to stderr prefixed by their notebook, even in quiet mode.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		for _, line := range diagnosticLines(r.Diagnostics) {
			fmt.Fprintf(env.Stderr, "%s %s: %s\n", labelWarning(), r.InputPath, line)
		}

		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "%s %s: %v\n", labelFailed(), r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d files, %v)\n", r.InputPath, r.OutputPath(), len(r.Files), r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "%s %s\n", labelCreated(), r.OutputPath())
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary
}
