package pipeline

import (
	"io"

	"github.com/alnah/nb2md/internal/notebook"
)

// Resources is the side channel threaded through a run alongside the notebook.
// The renderer and writer use it to name and persist extracted files.
type Resources struct {
	UniqueKey      string            // Base name for generated files (notebook stem)
	OutputFilesDir string            // Directory for extracted files, relative to the destination
	Outputs        map[string][]byte // Extracted files keyed by path relative to the destination
	Name           string            // Notebook name, for templates
}

// AddOutput records an extracted file, allocating the map on first use.
func (r *Resources) AddOutput(path string, data []byte) {
	if r.Outputs == nil {
		r.Outputs = make(map[string][]byte)
	}
	r.Outputs[path] = data
}

// State is what flows from one stage to the next.
type State struct {
	Notebook  *notebook.Notebook
	Resources *Resources
	Diag      io.Writer // Diagnostic sink, never nil inside a run
}

// Stage is one transformation step of a pipeline.
type Stage interface {
	Name() string
	Process(st State) State
}

// ---------------------------------------------------------------------------
// Cell adapter
// ---------------------------------------------------------------------------

// CellResult is the explicit outcome of a cell rewrite.
type CellResult struct {
	replacement *notebook.Cell
}

// Keep leaves the cell in place. In-place mutations made by the function stay.
func Keep() CellResult { return CellResult{} }

// Replace puts c at the position of the processed cell.
func Replace(c *notebook.Cell) CellResult { return CellResult{replacement: c} }

// CellFunc rewrites a single cell.
type CellFunc func(cell *notebook.Cell, diag io.Writer) CellResult

type cellStage struct {
	name string
	fn   CellFunc
}

// CellStage builds a stage that calls fn once per cell, in order.
// It never adds or removes cells.
func CellStage(name string, fn CellFunc) Stage {
	return &cellStage{name: name, fn: fn}
}

func (s *cellStage) Name() string { return s.name }

func (s *cellStage) Process(st State) State {
	for i, cell := range st.Notebook.Cells {
		if r := s.fn(cell, st.Diag); r.replacement != nil {
			st.Notebook.Cells[i] = r.replacement
		}
	}
	return st
}

// ---------------------------------------------------------------------------
// Notebook adapter
// ---------------------------------------------------------------------------

// NotebookResult is the explicit outcome of a notebook rewrite.
type NotebookResult struct {
	replacement *notebook.Notebook
}

// KeepNotebook keeps the (possibly mutated) notebook.
func KeepNotebook() NotebookResult { return NotebookResult{} }

// ReplaceNotebook substitutes nb for the processed notebook.
func ReplaceNotebook(nb *notebook.Notebook) NotebookResult {
	return NotebookResult{replacement: nb}
}

// NotebookFunc rewrites a whole notebook.
type NotebookFunc func(nb *notebook.Notebook, diag io.Writer) NotebookResult

type notebookStage struct {
	name string
	fn   NotebookFunc
}

// NotebookStage builds a stage that calls fn once with the whole notebook.
// Afterwards the cell list is copied into a fresh slice without nil entries,
// so functions may leave it aliased or sparse.
func NotebookStage(name string, fn NotebookFunc) Stage {
	return &notebookStage{name: name, fn: fn}
}

func (s *notebookStage) Name() string { return s.name }

func (s *notebookStage) Process(st State) State {
	if r := s.fn(st.Notebook, st.Diag); r.replacement != nil {
		st.Notebook = r.replacement
	}
	st.Notebook.Cells = compactCells(st.Notebook.Cells)
	return st
}

func compactCells(cells []*notebook.Cell) []*notebook.Cell {
	out := make([]*notebook.Cell, 0, len(cells))
	for _, c := range cells {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Filtering adapter
// ---------------------------------------------------------------------------

// Predicate reports whether a cell should be dropped.
type Predicate func(cell *notebook.Cell) bool

// FilterStage builds a notebook stage that drops every cell for which drop
// returns true. Kept cells stay in their relative order.
func FilterStage(name string, drop Predicate) Stage {
	return NotebookStage(name, func(nb *notebook.Notebook, _ io.Writer) NotebookResult {
		kept := make([]*notebook.Cell, 0, len(nb.Cells))
		for _, c := range nb.Cells {
			if !drop(c) {
				kept = append(kept, c)
			}
		}
		nb.Cells = kept
		return KeepNotebook()
	})
}
