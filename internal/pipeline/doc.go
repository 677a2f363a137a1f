// Package pipeline implements the notebook cleaning pipeline that runs
// before a notebook is rendered to markdown.
//
// A pipeline is an ordered list of stages. Every stage implements the same
// contract, Process(State) State, and most are built from plain functions
// through one of three adapters:
//   - CellStage wraps a per-cell rewrite (keep or replace the cell)
//   - NotebookStage wraps a whole-notebook rewrite (insert, reorder, replace)
//   - FilterStage wraps a per-cell predicate and drops matching cells
//
// Stage order is load-bearing. InjectMeta must run before any stage that
// reads the directive namespace (UpdateTags, FilterOutput) and before
// CleanMagics strips the raw directive comments. RmEmptyCode runs after the
// source-stripping stages so cells emptied by them are dropped too, and the
// extraction stages run last so they only see the cleaned tree.
//
// Stages never fail. Malformed content degrades to a diagnostic written to
// State.Diag, or to leaving the cell unchanged. The only error a run can
// return is context cancellation, checked between stages.
package pipeline
