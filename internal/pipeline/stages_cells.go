package pipeline

import (
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/alnah/nb2md/internal/notebook"
)

// WarningNotice is the markdown inserted by InsertWarning.
const WarningNotice = "<!-- WARNING: THIS FILE WAS AUTOGENERATED! DO NOT EDIT! -->"

// exportDirective matches nbdev export/hide directives at the start of a cell.
var exportDirective = regexp.MustCompile(`^# *(?:export|hide|default_exp)`)

// InsertWarning inserts the autogenerated notice as the second cell.
// An empty notebook gets the notice as its only cell.
var InsertWarning = NotebookStage(NameInsertWarning, func(nb *notebook.Notebook, _ io.Writer) NotebookResult {
	warning := notebook.NewCell(notebook.Markdown, newCellID(), WarningNotice)
	at := min(1, len(nb.Cells))
	nb.Cells = slices.Insert(nb.Cells, at, warning)
	return KeepNotebook()
})

// newCellID returns a 32 character hex identifier.
func newCellID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// RmEmptyCode drops code cells with blank source. Other cells are always kept.
var RmEmptyCode = FilterStage(NameRmEmptyCode, func(cell *notebook.Cell) bool {
	return cell.IsCode() && strings.TrimSpace(cell.Source) == ""
})

// RmHeaderDash drops markdown headings ending with " -".
var RmHeaderDash = FilterStage(NameRmHeaderDash, func(cell *notebook.Cell) bool {
	src := strings.TrimSpace(cell.Source)
	return cell.IsMarkdown() && strings.HasPrefix(src, "#") && strings.HasSuffix(src, " -")
})

// RmExport drops code cells that start with an export, hide, or
// default_exp directive comment.
var RmExport = FilterStage(NameRmExport, func(cell *notebook.Cell) bool {
	return cell.IsCode() && exportDirective.MatchString(strings.TrimSpace(cell.Source))
})
