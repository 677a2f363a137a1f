package pipeline

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alnah/nb2md/internal/notebook"
)

// directiveLine matches a whole-line #meta:key=value comment (or the legacy
// #cell_meta: prefix). The payload is a single non-space token.
var directiveLine = regexp.MustCompile(`^\s*#(?:cell_meta|meta):(\S+)\s*$`)

// InjectMeta parses #meta:key=value comments in code cells into the
// directive namespace. The comments stay in the source; CleanMagics removes them.
var InjectMeta = CellStage(NameInjectMeta, injectMeta)

func injectMeta(cell *notebook.Cell, diag io.Writer) CellResult {
	if !cell.IsCode() {
		return Keep()
	}
	for _, line := range splitLines(cell.Source) {
		m := directiveLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key, value, ok := strings.Cut(m[1], "=")
		if !ok {
			fmt.Fprintf(diag, "Warning cell_meta:%s does not have '=' will be ignored.\n", m[1])
			continue
		}
		cell.SetDirective(key, value)
	}
	return Keep()
}

// ShowMeta prints each cell's directive namespace. It never mutates.
var ShowMeta = CellStage(NameShowMeta, func(cell *notebook.Cell, diag io.Writer) CellResult {
	if d := cell.Directives(); len(d) > 0 {
		fmt.Fprintln(diag, d)
	}
	return Keep()
})

// UpdateTags appends the comma-separated tags (or tag) directive to the
// cell's tag list. Existing tags are not deduplicated.
var UpdateTags = CellStage(NameUpdateTags, func(cell *notebook.Cell, _ io.Writer) CellResult {
	tags := splitList(firstDirective(cell.Directives(), "tags", "tag"))
	if len(tags) == 0 {
		return Keep()
	}
	cell.SetTags(append(cell.Tags(), tags...))
	return Keep()
})
