package pipeline

import (
	"io"
	"regexp"
	"strings"

	"github.com/alnah/nb2md/internal/notebook"
)

// Precompiled regex patterns for performance.
var (
	// ANSI escape sequences: two-byte escapes and CSI sequences
	ansiEscape = regexp.MustCompile(`\x1b(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

	// A show_doc call at the start of a line
	showDocCall = regexp.MustCompile(`(?m)^ShowDoc`)

	// Removable regions in show_doc HTML, matched lazily across lines
	htmlRemoveRegion = regexp.MustCompile(`(?s)<HTMLRemove>.*?</HTMLRemove>`)
)

const htmlMIME = "text/html"

// StripAnsi removes terminal escape sequences from stdout stream outputs.
var StripAnsi = CellStage(NameStripAnsi, func(cell *notebook.Cell, _ io.Writer) CellResult {
	for _, o := range cell.Outputs {
		if o.IsStdout() {
			o.Text = RemoveANSI(o.Text)
		}
	}
	return Keep()
})

// RemoveANSI strips terminal escape sequences from s.
func RemoveANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// FilterOutput drops stdout lines containing any word from the comma
// separated filter_words (or filter_word) directive. Matching is a
// case-sensitive substring test.
var FilterOutput = CellStage(NameFilterOutput, func(cell *notebook.Cell, _ io.Writer) CellResult {
	var words []string
	for _, w := range splitList(firstDirective(cell.Directives(), "filter_words", "filter_word")) {
		if w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 || len(cell.Outputs) == 0 {
		return Keep()
	}

	for _, o := range cell.Outputs {
		if !o.IsStdout() {
			continue
		}
		o.Text = dropLines(o.Text, func(line string) bool {
			for _, w := range words {
				if strings.Contains(line, w) {
					return true
				}
			}
			return false
		})
	}
	return Keep()
})

// CleanShowDoc turns a show_doc cell into a raw cell holding its single
// HTML output, minus the <HTMLRemove> regions. Cells with zero or several
// HTML outputs are ambiguous and left unchanged.
var CleanShowDoc = CellStage(NameCleanShowDoc, func(cell *notebook.Cell, _ io.Writer) CellResult {
	if !cell.IsCode() || !showDocCall.MatchString(cell.Source) {
		return Keep()
	}

	var htmlOuts []string
	for _, o := range cell.Outputs {
		if !o.IsRich() {
			continue
		}
		if html, ok := o.Data.Text(htmlMIME); ok {
			htmlOuts = append(htmlOuts, html)
		}
	}
	if len(htmlOuts) != 1 {
		return Keep()
	}

	return Replace(&notebook.Cell{
		ID:       cell.ID,
		Type:     notebook.Raw,
		Metadata: cell.Metadata,
		Source:   htmlRemoveRegion.ReplaceAllString(htmlOuts[0], ""),
	})
})
