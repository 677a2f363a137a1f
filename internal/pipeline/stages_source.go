package pipeline

import (
	"io"
	"regexp"
	"strings"

	"github.com/alnah/nb2md/internal/notebook"
)

// hideLineMarker hides the line of code it terminates.
const hideLineMarker = "#meta_hide_line"

// magicLine matches line and cell magics (%time, %%bash, ...).
var magicLine = regexp.MustCompile(`^\s*%.+`)

// HideInputLines drops code lines that end with #meta_hide_line.
var HideInputLines = CellStage(NameHideInputLines, func(cell *notebook.Cell, _ io.Writer) CellResult {
	if !cell.IsCode() || !strings.Contains(cell.Source, hideLineMarker) {
		return Keep()
	}
	cell.Source = dropLines(cell.Source, func(line string) bool {
		return strings.HasSuffix(strings.TrimSpace(line), hideLineMarker)
	})
	return Keep()
})

// CleanMagics strips magic lines and the raw directive comments already
// parsed by InjectMeta, then trims the source.
var CleanMagics = CellStage(NameCleanMagics, func(cell *notebook.Cell, _ io.Writer) CellResult {
	if !cell.IsCode() {
		return Keep()
	}
	cell.Source = strings.TrimSpace(dropLines(cell.Source, func(line string) bool {
		return magicLine.MatchString(line) || directiveLine.MatchString(line)
	}))
	return Keep()
})

// BashIdentify marks cells running shell escapes (!cmd) as bash and strips
// the leading ! from those lines.
var BashIdentify = CellStage(NameBashIdentify, func(cell *notebook.Cell, _ io.Writer) CellResult {
	if !cell.IsCode() {
		return Keep()
	}
	lines := splitLines(cell.Source)
	found := false
	for i, l := range lines {
		trimmed := strings.TrimLeft(l, " \t")
		if strings.HasPrefix(trimmed, "!") {
			lines[i] = trimmed[1:]
			found = true
		}
	}
	if !found {
		return Keep()
	}
	cell.SetLanguage("bash")
	cell.Source = strings.TrimSpace(strings.Join(lines, "\n"))
	return Keep()
})

// CleanFlags removes test flag comments (e.g. "#slow") from code cells.
// Flags are matched literally at the start of a line.
func CleanFlags(flags []string) Stage {
	patterns := make([]*regexp.Regexp, 0, len(flags))
	for _, f := range flags {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`(?m)^#\s*`+regexp.QuoteMeta(f)+`\s*`))
	}

	return CellStage(NameCleanFlags, func(cell *notebook.Cell, _ io.Writer) CellResult {
		if !cell.IsCode() {
			return Keep()
		}
		src := cell.Source
		for _, p := range patterns {
			src = p.ReplaceAllString(src, "")
		}
		cell.Source = strings.TrimSpace(src)
		return Keep()
	})
}
