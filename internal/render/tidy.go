package render

import (
	"regexp"
	"strings"
)

// Line ending normalization
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Tidy normalizes rendered markdown: LF line endings, no leading blank
// lines, at most one blank line between blocks outside fenced code, and a
// single trailing newline. Fenced code keeps its blank lines.
func Tidy(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	lines := strings.Split(content, "\n")

	out := make([]string, 0, len(lines))
	inFence := false
	blank := true // Drops leading blank lines
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}
		if trimmed == "" && !inFence {
			if blank {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, line)
	}

	result := strings.TrimRight(strings.Join(out, "\n"), "\n")
	if result == "" {
		return ""
	}
	return result + "\n"
}
