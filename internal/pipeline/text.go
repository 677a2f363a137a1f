package pipeline

import (
	"regexp"
	"strings"
)

// Line ending normalization
var lineBreaks = regexp.MustCompile(`\r\n?`)

// splitLines splits text into lines without their terminators.
// A trailing newline does not produce an empty final line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(lineBreaks.ReplaceAllString(s, "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// dropLines removes the lines for which drop returns true and rejoins the rest.
func dropLines(s string, drop func(line string) bool) string {
	lines := splitLines(s)
	kept := lines[:0]
	for _, l := range lines {
		if !drop(l) {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

// splitList splits a comma-separated directive value.
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// firstDirective returns the value of the first key present in the cell's
// directive namespace, so a plural key shadows its singular alias even when empty.
func firstDirective(d map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := d[k]; ok {
			return v
		}
	}
	return ""
}
