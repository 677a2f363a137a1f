// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Suggest the first user-level path, identified by its app directory.
	marker := string(filepath.Separator) + "nb2md" + string(filepath.Separator)
	for _, p := range searchedPaths {
		if strings.Contains(p, marker) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForNotNotebook returns hints for inputs that are not .ipynb files.
func ForNotNotebook() string {
	return format("pass a .ipynb file, or a directory to convert every notebook in it")
}

// ForNotebookDecode returns hints for notebooks that fail to parse.
func ForNotebookDecode() string {
	return format("only nbformat 4 is supported; upgrade with 'jupyter nbconvert --to notebook --nbformat 4'")
}

// ForUnknownStage returns hints for unknown pipeline stage names.
func ForUnknownStage() string {
	return format("run 'nb2md stages' to list available stages")
}

// ForTemplateNotFound returns hints for template not found errors.
func ForTemplateNotFound(available []string) string {
	return forAvailable(available)
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	return forAvailable(available)
}

func forAvailable(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
