package main

import (
	"errors"
	"os"

	"github.com/alnah/nb2md"
	"github.com/alnah/nb2md/internal/assets"
	"github.com/alnah/nb2md/internal/config"
)

// Exit codes for the nb2md CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every notebook converted
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, unreadable notebook
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, nb2md.ErrUnknownStage) ||
		errors.Is(err, nb2md.ErrInvalidAssetPath) ||
		errors.Is(err, nb2md.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, nb2md.ErrNotNotebook) ||
		errors.Is(err, nb2md.ErrNotebookNotFound) ||
		errors.Is(err, nb2md.ErrNotebookLoad) ||
		errors.Is(err, nb2md.ErrWrite) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoNotebooks) {
		return ExitIO
	}

	return ExitGeneral
}
