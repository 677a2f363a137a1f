package nb2md

import (
	"errors"

	"github.com/alnah/nb2md/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrNotNotebook      = errors.New("not a notebook file (.ipynb)")
	ErrNotebookNotFound = errors.New("notebook file not found")
	ErrNotebookLoad     = errors.New("failed to load notebook")
	ErrRender           = errors.New("failed to render notebook")
	ErrHTMLConversion   = errors.New("HTML preview conversion failed")
	ErrWrite            = errors.New("failed to write output")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyleNotFound    = errors.New("style not found")

	// ErrUnknownStage is returned when a stage name is not registered.
	ErrUnknownStage = pipeline.ErrUnknownStage
)
