package assets

import (
	"fmt"
	"strings"
)

// Built-in asset names.
const (
	DefaultTemplateName = "markdown"
	DefaultStyleName    = "default"
)

// File extensions of each asset kind.
const (
	styleExt    = ".css"
	templateExt = ".tmpl"
)

// AssetLoader defines the contract for loading templates and styles.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a markdown template by name (without .tmpl extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots, or null bytes.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
