package nb2md

import (
	"github.com/alnah/nb2md/internal/assets"
)

// Asset name constants for the built-in template and style.
const (
	// DefaultTemplate is the name of the built-in markdown template.
	DefaultTemplate = assets.DefaultTemplateName

	// DefaultStyle is the name of the built-in HTML preview style.
	DefaultStyle = assets.DefaultStyleName
)

// TemplateNames lists the built-in templates.
func TemplateNames() []string {
	return assets.TemplateNames()
}

// StyleNames lists the built-in HTML preview styles.
func StyleNames() []string {
	return assets.StyleNames()
}
