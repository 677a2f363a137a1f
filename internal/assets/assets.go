package assets

// defaultLoader serves the built-in assets.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in CSS style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in markdown template by name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// TemplateNames lists the built-in templates, sorted.
func TemplateNames() []string {
	return defaultLoader.names(templatesDir, templateExt)
}

// StyleNames lists the built-in styles, sorted.
func StyleNames() []string {
	return defaultLoader.names(stylesDir, styleExt)
}
