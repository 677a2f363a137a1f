package main

import "github.com/alnah/nb2md/internal/config"

// Type aliases for cleaner test code.
type (
	Config         = config.Config
	OutputConfig   = config.OutputConfig
	TemplateConfig = config.TemplateConfig
)
