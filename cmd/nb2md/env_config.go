package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/nb2md/internal/config"
)

// envPrefix marks the environment variables read by the CLI.
const envPrefix = "NB2MD_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring config files.
type envConfig struct {
	ConfigPath string // NB2MD_CONFIG: config file name or path
	OutputDir  string // NB2MD_OUTPUT_DIR: default output directory
	Template   string // NB2MD_TEMPLATE: template name
	AssetPath  string // NB2MD_ASSET_PATH: asset override directory
	Style      string // NB2MD_STYLE: HTML preview style
	HTML       bool   // NB2MD_HTML: write HTML previews
	Workers    int    // NB2MD_WORKERS: parallel workers
}

// knownEnvVars lists valid NB2MD_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"NB2MD_CONFIG":     true,
	"NB2MD_OUTPUT_DIR": true,
	"NB2MD_TEMPLATE":   true,
	"NB2MD_ASSET_PATH": true,
	"NB2MD_STYLE":      true,
	"NB2MD_HTML":       true,
	"NB2MD_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("NB2MD_CONFIG"),
		OutputDir:  os.Getenv("NB2MD_OUTPUT_DIR"),
		Template:   os.Getenv("NB2MD_TEMPLATE"),
		AssetPath:  os.Getenv("NB2MD_ASSET_PATH"),
		Style:      os.Getenv("NB2MD_STYLE"),
	}

	if v := os.Getenv("NB2MD_HTML"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.HTML = b
		}
	}

	if workers := os.Getenv("NB2MD_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized NB2MD_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "%s unknown environment variable %s (typo?)\n", labelWarning(), name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Template != "" && cfg.Template.Name == "" {
		cfg.Template.Name = env.Template
	}
	if env.AssetPath != "" && cfg.Template.Path == "" {
		cfg.Template.Path = env.AssetPath
	}
	if env.Style != "" && cfg.HTML.Style == "" {
		cfg.HTML.Style = env.Style
	}
	if env.HTML {
		cfg.Output.HTML = true
	}
}
