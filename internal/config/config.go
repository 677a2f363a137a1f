package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/nb2md/internal/assets"
	"github.com/alnah/nb2md/internal/confutil"
	"github.com/alnah/nb2md/internal/fileutil"
	"github.com/alnah/nb2md/internal/pipeline"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config field")
)

// AppName is the directory under the user config dir searched for named configs.
const AppName = "nb2md"

// Field length limits.
const (
	MaxStageCount  = 64
	MaxFlagLength  = 100  // "--slow", "-k smoke"
	MaxTagLength   = 100  // Cell tag
	MaxNameLength  = 100  // Template or style name
	MaxPathLength  = 4096 // PATH_MAX on Linux
	MaxListEntries = 256  // Tags and test flags
)

// configExtensions are tried in order when resolving a config by name.
var configExtensions = []string{".yaml", ".yml", ".toml"}

// Config holds the export configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" toml:"pipeline"`
	Tags     TagsConfig     `yaml:"tags" toml:"tags"`
	Template TemplateConfig `yaml:"template" toml:"template"`
	Output   OutputConfig   `yaml:"output" toml:"output"`
	HTML     HTMLConfig     `yaml:"html" toml:"html"`
}

// PipelineConfig selects and parameterizes the cleaning stages.
type PipelineConfig struct {
	Stages    []string `yaml:"stages" toml:"stages"`       // Empty = default order
	TestFlags []string `yaml:"testFlags" toml:"testFlags"` // Flags stripped by CleanFlags
}

// TagsConfig overrides the tags that trigger removal.
// Leaving all three lists empty keeps the built-in tag sets.
type TagsConfig struct {
	RemoveCell   []string `yaml:"removeCell" toml:"removeCell"`
	RemoveOutput []string `yaml:"removeOutput" toml:"removeOutput"`
	RemoveInput  []string `yaml:"removeInput" toml:"removeInput"`
}

// TemplateConfig selects the rendering template.
type TemplateConfig struct {
	Name string `yaml:"name" toml:"name"` // Empty = "markdown"
	Path string `yaml:"path" toml:"path"` // Directory with templates/ and styles/ overrides
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir"` // Empty = same as source
	HTML       bool   `yaml:"html" toml:"html"`             // Also write an HTML preview
}

// HTMLConfig defines the HTML preview options.
type HTMLConfig struct {
	Style string `yaml:"style" toml:"style"` // Empty = "default"
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	rules := pipeline.DefaultTagRules()
	return &Config{
		Pipeline: PipelineConfig{Stages: slices.Clone(pipeline.DefaultStageNames)},
		Tags: TagsConfig{
			RemoveCell:   rules.RemoveCell,
			RemoveOutput: rules.RemoveOutput,
			RemoveInput:  rules.RemoveInput,
		},
		Template: TemplateConfig{Name: assets.DefaultTemplateName},
		HTML:     HTMLConfig{Style: assets.DefaultStyleName},
	}
}

// StageNames returns the configured stage order, or the default one.
func (c *Config) StageNames() []string {
	if len(c.Pipeline.Stages) == 0 {
		return slices.Clone(pipeline.DefaultStageNames)
	}
	return slices.Clone(c.Pipeline.Stages)
}

// PipelineOptions converts the configuration into stage options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		TestFlags: slices.Clone(c.Pipeline.TestFlags),
		Tags: pipeline.TagRules{
			RemoveCell:   slices.Clone(c.Tags.RemoveCell),
			RemoveOutput: slices.Clone(c.Tags.RemoveOutput),
			RemoveInput:  slices.Clone(c.Tags.RemoveInput),
		},
	}
}

// Validate checks stage names, asset names and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if len(c.Pipeline.Stages) > MaxStageCount {
		return fmt.Errorf("%w: pipeline.stages has %d entries, max %d", ErrInvalidField, len(c.Pipeline.Stages), MaxStageCount)
	}
	for i, name := range c.Pipeline.Stages {
		if !pipeline.IsKnownStage(name) {
			return fmt.Errorf("pipeline.stages[%d]: %w: %q", i, pipeline.ErrUnknownStage, name)
		}
	}

	if err := validateList("pipeline.testFlags", c.Pipeline.TestFlags, MaxFlagLength); err != nil {
		return err
	}
	if err := validateList("tags.removeCell", c.Tags.RemoveCell, MaxTagLength); err != nil {
		return err
	}
	if err := validateList("tags.removeOutput", c.Tags.RemoveOutput, MaxTagLength); err != nil {
		return err
	}
	if err := validateList("tags.removeInput", c.Tags.RemoveInput, MaxTagLength); err != nil {
		return err
	}

	if err := validateAssetName("template.name", c.Template.Name); err != nil {
		return err
	}
	if err := validateAssetName("html.style", c.HTML.Style); err != nil {
		return err
	}
	if err := validateFieldLength("template.path", c.Template.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	return nil
}

func validateList(fieldName string, values []string, maxLength int) error {
	if len(values) > MaxListEntries {
		return fmt.Errorf("%w: %s has %d entries, max %d", ErrInvalidField, fieldName, len(values), MaxListEntries)
	}
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s[%d] is empty", ErrInvalidField, fieldName, i)
		}
		if err := validateFieldLength(fmt.Sprintf("%s[%d]", fieldName, i), v, maxLength); err != nil {
			return err
		}
	}
	return nil
}

func validateAssetName(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if err := validateFieldLength(fieldName, value, MaxNameLength); err != nil {
		return err
	}
	if err := assets.ValidateAssetName(value); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidField, fieldName, err)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// The format follows the file extension (.yaml, .yml or .toml).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	format, err := confutil.FormatOf(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := confutil.UnmarshalStrict(format, data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists, in lookup order, where a named config is searched:
// the current directory, then the user config directory.
func SearchPaths(name string) []string {
	paths := make([]string, 0, len(configExtensions)*2)
	for _, ext := range configExtensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range configExtensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
