// Package confutil wraps YAML and TOML decoding to isolate the external
// dependencies. Callers pick a format explicitly or by file extension.
package confutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// MaxInputSize limits configuration input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData           = errors.New("confutil: nil or empty data")
	ErrNilDestination    = errors.New("confutil: nil destination pointer")
	ErrInputTooLarge     = errors.New("confutil: input exceeds maximum size")
	ErrUnknownFields     = errors.New("confutil: unknown fields")
	ErrUnsupportedFormat = errors.New("confutil: unsupported format")
)

// Format is a configuration file syntax.
type Format string

// Supported formats.
const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// UnmarshalStrict decodes data in the given format and rejects unknown fields.
func UnmarshalStrict(format Format, data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}

	switch format {
	case YAML:
		if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
			return fmt.Errorf("confutil: %w", err)
		}
		return nil
	case TOML:
		md, err := toml.Decode(string(data), v)
		if err != nil {
			return fmt.Errorf("confutil: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return fmt.Errorf("%w: %s", ErrUnknownFields, strings.Join(keys, ", "))
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Marshal encodes v in the given format.
func Marshal(format Format, v any) ([]byte, error) {
	switch format {
	case YAML:
		result, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("confutil: %w", err)
		}
		return result, nil
	case TOML:
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(v); err != nil {
			return nil, fmt.Errorf("confutil: %w", err)
		}
		return []byte(sb.String()), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
