package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a rules document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: unsupported rules file extension %q", ErrInvalidConfig, filepath.Ext(path))
	}
}

// From builds a RuleSet from any supported source:
//
//   - string: path to a rules file (see LoadFile)
//   - *RuleSet or RuleSet: returned as-is (copied for the value form)
//   - []Rule: compiled in order
//   - []any, []map[string]any, map[string]any: literal structures decoded
//     field by field; maps must hold the list under "rules"
//
// Other types yield ErrInvalidArgument.
func From(source any) (*RuleSet, error) {
	switch v := source.(type) {
	case nil:
		return &RuleSet{}, nil
	case string:
		return LoadFile(v)
	case *RuleSet:
		if v == nil {
			return &RuleSet{}, nil
		}
		return v, nil
	case RuleSet:
		return &v, nil
	case []Rule:
		return New(v...)
	case []any, []map[string]any, map[string]any:
		decoded, err := Decode(v)
		if err != nil {
			return nil, err
		}
		return New(decoded...)
	default:
		return nil, fmt.Errorf("%w: rule source must be a file path, rule list or literal structure, got %T", ErrInvalidArgument, source)
	}
}

// LoadFile reads and compiles a rules file. The format is chosen from the
// file extension.
func LoadFile(path string) (*RuleSet, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: rules file path is required", ErrInvalidConfig)
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	return compileDocument(path, format, data, err)
}

// LoadFS reads and compiles a rules file from files, for rule sets shipped
// with an embedded filesystem.
func LoadFS(files fs.FS, path string) (*RuleSet, error) {
	if files == nil {
		return nil, fmt.Errorf("%w: rules fs is nil", ErrInvalidConfig)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: rules file path is required", ErrInvalidConfig)
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(files, path)
	return compileDocument(path, format, data, err)
}

func compileDocument(path string, format Format, data []byte, readErr error) (*RuleSet, error) {
	if readErr != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, readErr)
	}
	decoded, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(decoded...)
}

// Parse decodes a rules document. YAML and JSON documents may be a bare list
// of rules or a mapping with a "rules" key; TOML documents use a [[rules]]
// array of tables.
func Parse(data []byte, format Format) ([]Rule, error) {
	var (
		raw any
		err error
	)
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	case FormatTOML:
		var doc map[string]any
		err = toml.Unmarshal(data, &doc)
		raw = doc
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidConfig, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, format, err)
	}
	if raw == nil {
		return nil, nil
	}
	return Decode(raw)
}

// Decode converts a literal structure into rules. A single string is accepted
// where a URL list is expected.
func Decode(raw any) ([]Rule, error) {
	if wrapper, ok := raw.(map[string]any); ok {
		if len(wrapper) == 0 {
			return nil, nil
		}
		list, found := wrapper["rules"]
		if !found {
			return nil, fmt.Errorf("%w: expected a rule list or a %q key", ErrInvalidConfig, "rules")
		}
		raw = list
	}

	var out []Rule
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: decode rules: %v", ErrInvalidConfig, err)
	}
	return out, nil
}

// IsConfigError reports whether err is a construction-time configuration
// fault.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrInvalidArgument)
}
