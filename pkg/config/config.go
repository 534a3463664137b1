// Package config loads the pagetpl site configuration. Values are layered:
// built-in defaults, then an optional YAML or TOML file, then PAGETPL_*
// environment variables, then explicit overrides such as command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/goliatone/go-pagetemplate/pkg/templater"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: PAGETPL_GLOBALS__SITE sets globals.site.
const EnvPrefix = "PAGETPL_"

// Config describes where templates and rules live and which globals every
// template receives.
type Config struct {
	Templates string         `koanf:"templates"`
	Extension string         `koanf:"extension"`
	Rules     string         `koanf:"rules"`
	Sanitize  bool           `koanf:"sanitize"`
	Globals   map[string]any `koanf:"globals"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() map[string]any {
	return map[string]any{
		"templates": "templates",
		"extension": templater.DefaultExtension,
		"rules":     "",
		"sanitize":  false,
	}
}

// Load builds a Config from defaults, the file at path (skipped when empty),
// the environment and overrides, in that order.
func Load(path string, overrides map[string]any) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return Config{}, fmt.Errorf("config: load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields every command relies on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Templates) == "" {
		return errors.New("config: templates directory is required")
	}
	return nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("config: unsupported config file extension %q", filepath.Ext(path))
	}
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
