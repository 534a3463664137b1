package rules

import "errors"

var (
	// ErrInvalidConfig is returned when a rule source cannot be read, parsed
	// or compiled.
	ErrInvalidConfig = errors.New("rules: invalid configuration")
	// ErrInvalidArgument is returned when a rule source has an unsupported
	// Go type.
	ErrInvalidArgument = errors.New("rules: invalid argument")
)

// Rule names a template variant and the URL patterns that select it.
type Rule struct {
	Name string   `json:"name" yaml:"name" toml:"name" mapstructure:"name"`
	URLs []string `json:"urls" yaml:"urls" toml:"urls" mapstructure:"urls"`
}

// Match describes which rule and pattern selected a URL.
type Match struct {
	Name    string
	Pattern string
	// Index is the declaration index of the matching rule.
	Index int
}
