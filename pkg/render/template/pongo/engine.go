package pongo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-pagetemplate/pkg/render/template"
)

// Option configures the pongo2 engine before construction.
type Option func(*config)

type config struct {
	setName   string
	filters   map[string]pongo2.FilterFunction
	sanitizer *bluemonday.Policy
}

// WithSetName overrides the pongo2 template set name, which shows up in
// pongo2 error messages.
func WithSetName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.setName = trimmed
		}
	}
}

// WithFilters registers additional pongo2 filters. Filters are process-wide
// in pongo2, so names that already exist are left untouched.
func WithFilters(filters map[string]pongo2.FilterFunction) Option {
	return func(cfg *config) {
		if len(filters) == 0 {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]pongo2.FilterFunction, len(filters))
		}
		for name, fn := range filters {
			cfg.filters[strings.TrimSpace(name)] = fn
		}
	}
}

// WithSanitizer runs rendered output through the bluemonday policy before it
// is written.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		cfg.sanitizer = policy
	}
}

// Engine satisfies template.Renderer using a pongo2 template set. Template
// files are parsed on every call; includes resolve relative to the including
// file.
type Engine struct {
	templateSet *pongo2.TemplateSet
	sanitizer   *bluemonday.Policy
}

var _ template.Renderer = (*Engine)(nil)

var defaultFiltersOnce sync.Once

// identifierPattern mirrors the key check pongo2 applies to a context.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		setName: "pagetemplate",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	loader, err := pongo2.NewLocalFileSystemLoader("")
	if err != nil {
		return nil, fmt.Errorf("pongo: create local loader: %w", err)
	}

	defaultFiltersOnce.Do(registerDefaultFilters)
	for name, fn := range cfg.filters {
		if name == "" || fn == nil || pongo2.FilterExists(name) {
			continue
		}
		if err := pongo2.RegisterFilter(name, fn); err != nil {
			return nil, fmt.Errorf("pongo: register filter %q: %w", name, err)
		}
	}

	return &Engine{
		templateSet: pongo2.NewSet(cfg.setName, loader),
		sanitizer:   cfg.sanitizer,
	}, nil
}

// MustNew is New for package-level defaults; it panics on error.
func MustNew(options ...Option) *Engine {
	engine, err := New(options...)
	if err != nil {
		panic(err)
	}
	return engine
}

// RenderFile parses the file at path, executes it with data and writes the
// output to out.
func (e *Engine) RenderFile(path string, data map[string]any, out io.Writer) error {
	if e == nil || e.templateSet == nil {
		return errors.New("pongo: engine is nil")
	}
	if out == nil {
		out = io.Discard
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return fmt.Errorf("pongo: load template %q: %w", path, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(newContext(data), &buf); err != nil {
		return fmt.Errorf("pongo: execute template %q: %w", path, err)
	}

	rendered := buf.Bytes()
	if e.sanitizer != nil {
		rendered = e.sanitizer.SanitizeBytes(rendered)
	}
	_, err = out.Write(rendered)
	return err
}

// newContext exposes data to pongo2 as-is. Keys pongo2 cannot address are
// skipped; every other value keeps its Go type so methods, time.Time values
// and nested structs resolve through reflection.
func newContext(data map[string]any) pongo2.Context {
	ctx := make(pongo2.Context, len(data))
	for key, value := range data {
		if !identifierPattern.MatchString(key) {
			continue
		}
		ctx[key] = value
	}
	return ctx
}

// StringFilter adapts fn to a pongo2 filter applied to the string form of its
// input. A nil input yields an empty string.
func StringFilter(fn func(string) string) pongo2.FilterFunction {
	return func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		if in.IsNil() {
			return pongo2.AsValue(""), nil
		}
		return pongo2.AsValue(fn(in.String())), nil
	}
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", StringFilter(strings.TrimSpace))
	}
}
