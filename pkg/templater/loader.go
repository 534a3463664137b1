package templater

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-pagetemplate/pkg/render/template"
	"github.com/goliatone/go-pagetemplate/pkg/render/template/pongo"
	"github.com/goliatone/go-pagetemplate/pkg/scope"
)

// DefaultExtension is appended to template paths unless WithExtension is used.
const DefaultExtension = ".tpl"

// Option configures a Loader.
type Option func(*Loader)

// WithGlobals seeds variables visible to every template. The map is copied.
func WithGlobals(globals map[string]any) Option {
	return func(l *Loader) {
		l.globals = scope.Clone(globals)
	}
}

// WithExtension overrides the template file extension. A leading dot is
// added when missing; blank values are ignored.
func WithExtension(ext string) Option {
	return func(l *Loader) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		l.extension = trimmed
	}
}

// WithRenderer replaces the pongo2 renderer used to execute templates.
func WithRenderer(renderer template.Renderer) Option {
	return func(l *Loader) {
		if renderer != nil {
			l.renderer = renderer
		}
	}
}

// WithLogger sets the logger used for debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Request is a fully resolved unit of work for the loader.
type Request struct {
	Name   string
	Type   string
	Values map[string]any
}

// Loader composes template paths, checks they exist and renders them. A Loader
// is read-only after New and safe for concurrent use when its renderer is.
type Loader struct {
	baseDir   string
	extension string
	globals   scope.Scope
	renderer  template.Renderer
	logger    zerolog.Logger
}

// New constructs a Loader rooted at baseDir.
func New(baseDir string, options ...Option) *Loader {
	l := &Loader{
		baseDir:   trimBaseDir(baseDir),
		extension: DefaultExtension,
		globals:   scope.Scope{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	if l.renderer == nil {
		l.renderer = pongo.MustNew(pongo.WithFilters(Filters()))
	}
	return l
}

func trimBaseDir(dir string) string {
	trimmed := strings.TrimRight(dir, "/"+string(filepath.Separator))
	if trimmed == "" && dir != "" {
		return string(filepath.Separator)
	}
	return trimmed
}

// BaseDir returns the normalised base directory.
func (l *Loader) BaseDir() string {
	return l.baseDir
}

// Extension returns the template file extension, including the leading dot.
func (l *Loader) Extension() string {
	return l.extension
}

// Globals returns a copy of the global variables.
func (l *Loader) Globals() map[string]any {
	return scope.Clone(l.globals)
}

// Path composes the template file path for name and typ. Each dot in name
// becomes a path separator and the result is not cleaned, so empty segments
// stay empty: "list." composes to {baseDir}/list/.{typ}{ext}. It never
// touches the filesystem.
func (l *Loader) Path(name, typ string) string {
	stem := strings.ReplaceAll(name, ".", string(filepath.Separator))
	file := typ + l.extension
	if name != "" {
		file = stem + "." + file
	}
	switch {
	case l.baseDir == "":
		return file
	case strings.HasSuffix(l.baseDir, string(filepath.Separator)):
		return l.baseDir + file
	default:
		return l.baseDir + string(filepath.Separator) + file
	}
}

// Load renders the template addressed by name and typ into w. typ is
// normalised with CanonicalType first.
func (l *Loader) Load(w io.Writer, name, typ string, values map[string]any) error {
	return l.LoadRequest(w, Request{Name: name, Type: typ, Values: values})
}

// LoadRequest renders req into w. A missing template yields a
// *TemplateNotFoundError before anything is rendered; renderer errors are
// returned unchanged.
func (l *Loader) LoadRequest(w io.Writer, req Request) error {
	if l == nil {
		return usageErrorf("loader is nil")
	}
	typ, err := normalizeType(req.Type)
	if err != nil {
		return err
	}

	path := l.Path(req.Name, typ)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		l.logger.Debug().
			Str("name", req.Name).
			Str("type", typ).
			Str("path", path).
			Msg("template file not found")
		return &TemplateNotFoundError{Name: req.Name, Type: typ, Path: path}
	}

	l.logger.Debug().
		Str("name", req.Name).
		Str("type", typ).
		Str("path", path).
		Int("values", len(req.Values)).
		Msg("rendering template")

	return l.renderer.RenderFile(path, scope.Merge(l.globals, req.Values), w)
}

func normalizeType(typ string) (string, error) {
	canonical := CanonicalType(typ)
	if canonical == "" {
		return "", usageErrorf("template type must be a non-empty token")
	}
	if strings.ContainsAny(canonical, `./\`) {
		return "", usageErrorf("template type %q must not contain dots or path separators", typ)
	}
	return canonical, nil
}
