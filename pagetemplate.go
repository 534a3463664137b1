// Package pagetemplate picks page templates by URL convention.
//
// A Manager holds the current request URL and an ordered rule list; it
// resolves the template variant for the URL and asks a Loader to render the
// variant's template of a given type (header, footer, ...). The Loader turns
// the dotted variant name and the type into a file path under its base
// directory and renders it with pongo2.
//
//	loader := pagetemplate.NewLoader("templates", templater.WithGlobals(globals))
//	mgr, err := pagetemplate.NewManager(r.URL.Path, loader, "rules.yaml")
//	if err != nil { ... }
//	err = mgr.AutoDetect(w, "header", nil)
package pagetemplate

import (
	"github.com/goliatone/go-pagetemplate/pkg/manager"
	"github.com/goliatone/go-pagetemplate/pkg/templater"
)

var (
	// ErrTemplateNotFound matches missing template files.
	ErrTemplateNotFound = templater.ErrTemplateNotFound
	// ErrUsage matches malformed calls.
	ErrUsage = templater.ErrUsage
)

// NewLoader constructs a template loader rooted at baseDir.
func NewLoader(baseDir string, options ...templater.Option) *templater.Loader {
	return templater.New(baseDir, options...)
}

// NewManager constructs a resolution manager for currentURL. config accepts
// a rules file path, a rule list, a compiled rule set or a literal structure.
func NewManager(currentURL string, loader manager.Loader, config any, options ...manager.Option) (*manager.Manager, error) {
	return manager.New(currentURL, loader, config, options...)
}
