package testsupport

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// ArticleTemplates is the template tree shared by loader and manager tests.
// Each template prints its own dotted name and type so assertions can tell
// which file was rendered.
func ArticleTemplates() map[string]string {
	return map[string]string{
		"main.header.tpl":                  "main.headerTemplate",
		"main.footer.tpl":                  "main.footerTemplate",
		"list.header.tpl":                  "list.headerTemplate",
		"list.footer.tpl":                  "list.footerTemplate",
		"list/item.header.tpl":             "list.item.headerTemplate",
		"list/item.footer.tpl":             "list.item.footerTemplate",
		"list/item/uniquePage.header.tpl":  "list.item.uniquePage.headerTemplate",
		"list/item/uniquePage.footer.tpl":  "list.item.uniquePage.footerTemplate",
		"passValue.passValue.tpl":          "Hello {{ name }}",
		"header.tpl":                       "default.headerTemplate",
		"greeting.welcome.tpl":             "{{ greeting }}, {{ name }}!",
		"broken.header.tpl":                "{% if %}",
		"nested/layout.page.tpl":           `[{% include "partial.tpl" %}]`,
		"nested/partial.tpl":               "partial for {{ name }}",
		"directory.header.tpl/placeholder": "",
	}
}

// WriteTemplateTree writes files (relative path -> content) under a fresh
// temporary directory and returns its path.
func WriteTemplateTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir template dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write template: %v", err)
		}
	}
	return root
}

// CaptureOutput runs render with a buffer and returns what was written. The
// render error is returned for callers asserting on failures.
func CaptureOutput(render func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	err := render(&buf)
	return buf.String(), err
}

// MustCaptureOutput is CaptureOutput for renders expected to succeed.
func MustCaptureOutput(t *testing.T, render func(io.Writer) error) string {
	t.Helper()

	out, err := CaptureOutput(render)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out
}
