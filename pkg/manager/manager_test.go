package manager_test

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pagetemplate/pkg/manager"
	"github.com/goliatone/go-pagetemplate/pkg/rules"
	"github.com/goliatone/go-pagetemplate/pkg/templater"
	"github.com/goliatone/go-pagetemplate/pkg/testsupport"
)

var rulesFile = filepath.Join("testdata", "rules.yaml")

type loadCall struct {
	Name   string
	Type   string
	Values map[string]any
}

type recordingLoader struct {
	calls []loadCall
	err   error
}

func (r *recordingLoader) Load(_ io.Writer, name, typ string, values map[string]any) error {
	r.calls = append(r.calls, loadCall{Name: name, Type: typ, Values: values})
	return r.err
}

func newManager(t *testing.T, url string) *manager.Manager {
	t.Helper()

	root := testsupport.WriteTemplateTree(t, testsupport.ArticleTemplates())
	m, err := manager.New(url, templater.New(root), rulesFile)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestManager_AutoDetectsTemplatePerURL(t *testing.T) {
	cases := []struct {
		url    string
		header string
		footer string
	}{
		{"/", "main.headerTemplate", "main.footerTemplate"},
		{"/articles", "list.headerTemplate", "list.footerTemplate"},
		{"/articles/article1", "list.item.headerTemplate", "list.item.footerTemplate"},
		{"/articles/article1/unique", "list.item.uniquePage.headerTemplate", "list.item.uniquePage.footerTemplate"},
	}
	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			m := newManager(t, tc.url)

			header := testsupport.MustCaptureOutput(t, func(w io.Writer) error {
				return m.Call(w, "autoDetectHeaderTemplate")
			})
			if header != tc.header {
				t.Fatalf("header = %q, want %q", header, tc.header)
			}

			footer := testsupport.MustCaptureOutput(t, func(w io.Writer) error {
				return m.AutoDetect(w, "Footer", nil)
			})
			if footer != tc.footer {
				t.Fatalf("footer = %q, want %q", footer, tc.footer)
			}
		})
	}
}

func TestManager_PassesValuesToTemplate(t *testing.T) {
	m := newManager(t, "/passValue")

	got := testsupport.MustCaptureOutput(t, func(w io.Writer) error {
		return m.Call(w, "autoDetectPassValueTemplate", map[string]any{"name": "John"})
	})
	if got != "Hello John" {
		t.Fatalf("output = %q, want %q", got, "Hello John")
	}
}

func TestManager_TemplateNotFoundPropagates(t *testing.T) {
	m := newManager(t, "/")

	err := m.Call(io.Discard, "autoDetectWhateverTypeTemplate")
	var notFound *templater.TemplateNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *TemplateNotFoundError, got %v", err)
	}
	if notFound.Name != "main" || notFound.Type != "whateverType" {
		t.Fatalf("unexpected not found context: %+v", notFound)
	}
}

func TestManager_NoMatchForwardsEmptyName(t *testing.T) {
	loader := &recordingLoader{}
	m, err := manager.New("/nowhere", loader, rulesFile)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	name, ok := m.ResolveName()
	if ok || name != "" {
		t.Fatalf("ResolveName = %q, %v", name, ok)
	}

	if err := m.Call(io.Discard, "autoDetectWhateverTypeTemplate"); err != nil {
		t.Fatalf("call: %v", err)
	}
	want := []loadCall{{Name: "", Type: "WhateverType", Values: map[string]any{}}}
	if diff := cmp.Diff(want, loader.calls); diff != "" {
		t.Fatalf("loader calls mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_NoMatchWithRealLoaderIsNotFound(t *testing.T) {
	root := testsupport.WriteTemplateTree(t, map[string]string{"main.header.tpl": "x"})
	loader := templater.New(root)
	m, err := manager.New("/nowhere", loader, rulesFile)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	err = m.Call(io.Discard, "autoDetectWhateverTypeTemplate")
	var notFound *templater.TemplateNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *TemplateNotFoundError, got %v", err)
	}
	if want := filepath.Join(root, "whateverType.tpl"); notFound.Path != want {
		t.Fatalf("attempted path = %q, want %q", notFound.Path, want)
	}
}

func TestManager_UsageErrorsSkipLoader(t *testing.T) {
	loader := &recordingLoader{}
	m, err := manager.New("/", loader, rulesFile)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	cases := map[string]struct {
		method string
		args   []any
	}{
		"two arguments":  {method: "autoDetectHeaderTemplate", args: []any{1, 2}},
		"non-map values": {method: "autoDetectHeaderTemplate", args: []any{"John"}},
		"foreign method": {method: "detectHeader"},
		"empty type":     {method: "autoDetectTemplate"},
	}
	for label, tc := range cases {
		t.Run(label, func(t *testing.T) {
			err := m.Call(io.Discard, tc.method, tc.args...)
			if !errors.Is(err, templater.ErrUsage) {
				t.Fatalf("expected ErrUsage, got %v", err)
			}
		})
	}
	if len(loader.calls) != 0 {
		t.Fatalf("loader called for malformed calls: %+v", loader.calls)
	}
}

func TestManager_LoaderErrorsReturnedUnchanged(t *testing.T) {
	boom := errors.New("render failed")
	m, err := manager.New("/", &recordingLoader{err: boom}, rulesFile)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if err := m.AutoDetect(io.Discard, "Header", nil); err != boom {
		t.Fatalf("expected loader error verbatim, got %v", err)
	}
}

func TestManager_ConfigSources(t *testing.T) {
	literal := []any{
		map[string]any{"name": "main", "urls": []any{"/"}},
		map[string]any{"name": "override", "urls": []any{"/"}},
	}
	ruleList := []rules.Rule{{Name: "main", URLs: []string{"/"}}}

	cases := map[string]struct {
		config any
		want   string
	}{
		"file":    {config: rulesFile, want: "main"},
		"literal": {config: literal, want: "override"},
		"rules":   {config: ruleList, want: "main"},
		"ruleset": {config: rules.MustNew(ruleList...), want: "main"},
		"empty":   {config: nil, want: ""},
	}
	for label, tc := range cases {
		t.Run(label, func(t *testing.T) {
			m, err := manager.New("/", &recordingLoader{}, tc.config)
			if err != nil {
				t.Fatalf("new manager: %v", err)
			}
			if got, _ := m.ResolveName(); got != tc.want {
				t.Fatalf("ResolveName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestManager_ConfigFaults(t *testing.T) {
	cases := map[string]struct {
		config any
		want   error
	}{
		"missing file":  {config: filepath.Join("testdata", "absent.yaml"), want: rules.ErrInvalidConfig},
		"malformed":     {config: filepath.Join("testdata", "invalid.yaml"), want: rules.ErrInvalidConfig},
		"bad pattern":   {config: []rules.Rule{{Name: "x", URLs: []string{"("}}}, want: rules.ErrInvalidConfig},
		"wrong type":    {config: 3.14, want: rules.ErrInvalidArgument},
		"wrong literal": {config: map[string]int{"rules": 1}, want: rules.ErrInvalidArgument},
	}
	for label, tc := range cases {
		t.Run(label, func(t *testing.T) {
			m, err := manager.New("/", &recordingLoader{}, tc.config)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if m != nil {
				t.Fatal("expected no manager on a configuration fault")
			}
		})
	}
}

func TestManager_RequiresLoader(t *testing.T) {
	if _, err := manager.New("/", nil, nil); !errors.Is(err, rules.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}

	var typed *templater.Loader
	if _, err := manager.New("/", typed, nil); !errors.Is(err, rules.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for a typed nil loader, got %v", err)
	}
}

func TestManager_Accessors(t *testing.T) {
	m, err := manager.New("/articles", &recordingLoader{}, rulesFile)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if m.URL() != "/articles" {
		t.Fatalf("URL = %q", m.URL())
	}
	if len(m.Rules()) != 5 {
		t.Fatalf("expected 5 rules, got %d", len(m.Rules()))
	}
}
