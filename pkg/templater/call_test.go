package templater_test

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-pagetemplate/pkg/render/template"
	"github.com/goliatone/go-pagetemplate/pkg/templater"
	"github.com/goliatone/go-pagetemplate/pkg/testsupport"
)

func TestCanonicalType(t *testing.T) {
	cases := map[string]string{
		"Header":       "header",
		"header":       "header",
		"WhateverType": "whateverType",
		"PassValue":    "passValue",
		"pass_value":   "passValue",
		"pass-value":   "passValue",
		"foo bar baz":  "fooBarBaz",
		"Ümlaut":       "ümlaut",
		"":             "",
		"__":           "",
	}
	for in, want := range cases {
		if got := templater.CanonicalType(in); got != want {
			t.Errorf("CanonicalType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTypeFromMethod(t *testing.T) {
	typ, ok := templater.TypeFromMethod("loadHeaderTemplate")
	if !ok || typ != "Header" {
		t.Fatalf("TypeFromMethod = %q, %v", typ, ok)
	}
	if _, ok := templater.TypeFromMethod("renderHeader"); ok {
		t.Fatal("expected no match for a foreign method name")
	}
}

func TestLoader_Call(t *testing.T) {
	root := testsupport.WriteTemplateTree(t, testsupport.ArticleTemplates())
	loader := templater.New(root)

	got := testsupport.MustCaptureOutput(t, func(w io.Writer) error {
		return loader.Call(w, "loadPassValueTemplate", "passValue", map[string]any{"name": "John"})
	})
	if got != "Hello John" {
		t.Fatalf("Call with values = %q", got)
	}

	got = testsupport.MustCaptureOutput(t, func(w io.Writer) error {
		return loader.Call(w, "loadHeaderTemplate")
	})
	if got != "default.headerTemplate" {
		t.Fatalf("Call without arguments = %q", got)
	}

	got = testsupport.MustCaptureOutput(t, func(w io.Writer) error {
		return loader.Call(w, "loadFooterTemplate", "list.item", nil)
	})
	if got != "list.item.footerTemplate" {
		t.Fatalf("Call with nil values = %q", got)
	}
}

func TestLoader_CallUsageErrors(t *testing.T) {
	touched := false
	renderer := template.RendererFunc(func(string, map[string]any, io.Writer) error {
		touched = true
		return nil
	})
	loader := templater.New(t.TempDir(), templater.WithRenderer(renderer))

	cases := map[string]struct {
		method string
		args   []any
	}{
		"foreign method": {method: "renderHeader"},
		"too many args":  {method: "loadHeaderTemplate", args: []any{"main", map[string]any{}, 3}},
		"name not str":   {method: "loadHeaderTemplate", args: []any{1}},
		"values not map": {method: "loadHeaderTemplate", args: []any{"main", []string{"x"}}},
		"int keyed map":  {method: "loadHeaderTemplate", args: []any{"main", map[int]string{1: "x"}}},
		"empty type":     {method: "loadTemplate"},
	}
	for label, tc := range cases {
		t.Run(label, func(t *testing.T) {
			err := loader.Call(io.Discard, tc.method, tc.args...)
			if !errors.Is(err, templater.ErrUsage) {
				t.Fatalf("expected ErrUsage, got %v", err)
			}
		})
	}
	if touched {
		t.Fatal("renderer invoked for a malformed call")
	}
}

func TestLoader_CallAcceptsStringKeyedMaps(t *testing.T) {
	root := testsupport.WriteTemplateTree(t, testsupport.ArticleTemplates())
	loader := templater.New(root)

	got := testsupport.MustCaptureOutput(t, func(w io.Writer) error {
		return loader.Call(w, "loadPassValueTemplate", "passValue", map[string]string{"name": "John"})
	})
	if got != "Hello John" {
		t.Fatalf("Call with map[string]string = %q", got)
	}
}

func TestValuesArg(t *testing.T) {
	type labels map[string]int

	cases := map[string]struct {
		arg  any
		want map[string]any
	}{
		"nil":          {arg: nil, want: map[string]any{}},
		"any values":   {arg: map[string]any{"a": 1}, want: map[string]any{"a": 1}},
		"string map":   {arg: map[string]string{"a": "b"}, want: map[string]any{"a": "b"}},
		"named map":    {arg: labels{"n": 2}, want: map[string]any{"n": 2}},
		"empty map":    {arg: map[string]bool{}, want: map[string]any{}},
	}
	for label, tc := range cases {
		t.Run(label, func(t *testing.T) {
			got, err := templater.ValuesArg(2, tc.arg)
			if err != nil {
				t.Fatalf("ValuesArg: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := templater.ValuesArg(2, map[int]string{1: "x"}); !errors.Is(err, templater.ErrUsage) {
		t.Fatalf("expected ErrUsage for a non-string keyed map, got %v", err)
	}
}

func TestFilters_Camel(t *testing.T) {
	root := testsupport.WriteTemplateTree(t, map[string]string{"section.title.tpl": "{{ kind|camel }}"})
	loader := templater.New(root)

	got := testsupport.MustCaptureOutput(t, func(w io.Writer) error {
		return loader.Load(w, "section", "title", map[string]any{"kind": "page_header"})
	})
	if got != "pageHeader" {
		t.Fatalf("camel filter = %q", got)
	}
}

func TestLoader_CallNotFound(t *testing.T) {
	loader := templater.New(t.TempDir())

	err := loader.Call(io.Discard, "loadWhateverTypeTemplate")
	if !templater.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
