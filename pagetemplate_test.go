package pagetemplate_test

import (
	"errors"
	"io"
	"testing"

	"github.com/goliatone/go-pagetemplate"
	"github.com/goliatone/go-pagetemplate/pkg/rules"
	"github.com/goliatone/go-pagetemplate/pkg/templater"
	"github.com/goliatone/go-pagetemplate/pkg/testsupport"
)

func TestFacade_RendersResolvedTemplate(t *testing.T) {
	root := testsupport.WriteTemplateTree(t, testsupport.ArticleTemplates())
	loader := pagetemplate.NewLoader(root+"/", templater.WithGlobals(map[string]any{"greeting": "Hey"}))

	mgr, err := pagetemplate.NewManager("/welcome", loader, []rules.Rule{
		{Name: "main", URLs: []string{"/"}},
		{Name: "greeting", URLs: []string{"/welcome", "/hello"}},
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	got := testsupport.MustCaptureOutput(t, func(w io.Writer) error {
		return mgr.AutoDetect(w, "Welcome", map[string]any{"name": "Ada"})
	})
	if got != "Hey, Ada!" {
		t.Fatalf("output = %q", got)
	}

	err = mgr.AutoDetect(io.Discard, "Sidebar", nil)
	if !errors.Is(err, pagetemplate.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if err := mgr.Call(io.Discard, "autoDetectSidebarTemplate", 1, 2); !errors.Is(err, pagetemplate.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}
