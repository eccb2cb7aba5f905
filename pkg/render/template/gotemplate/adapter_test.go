package gotemplate_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/render/template/gotemplate"
	"github.com/goliatone/go-intake/pkg/testsupport"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/greeting.tmpl":      {Data: []byte(`Hello {{ name|trim }}{% include "partials/mark.tmpl" %}`)},
		"templates/partials/mark.tmpl": {Data: []byte(`!`)},
		"templates/checked.tmpl":       {Data: []byte(`{% for opt in options %}{{ opt|field_id }}={% if values|has:opt %}on{% else %}off{% endif %};{% endfor %}`)},
	}
}

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	opts = append([]gotemplate.Option{gotemplate.WithFS(testFS()), gotemplate.WithExtension("tmpl")}, opts...)
	engine, err := gotemplate.New(opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateWithInclude(t *testing.T) {
	engine := newEngine(t)

	out, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("templates/greeting", map[string]any{"name": "  Ada "}, w)
	})
	if out != "Hello Ada!" {
		t.Fatalf("unexpected output %q", out)
	}
	if written != out {
		t.Fatalf("writer received %q, want %q", written, out)
	}
}

func TestEngine_DefaultFilters(t *testing.T) {
	engine := newEngine(t)

	out, err := engine.RenderTemplate("templates/checked.tmpl", map[string]any{
		"options": []string{"Heart Disease", "Cancer (type)"},
		"values":  []string{"Cancer (type)"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "heart-disease=off;cancer-type=on;"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_HasMatchesScalars(t *testing.T) {
	engine := newEngine(t)

	out, err := engine.RenderString(`{% if answer|has:"Yes" %}yes{% else %}no{% endif %}`, map[string]any{"answer": "Yes"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "yes" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{"brand": "Intake"}))

	if err := engine.GlobalContext(map[string]any{"year": 2026}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	out, err := engine.RenderString(`{{ brand }} {{ year }}`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Intake 2026" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_StructDataUsesJSONTags(t *testing.T) {
	engine := newEngine(t)

	data := struct {
		StepTitle string `json:"title"`
	}{StepTitle: "MEDICAL HISTORY"}

	out, err := engine.RenderString(`{{ title }}`, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "MEDICAL HISTORY" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)

	name := "intake_shout_test"
	if err := engine.RegisterFilter(name, func(in any, _ any) (any, error) {
		s, _ := in.(string)
		return strings.ToUpper(s), nil
	}); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter(name, func(in any, _ any) (any, error) { return in, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}

	out, err := engine.RenderString(`{{ word|`+name+` }}`, map[string]any{"word": "next"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "NEXT" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_FilterErrorsSurface(t *testing.T) {
	engine := newEngine(t)

	name := "intake_fail_test"
	if err := engine.RegisterFilter(name, func(any, any) (any, error) {
		return nil, errors.New("boom")
	}); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if _, err := engine.RenderString(`{{ x|`+name+` }}`, map[string]any{"x": 1}); err == nil {
		t.Fatalf("expected filter error")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("templates/missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
