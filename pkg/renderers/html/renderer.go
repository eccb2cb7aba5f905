// Package html renders a wizard step as an HTML form. Markup comes from
// embedded pongo2 templates; hosts can swap the bundle or the engine.
package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/render"
	rendertemplate "github.com/goliatone/go-intake/pkg/render/template"
	"github.com/goliatone/go-intake/pkg/render/template/gotemplate"
)

// Name is the registry key of the renderer.
const Name = "html"

const stepTemplate = "templates/step.tmpl"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	backLabel        string
	nextLabel        string
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// templates/step.tmpl and the partials it includes.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithButtonLabels overrides the "Back" and "Next" captions. Empty values keep
// the defaults.
func WithButtonLabels(back, next string) Option {
	return func(cfg *config) {
		if back = strings.TrimSpace(back); back != "" {
			cfg.backLabel = back
		}
		if next = strings.TrimSpace(next); next != "" {
			cfg.nextLabel = next
		}
	}
}

// Renderer produces HTML forms for wizard steps.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	backLabel string
	nextLabel string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		backLabel:  "Back",
		nextLabel:  "Next",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		backLabel: cfg.backLabel,
		nextLabel: cfg.nextLabel,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the step as a form. Values pre-fill the controls and Errors
// are shown next to the fields they belong to; keys that match no field are
// listed above the questions.
func (r *Renderer) Render(ctx context.Context, step model.Step, options render.RenderOptions) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mapping := render.MapErrors(step, options.Errors)
	questions := make([]map[string]any, 0, len(step.Questions))
	for _, q := range step.Questions {
		questions = append(questions, questionView(step, q, options.Values, mapping))
	}

	hidden := render.NormalizeHiddenFields(append(
		[]render.HiddenField{render.StepField(step.ID)},
		options.Hidden...,
	)...)
	th := buildTheme(options.Theme)

	result, err := r.templates.RenderTemplate(stepTemplate, map[string]any{
		"step": map[string]any{
			"id":    step.ID,
			"title": step.Title,
		},
		"action":      options.Action,
		"questions":   questions,
		"hidden":      hiddenView(hidden),
		"form_errors": mapping.Form,
		"theme": map[string]any{
			"name":    th.Name,
			"variant": th.Variant,
			"style":   th.Style,
		},
		"back_label": r.backLabel,
		"next_label": r.nextLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func questionView(step model.Step, q model.Question, values model.AnswerSet, mapping render.ErrorMapping) map[string]any {
	view := fieldView(step, q.Name, q.Label, values, mapping)
	view["kind"] = string(q.Kind)
	view["help"] = sanitizeHelp(q.Help)

	switch q.Kind {
	case model.QuestionYesNoDetails, model.QuestionYesNo:
		options := q.Options
		if len(options) == 0 {
			options = []string{model.AnswerYes, model.AnswerNo}
		}
		view["options"] = optionsView(q.Name, options, []string{values.String(q.Name)})
		if q.Kind == model.QuestionYesNoDetails && q.DetailName != "" {
			view["detail"] = fieldView(step, q.DetailName, q.DetailLabel, values, mapping)
		}
	case model.QuestionCheckboxes:
		selected, _ := values.Strings(q.Name)
		view["options"] = optionsView(q.Name, q.Options, selected)
		if q.OtherName != "" {
			view["other"] = fieldView(step, q.OtherName, q.OtherLabel, values, mapping)
		}
	}
	return view
}

func fieldView(step model.Step, name, label string, values model.AnswerSet, mapping render.ErrorMapping) map[string]any {
	return map[string]any{
		"name":     name,
		"id":       "intake-" + name,
		"label":    label,
		"value":    values.String(name),
		"required": step.Required(name),
		"errors":   mapping.For(name),
	}
}

func optionsView(name string, options []string, selected []string) []map[string]any {
	chosen := make(map[string]struct{}, len(selected))
	for _, value := range selected {
		chosen[value] = struct{}{}
	}
	out := make([]map[string]any, 0, len(options))
	for i, option := range options {
		_, checked := chosen[option]
		out = append(out, map[string]any{
			"id":      fmt.Sprintf("intake-%s-%d", name, i),
			"value":   option,
			"checked": checked,
		})
	}
	return out
}

func hiddenView(fields []render.HiddenField) []map[string]any {
	out := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		out = append(out, map[string]any{"name": field.Name, "value": field.Value})
	}
	return out
}
