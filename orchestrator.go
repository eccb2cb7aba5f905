// Package intake is the top-level entry point for hosts that only need to
// render or validate a wizard step. Finer control lives in pkg/orchestrator,
// pkg/wizard and the renderer packages.
package intake

import (
	"context"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/validation"
)

// AnswerSet aliases model.AnswerSet.
type AnswerSet = model.AnswerSet

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders the catalog step stepID with the named renderer. When
// answers is non-nil they pre-fill the form and validation failures are shown
// inline.
func GenerateHTML(ctx context.Context, stepID, rendererName string, answers AnswerSet, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	resp, err := gen.Generate(ctx, orchestrator.Request{
		StepID:   stepID,
		Renderer: rendererName,
		Answers:  answers,
	})
	if err != nil {
		return nil, err
	}
	return resp.Output, nil
}

// Validate checks answers against the catalog step stepID.
func Validate(stepID string, answers AnswerSet, options ...orchestrator.Option) (validation.Result, error) {
	return orchestrator.New(options...).Validate(stepID, answers)
}
