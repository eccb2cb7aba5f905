package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/steps"
)

type captureRenderer struct {
	name  string
	step  model.Step
	opts  render.RenderOptions
	calls int
}

func (r *captureRenderer) Name() string        { return r.name }
func (r *captureRenderer) ContentType() string { return "text/plain" }

func (r *captureRenderer) Render(_ context.Context, step model.Step, opts render.RenderOptions) ([]byte, error) {
	r.calls++
	r.step = step
	r.opts = opts
	return []byte("rendered " + step.ID), nil
}

func newCapture(t *testing.T, opts ...orchestrator.Option) (*orchestrator.Orchestrator, *captureRenderer) {
	t.Helper()
	capture := &captureRenderer{name: "capture"}
	opts = append([]orchestrator.Option{
		orchestrator.WithRegistry(render.NewRegistry(capture)),
		orchestrator.WithDefaultRenderer("capture"),
	}, opts...)
	return orchestrator.New(opts...), capture
}

func TestGenerate_DefaultHTMLRenderer(t *testing.T) {
	gen := orchestrator.New()

	resp, err := gen.Generate(context.Background(), orchestrator.Request{StepID: steps.MedicalHistoryID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(resp.Output), `data-step="medical-history"`) {
		t.Fatalf("expected html form, got:\n%s", resp.Output)
	}
	if resp.Validation.Valid || resp.Validation.Errors != nil {
		t.Fatalf("expected zero validation without answers, got %+v", resp.Validation)
	}
}

func TestGenerate_ValidatesAnswersAndMergesErrors(t *testing.T) {
	gen, capture := newCapture(t)

	answers := steps.Defaults(steps.MedicalHistory())
	answers[steps.FieldSeriousInjury] = "No"
	answers[steps.FieldSeriousInjuryDetails] = "n/a"
	answers[steps.FieldLastMedicalCheckup] = "2024"
	answers[steps.FieldOtherAllergies] = "None"
	answers[steps.FieldOtherConditions] = "None"

	resp, err := gen.Generate(context.Background(), orchestrator.Request{
		StepID:  steps.MedicalHistoryID,
		Answers: answers,
		RenderOptions: render.RenderOptions{
			Errors: map[string][]string{"_form": {"Session expired"}},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(resp.Output) != "rendered medical-history" {
		t.Fatalf("unexpected output %q", resp.Output)
	}
	if resp.Validation.Valid {
		t.Fatalf("expected smoking to fail")
	}

	want := map[string][]string{
		"_form":            {"Session expired"},
		steps.FieldSmoking: {"Please indicate if you smoke or chew tobacco products"},
	}
	if diff := cmp.Diff(want, capture.opts.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(answers, capture.opts.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_ValidAnswersLeaveErrorsEmpty(t *testing.T) {
	gen, capture := newCapture(t, orchestrator.WithDecorators(steps.ConditionalDetails()))

	answers := model.AnswerSet{
		steps.FieldSeriousInjury:      "No",
		steps.FieldLastMedicalCheckup: "2024",
		steps.FieldOtherAllergies:     "None",
		steps.FieldOtherConditions:    "None",
		steps.FieldSmoking:            "No",
	}
	resp, err := gen.Generate(context.Background(), orchestrator.Request{StepID: steps.MedicalHistoryID, Answers: answers})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !resp.Validation.Valid {
		t.Fatalf("expected valid answers, got %v", resp.Validation.Errors)
	}
	if capture.opts.Errors != nil {
		t.Fatalf("expected no errors passed to renderer, got %v", capture.opts.Errors)
	}
	rules := capture.step.RulesFor(steps.FieldSeriousInjuryDetails)
	if len(rules) != 1 {
		t.Fatalf("expected one details rule, got %v", rules)
	}
	if rules[0].Kind != model.RuleRequiredIf || rules[0].When != `seriousInjury == "Yes"` {
		t.Fatalf("expected details rule conditioned on a Yes answer, got %+v", rules[0])
	}
}

func TestGenerate_RequestDecoratorsRunAfterDefaults(t *testing.T) {
	var order []string
	named := func(name string) model.Decorator {
		return model.DecoratorFunc(func(*model.Step) error {
			order = append(order, name)
			return nil
		})
	}
	gen, _ := newCapture(t, orchestrator.WithDecorators(named("global")))

	if _, err := gen.Generate(context.Background(), orchestrator.Request{
		StepID:     steps.MedicalHistoryID,
		Decorators: []model.Decorator{named("request")},
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff([]string{"global", "request"}, order); diff != "" {
		t.Fatalf("decorator order mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_Errors(t *testing.T) {
	gen, _ := newCapture(t)

	if _, err := gen.Generate(context.Background(), orchestrator.Request{}); err == nil || !strings.Contains(err.Error(), "step id is required") {
		t.Fatalf("expected missing step error, got %v", err)
	}
	if _, err := gen.Generate(context.Background(), orchestrator.Request{StepID: "nope"}); !errors.Is(err, steps.ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
	if _, err := gen.Generate(context.Background(), orchestrator.Request{StepID: steps.MedicalHistoryID, Renderer: "pdf"}); err == nil || !strings.Contains(err.Error(), `renderer "pdf"`) {
		t.Fatalf("expected unknown renderer error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gen.Generate(ctx, orchestrator.Request{StepID: steps.MedicalHistoryID}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerate_FallsBackToFirstRegisteredRenderer(t *testing.T) {
	capture := &captureRenderer{name: "capture"}
	gen := orchestrator.New(
		orchestrator.WithRegistry(render.NewRegistry(capture)),
		orchestrator.WithDefaultRenderer("missing"),
	)
	if _, err := gen.Generate(context.Background(), orchestrator.Request{StepID: steps.MedicalHistoryID}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if capture.calls != 1 {
		t.Fatalf("expected fallback renderer to run once, ran %d", capture.calls)
	}
}

func TestValidate_UsesCatalogStep(t *testing.T) {
	gen := orchestrator.New()

	result, err := gen.Validate(steps.MedicalHistoryID, model.AnswerSet{})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Valid {
		t.Fatalf("expected empty answers to fail")
	}
	if _, ok := result.Errors[steps.FieldSmoking]; !ok {
		t.Fatalf("expected smoking error, got %v", result.Errors)
	}

	conditional, err := gen.Validate(steps.MedicalHistoryID, model.AnswerSet{}, steps.ConditionalDetails())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, ok := conditional.Errors[steps.FieldSeriousInjuryDetails]; ok {
		t.Fatalf("expected details to be optional without a Yes")
	}
}
