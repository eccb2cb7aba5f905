package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/renderers/html"
	"github.com/goliatone/go-intake/pkg/steps"
	"github.com/goliatone/go-intake/pkg/validation"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithCatalog injects the step catalog. The default is steps.Builtin().
func WithCatalog(catalog *steps.Catalog) Option {
	return func(o *Orchestrator) {
		o.catalog = catalog
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithDecorators registers decorators applied to every step before it is
// validated or rendered.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithValidator replaces the validator used for submitted answers.
func WithValidator(v *validation.Validator) Option {
	return func(o *Orchestrator) {
		o.validator = v
	}
}

// WithLogger attaches a logger. The default discards output.
func WithLogger(logger logr.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator resolves steps from a catalog and renders them, validating
// submitted answers on the way. Missing dependencies fall back to the
// built-in catalog and the html renderer.
type Orchestrator struct {
	catalog         *steps.Catalog
	registry        *render.Registry
	defaultRenderer string
	decorators      []model.Decorator
	validator       *validation.Validator
	logger          logr.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          logr.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes a step to render.
type Request struct {
	// StepID selects the catalog step.
	StepID string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// Answers, when non-nil, are validated against the step. They pre-fill the
	// controls and any failures are merged into RenderOptions.Errors.
	Answers model.AnswerSet

	// Decorators apply to this request only, after the orchestrator's own.
	Decorators []model.Decorator

	// RenderOptions carries per-request render data such as hidden fields or
	// the theme selection.
	RenderOptions render.RenderOptions
}

// Response is the outcome of Generate. Validation is the zero value when the
// request carried no answers.
type Response struct {
	Step       model.Step
	Output     []byte
	Validation validation.Result
}

// Step returns the catalog step with every decorator applied.
func (o *Orchestrator) Step(id string, decorators ...model.Decorator) (model.Step, error) {
	if err := o.initialiseErr; err != nil {
		return model.Step{}, err
	}
	if id == "" {
		return model.Step{}, errors.New("orchestrator: step id is required")
	}
	all := make([]model.Decorator, 0, len(o.decorators)+len(decorators))
	all = append(all, o.decorators...)
	all = append(all, decorators...)
	step, err := o.catalog.Step(id, all...)
	if err != nil {
		return model.Step{}, fmt.Errorf("orchestrator: %w", err)
	}
	return step, nil
}

// Validate checks answers against the decorated step.
func (o *Orchestrator) Validate(id string, answers model.AnswerSet, decorators ...model.Decorator) (validation.Result, error) {
	step, err := o.Step(id, decorators...)
	if err != nil {
		return validation.Result{}, err
	}
	result := o.validator.Validate(answers, step.Rules)
	o.logger.V(1).Info("validated answers", "step", step.ID, "fields", result.Errors.Fields())
	return result, nil
}

// Generate resolves the step, validates any answers and renders the step
// with the selected renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Response, error) {
	if ctx == nil {
		return Response{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	step, err := o.Step(req.StepID, req.Decorators...)
	if err != nil {
		return Response{}, err
	}

	opts := req.RenderOptions
	resp := Response{Step: step}
	if req.Answers != nil {
		resp.Validation = o.validator.Validate(req.Answers, step.Rules)
		opts.Values = req.Answers
		if !resp.Validation.Valid {
			opts.Errors = mergeErrors(opts.Errors, resp.Validation.Errors.Messages())
		}
		o.logger.V(1).Info("rendering with answers", "step", step.ID, "fields", resp.Validation.Errors.Fields())
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Response{}, err
	}
	output, err := renderer.Render(ctx, step, opts)
	if err != nil {
		return Response{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	resp.Output = output
	return resp, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.catalog == nil {
		o.catalog = steps.Builtin()
	}
	if o.validator == nil {
		o.validator = validation.New()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

// mergeErrors appends validation messages to host supplied errors.
func mergeErrors(host, found map[string][]string) map[string][]string {
	if len(host) == 0 {
		return found
	}
	out := make(map[string][]string, len(host)+len(found))
	for field, messages := range host {
		out[field] = append([]string(nil), messages...)
	}
	for field, messages := range found {
		out[field] = render.MergeFormErrors(out[field], messages...)
	}
	return out
}
