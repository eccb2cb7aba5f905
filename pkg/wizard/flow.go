// Package wizard sequences steps into an in-memory intake flow. Each step is
// guarded by its own navigator: Next stores the step's answers and advances,
// Back drops in-progress edits and returns to the previous step.
package wizard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/navigator"
	"github.com/goliatone/go-intake/pkg/steps"
	"github.com/goliatone/go-intake/pkg/validation"
)

var (
	// ErrNoSteps is returned by New when the flow has nothing to ask.
	ErrNoSteps = errors.New("wizard: at least one step is required")
	// ErrDone is returned when navigating a completed flow.
	ErrDone = errors.New("wizard: flow is complete")
)

// Option configures a Flow.
type Option func(*Flow)

// WithLogger attaches a logger shared with every step navigator.
func WithLogger(logger logr.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

// WithRecorder attaches a metrics recorder shared with every step navigator.
func WithRecorder(rec navigator.Recorder) Option {
	return func(f *Flow) {
		f.recorder = rec
	}
}

// WithValidator replaces the validator used by every step navigator.
func WithValidator(v *validation.Validator) Option {
	return func(f *Flow) {
		f.validator = v
	}
}

// WithSessionID fixes the session identifier instead of generating one.
func WithSessionID(id string) Option {
	return func(f *Flow) {
		if id != "" {
			f.id = id
		}
	}
}

// WithInitialValues seeds answers for the flow, typically a saved draft. Each
// step picks the fields it binds.
func WithInitialValues(values model.AnswerSet) Option {
	return func(f *Flow) {
		f.initial = values.Clone()
	}
}

// Flow walks a fixed list of steps. It is safe for concurrent use.
type Flow struct {
	mu sync.Mutex

	id        string
	steps     []model.Step
	committed []model.AnswerSet
	initial   model.AnswerSet
	index     int
	done      bool

	logger    logr.Logger
	recorder  navigator.Recorder
	validator *validation.Validator
}

// New builds a flow over the given steps. Each step must pass
// validation.CheckStep.
func New(defs []model.Step, options ...Option) (*Flow, error) {
	if len(defs) == 0 {
		return nil, ErrNoSteps
	}
	f := &Flow{
		logger: logr.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.id == "" {
		f.id = uuid.NewString()
	}

	seen := make(map[string]struct{}, len(defs))
	for _, step := range defs {
		if err := validation.CheckStep(step).Err(); err != nil {
			return nil, fmt.Errorf("wizard: step %q: %w", step.ID, err)
		}
		if _, dup := seen[step.ID]; dup {
			return nil, fmt.Errorf("wizard: duplicate step %q", step.ID)
		}
		seen[step.ID] = struct{}{}
		f.steps = append(f.steps, step.Clone())
	}
	f.committed = make([]model.AnswerSet, len(f.steps))
	f.logger = f.logger.WithValues("session", f.id)
	return f, nil
}

// ID returns the session identifier.
func (f *Flow) ID() string {
	return f.id
}

// Len returns the number of steps.
func (f *Flow) Len() int {
	return len(f.steps)
}

// Index returns the position of the current step. After completion it equals
// Len.
func (f *Flow) Index() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return len(f.steps)
	}
	return f.index
}

// Current returns the step awaiting answers. The bool is false once the flow
// is done.
func (f *Flow) Current() (model.Step, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return model.Step{}, false
	}
	return f.steps[f.index].Clone(), true
}

// Initial returns the values the current step should be shown with: blanks
// for every bound field, overlaid with the flow's initial values and then
// with whatever the step committed earlier.
func (f *Flow) Initial() model.AnswerSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return nil
	}
	step := f.steps[f.index]
	picked := model.AnswerSet{}
	for _, field := range step.FieldNames() {
		if value, ok := f.initial[field]; ok {
			picked[field] = value
		}
	}
	return steps.Defaults(step).Merge(picked).Merge(f.committed[f.index])
}

// Navigator returns the navigator for the current step. Its Next commits the
// answers and advances; its Back moves to the previous step and is not
// configured on the first step, so it reports navigator.ErrNoBack there.
// A navigator kept past a move of the flow has no effect.
func (f *Flow) Navigator() (*navigator.Navigator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return nil, ErrDone
	}

	index := f.index
	step := f.steps[index]
	var onBack func()
	if index > 0 {
		onBack = func() { f.back(index) }
	}

	opts := []navigator.Option{
		navigator.WithLogger(f.logger),
		navigator.WithValidator(f.validator),
	}
	if f.recorder != nil {
		opts = append(opts, navigator.WithRecorder(f.recorder))
	}
	return navigator.ForStep(step, func(answers model.AnswerSet) { f.advance(index, answers) }, onBack, opts...), nil
}

// Next submits answers for the current step.
func (f *Flow) Next(answers model.AnswerSet) (validation.Result, error) {
	nav, err := f.Navigator()
	if err != nil {
		return validation.Result{}, err
	}
	return nav.Next(answers)
}

// Back returns to the previous step.
func (f *Flow) Back() error {
	nav, err := f.Navigator()
	if err != nil {
		return err
	}
	return nav.Back()
}

// Done reports whether every step has been submitted.
func (f *Flow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Answers returns the committed answers of every step merged in step order.
func (f *Flow) Answers() model.AnswerSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := model.AnswerSet{}
	for _, answers := range f.committed {
		out = out.Merge(answers)
	}
	return out
}

// StepAnswers returns a copy of what a step committed.
func (f *Flow) StepAnswers(id string) (model.AnswerSet, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, step := range f.steps {
		if step.ID == id {
			return f.committed[i].Clone(), f.committed[i] != nil
		}
	}
	return nil, false
}

func (f *Flow) advance(index int, answers model.AnswerSet) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done || f.index != index {
		f.logger.Info("ignoring stale submission", "step", f.steps[index].ID)
		return
	}
	f.committed[index] = answers
	if index == len(f.steps)-1 {
		f.done = true
		f.logger.V(1).Info("flow complete", "steps", len(f.steps))
		return
	}
	f.index++
	f.logger.V(1).Info("moved to step", "step", f.steps[f.index].ID)
}

func (f *Flow) back(index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done || f.index != index {
		f.logger.Info("ignoring stale back", "step", f.steps[index].ID)
		return
	}
	f.index--
	f.logger.V(1).Info("moved to step", "step", f.steps[f.index].ID)
}
