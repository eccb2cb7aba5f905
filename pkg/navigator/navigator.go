// Package navigator implements the Back/Next contract between a wizard step
// and its host controller. Next validates the step's answers and only hands
// them to the host when every rule passes; Back never validates.
package navigator

import (
	"errors"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/validation"
)

var (
	// ErrNoNext is returned by Next when no continuation was configured.
	ErrNoNext = errors.New("navigator: on next continuation is required")
	// ErrNoBack is returned by Back when no continuation was configured.
	ErrNoBack = errors.New("navigator: on back continuation is required")
)

// Recorder observes navigation outcomes. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Submitted(step string, errs validation.Errors)
	WentBack(step string)
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithValidator replaces the default validator.
func WithValidator(v *validation.Validator) Option {
	return func(n *Navigator) {
		if v != nil {
			n.validator = v
		}
	}
}

// WithLogger attaches a logger. The default discards output.
func WithLogger(logger logr.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec Recorder) Option {
	return func(n *Navigator) {
		n.recorder = rec
	}
}

// WithStepID labels logs and metrics with the step identifier.
func WithStepID(id string) Option {
	return func(n *Navigator) {
		n.stepID = id
	}
}

// Navigator validates a step's answers on Next and relays Back.
type Navigator struct {
	rules     []model.FieldRule
	onNext    func(model.AnswerSet)
	onBack    func()
	validator *validation.Validator
	logger    logr.Logger
	recorder  Recorder
	stepID    string
}

// New returns a Navigator guarding the supplied rule table.
func New(rules []model.FieldRule, onNext func(model.AnswerSet), onBack func(), options ...Option) *Navigator {
	n := &Navigator{
		rules:  append([]model.FieldRule(nil), rules...),
		onNext: onNext,
		onBack: onBack,
		logger: logr.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(n)
		}
	}
	if n.validator == nil {
		n.validator = validation.New()
	}
	return n
}

// ForStep returns a Navigator for the step's rules labelled with its id.
func ForStep(step model.Step, onNext func(model.AnswerSet), onBack func(), options ...Option) *Navigator {
	opts := append([]Option{WithStepID(step.ID)}, options...)
	return New(step.Rules, onNext, onBack, opts...)
}

// Rules returns a copy of the guarded rule table.
func (n *Navigator) Rules() []model.FieldRule {
	return append([]model.FieldRule(nil), n.rules...)
}

// Validator exposes the validator so interactive callers can check single
// fields with the same configuration.
func (n *Navigator) Validator() *validation.Validator {
	return n.validator
}

// Back signals the host to return to the previous step. In-progress answers
// are not validated and are not passed along.
func (n *Navigator) Back() error {
	if n.onBack == nil {
		return ErrNoBack
	}
	n.logger.V(1).Info("step back", "step", n.stepID)
	if n.recorder != nil {
		n.recorder.WentBack(n.stepID)
	}
	n.onBack()
	return nil
}

// Next validates answers. When they pass, the host's continuation receives a
// copy of the answers and the returned result is valid. When they fail, the
// continuation is not called and the result carries every field error. The
// error return is reserved for a missing continuation.
func (n *Navigator) Next(answers model.AnswerSet) (validation.Result, error) {
	if n.onNext == nil {
		return validation.Result{}, ErrNoNext
	}

	result := n.validator.Validate(answers, n.rules)
	if n.recorder != nil {
		n.recorder.Submitted(n.stepID, result.Errors)
	}
	if !result.Valid {
		n.logger.V(1).Info("step blocked", "step", n.stepID, "fields", result.Errors.Fields())
		return result, nil
	}

	n.logger.V(1).Info("step advanced", "step", n.stepID)
	n.onNext(answers.Clone())
	return result, nil
}
