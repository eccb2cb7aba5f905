// Package tui asks the questions of a wizard step in a terminal and drives the
// step's Back/Next navigation. Prompts go through a PromptDriver so the
// toolkit (survey or huh) can be swapped and sessions tested without a TTY.
package tui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/navigator"
	"github.com/goliatone/go-intake/pkg/steps"
	"github.com/goliatone/go-intake/pkg/validation"
)

// Outcome reports how a session left its step.
type Outcome string

const (
	OutcomeNext Outcome = "next"
	OutcomeBack Outcome = "back"
)

// Navigation choices offered after the questions.
const (
	ChoiceNext = "Next"
	ChoiceBack = "Back"
)

// Navigation is the step contract a session drives. *navigator.Navigator
// satisfies it.
type Navigation interface {
	Next(answers model.AnswerSet) (validation.Result, error)
	Back() error
}

// Result is what Run hands back: the outcome and, after Next, the validated
// answers.
type Result struct {
	Outcome Outcome
	Answers model.AnswerSet
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLogger attaches a logger. The default discards output.
func WithLogger(logger logr.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithNavigatorOptions forwards options to the navigator Run builds.
func WithNavigatorOptions(opts ...navigator.Option) Option {
	return func(s *Session) {
		s.navOpts = append(s.navOpts, opts...)
	}
}

// Session asks a step's questions and submits them through a Navigation.
type Session struct {
	driver  PromptDriver
	logger  logr.Logger
	navOpts []navigator.Option
}

// NewSession builds a session. Without WithPromptDriver it prompts with survey
// on the process terminal.
func NewSession(options ...Option) (*Session, error) {
	s := &Session{logger: logr.Discard()}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		driver, err := NewDriver(DriverSurvey, os.Stdout)
		if err != nil {
			return nil, err
		}
		s.driver = driver
	}
	return s, nil
}

// Run asks the step's questions, seeded with initial, and submits them
// through a navigator for the step. It returns once the answers pass
// validation or the user chooses Back.
func (s *Session) Run(ctx context.Context, step model.Step, initial model.AnswerSet) (Result, error) {
	var result Result
	nav := navigator.ForStep(step,
		func(answers model.AnswerSet) {
			result = Result{Outcome: OutcomeNext, Answers: answers}
		},
		func() {
			result = Result{Outcome: OutcomeBack}
		},
		s.navOpts...,
	)
	if _, err := s.Drive(ctx, step, initial, nav); err != nil {
		return Result{}, err
	}
	return result, nil
}

// Drive is Run against a caller supplied Navigation, such as the navigator of
// a wizard flow. A Back that reports navigator.ErrNoBack is shown to the user
// and the navigation prompt is asked again. Steps that fail
// validation.CheckStep are refused before anything is asked, since a rule on
// a field no question binds could never be satisfied.
func (s *Session) Drive(ctx context.Context, step model.Step, initial model.AnswerSet, nav Navigation) (Outcome, error) {
	if ctx == nil {
		return "", errors.New("tui: context is required")
	}
	if nav == nil {
		return "", ErrNoNavigation
	}
	if s.driver == nil {
		return "", errors.New("tui: prompt driver is nil")
	}
	if err := validation.CheckStep(step).Err(); err != nil {
		return "", fmt.Errorf("tui: step %q: %w", step.ID, err)
	}

	answers := steps.Defaults(step).Merge(initial)
	if step.Title != "" {
		if err := s.driver.Info(ctx, titleStyle.Render(step.Title)); err != nil {
			return "", err
		}
	}
	for _, q := range step.Questions {
		for _, field := range q.FieldNames() {
			if err := s.askField(ctx, step, q, field, answers); err != nil {
				return "", err
			}
		}
	}

	for {
		choice, err := s.driver.Select(ctx, SelectConfig{
			Message:      "Continue",
			Options:      []string{ChoiceNext, ChoiceBack},
			DefaultIndex: 0,
		})
		if err != nil {
			return "", err
		}

		if choice == 1 {
			err := nav.Back()
			if errors.Is(err, navigator.ErrNoBack) {
				if err := s.driver.Info(ctx, dimStyle.Render("There is no previous step.")); err != nil {
					return "", err
				}
				continue
			}
			if err != nil {
				return "", err
			}
			return OutcomeBack, nil
		}

		result, err := nav.Next(answers)
		if err != nil {
			return "", err
		}
		if result.Valid {
			return OutcomeNext, nil
		}

		failed := orderedFields(step, result.Errors)
		s.logger.V(1).Info("re-asking fields", "step", step.ID, "fields", failed)
		if err := s.report(ctx, step, failed, result.Errors); err != nil {
			return "", err
		}
		for _, field := range failed {
			q, ok := step.Question(field)
			if !ok {
				continue
			}
			if err := s.askField(ctx, step, q, field, answers); err != nil {
				return "", err
			}
		}
	}
}

func (s *Session) askField(ctx context.Context, step model.Step, q model.Question, field string, answers model.AnswerSet) error {
	label := fieldLabel(q, field)
	if step.Required(field) {
		label += " *"
	}
	help := ""
	if field == q.Name {
		help = plainHelp(q.Help)
	}

	if field != q.Name || q.Kind == model.QuestionInput {
		value, err := s.driver.Input(ctx, InputConfig{
			Message: label,
			Default: answers.String(field),
			Help:    help,
		})
		if err != nil {
			return err
		}
		answers.Set(field, strings.TrimSpace(value))
		return nil
	}

	switch q.Kind {
	case model.QuestionCheckboxes:
		selected, _ := answers.Strings(field)
		idx, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  q.Options,
			Defaults: indicesOf(q.Options, selected),
			Help:     help,
			PageSize: 10,
		})
		if err != nil {
			return err
		}
		chosen := make([]string, 0, len(idx))
		for _, i := range idx {
			if i >= 0 && i < len(q.Options) {
				chosen = append(chosen, q.Options[i])
			}
		}
		answers.Set(field, chosen)
	default:
		options := q.Options
		if len(options) == 0 {
			options = []string{model.AnswerYes, model.AnswerNo}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: indexOf(options, answers.String(field)),
			Help:         help,
		})
		if err != nil {
			return err
		}
		value := ""
		if idx >= 0 && idx < len(options) {
			value = options[idx]
		}
		answers.Set(field, value)
	}
	return nil
}

func (s *Session) report(ctx context.Context, step model.Step, fields []string, errs validation.Errors) error {
	if err := s.driver.Info(ctx, sectionStyle.Render("Please fix the following:")); err != nil {
		return err
	}
	for _, field := range fields {
		name := field
		if q, ok := step.Question(field); ok {
			name = fieldLabel(q, field)
		}
		line := errorStyle.Render(fmt.Sprintf("%s %s: %s", crossMark, name, errs[field]))
		if err := s.driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// orderedFields lists failing fields in display order, followed by any that
// no question binds.
func orderedFields(step model.Step, errs validation.Errors) []string {
	out := make([]string, 0, len(errs))
	seen := make(map[string]struct{}, len(errs))
	for _, field := range step.FieldNames() {
		if _, failed := errs[field]; failed {
			out = append(out, field)
			seen[field] = struct{}{}
		}
	}
	for _, field := range errs.Fields() {
		if _, ok := seen[field]; !ok {
			out = append(out, field)
		}
	}
	return out
}

func fieldLabel(q model.Question, field string) string {
	switch field {
	case q.DetailName:
		if q.DetailLabel != "" {
			return q.DetailLabel
		}
	case q.OtherName:
		if q.OtherLabel != "" {
			return q.Label + " (" + q.OtherLabel + ")"
		}
	}
	if q.Label != "" {
		return q.Label
	}
	return field
}

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// plainHelp drops markup from help text meant for HTML output.
func plainHelp(raw string) string {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(raw)))
}
