package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-intake/pkg/condition"
	"github.com/goliatone/go-intake/pkg/condition/expr"
	"github.com/goliatone/go-intake/pkg/model"
)

// Result is the outcome of validating an AnswerSet. On success Answers holds
// the input unchanged and Errors is nil; on failure Answers is nil.
type Result struct {
	Valid   bool            `json:"valid"`
	Answers model.AnswerSet `json:"answers,omitempty"`
	Errors  Errors          `json:"errors,omitempty"`
}

// Err returns the field errors as an error, or nil when the result is valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return r.Errors
}

// Option configures a Validator.
type Option func(*Validator)

// WithConditionEvaluator overrides the evaluator used by required_if rules.
func WithConditionEvaluator(eval condition.Evaluator) Option {
	return func(v *Validator) {
		if eval != nil {
			v.conditions = eval
		}
	}
}

// WithExtras exposes values outside the step (for example answers from earlier
// steps) to required_if conditions under the `extras.` prefix.
func WithExtras(extras map[string]any) Option {
	return func(v *Validator) {
		v.extras = extras
	}
}

// Validator evaluates step rule tables. It is safe for concurrent use once
// constructed.
type Validator struct {
	v          *validator.Validate
	conditions condition.Evaluator
	extras     map[string]any
}

// New creates a Validator backed by go-playground/validator.
func New(options ...Option) *Validator {
	val := &Validator{
		v:          validator.New(),
		conditions: expr.New(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(val)
		}
	}
	return val
}

var defaultValidator = New()

// Validate checks answers against rules using the default Validator.
func Validate(answers model.AnswerSet, rules []model.FieldRule) Result {
	return defaultValidator.Validate(answers, rules)
}

// Validate evaluates every rule and collects all violations. Fields absent
// from answers are treated as empty. The function has no side effects, so
// repeated calls with the same input return equal results.
func (val *Validator) Validate(answers model.AnswerSet, rules []model.FieldRule) Result {
	errs := make(Errors)
	for _, rule := range rules {
		if msg, ok := val.check(answers, rule); !ok {
			errs.add(rule.Field, msg)
		}
	}
	if len(errs) > 0 {
		return Result{Valid: false, Errors: errs}
	}
	return Result{Valid: true, Answers: answers}
}

// ValidateField evaluates only the rules attached to one field, returning the
// first failing message. Interactive sessions use it to re-check a single
// prompt.
func (val *Validator) ValidateField(answers model.AnswerSet, rules []model.FieldRule, field string) (string, bool) {
	for _, rule := range rules {
		if rule.Field != field {
			continue
		}
		if msg, ok := val.check(answers, rule); !ok {
			return msg, false
		}
	}
	return "", true
}

func (val *Validator) check(answers model.AnswerSet, rule model.FieldRule) (string, bool) {
	switch rule.Kind {
	case model.RuleRequired:
		return val.required(answers, rule)
	case model.RuleRequiredIf:
		if !val.applies(answers, rule) {
			return "", true
		}
		return val.required(answers, rule)
	case model.RuleOptionalSequence:
		if _, ok := answers.Strings(rule.Field); !ok {
			return messageOr(rule, fmt.Sprintf("%s must be a list of choices", rule.Field)), false
		}
		return "", true
	case model.RuleOptional:
		if answers.Has(rule.Field) {
			if _, ok := answers[rule.Field].(string); !ok {
				return messageOr(rule, fmt.Sprintf("%s must be text", rule.Field)), false
			}
		}
		return "", true
	default:
		// Unknown kinds are rejected by CheckRules; validation ignores them.
		return "", true
	}
}

func (val *Validator) required(answers model.AnswerSet, rule model.FieldRule) (string, bool) {
	value := ""
	if raw, present := answers[rule.Field]; present && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return messageOr(rule, fmt.Sprintf("%s must be text", rule.Field)), false
		}
		value = s
	}
	if err := val.v.Var(value, "required"); err != nil {
		return messageOr(rule, fmt.Sprintf("%s is required", rule.Field)), false
	}
	return "", true
}

// applies reports whether a required_if rule is active. Conditions that fail
// to evaluate keep the field required.
func (val *Validator) applies(answers model.AnswerSet, rule model.FieldRule) bool {
	ok, err := val.conditions.Eval(rule.Field, rule.When, condition.Context{
		Answers: answers,
		Extras:  val.extras,
	})
	if err != nil {
		return true
	}
	return ok
}

func messageOr(rule model.FieldRule, fallback string) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fallback
}
