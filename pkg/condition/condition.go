// Package condition declares the contract used to decide whether a
// conditional field rule applies to the current answers.
package condition

import "github.com/goliatone/go-intake/pkg/model"

// Evaluator decides whether a condition holds for a field given the answers
// collected so far.
type Evaluator interface {
	Eval(field, condition string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Answers holds the step's current
// values; Extras lets hosts inject values that are not part of the step, such
// as answers from earlier steps, under the `extras.` prefix.
type Context struct {
	Answers model.AnswerSet
	Extras  map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field, condition string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(field, condition string, ctx Context) (bool, error) {
	return fn(field, condition, ctx)
}
