package model

// Decorator adjusts a step after its canonical definition has been built, for
// example swapping a rule kind or localizing labels.
type Decorator interface {
	Decorate(*Step) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Step) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(step *Step) error {
	return fn(step)
}
