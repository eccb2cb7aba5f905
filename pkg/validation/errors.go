package validation

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports one violated rule for one field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors maps field names to the message of the first rule they violated. It
// satisfies error so callers can return it directly.
type Errors map[string]string

// Error joins every field error in field order.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation: no errors"
	}
	parts := make([]string, 0, len(e))
	for _, verr := range e.ValidationErrors() {
		parts = append(parts, verr.Error())
	}
	return "validation: " + strings.Join(parts, "; ")
}

// Fields returns the failing field names sorted alphabetically.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// ValidationErrors lists the errors sorted by field.
func (e Errors) ValidationErrors() []ValidationError {
	out := make([]ValidationError, 0, len(e))
	for _, field := range e.Fields() {
		out = append(out, ValidationError{Field: field, Message: e[field]})
	}
	return out
}

// Messages converts the errors into the map[string][]string payload shape
// renderers consume.
func (e Errors) Messages() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e))
	for field, msg := range e {
		out[field] = []string{msg}
	}
	return out
}

func (e Errors) add(field, message string) {
	if _, exists := e[field]; exists {
		return
	}
	e[field] = message
}
