package render

import (
	"fmt"
	"sort"
	"strings"
)

// StepFieldName is the hidden input that tells the host which step posted.
const StepFieldName = "_step"

// HiddenField represents a hidden form input emitted alongside the step's
// questions.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token under the
// input name the host expects (for example "_csrf").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// StepField identifies the submitting step.
func StepField(stepID string) HiddenField {
	return Hidden(StepFieldName, stepID)
}

// NormalizeHiddenFields trims names, drops empty ones, lets later fields win
// on name collisions and sorts the result by name for deterministic output.
func NormalizeHiddenFields(fields ...HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		values[name] = field.Value
	}
	if len(values) == 0 {
		return nil
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: values[name]})
	}
	return out
}
