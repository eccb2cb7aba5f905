package model

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// AnswerSet maps field names to the values collected for one step. Values are
// strings or ordered string sequences; []any holding strings (as produced by
// JSON and YAML decoders) is read as a sequence.
type AnswerSet map[string]any

// Has reports whether the field is present, even when empty.
func (a AnswerSet) Has(field string) bool {
	if a == nil {
		return false
	}
	_, ok := a[field]
	return ok
}

// String returns the string value of a field. Absent fields and values of any
// other type read as "".
func (a AnswerSet) String(field string) string {
	if a == nil {
		return ""
	}
	value, ok := a[field].(string)
	if !ok {
		return ""
	}
	return value
}

// Strings returns the sequence value of a field. The bool result is false when
// the field holds something other than a sequence of strings.
func (a AnswerSet) Strings(field string) ([]string, bool) {
	if a == nil {
		return nil, true
	}
	return asStrings(a[field])
}

// Set writes a value, allocating the map when needed, and returns the set so
// calls can be chained on a nil receiver.
func (a AnswerSet) Set(field string, value any) AnswerSet {
	if a == nil {
		a = make(AnswerSet)
	}
	a[field] = value
	return a
}

// Keys returns the field names in sorted order.
func (a AnswerSet) Keys() []string {
	keys := make([]string, 0, len(a))
	for key := range a {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy so a hand-off cannot be mutated through the
// caller's map.
func (a AnswerSet) Clone() AnswerSet {
	if a == nil {
		return nil
	}
	out := make(AnswerSet, len(a))
	for key, value := range a {
		out[key] = deepCopy(value)
	}
	return out
}

// Merge returns a copy of a with the entries of other applied on top.
func (a AnswerSet) Merge(other AnswerSet) AnswerSet {
	out := a.Clone()
	if out == nil {
		out = make(AnswerSet, len(other))
	}
	for key, value := range other {
		out[key] = deepCopy(value)
	}
	return out
}

// Normalize converts decoded values into the shapes validation reads. Scalars
// a decoder typed on its own (numbers, booleans, dates from unquoted YAML)
// become their text; sequences become []string. Nested mappings are rejected.
func (a AnswerSet) Normalize() (AnswerSet, error) {
	out := make(AnswerSet, len(a))
	for key, value := range a {
		if text, ok := scalarText(value); ok {
			out[key] = text
			continue
		}
		switch typed := value.(type) {
		case []string:
			out[key] = append([]string(nil), typed...)
		case []any:
			seq := make([]string, 0, len(typed))
			for i, item := range typed {
				text, ok := scalarText(item)
				if !ok {
					return nil, fmt.Errorf("model: field %q item %d has unsupported value type %T", key, i, item)
				}
				seq = append(seq, text)
			}
			out[key] = seq
		default:
			return nil, fmt.Errorf("model: field %q has unsupported value type %T", key, value)
		}
	}
	return out, nil
}

func scalarText(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", true
	case string:
		return typed, true
	case bool:
		return strconv.FormatBool(typed), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(typed), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case time.Time:
		if typed.Equal(typed.Truncate(24 * time.Hour)) {
			return typed.Format(time.DateOnly), true
		}
		return typed.Format(time.RFC3339), true
	default:
		return "", false
	}
}

func asStrings(value any) ([]string, bool) {
	switch typed := value.(type) {
	case nil:
		return nil, true
	case []string:
		return typed, true
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case []string:
		if typed == nil {
			return typed
		}
		clone := make([]string, len(typed))
		copy(clone, typed)
		return clone
	case []any:
		if typed == nil {
			return typed
		}
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}
