package model

// QuestionKind identifies the widget used to ask a question.
type QuestionKind string

const (
	// QuestionYesNoDetails asks a Yes/No question followed by a free text
	// details field bound to DetailName.
	QuestionYesNoDetails QuestionKind = "yes_no_details"
	// QuestionInput asks for a single line of free text.
	QuestionInput QuestionKind = "input"
	// QuestionCheckboxes offers a multi-select list plus an "other" free text
	// field bound to OtherName.
	QuestionCheckboxes QuestionKind = "checkboxes"
	// QuestionYesNo asks a Yes/No question without details.
	QuestionYesNo QuestionKind = "yes_no"
)

// Answers accepted by Yes/No questions.
const (
	AnswerYes = "Yes"
	AnswerNo  = "No"
)

// RuleKind names a field constraint.
type RuleKind string

const (
	// RuleRequired fails when the value is absent or an empty string.
	RuleRequired RuleKind = "required"
	// RuleRequiredIf behaves like RuleRequired when the When condition holds.
	RuleRequiredIf RuleKind = "required_if"
	// RuleOptionalSequence accepts an absent value or a sequence of strings.
	RuleOptionalSequence RuleKind = "optional_sequence"
	// RuleOptional accepts any string, including empty.
	RuleOptional RuleKind = "optional"
)

// Known reports whether the kind is one the validator understands.
func (k RuleKind) Known() bool {
	switch k {
	case RuleRequired, RuleRequiredIf, RuleOptionalSequence, RuleOptional:
		return true
	default:
		return false
	}
}

// FieldRule attaches a single constraint to one field of an AnswerSet. When is
// a condition expression (see pkg/condition/expr) consulted only by
// RuleRequiredIf.
type FieldRule struct {
	Field   string   `json:"field" yaml:"field"`
	Kind    RuleKind `json:"kind" yaml:"kind"`
	Message string   `json:"message,omitempty" yaml:"message,omitempty"`
	When    string   `json:"when,omitempty" yaml:"when,omitempty"`
}

// Question describes how one prompt is presented. Help may carry inline HTML
// and is sanitized by renderers before output.
type Question struct {
	Name        string       `json:"name" yaml:"name"`
	Kind        QuestionKind `json:"kind" yaml:"kind"`
	Label       string       `json:"label" yaml:"label"`
	Help        string       `json:"help,omitempty" yaml:"help,omitempty"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	DetailName  string       `json:"detailName,omitempty" yaml:"detailName,omitempty"`
	DetailLabel string       `json:"detailLabel,omitempty" yaml:"detailLabel,omitempty"`
	OtherName   string       `json:"otherName,omitempty" yaml:"otherName,omitempty"`
	OtherLabel  string       `json:"otherLabel,omitempty" yaml:"otherLabel,omitempty"`
}

// FieldNames returns the AnswerSet keys bound by the question in display
// order.
func (q Question) FieldNames() []string {
	names := []string{q.Name}
	switch q.Kind {
	case QuestionYesNoDetails:
		if q.DetailName != "" {
			names = append(names, q.DetailName)
		}
	case QuestionCheckboxes:
		if q.OtherName != "" {
			names = append(names, q.OtherName)
		}
	}
	return names
}

// Step is one page of a wizard: its questions and the rule table that guards
// advancement to the next page.
type Step struct {
	ID        string      `json:"id" yaml:"id"`
	Title     string      `json:"title" yaml:"title"`
	Questions []Question  `json:"questions" yaml:"questions"`
	Rules     []FieldRule `json:"rules" yaml:"rules"`
}

// FieldNames lists every field bound by the step's questions in display
// order.
func (s Step) FieldNames() []string {
	var out []string
	for _, q := range s.Questions {
		out = append(out, q.FieldNames()...)
	}
	return out
}

// Question returns the question that binds the named field, including detail
// and "other" companions.
func (s Step) Question(field string) (Question, bool) {
	for _, q := range s.Questions {
		for _, name := range q.FieldNames() {
			if name == field {
				return q, true
			}
		}
	}
	return Question{}, false
}

// RulesFor returns the rules attached to a field in table order.
func (s Step) RulesFor(field string) []FieldRule {
	var out []FieldRule
	for _, rule := range s.Rules {
		if rule.Field == field {
			out = append(out, rule)
		}
	}
	return out
}

// Required reports whether the field carries a required or conditionally
// required rule.
func (s Step) Required(field string) bool {
	for _, rule := range s.RulesFor(field) {
		if rule.Kind == RuleRequired || rule.Kind == RuleRequiredIf {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the step so decorators can mutate it freely.
func (s Step) Clone() Step {
	out := s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	out.Rules = append([]FieldRule(nil), s.Rules...)
	return out
}
