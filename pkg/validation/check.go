package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/goliatone/go-intake/pkg/condition/expr"
	"github.com/goliatone/go-intake/pkg/model"
)

// Issue describes a defect in a rule table or an AnswerSet that is a
// programming error rather than user input to report inline.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) Error() string {
	if i.Field == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// CheckResult captures the outcome of a table or answer check.
type CheckResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Err joins the issues into a single error, or returns nil when valid.
func (r CheckResult) Err() error {
	if r.Valid {
		return nil
	}
	errs := make([]error, 0, len(r.Issues))
	for _, issue := range r.Issues {
		errs = append(errs, issue)
	}
	return errors.Join(errs...)
}

func (r *CheckResult) add(field, format string, args ...any) {
	r.Valid = false
	r.Issues = append(r.Issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// CheckRules reports malformed rule tables: empty field names, unknown kinds,
// duplicate (field, kind) pairs and required_if rules whose condition is
// missing or does not parse.
func CheckRules(rules []model.FieldRule) CheckResult {
	result := CheckResult{Valid: true}
	seen := make(map[string]struct{}, len(rules))

	for idx, rule := range rules {
		field := strings.TrimSpace(rule.Field)
		if field == "" {
			result.add("", "rule %d has an empty field name", idx)
			continue
		}
		if field != rule.Field {
			result.add(rule.Field, "field name has surrounding whitespace")
		}
		if !rule.Kind.Known() {
			result.add(field, "unknown rule kind %q", rule.Kind)
			continue
		}
		key := field + "\x00" + string(rule.Kind)
		if _, dup := seen[key]; dup {
			result.add(field, "duplicate %s rule", rule.Kind)
		}
		seen[key] = struct{}{}

		if rule.Kind != model.RuleRequiredIf {
			if strings.TrimSpace(rule.When) != "" {
				result.add(field, "condition is only supported on %s rules", model.RuleRequiredIf)
			}
			continue
		}
		if strings.TrimSpace(rule.When) == "" {
			result.add(field, "%s rule needs a condition", model.RuleRequiredIf)
			continue
		}
		if _, err := expr.Compile(rule.When); err != nil {
			result.add(field, "invalid condition %q: %v", rule.When, err)
		}
	}

	return result
}

// CheckStep runs CheckRules and additionally verifies that every rule and
// condition names a field bound by one of the step's questions, and that every
// bound field is covered by the rule table.
func CheckStep(step model.Step) CheckResult {
	result := CheckRules(step.Rules)

	bound := make(map[string]struct{})
	for _, name := range step.FieldNames() {
		if _, dup := bound[name]; dup {
			result.add(name, "field is bound by more than one question")
		}
		bound[name] = struct{}{}
	}
	names := step.FieldNames()

	covered := make(map[string]struct{}, len(step.Rules))
	for _, rule := range step.Rules {
		covered[rule.Field] = struct{}{}
		if _, ok := bound[rule.Field]; !ok {
			result.add(rule.Field, "rule targets a field no question binds%s", suggestion(rule.Field, names))
		}
		if rule.Kind != model.RuleRequiredIf {
			continue
		}
		refs, err := expr.Identifiers(rule.When)
		if err != nil {
			continue
		}
		for _, ref := range refs {
			if _, ok := bound[ref]; !ok {
				result.add(rule.Field, "condition references unknown field %q%s", ref, suggestion(ref, names))
			}
		}
	}
	for _, name := range names {
		if _, ok := covered[name]; !ok {
			result.add(name, "field has no rule")
		}
	}
	return result
}

// CheckAnswers reports AnswerSet keys that no rule declares. Each issue carries
// a "did you mean" hint when a declared field is a close match.
func CheckAnswers(answers model.AnswerSet, rules []model.FieldRule) CheckResult {
	result := CheckResult{Valid: true}

	declared := make([]string, 0, len(rules))
	known := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		if _, ok := known[rule.Field]; ok {
			continue
		}
		known[rule.Field] = struct{}{}
		declared = append(declared, rule.Field)
	}

	for _, key := range answers.Keys() {
		if _, ok := known[key]; ok {
			continue
		}
		result.add(key, "unknown field%s", suggestion(key, declared))
	}
	return result
}

// suggestion returns a " (did you mean ...)" hint for the closest candidate
// within a third of the name's length.
func suggestion(name string, candidates []string) string {
	best := ""
	bestDist := len(name)/3 + 1
	for _, candidate := range candidates {
		dist := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(candidate))
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
