package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/condition"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/steps"
	"github.com/goliatone/go-intake/pkg/validation"
)

func completeAnswers() model.AnswerSet {
	return model.AnswerSet{
		"seriousInjury":         "Yes",
		"seriousInjuryDetails":  "Fractured arm in 2019",
		"lastMedicalCheckup":    "2023-01-01",
		"allergies":             []string{},
		"otherAllergies":        "None",
		"conditions":            []string{},
		"otherConditions":       "None",
		"conditionsExplanation": "",
		"smoking":               "No",
	}
}

func TestValidate_MissingInjuryDetails(t *testing.T) {
	answers := completeAnswers()
	answers["seriousInjuryDetails"] = ""

	result := validation.Validate(answers, steps.MedicalHistoryRules())
	if result.Valid {
		t.Fatalf("expected failure")
	}
	want := validation.Errors{"seriousInjuryDetails": "Please provide details about the injury"}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if result.Answers != nil {
		t.Fatalf("expected no answers on failure, got %#v", result.Answers)
	}
}

func TestValidate_CompleteAnswersPassUnchanged(t *testing.T) {
	answers := completeAnswers()

	result := validation.Validate(answers, steps.MedicalHistoryRules())
	if !result.Valid {
		t.Fatalf("expected success, got %v", result.Errors)
	}
	if diff := cmp.Diff(completeAnswers(), result.Answers); diff != "" {
		t.Fatalf("answers changed (-want +got):\n%s", diff)
	}
	if result.Err() != nil {
		t.Fatalf("expected nil Err on success")
	}
}

func TestValidate_OtherAllergiesRequiredEvenWithSelections(t *testing.T) {
	answers := completeAnswers()
	answers["allergies"] = []string{"Aspirin", "Sulfa Drugs"}
	answers["otherAllergies"] = ""

	result := validation.Validate(answers, steps.MedicalHistoryRules())
	want := validation.Errors{"otherAllergies": "Please specify your other allergies"}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

// Details stay required after a "No" answer. Changing this must be a
// deliberate switch to the conditional table.
func TestValidate_InjuryDetailsRequiredAfterNo(t *testing.T) {
	answers := completeAnswers()
	answers["seriousInjury"] = "No"
	answers["seriousInjuryDetails"] = ""

	result := validation.Validate(answers, steps.MedicalHistoryRules())
	if result.Valid {
		t.Fatalf("expected details to be required after a No answer")
	}
	if diff := cmp.Diff([]string{"seriousInjuryDetails"}, result.Errors.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ConditionalDetailsTable(t *testing.T) {
	rules := steps.MedicalHistoryConditional().Rules

	answers := completeAnswers()
	answers["seriousInjury"] = "No"
	answers["seriousInjuryDetails"] = ""
	if result := validation.Validate(answers, rules); !result.Valid {
		t.Fatalf("expected success after No answer, got %v", result.Errors)
	}

	answers["seriousInjury"] = "Yes"
	result := validation.Validate(answers, rules)
	want := validation.Errors{"seriousInjuryDetails": "Please provide details about the injury"}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_EachMissingRequiredFieldReportedAlone(t *testing.T) {
	required := []string{
		"seriousInjury",
		"seriousInjuryDetails",
		"lastMedicalCheckup",
		"otherAllergies",
		"otherConditions",
		"smoking",
	}
	for _, field := range required {
		for _, variant := range []string{"empty", "absent"} {
			answers := completeAnswers()
			if variant == "empty" {
				answers[field] = ""
			} else {
				delete(answers, field)
			}

			result := validation.Validate(answers, steps.MedicalHistoryRules())
			if result.Valid {
				t.Fatalf("%s (%s): expected failure", field, variant)
			}
			if diff := cmp.Diff([]string{field}, result.Errors.Fields()); diff != "" {
				t.Fatalf("%s (%s): fields mismatch (-want +got):\n%s", field, variant, diff)
			}
		}
	}
}

func TestValidate_OptionalFieldsMayBeAbsent(t *testing.T) {
	answers := completeAnswers()
	delete(answers, "allergies")
	delete(answers, "conditions")
	delete(answers, "conditionsExplanation")

	if result := validation.Validate(answers, steps.MedicalHistoryRules()); !result.Valid {
		t.Fatalf("expected success, got %v", result.Errors)
	}
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	result := validation.Validate(model.AnswerSet{}, steps.MedicalHistoryRules())

	want := validation.Errors{
		"seriousInjury":        "Please select if you had a serious injury",
		"seriousInjuryDetails": "Please provide details about the injury",
		"lastMedicalCheckup":   "Please provide the date of your last medical checkup",
		"otherAllergies":       "Please specify your other allergies",
		"otherConditions":      "Please specify your other conditions",
		"smoking":              "Please indicate if you smoke or chew tobacco products",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	answers := completeAnswers()
	answers["smoking"] = ""
	answers["otherConditions"] = ""

	first := validation.Validate(answers, steps.MedicalHistoryRules())
	second := validation.Validate(answers, steps.MedicalHistoryRules())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ (-first +second):\n%s", diff)
	}
}

func TestValidate_WrongValueTypes(t *testing.T) {
	answers := completeAnswers()
	answers["allergies"] = "Aspirin"
	answers["smoking"] = []string{"No"}

	result := validation.Validate(answers, steps.MedicalHistoryRules())
	want := validation.Errors{
		"allergies": "allergies must be a list of choices",
		"smoking":   "Please indicate if you smoke or chew tobacco products",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_FirstFailingRuleWinsPerField(t *testing.T) {
	rules := []model.FieldRule{
		{Field: "name", Kind: model.RuleRequired, Message: "first"},
		{Field: "name", Kind: model.RuleRequiredIf, When: "flag", Message: "second"},
	}
	result := validation.Validate(model.AnswerSet{"flag": "on"}, rules)
	if got := result.Errors["name"]; got != "first" {
		t.Fatalf("expected first message, got %q", got)
	}
}

func TestValidate_DefaultMessage(t *testing.T) {
	rules := []model.FieldRule{{Field: "name", Kind: model.RuleRequired}}
	result := validation.Validate(nil, rules)
	if got := result.Errors["name"]; got != "name is required" {
		t.Fatalf("unexpected default message %q", got)
	}
}

func TestValidator_CustomEvaluatorAndExtras(t *testing.T) {
	rules := []model.FieldRule{{Field: "guardian", Kind: model.RuleRequiredIf, When: "extras.minor == true"}}

	v := validation.New(validation.WithExtras(map[string]any{"minor": true}))
	if result := v.Validate(model.AnswerSet{}, rules); result.Valid {
		t.Fatalf("expected guardian to be required for minors")
	}

	never := condition.EvaluatorFunc(func(string, string, condition.Context) (bool, error) {
		return false, nil
	})
	v = validation.New(validation.WithConditionEvaluator(never))
	if result := v.Validate(model.AnswerSet{}, rules); !result.Valid {
		t.Fatalf("expected custom evaluator to disable the rule, got %v", result.Errors)
	}
}

func TestValidator_BrokenConditionKeepsFieldRequired(t *testing.T) {
	rules := []model.FieldRule{{Field: "details", Kind: model.RuleRequiredIf, When: `answer = "Yes"`}}
	if result := validation.Validate(model.AnswerSet{}, rules); result.Valid {
		t.Fatalf("expected unparsable condition to keep the field required")
	}
}

func TestValidator_ValidateField(t *testing.T) {
	v := validation.New()
	rules := steps.MedicalHistoryRules()

	msg, ok := v.ValidateField(model.AnswerSet{"smoking": ""}, rules, "smoking")
	if ok || msg != "Please indicate if you smoke or chew tobacco products" {
		t.Fatalf("unexpected result %q %v", msg, ok)
	}
	if _, ok := v.ValidateField(model.AnswerSet{}, rules, "conditions"); !ok {
		t.Fatalf("expected optional sequence to pass")
	}
}

func TestErrors_Formatting(t *testing.T) {
	errs := validation.Errors{"smoking": "required", "allergies": "bad"}

	if got, want := errs.Error(), "validation: allergies: bad; smoking: required"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	want := []validation.ValidationError{
		{Field: "allergies", Message: "bad"},
		{Field: "smoking", Message: "required"},
	}
	if diff := cmp.Diff(want, errs.ValidationErrors()); diff != "" {
		t.Fatalf("ValidationErrors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string][]string{"allergies": {"bad"}, "smoking": {"required"}}, errs.Messages()); diff != "" {
		t.Fatalf("Messages mismatch (-want +got):\n%s", diff)
	}
}
