package steps_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/steps"
)

const contactYAML = `
steps:
  - id: contact
    title: CONTACT DETAILS
    questions:
      - name: phone
        kind: input
        label: Phone number
      - name: hasGuardian
        kind: yes_no_details
        label: Do you have a legal guardian?
        options: ["Yes", "No"]
        detailName: guardianName
    rules:
      - field: phone
        kind: required
        message: Please provide a phone number
      - field: hasGuardian
        kind: required
      - field: guardianName
        kind: required_if
        when: hasGuardian == "Yes"
`

const consentJSON = `{"steps":[{"id":"consent","title":"CONSENT","questions":[{"name":"agree","kind":"yes_no","label":"Do you agree?"}],"rules":[{"field":"agree","kind":"required"}]}]}`

func TestLoadFS_YAMLAndJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"b/contact.yaml": {Data: []byte(contactYAML)},
		"a/consent.json": {Data: []byte(consentJSON)},
		"README.md":      {Data: []byte("ignored")},
	}

	catalog, err := steps.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff([]string{"consent", "contact"}, catalog.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	contact, err := catalog.Step("contact")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	want := []model.FieldRule{
		{Field: "phone", Kind: model.RuleRequired, Message: "Please provide a phone number"},
		{Field: "hasGuardian", Kind: model.RuleRequired},
		{Field: "guardianName", Kind: model.RuleRequiredIf, When: `hasGuardian == "Yes"`},
	}
	if diff := cmp.Diff(want, contact.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_RejectsMalformedTables(t *testing.T) {
	broken := strings.Replace(contactYAML, `when: hasGuardian == "Yes"`, `when: hasGuardan == "Yes"`, 1)
	_, err := steps.LoadFS(fstest.MapFS{"contact.yaml": {Data: []byte(broken)}})
	if err == nil {
		t.Fatalf("expected error for unknown condition field")
	}
	if !strings.Contains(err.Error(), "contact.yaml") || !strings.Contains(err.Error(), `did you mean "hasGuardian"?`) {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := steps.LoadFS(fstest.MapFS{"empty.yaml": {Data: []byte("  ")}}); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	catalog, err := steps.LoadFS(nil)
	if err != nil {
		t.Fatalf("LoadFS(nil): %v", err)
	}
	if len(catalog.IDs()) != 0 {
		t.Fatalf("expected empty catalog")
	}
}

func TestCatalog_BuiltinAndDecorators(t *testing.T) {
	catalog := steps.Builtin()

	step, err := catalog.Step(steps.MedicalHistoryID, steps.ConditionalDetails())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	rules := step.RulesFor(steps.FieldSeriousInjuryDetails)
	if len(rules) != 1 || rules[0].Kind != model.RuleRequiredIf || rules[0].When != `seriousInjury == "Yes"` {
		t.Fatalf("decorator not applied: %+v", rules)
	}

	plain, err := catalog.Step(steps.MedicalHistoryID)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := plain.RulesFor(steps.FieldSeriousInjuryDetails)[0].Kind; got != model.RuleRequired {
		t.Fatalf("decorator leaked into catalog copy: %s", got)
	}

	if _, err := catalog.Step("payment"); !errors.Is(err, steps.ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}

	failing := model.DecoratorFunc(func(*model.Step) error { return errors.New("boom") })
	if _, err := catalog.Step(steps.MedicalHistoryID, failing); err == nil {
		t.Fatalf("expected decorator error")
	}
}

func TestCatalog_DuplicateAndMerge(t *testing.T) {
	catalog := steps.Builtin()
	if err := catalog.Add(steps.MedicalHistory()); err == nil {
		t.Fatalf("expected duplicate error")
	}

	extra, err := steps.LoadFS(fstest.MapFS{"consent.json": {Data: []byte(consentJSON)}})
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if err := catalog.Merge(extra); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := cmp.Diff([]string{steps.MedicalHistoryID, "consent"}, catalog.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaults(t *testing.T) {
	got := steps.Defaults(steps.MedicalHistory())
	want := model.AnswerSet{
		"seriousInjury":         "",
		"seriousInjuryDetails":  "",
		"lastMedicalCheckup":    "",
		"allergies":             []string{},
		"otherAllergies":        "",
		"conditions":            []string{},
		"otherConditions":       "",
		"conditionsExplanation": "",
		"smoking":               "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestMedicalHistoryOptions(t *testing.T) {
	step := steps.MedicalHistory()
	allergies, _ := step.Question(steps.FieldAllergies)
	conditions, _ := step.Question(steps.FieldConditions)
	if len(allergies.Options) != 7 || len(conditions.Options) != 25 {
		t.Fatalf("unexpected option counts: %d allergies, %d conditions", len(allergies.Options), len(conditions.Options))
	}
}
