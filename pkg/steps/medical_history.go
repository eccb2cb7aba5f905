package steps

import "github.com/goliatone/go-intake/pkg/model"

// MedicalHistoryID identifies the Medical History step.
const MedicalHistoryID = "medical-history"

// Field names bound by the Medical History step.
const (
	FieldSeriousInjury         = "seriousInjury"
	FieldSeriousInjuryDetails  = "seriousInjuryDetails"
	FieldLastMedicalCheckup    = "lastMedicalCheckup"
	FieldAllergies             = "allergies"
	FieldOtherAllergies        = "otherAllergies"
	FieldConditions            = "conditions"
	FieldOtherConditions       = "otherConditions"
	FieldConditionsExplanation = "conditionsExplanation"
	FieldSmoking               = "smoking"
)

// AllergyOptions lists the allergy checkboxes in display order.
var AllergyOptions = []string{
	"Latex or Rubber Materials",
	"Penicillin or other Antibiotics",
	"Local anesthetics",
	"Codeine or other Narcotics",
	"Sulfa Drugs",
	"Barbiturates, Sedatives, or Sleeping Pills",
	"Aspirin",
}

// ConditionOptions lists the condition checkboxes in display order.
var ConditionOptions = []string{
	"Asthma",
	"Allergies or Hives",
	"Hay Fever or Sinus Problems",
	"High or Low Blood Pressure",
	"Heart Valve Replacement, Heart Pain/Angina, Heart Murmur",
	"Infective Endocarditis (infection of the heart), Congenital Heart Disease (heart condition from birth)",
	"Heart Transplant",
	"Pacemaker",
	"Prosthetic or Artificial Joint",
	"Immune System - Leukemia, AIDS, HIV, Radiotherapy, Chemotherapy",
	"Hepatitis, Jaundice, Liver Disease",
	"Anemia or Bleeding Disorder",
	"Rheumatic Fever or Rheumatic Heart Disease",
	"Tuberculosis or Other lung Problems",
	"Kidney Disease",
	"Cancer",
	"Stroke",
	"Diabetes",
	"Herpes or Cold Sores",
	"Epilepsy, Seizures, or fainting spells",
	"Arthritis",
	"Migraine headaches or frequent headaches",
	"Psychological conditions (Depression, Bipolar Disorder, Anorexia, Bulimia, etc.)",
	"Drug, Alcohol, or Cannabis use or dependency",
	"Osteoporosis",
}

// MedicalHistoryRules returns the rule table of the Medical History step.
//
// seriousInjuryDetails is required no matter how seriousInjury is answered.
// The page only makes sense for details when the answer is "Yes", but the
// literal behavior is kept until product intent is settled; see
// ConditionalDetails for the alternative.
func MedicalHistoryRules() []model.FieldRule {
	return []model.FieldRule{
		{Field: FieldSeriousInjury, Kind: model.RuleRequired, Message: "Please select if you had a serious injury"},
		{Field: FieldSeriousInjuryDetails, Kind: model.RuleRequired, Message: "Please provide details about the injury"},
		{Field: FieldLastMedicalCheckup, Kind: model.RuleRequired, Message: "Please provide the date of your last medical checkup"},
		{Field: FieldAllergies, Kind: model.RuleOptionalSequence},
		{Field: FieldOtherAllergies, Kind: model.RuleRequired, Message: "Please specify your other allergies"},
		{Field: FieldConditions, Kind: model.RuleOptionalSequence},
		{Field: FieldOtherConditions, Kind: model.RuleRequired, Message: "Please specify your other conditions"},
		{Field: FieldConditionsExplanation, Kind: model.RuleOptional},
		{Field: FieldSmoking, Kind: model.RuleRequired, Message: "Please indicate if you smoke or chew tobacco products"},
	}
}

// MedicalHistory returns the Medical History step with its questions and the
// literal rule table.
func MedicalHistory() model.Step {
	return model.Step{
		ID:    MedicalHistoryID,
		Title: "MEDICAL HISTORY",
		Questions: []model.Question{
			{
				Name:        FieldSeriousInjury,
				Kind:        model.QuestionYesNoDetails,
				Label:       "Have you had a serious injury in the past?",
				Options:     []string{model.AnswerYes, model.AnswerNo},
				DetailName:  FieldSeriousInjuryDetails,
				DetailLabel: "Please provide details",
			},
			{
				Name:  FieldLastMedicalCheckup,
				Kind:  model.QuestionInput,
				Label: "When was your last medical checkup?",
			},
			{
				Name:       FieldAllergies,
				Kind:       model.QuestionCheckboxes,
				Label:      "Are you allergic to or have reacted adversely to any of the following? (Select All That Apply)",
				Options:    append([]string(nil), AllergyOptions...),
				OtherName:  FieldOtherAllergies,
				OtherLabel: "Other",
			},
			{
				Name:       FieldConditions,
				Kind:       model.QuestionCheckboxes,
				Label:      "Do you have or have you had any of the following? (Select All That Apply)",
				Options:    append([]string(nil), ConditionOptions...),
				OtherName:  FieldOtherConditions,
				OtherLabel: "Other",
			},
			{
				Name:  FieldConditionsExplanation,
				Kind:  model.QuestionInput,
				Label: "If so, please explain.",
			},
			{
				Name:    FieldSmoking,
				Kind:    model.QuestionYesNo,
				Label:   "Do you smoke or chew tobacco products?",
				Options: []string{model.AnswerYes, model.AnswerNo},
			},
		},
		Rules: MedicalHistoryRules(),
	}
}

// ConditionalDetails returns a decorator that makes the details field of every
// Yes/No-with-details question required only when the paired answer is "Yes".
func ConditionalDetails() model.Decorator {
	return model.DecoratorFunc(func(step *model.Step) error {
		for _, q := range step.Questions {
			if q.Kind != model.QuestionYesNoDetails || q.DetailName == "" {
				continue
			}
			for i := range step.Rules {
				rule := &step.Rules[i]
				if rule.Field != q.DetailName || rule.Kind != model.RuleRequired {
					continue
				}
				rule.Kind = model.RuleRequiredIf
				rule.When = q.Name + ` == "` + model.AnswerYes + `"`
			}
		}
		return nil
	})
}

// MedicalHistoryConditional returns the Medical History step with details
// required only after a "Yes" answer.
func MedicalHistoryConditional() model.Step {
	step := MedicalHistory()
	// ConditionalDetails never fails.
	_ = ConditionalDetails().Decorate(&step)
	return step
}

// Defaults returns an AnswerSet seeding every field the step binds: empty
// strings for text and choice fields and empty sequences for checkbox lists.
func Defaults(step model.Step) model.AnswerSet {
	out := make(model.AnswerSet)
	for _, q := range step.Questions {
		switch q.Kind {
		case model.QuestionCheckboxes:
			out[q.Name] = []string{}
			if q.OtherName != "" {
				out[q.OtherName] = ""
			}
		case model.QuestionYesNoDetails:
			out[q.Name] = ""
			if q.DetailName != "" {
				out[q.DetailName] = ""
			}
		default:
			out[q.Name] = ""
		}
	}
	return out
}
