package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeAnswers(t *testing.T) {
	want := AnswerSet{
		"seriousInjury": "No",
		"allergies":     []string{"Aspirin", "Sulfa Drugs"},
		"conditions":    []string{},
		"smoking":       "",
	}

	cases := map[string]struct {
		format string
		data   string
	}{
		"json":                      {"json", `{"seriousInjury":"No","allergies":["Aspirin","Sulfa Drugs"],"conditions":[],"smoking":null}`},
		"yaml":                      {".yaml", "seriousInjury: \"No\"\nallergies:\n  - Aspirin\n  - Sulfa Drugs\nconditions: []\nsmoking:\n"},
		"default format reads json": {"", `{"seriousInjury":"No","allergies":["Aspirin","Sulfa Drugs"],"conditions":[],"smoking":null}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeAnswers([]byte(tc.data), tc.format)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("answers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeAnswersUnquotedScalars(t *testing.T) {
	data := "lastMedicalCheckup: 2024\nvisit: 2024-03-01\nsmoking: false\nconditions: [Asthma, 12]\n"
	got, err := DecodeAnswers([]byte(data), "yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := AnswerSet{
		"lastMedicalCheckup": "2024",
		"visit":              "2024-03-01",
		"smoking":            "false",
		"conditions":         []string{"Asthma", "12"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}

	got, err = DecodeAnswers([]byte(`{"lastMedicalCheckup":2024}`), "json")
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if got.String("lastMedicalCheckup") != "2024" {
		t.Fatalf("expected numeric json value as text, got %#v", got["lastMedicalCheckup"])
	}
}

func TestDecodeAnswersErrors(t *testing.T) {
	if _, err := DecodeAnswers([]byte(`{}`), "toml"); err == nil || !strings.Contains(err.Error(), `unsupported answers format "toml"`) {
		t.Fatalf("expected format error, got %v", err)
	}
	if _, err := DecodeAnswers([]byte(`{"a":`), "json"); err == nil || !strings.Contains(err.Error(), "decode answers") {
		t.Fatalf("expected decode error, got %v", err)
	}
	if _, err := DecodeAnswers([]byte("a:\n  b: 1\n"), "yaml"); err == nil || !strings.Contains(err.Error(), "unsupported value type") {
		t.Fatalf("expected value type error, got %v", err)
	}
}
