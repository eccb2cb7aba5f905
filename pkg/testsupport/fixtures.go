// Package testsupport holds helpers shared by package tests: answer fixtures
// read from testdata and buffered template output.
package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/model"
)

// LoadAnswers reads a JSON or YAML answers fixture. The test fails when the
// file cannot be read or decoded.
func LoadAnswers(t *testing.T, path string) model.AnswerSet {
	t.Helper()

	answers, err := LoadAnswersFromPath(path)
	if err != nil {
		t.Fatalf("load answers: %v", err)
	}
	return answers
}

// LoadAnswersFromPath is LoadAnswers for callers without a *testing.T.
func LoadAnswersFromPath(path string) (model.AnswerSet, error) {
	if path == "" {
		return nil, errors.New("testsupport: answers path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read answers: %w", err)
	}
	return model.DecodeAnswers(data, filepath.Ext(path))
}

// AnswersFixtures returns the fixture files under dir matching pattern, in
// lexical order.
func AnswersFixtures(t *testing.T, dir, pattern string) []string {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		t.Fatalf("glob fixtures: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no fixtures match %s in %s", pattern, dir)
	}
	return paths
}

// DiffAnswers returns a cmp diff of two answer sets, empty when equal.
func DiffAnswers(want, got model.AnswerSet) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents so tests can check
// the two agree.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
