package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/steps"
)

// catalog returns the built-in steps plus any definitions under steps.dir.
func (g *globals) catalog() (*steps.Catalog, error) {
	cat := steps.Builtin()
	if g.cfg.Steps.Dir == "" {
		return cat, nil
	}
	extra, err := steps.LoadFS(os.DirFS(g.cfg.Steps.Dir))
	if err != nil {
		return nil, fmt.Errorf("load steps from %s: %w", g.cfg.Steps.Dir, err)
	}
	if err := cat.Merge(extra); err != nil {
		return nil, err
	}
	g.logger.V(1).Info("loaded step definitions", "dir", g.cfg.Steps.Dir, "steps", extra.IDs())
	return cat, nil
}

// orchestrator returns an orchestrator over the configured catalog. The
// conditional flag relaxes Yes/No details to be required only after a "Yes".
func (g *globals) orchestrator(conditional bool) (*orchestrator.Orchestrator, error) {
	cat, err := g.catalog()
	if err != nil {
		return nil, err
	}
	opts := []orchestrator.Option{
		orchestrator.WithCatalog(cat),
		orchestrator.WithLogger(g.logger),
	}
	if conditional {
		opts = append(opts, orchestrator.WithDecorators(steps.ConditionalDetails()))
	}
	return orchestrator.New(opts...), nil
}

// readAnswers decodes an AnswerSet from a JSON or YAML file; the extension
// picks the decoder and anything but .json is read as YAML.
func readAnswers(path string) (model.AnswerSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	answers, err := model.DecodeAnswers(data, format)
	if err != nil {
		return nil, fmt.Errorf("answers %s: %w", path, err)
	}
	return answers, nil
}

// writeAnswers encodes answers as json or yaml.
func writeAnswers(w io.Writer, answers model.AnswerSet, format string) error {
	if answers == nil {
		answers = model.AnswerSet{}
	}
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(answers)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(answers)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}
