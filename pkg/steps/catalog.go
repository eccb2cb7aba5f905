package steps

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/validation"
)

// ErrUnknownStep is returned when a catalog has no step with the requested id.
var ErrUnknownStep = errors.New("steps: unknown step")

// Catalog indexes step definitions by id and remembers registration order.
type Catalog struct {
	steps map[string]model.Step
	order []string
}

// NewCatalog builds a catalog from the supplied steps. Every step is checked
// with validation.CheckStep.
func NewCatalog(defs ...model.Step) (*Catalog, error) {
	c := &Catalog{steps: make(map[string]model.Step, len(defs))}
	for _, def := range defs {
		if err := c.Add(def); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Builtin returns a catalog holding the Medical History step.
func Builtin() *Catalog {
	c, err := NewCatalog(MedicalHistory())
	if err != nil {
		panic(err)
	}
	return c
}

// Add registers a step after checking its definition.
func (c *Catalog) Add(step model.Step) error {
	id := strings.TrimSpace(step.ID)
	if id == "" {
		return errors.New("steps: step id is required")
	}
	if _, exists := c.steps[id]; exists {
		return fmt.Errorf("steps: duplicate step %q", id)
	}
	if err := validation.CheckStep(step).Err(); err != nil {
		return fmt.Errorf("steps: step %q: %w", id, err)
	}
	step.ID = id
	c.steps[id] = step.Clone()
	c.order = append(c.order, id)
	return nil
}

// Step returns a copy of the step with the decorators applied in order.
func (c *Catalog) Step(id string, decorators ...model.Decorator) (model.Step, error) {
	if c == nil {
		return model.Step{}, fmt.Errorf("%w %q", ErrUnknownStep, id)
	}
	step, ok := c.steps[strings.TrimSpace(id)]
	if !ok {
		return model.Step{}, fmt.Errorf("%w %q", ErrUnknownStep, id)
	}
	step = step.Clone()
	for _, dec := range decorators {
		if dec == nil {
			continue
		}
		if err := dec.Decorate(&step); err != nil {
			return model.Step{}, fmt.Errorf("steps: decorate %q: %w", id, err)
		}
	}
	if err := validation.CheckStep(step).Err(); err != nil {
		return model.Step{}, fmt.Errorf("steps: decorated step %q: %w", id, err)
	}
	return step, nil
}

// IDs returns the step ids in registration order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Steps returns copies of every step in registration order.
func (c *Catalog) Steps() []model.Step {
	if c == nil {
		return nil
	}
	out := make([]model.Step, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.steps[id].Clone())
	}
	return out
}

// Merge adds every step of other that c does not already hold.
func (c *Catalog) Merge(other *Catalog) error {
	if other == nil {
		return nil
	}
	for _, step := range other.Steps() {
		if _, exists := c.steps[step.ID]; exists {
			return fmt.Errorf("steps: duplicate step %q", step.ID)
		}
		if err := c.Add(step); err != nil {
			return err
		}
	}
	return nil
}

type documentFile struct {
	Steps []model.Step `json:"steps" yaml:"steps"`
}

// LoadFS walks fsys and parses every JSON or YAML file as a list of step
// definitions. Files are read in lexical order so registration order is
// stable. A nil fsys yields an empty catalog.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{steps: make(map[string]model.Step)}
	if fsys == nil {
		return c, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() && isDefinitionFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("steps: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return nil, err
		}
		for _, step := range doc.Steps {
			if err := c.Add(step); err != nil {
				return nil, fmt.Errorf("%w (file %s)", err, path)
			}
		}
	}
	return c, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("steps: file %s is empty", source)
	}
	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("steps: parse %s: %w", source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("steps: parse %s: %w", source, err)
	}
	return doc, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
