package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeAnswers parses a JSON or YAML document into a normalized AnswerSet.
// format is "json" or "yaml"; an empty format is treated as YAML, which also
// accepts JSON input.
func DecodeAnswers(data []byte, format string) (AnswerSet, error) {
	raw := map[string]any{}
	var err error
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		err = json.Unmarshal(data, &raw)
	case "", "yaml", "yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("model: unsupported answers format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("model: decode answers: %w", err)
	}
	return AnswerSet(raw).Normalize()
}
