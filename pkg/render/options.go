package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-intake/pkg/model"
)

// RenderOptions carry per-request data renderers use to customise output
// without mutating the step definition.
type RenderOptions struct {
	// Action is the form submission URL. Empty submits to the current page.
	Action string
	// Values pre-populates controls, typically the host's initial answers or
	// the answers of a blocked submission.
	Values model.AnswerSet
	// Errors surfaces validation feedback keyed by field name. Keys that do
	// not match a field of the step are shown as form-level messages.
	Errors map[string][]string
	// Hidden lists hidden inputs such as CSRF tokens or the step id.
	Hidden []HiddenField
	// Theme carries an optional go-theme selection whose manifest tokens are
	// exposed to templates.
	Theme *theme.Selection
}
