// Package render defines the contract shared by step renderers together with
// the helpers they rely on: inline error mapping and hidden form inputs.
package render

import (
	"context"

	"github.com/goliatone/go-intake/pkg/model"
)

// Renderer converts a wizard step into a byte representation (HTML, text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, step model.Step, options RenderOptions) ([]byte, error)
}
