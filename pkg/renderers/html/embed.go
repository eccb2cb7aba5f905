package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/partials/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle so hosts can copy it as a
// starting point for their own overrides.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
