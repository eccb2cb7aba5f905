package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

type themeView struct {
	Name    string
	Variant string
	Style   string
}

// buildTheme flattens the manifest tokens of a selection, variant tokens
// overriding the base ones, into a :root block of CSS custom properties.
func buildTheme(selection *theme.Selection) themeView {
	if selection == nil {
		return themeView{}
	}
	view := themeView{Name: selection.Theme, Variant: selection.Variant}
	if selection.Manifest == nil {
		return view
	}

	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	view.Style = cssVarsStyle(tokens)
	return view
}

func cssVarsStyle(tokens map[string]string) string {
	keys := make([]string, 0, len(tokens))
	for key, value := range tokens {
		if cssVarName(key) == "" || !safeCSSValue(value) {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(cssVarName(key))
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(tokens[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// cssVarName maps a token key such as "brand.primary" to "--brand-primary".
func cssVarName(key string) string {
	key = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "--"))
	if key == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("--")
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == '.' || r == ' ' || r == '/':
			b.WriteByte('-')
		default:
			return ""
		}
	}
	return b.String()
}

// safeCSSValue rejects values that could close the declaration or the style
// element they are written into.
func safeCSSValue(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && !strings.ContainsAny(value, "<>{};\\")
}
