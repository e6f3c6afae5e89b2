package element

import (
	"html/template"
	"strings"
)

// TemplateFuncsConfig configures the html/template helper map.
type TemplateFuncsConfig struct {
	// FuncName customizes the helper name (defaults to "el").
	FuncName string
}

// TemplateFuncs returns a map suitable for html/template.Funcs. The helper
// signature is:
//
//	el(args..., hash?) template.HTML
//
// where a trailing map[string]any carries the named arguments. The result is
// marked as safe HTML since the renderer escapes internally.
func TemplateFuncs(r *Renderer, cfg TemplateFuncsConfig) template.FuncMap {
	if r == nil {
		r = New()
	}
	name := strings.TrimSpace(cfg.FuncName)
	if name == "" {
		name = "el"
	}

	return template.FuncMap{
		name: func(args ...any) (template.HTML, error) {
			out, err := r.RenderArgs(args...)
			if err != nil {
				return "", err
			}
			return template.HTML(out), nil
		},
		name + "_attrs": func(pairs ...any) map[string]any {
			return Attrs(pairs...)
		},
	}
}

// Attrs builds a named-argument map from alternating key/value pairs. A
// trailing key without a value is ignored.
func Attrs(pairs ...any) map[string]any {
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key := strings.TrimSpace(ValueOf(pairs[i]).String())
		if key == "" {
			continue
		}
		out[key] = pairs[i+1]
	}
	return out
}
