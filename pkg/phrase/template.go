package phrase

import (
	"strings"

	"github.com/goliatone/go-el/pkg/element"
)

// LangKey is the named-argument key that carries a locale, matching the
// element renderer's el-lang directive.
const LangKey = "el-lang"

// TemplateConfig configures the template phrase helper.
type TemplateConfig struct {
	// FuncName names the helper (defaults to "phrase").
	FuncName string
	// DefaultLocale is used when a call names no locale. Empty defers to the
	// phraser's own default.
	DefaultLocale string
}

// TemplateFuncs exposes p to template engines (e.g. via
// gotemplate.WithTemplateFunc) with the same lookup the renderer performs for
// el-content-phrase:
//
//	{{ phrase("welcome") }}
//	{{ phrase("welcome", locale) }}
//	{{ phrase("greeting", params) }}
//
// A string argument selects the locale. A map argument supplies the phrase
// options; its el-lang (or el_lang) entry selects the locale and is not
// passed on.
func TemplateFuncs(p element.Phraser, cfg TemplateConfig) map[string]any {
	funcName := strings.TrimSpace(cfg.FuncName)
	if funcName == "" {
		funcName = "phrase"
	}

	return map[string]any{
		funcName: func(key string, args ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			locale, options := phraseArgs(args)
			if locale == "" {
				locale = cfg.DefaultLocale
			}
			if p == nil {
				return key
			}
			return p.Phrase(key, options, nil, locale)
		},
	}
}

func phraseArgs(args []any) (string, map[string]any) {
	var locale string
	options := map[string]any{}
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			if locale == "" {
				locale = strings.TrimSpace(v)
			}
		case map[string]any:
			for key, value := range v {
				if key == LangKey || key == "el_lang" {
					if lang, ok := value.(string); ok && locale == "" {
						locale = strings.TrimSpace(lang)
					}
					continue
				}
				options[key] = value
			}
		}
	}
	return locale, options
}
