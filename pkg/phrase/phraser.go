package phrase

import (
	"strings"
)

// Phraser adapts any Translator to the element renderer's phrase contract.
type Phraser struct {
	Translator    Translator
	DefaultLocale string
	OnMissing     MissingTranslationHandler
}

// Phrase translates key, falling back to the handler and then to the key.
func (p Phraser) Phrase(key string, options map[string]any, _ any, locale string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if strings.TrimSpace(locale) == "" {
		locale = p.DefaultLocale
	}

	onMissing := p.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	if p.Translator == nil {
		return onMissing(locale, key, []any{options}, ErrMissingTranslator)
	}
	msg, err := p.Translator.Translate(locale, key, options)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(locale, key, []any{options}, err)
	}
	return msg
}
