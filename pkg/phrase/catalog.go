package phrase

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrMissingTranslator is passed to a MissingTranslationHandler when no
// translator is configured.
var ErrMissingTranslator = errors.New("phrase: translator is not configured")

// ErrMissingPhrase is returned by Translate when no locale defines the key.
var ErrMissingPhrase = errors.New("phrase: missing phrase")

// Translator resolves a key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the string used when a translation
// fails.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, _ []any, _ error) string {
	return key
}

// Catalog is an in-memory Translator keyed by locale. It is safe for
// concurrent use.
type Catalog struct {
	mu            sync.RWMutex
	defaultLocale string
	languages     map[string]map[string]string
	onMissing     MissingTranslationHandler
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithDefaultLocale sets the locale used when callers pass none.
func WithDefaultLocale(locale string) Option {
	return func(c *Catalog) {
		c.defaultLocale = strings.TrimSpace(locale)
	}
}

// WithOnMissing overrides the missing translation handler.
func WithOnMissing(fn MissingTranslationHandler) Option {
	return func(c *Catalog) {
		if fn != nil {
			c.onMissing = fn
		}
	}
}

// NewCatalog creates an empty catalog.
func NewCatalog(options ...Option) *Catalog {
	c := &Catalog{
		languages: make(map[string]map[string]string),
		onMissing: missingTranslationDefault,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// AddLanguages merges phrases keyed by locale into the catalog. Later calls
// override earlier keys.
func (c *Catalog) AddLanguages(languages map[string]map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for locale, phrases := range languages {
		locale = strings.TrimSpace(locale)
		if locale == "" {
			continue
		}
		dest, ok := c.languages[locale]
		if !ok {
			dest = make(map[string]string, len(phrases))
			c.languages[locale] = dest
		}
		for key, msg := range phrases {
			dest[key] = msg
		}
	}
}

// SetDefaultLocale changes the locale used when callers pass none.
func (c *Catalog) SetDefaultLocale(locale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultLocale = strings.TrimSpace(locale)
}

// DefaultLocale returns the locale used when callers pass none.
func (c *Catalog) DefaultLocale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultLocale
}

// Locales returns the loaded locales in sorted order.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.languages))
	for locale := range c.languages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate implements Translator. A map[string]any argument supplies values
// for {name} placeholders.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrMissingPhrase)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, candidate := range c.localeChain(locale) {
		if msg, ok := c.languages[candidate][key]; ok {
			return interpolate(msg, args), nil
		}
	}
	return "", fmt.Errorf("%w: %q (locale %q)", ErrMissingPhrase, key, locale)
}

// Phrase implements element.Phraser. Missing keys go through the missing
// translation handler, which returns the key by default.
func (c *Catalog) Phrase(key string, options map[string]any, _ any, locale string) string {
	msg, err := c.Translate(locale, key, options)
	if err != nil {
		return c.onMissing(locale, key, []any{options}, err)
	}
	return msg
}

// localeChain lists locale, its base language ("en" for "en-GB") and the
// default locale, without duplicates.
func (c *Catalog) localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	chain := make([]string, 0, 3)
	seen := make(map[string]struct{}, 3)
	add := func(l string) {
		if l == "" {
			return
		}
		if _, ok := seen[l]; ok {
			return
		}
		seen[l] = struct{}{}
		chain = append(chain, l)
	}
	add(locale)
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		add(locale[:i])
	}
	add(c.defaultLocale)
	return chain
}

func interpolate(msg string, args []any) string {
	if !strings.Contains(msg, "{") {
		return msg
	}
	for _, arg := range args {
		params, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		for name, value := range params {
			msg = strings.ReplaceAll(msg, "{"+name+"}", fmt.Sprint(value))
		}
	}
	return msg
}

// LoadYAML reads a document of the form
//
//	default: en
//	languages:
//	  en:
//	    foo: foo phrase
//
// into the catalog.
func (c *Catalog) LoadYAML(r io.Reader) error {
	var doc struct {
		Default   string                       `yaml:"default"`
		Languages map[string]map[string]string `yaml:"languages"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("phrase: decode catalog: %w", err)
	}
	c.AddLanguages(doc.Languages)
	if doc.Default != "" && c.DefaultLocale() == "" {
		c.SetDefaultLocale(doc.Default)
	}
	return nil
}

// LoadFS walks fsys and loads every .yaml/.yml catalog file.
func (c *Catalog) LoadFS(fsys fs.FS) error {
	if fsys == nil {
		return nil
	}
	return fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
		default:
			return nil
		}
		f, err := fsys.Open(path)
		if err != nil {
			return fmt.Errorf("phrase: open %s: %w", path, err)
		}
		defer f.Close()
		if err := c.LoadYAML(f); err != nil {
			return fmt.Errorf("phrase: load %s: %w", path, err)
		}
		return nil
	})
}
