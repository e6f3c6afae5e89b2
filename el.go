package el

import (
	"sync"

	"github.com/goliatone/go-el/pkg/element"
	"github.com/goliatone/go-el/pkg/render/template/gotemplate"
)

// Renderer aliases element.Renderer so callers can stay on the root package.
type Renderer = element.Renderer

// Invocation aliases element.Invocation.
type Invocation = element.Invocation

// Option aliases element.Option.
type Option = element.Option

// Tables aliases element.Tables.
type Tables = element.Tables

// Warning aliases element.Warning.
type Warning = element.Warning

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
)

// New exposes the renderer constructor from the top-level module.
func New(options ...Option) *Renderer {
	return element.New(options...)
}

// DefaultTables returns the built-in HTML classification tables.
func DefaultTables() Tables {
	return element.DefaultTables()
}

// Render renders positional content with an optional trailing map of named
// arguments using a shared default renderer. It is the simplest entry point
// for callers that just want one element.
func Render(args ...any) (string, error) {
	defaultOnce.Do(func() {
		defaultRenderer = element.New()
	})
	return defaultRenderer.RenderArgs(args...)
}

// NewTemplateEngine builds a pongo2 engine with the el tags bound to r.
func NewTemplateEngine(r *Renderer, options ...gotemplate.Option) (*gotemplate.Engine, error) {
	options = append([]gotemplate.Option{gotemplate.WithElementRenderer(r)}, options...)
	return gotemplate.New(options...)
}
