package gotemplate

import (
	"fmt"
	"io/fs"
	"strings"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-el/pkg/element"
	"github.com/goliatone/go-el/pkg/render/template"
)

// Option configures the adapter before construction.
type Option func(*config)

type config struct {
	engineOptions []gotemplatepkg.Option
	renderer      *element.Renderer
	postProcess   []func(string) string
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		if dir = strings.TrimSpace(dir); dir != "" {
			cfg.engineOptions = append(cfg.engineOptions, gotemplatepkg.WithBaseDir(dir))
		}
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.engineOptions = append(cfg.engineOptions, gotemplatepkg.WithFS(files))
		}
	}
}

// WithExtension overrides the default ".tpl" template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		if ext = strings.TrimSpace(ext); ext != "" {
			cfg.engineOptions = append(cfg.engineOptions, gotemplatepkg.WithExtension(ext))
		}
	}
}

// WithTemplateFunc registers helper functions and filters. pongo2 filter
// signatures become filters, any other function becomes a global.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		trimmed := make(map[string]any, len(funcs))
		for name, fn := range funcs {
			if name = strings.TrimSpace(name); name != "" && fn != nil {
				trimmed[name] = fn
			}
		}
		cfg.engineOptions = append(cfg.engineOptions, gotemplatepkg.WithTemplateFunc(trimmed))
	}
}

// WithGlobalData seeds values visible to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) > 0 {
			cfg.engineOptions = append(cfg.engineOptions, gotemplatepkg.WithGlobalData(data))
		}
	}
}

// WithGoTemplateOptions passes options straight to the go-template engine.
func WithGoTemplateOptions(options ...gotemplatepkg.Option) Option {
	return func(cfg *config) {
		cfg.engineOptions = append(cfg.engineOptions, options...)
	}
}

// WithElementRenderer sets the renderer behind the el tags and the el global
// function. A default renderer is used when none is provided.
func WithElementRenderer(r *element.Renderer) Option {
	return func(cfg *config) {
		cfg.renderer = r
	}
}

// WithPostProcess runs fn over every rendered document, in registration
// order.
func WithPostProcess(fn func(string) string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.postProcess = append(cfg.postProcess, fn)
		}
	}
}

// Engine is a go-template engine with the element helper installed. Render,
// RenderTemplate, RenderString, RegisterFilter and GlobalContext come from
// the embedded engine.
//
// Render data is converted through JSON before execution, so functions in
// data are dropped or rejected. Register them with WithTemplateFunc.
type Engine struct {
	*gotemplatepkg.Engine

	renderer *element.Renderer
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if err := registerElementTags(); err != nil {
		return nil, fmt.Errorf("gotemplate: register element tags: %w", err)
	}

	renderer := cfg.renderer
	if renderer == nil {
		renderer = element.New()
	}

	// Element globals go last so user funcs cannot shadow them.
	engineOptions := append(cfg.engineOptions, gotemplatepkg.WithTemplateFunc(map[string]any{
		ElementFunc: elementFunc(renderer),
		rendererKey: func() *element.Renderer { return renderer },
	}))

	inner, err := gotemplatepkg.NewRenderer(engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: %w", err)
	}

	for _, fn := range cfg.postProcess {
		fn := fn
		inner.RegisterPostHook(func(ctx *gotemplatepkg.HookContext) (string, error) {
			return fn(ctx.Output), nil
		})
	}

	return &Engine{Engine: inner, renderer: renderer}, nil
}

// ElementRenderer returns the renderer bound to the el tags.
func (e *Engine) ElementRenderer() *element.Renderer {
	return e.renderer
}
