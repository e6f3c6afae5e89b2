package element

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-el/pkg/logging"
)

// DefaultMaxWrapDepth bounds nested wrap/wrap-all/wrap-outer recursion.
const DefaultMaxWrapDepth = 16

// Phraser is the localization collaborator used when el-content-phrase is
// set. An empty locale selects the collaborator's default.
type Phraser interface {
	Phrase(key string, options map[string]any, renderCtx any, locale string) string
}

// PhraserFunc adapts a function to the Phraser interface.
type PhraserFunc func(key string, options map[string]any, renderCtx any, locale string) string

// Phrase implements Phraser.
func (f PhraserFunc) Phrase(key string, options map[string]any, renderCtx any, locale string) string {
	return f(key, options, renderCtx, locale)
}

// Escaper is the host's text-escaping primitive.
type Escaper func(string) string

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// EscapeHTML entity-encodes & < > " and '.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Option configures a Renderer.
type Option func(*config)

type config struct {
	tables    *Tables
	phraser   Phraser
	escaper   Escaper
	onWarning WarningHandler
	logger    *zerolog.Logger
	maxDepth  int
}

// WithTables replaces the element and attribute classification tables.
func WithTables(tables Tables) Option {
	return func(cfg *config) {
		cfg.tables = &tables
	}
}

// WithPhraser sets the localization collaborator.
func WithPhraser(p Phraser) Option {
	return func(cfg *config) {
		cfg.phraser = p
	}
}

// WithEscaper overrides the text-escaping primitive.
func WithEscaper(fn Escaper) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.escaper = fn
		}
	}
}

// WithWarningHandler receives recoverable diagnostics. Warnings are always
// logged; the handler is called in addition.
func WithWarningHandler(fn WarningHandler) Option {
	return func(cfg *config) {
		cfg.onWarning = fn
	}
}

// WithLogger sets the logger used for warnings and tracing. Without it the
// renderer logs warnings only, unless logging.SetupLogger has run.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = &logger
	}
}

// WithMaxWrapDepth bounds nested wrapping. Values below 1 are ignored.
func WithMaxWrapDepth(depth int) Option {
	return func(cfg *config) {
		if depth > 0 {
			cfg.maxDepth = depth
		}
	}
}

// Renderer turns helper invocations into HTML element strings. It holds no
// per-call state and is safe for concurrent use.
type Renderer struct {
	tables    Tables
	phraser   Phraser
	escape    Escaper
	onWarning WarningHandler
	logger    zerolog.Logger
	maxDepth  int
}

// New constructs a Renderer applying any provided options.
func New(options ...Option) *Renderer {
	cfg := config{maxDepth: DefaultMaxWrapDepth}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	r := &Renderer{
		phraser:   cfg.phraser,
		escape:    cfg.escaper,
		onWarning: cfg.onWarning,
		maxDepth:  cfg.maxDepth,
	}
	if cfg.tables != nil {
		r.tables = cfg.tables.clone()
	} else {
		r.tables = DefaultTables()
	}
	if r.escape == nil {
		r.escape = EscapeHTML
	}
	if cfg.logger != nil {
		r.logger = *cfg.logger
	} else {
		r.logger = logging.LibraryLogger("element")
	}
	return r
}

// Render runs the pipeline for one invocation.
func (r *Renderer) Render(inv Invocation) (string, error) {
	hash := make(map[string]Value, len(inv.Hash))
	for key, raw := range inv.Hash {
		hash[key] = ValueOf(raw)
	}
	return r.render(inv, hash, 0)
}

// RenderArgs renders a call expressed as positional arguments with an
// optional trailing map of named arguments.
func (r *Renderer) RenderArgs(args ...any) (string, error) {
	return r.Render(InvocationFromArgs(args))
}

// InvocationFromArgs splits a trailing map[string]any off args and uses it
// as the named arguments.
func InvocationFromArgs(args []any) Invocation {
	if n := len(args); n > 0 {
		if hash, ok := args[n-1].(map[string]any); ok {
			return Invocation{Args: args[:n-1], Hash: hash}
		}
	}
	return Invocation{Args: args}
}

func (r *Renderer) render(inv Invocation, hash map[string]Value, depth int) (string, error) {
	req := normalizeValues(inv, hash)
	if req.AbortAll {
		return "", nil
	}

	p := newPass(r, req, depth)
	r.logger.Trace().
		Str("tag", req.TagName).
		Int("depth", depth).
		Bool("block", req.HasBlock()).
		Int("args", len(req.Args)).
		Msg("render element")

	content, err := p.resolveContent()
	if err != nil {
		return "", err
	}
	chunks, err := p.transform(content)
	if err != nil {
		return "", err
	}

	if p.aborted() {
		return joinChunks(chunks, ""), nil
	}

	out, err := p.emit(chunks)
	if err != nil {
		return "", err
	}
	return p.wrapOuter(out)
}

func (r *Renderer) warn(w Warning) {
	r.logger.Warn().
		Str("kind", string(w.Kind)).
		Str("tag", w.TagName).
		Str("key", w.Key).
		Str("value", w.Value).
		Err(w.Err).
		Msg("element feature degraded")
	if r.onWarning != nil {
		r.onWarning(w)
	}
}

func joinChunks(chunks []Value, sep string) string {
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = chunk.String()
	}
	return strings.Join(parts, sep)
}
