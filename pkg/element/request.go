package element

import (
	"strings"
)

// Invocation is one helper call as handed over by a host template engine.
type Invocation struct {
	// Args are the positional arguments.
	Args []any
	// Hash holds the named arguments.
	Hash map[string]any
	// Block captures the body of a block-style call. Nil for inline calls.
	Block func(renderCtx any) (string, error)
	// Context is the render context passed to content and attribute
	// functions and to the phrase collaborator.
	Context any
}

// Request is the normalised form of an Invocation.
type Request struct {
	TagName    string
	Attributes map[string]Value
	Directives Directives
	// Args are the positional arguments converted to values.
	Args []Value
	// Contents is the raw "contents" value.
	Contents Value
	// AbortAll is set when el-abort-all was truthy; nothing else is populated.
	AbortAll bool

	block   func(renderCtx any) (string, error)
	context any
}

// HasBlock reports whether the request came from a block-style call.
func (r *Request) HasBlock() bool {
	return r.block != nil
}

// Normalize merges positional arguments, named arguments and the optional
// "attributes" bundle into a Request, applying directive defaults.
func Normalize(inv Invocation) *Request {
	hash := make(map[string]Value, len(inv.Hash))
	for key, raw := range inv.Hash {
		hash[key] = ValueOf(raw)
	}
	return normalizeValues(inv, hash)
}

func normalizeValues(inv Invocation, hash map[string]Value) *Request {
	merged := mergeAttributesBundle(hash)

	req := &Request{
		block:   inv.Block,
		context: inv.Context,
	}

	if merged[KeyAbortAll].Truthy() {
		req.AbortAll = true
		return req
	}

	for key, def := range defaultDirectives() {
		if v, ok := merged[key]; !ok || v.IsNull() {
			merged[key] = def
		}
	}

	req.TagName = strings.ToLower(strings.TrimSpace(merged[KeyTag].String()))
	if req.TagName == "" {
		req.TagName = DefaultTagName
	}

	req.Directives = Directives{
		FallbackFor: map[string]Value{},
		ParamsFor:   map[string]Value{},
		EscapeFor:   map[string]Value{},
	}
	req.Attributes = make(map[string]Value, len(merged))
	for key, v := range merged {
		switch {
		case key == KeyTag || key == KeyAbortAll:
		case isDirective(key):
			req.Directives.assign(key, v)
		case key == KeyContents:
			req.Contents = v
		default:
			req.Attributes[key] = v
		}
	}

	if len(inv.Args) > 0 {
		req.Args = make([]Value, len(inv.Args))
		for i, arg := range inv.Args {
			req.Args[i] = ValueOf(arg)
		}
	}
	return req
}

// mergeAttributesBundle promotes the "attributes" bundle and merges it under
// the named arguments, which win on collision.
func mergeAttributesBundle(hash map[string]Value) map[string]Value {
	bundle, ok := hash[KeyAttributes]
	if !ok || !bundle.Truthy() {
		out := make(map[string]Value, len(hash))
		for k, v := range hash {
			if k == KeyAttributes {
				continue
			}
			out[k] = v
		}
		return out
	}

	if bundle.Kind() != KindMap {
		bundle = Map(map[string]Value{KeyTag: bundle})
	}

	out := make(map[string]Value, len(hash)+len(bundle.Entries()))
	for k, v := range bundle.Entries() {
		out[k] = v
	}
	for k, v := range hash {
		if k == KeyAttributes {
			continue
		}
		out[k] = v
	}
	return out
}
