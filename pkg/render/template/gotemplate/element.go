package gotemplate

import (
	"bytes"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-el/pkg/element"
)

// Names under which the element helper is exposed to templates.
const (
	ElementTag       = "el"
	ElementEndTag    = "endel"
	ElementInlineTag = "el_inline"
	ElementFunc      = "el"

	rendererKey = "_el_renderer"
)

var (
	registerTagsOnce sync.Once
	registerTagsErr  error

	fallbackOnce     sync.Once
	fallbackRenderer *element.Renderer
)

// registerElementTags installs the el tags once per process. pongo2 keeps a
// single global tag registry.
func registerElementTags() error {
	registerTagsOnce.Do(func() {
		if err := pongo2.RegisterTag(ElementTag, parseElementBlock); err != nil {
			registerTagsErr = err
			return
		}
		registerTagsErr = pongo2.RegisterTag(ElementInlineTag, parseElementInline)
	})
	return registerTagsErr
}

// elementFunc exposes the renderer as a global function:
//
//	{{ el(title, attrs) }}
//
// A trailing map argument carries the named arguments.
func elementFunc(r *element.Renderer) func(args ...*pongo2.Value) (*pongo2.Value, error) {
	return func(args ...*pongo2.Value) (*pongo2.Value, error) {
		raw := make([]any, len(args))
		for i, arg := range args {
			raw[i] = arg.Interface()
		}
		inv := element.InvocationFromArgs(hashFromTrailingMap(raw))
		out, err := r.Render(inv)
		if err != nil {
			return nil, err
		}
		return pongo2.AsSafeValue(out), nil
	}
}

// hashFromTrailingMap converts a trailing map with non-any values so
// element.InvocationFromArgs picks it up as the named arguments.
func hashFromTrailingMap(args []any) []any {
	n := len(args)
	if n == 0 {
		return args
	}
	switch last := args[n-1].(type) {
	case map[string]any:
	case pongo2.Context:
		args[n-1] = map[string]any(last)
	case map[string]string:
		hash := make(map[string]any, len(last))
		for k, v := range last {
			hash[k] = v
		}
		args[n-1] = hash
	}
	return args
}

type elementArgument struct {
	key  string
	expr pongo2.IEvaluator
}

type elementNode struct {
	positional []pongo2.IEvaluator
	named      []elementArgument
	wrapper    *pongo2.NodeWrapper
}

// parseElementBlock handles {% el k=v ... %}body{% endel %}.
func parseElementBlock(doc *pongo2.Parser, _ *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node, err := parseElementArguments(arguments)
	if err != nil {
		return nil, err
	}

	wrapper, endargs, err := doc.WrapUntilTag(ElementEndTag)
	if err != nil {
		return nil, err
	}
	if endargs.Count() > 0 {
		return nil, endargs.Error("Arguments not allowed here.", nil)
	}
	node.wrapper = wrapper
	return node, nil
}

// parseElementInline handles {% el_inline "text" k=v ... %}.
func parseElementInline(_ *pongo2.Parser, _ *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	return parseElementArguments(arguments)
}

// parseElementArguments reads positional expressions and key=value pairs.
// Identifier keys map "_" to "-" so el_tag reaches the renderer as el-tag;
// quoted keys are taken verbatim.
func parseElementArguments(arguments *pongo2.Parser) (*elementNode, *pongo2.Error) {
	node := &elementNode{}
	for arguments.Remaining() > 0 {
		if arguments.PeekN(1, pongo2.TokenSymbol, "=") != nil {
			var key string
			switch {
			case arguments.PeekType(pongo2.TokenIdentifier) != nil:
				key = strings.ReplaceAll(arguments.MatchType(pongo2.TokenIdentifier).Val, "_", "-")
			case arguments.PeekType(pongo2.TokenString) != nil:
				key = arguments.MatchType(pongo2.TokenString).Val
			default:
				return nil, arguments.Error("Expected an identifier or string key.", nil)
			}
			arguments.Match(pongo2.TokenSymbol, "=")

			expr, err := arguments.ParseExpression()
			if err != nil {
				return nil, err
			}
			node.named = append(node.named, elementArgument{key: key, expr: expr})
			continue
		}

		expr, err := arguments.ParseExpression()
		if err != nil {
			return nil, err
		}
		node.positional = append(node.positional, expr)
	}
	return node, nil
}

func (node *elementNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	inv := element.Invocation{
		Hash:    make(map[string]any, len(node.named)),
		Context: renderContext(ctx),
	}
	for _, expr := range node.positional {
		value, err := expr.Evaluate(ctx)
		if err != nil {
			return err
		}
		inv.Args = append(inv.Args, value.Interface())
	}
	for _, arg := range node.named {
		value, err := arg.expr.Evaluate(ctx)
		if err != nil {
			return err
		}
		inv.Hash[arg.key] = value.Interface()
	}

	if node.wrapper != nil {
		inv.Block = func(any) (string, error) {
			var buf bytes.Buffer
			if err := node.wrapper.Execute(pongo2.NewChildExecutionContext(ctx), &buf); err != nil {
				return "", err
			}
			return buf.String(), nil
		}
	}

	out, err := rendererFrom(ctx).Render(inv)
	if err != nil {
		return ctx.OrigError(err, nil)
	}
	if _, err := writer.WriteString(out); err != nil {
		return ctx.OrigError(err, nil)
	}
	return nil
}

// renderContext flattens the execution context into the map handed to
// content and attribute functions.
func renderContext(ctx *pongo2.ExecutionContext) pongo2.Context {
	out := make(pongo2.Context, len(ctx.Public)+len(ctx.Private))
	out.Update(ctx.Public)
	out.Update(ctx.Private)
	delete(out, rendererKey)
	return out
}

func rendererFrom(ctx *pongo2.ExecutionContext) *element.Renderer {
	if get, ok := ctx.Public[rendererKey].(func() *element.Renderer); ok {
		if r := get(); r != nil {
			return r
		}
	}
	fallbackOnce.Do(func() {
		fallbackRenderer = element.New()
	})
	return fallbackRenderer
}
