package element

import (
	"fmt"
	"regexp"
	"strings"
)

// pass holds the state of a single pipeline run.
type pass struct {
	r     *Renderer
	req   *Request
	depth int

	escape bool
	multi  bool
	// wrap is the per-chunk wrap target still to be applied at emission
	// time. It is cleared once wrapping happened during transformation.
	wrap Value
}

func newPass(r *Renderer, req *Request, depth int) *pass {
	return &pass{
		r:      r,
		req:    req,
		depth:  depth,
		escape: req.Directives.escapeContent(),
		wrap:   req.Directives.Wrap,
	}
}

func (p *pass) aborted() bool {
	return p.req.Directives.Abort.Truthy()
}

// resolveContent walks the content priority chain: block body, positional
// arguments, "content", el-content, "contents", el-fallback.
func (p *pass) resolveContent() (Value, error) {
	req := p.req
	contentIsAttr := p.r.tables.ContentAttribute[req.TagName]

	var content Value
	if req.HasBlock() {
		body, err := req.block(req.context)
		if err != nil {
			return Null, fmt.Errorf("element: render block: %w", err)
		}
		content = String(body)
	} else {
		switch len(req.Args) {
		case 0:
		case 1:
			content = req.Args[0]
		default:
			content = List(req.Args...)
		}
		if content.IsNull() && !contentIsAttr {
			content = req.Attributes[AttrContent]
		}
		if content.IsNull() {
			content = req.Directives.Content
		}
		if !content.Present() && isContentsSource(req.Contents) {
			content = req.Contents
		}
		if !content.Present() && req.Directives.Fallback.Truthy() {
			content = req.Directives.Fallback
		}
	}
	if !contentIsAttr {
		delete(req.Attributes, AttrContent)
	}
	p.multi = req.Contents.Truthy()

	if content.Kind() == KindFunc {
		resolved, err := content.Call(req.Directives.ParamsFor[AttrContent].Interface(), req.context)
		if err != nil {
			return Null, functionError(AttrContent, err)
		}
		content = resolved
	}
	return content, nil
}

func isContentsSource(v Value) bool {
	return v.Kind() == KindString || v.Kind() == KindList
}

// transform turns resolved content into the chunk list handed to the emitter.
func (p *pass) transform(content Value) ([]Value, error) {
	if !content.Present() {
		return []Value{String("")}, nil
	}

	d := p.req.Directives
	var chunks []Value
	if content.Kind() == KindList {
		chunks = append(chunks, content.Items()...)
	} else {
		chunks = p.split(content)
	}

	if !d.Ternary.IsNull() && len(chunks) == 2 {
		if d.Ternary.Truthy() {
			chunks = chunks[:1]
		} else {
			chunks = chunks[1:]
		}
	}

	if d.FirstMatch.Truthy() {
		for _, chunk := range chunks {
			if chunk.Truthy() || chunk.IsZeroNumber() {
				chunks = []Value{chunk}
				break
			}
		}
	}

	for i, chunk := range chunks {
		if !chunk.Truthy() {
			continue
		}
		if chunk.Kind() == KindFunc {
			resolved, err := chunk.Call(d.ContentParams.Interface(), p.req.context)
			if err != nil {
				return nil, functionError(KeyContentParams, err)
			}
			chunk = resolved
		}
		if d.ContentPhrase.Truthy() && chunk.Truthy() {
			chunk = String(p.phrase(chunk.String()))
		}
		chunks[i] = chunk
	}

	if p.wrap.Truthy() && !p.multi && !p.aborted() {
		wrapped := make([]string, len(chunks))
		for i, chunk := range chunks {
			out, err := p.wrapInner(KeyWrap, chunk, p.wrap, p.escape)
			if err != nil {
				return nil, err
			}
			wrapped[i] = out.String()
		}
		chunks = []Value{String(strings.Join(wrapped, ""))}
		p.escape = false
		p.wrap = Null
	}

	join := d.Join.String()
	if !p.multi {
		chunks = []Value{String(joinChunks(chunks, join))}
	}

	if d.WrapAll.Truthy() && !p.aborted() {
		if len(chunks) != 1 {
			chunks = []Value{String(joinChunks(chunks, join))}
		}
		out, err := p.wrapInner(KeyWrapAll, chunks[0], d.WrapAll, p.escape)
		if err != nil {
			return nil, err
		}
		chunks[0] = out
		p.escape = false
	}
	return chunks, nil
}

// split breaks non-list content on the el-split directive. Empty pieces and
// pieces that are themselves separators are dropped.
func (p *pass) split(content Value) []Value {
	directive := p.req.Directives.Split
	if !directive.Truthy() {
		return []Value{content}
	}

	switch content.Kind() {
	case KindString:
	case KindNumber:
		content = String(content.String())
	default:
		p.r.warn(Warning{
			Kind:    WarnUnsplittableContent,
			TagName: p.req.TagName,
			Key:     KeySplit,
			Value:   content.Kind().String(),
		})
		return []Value{content}
	}

	text := content.String()
	var (
		pieces []string
		re     *regexp.Regexp
	)
	switch directive.Kind() {
	case KindPattern:
		re = directive.Regexp()
		pieces = re.Split(text, -1)
	case KindString:
		pieces = strings.Split(text, directive.String())
	default:
		re = defaultSplit
		pieces = re.Split(text, -1)
	}

	chunks := make([]Value, 0, len(pieces))
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		if re != nil && re.MatchString(piece) {
			continue
		}
		chunks = append(chunks, String(piece))
	}
	if len(chunks) == 0 {
		return []Value{String("")}
	}
	return chunks
}

func (p *pass) phrase(key string) string {
	if p.r.phraser == nil {
		return key
	}
	locale := ""
	if lang := p.req.Directives.Lang; lang.Truthy() {
		locale = lang.String()
	}
	return p.r.phraser.Phrase(key, map[string]any{}, p.req.context, locale)
}
