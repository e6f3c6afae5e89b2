package element

import "strings"

// wrapTarget turns a wrap directive into the named arguments of the nested
// call. Maps are copied, literal strings are parsed, anything else is a tag
// name. ok is false for a malformed literal, in which case the wrap is
// skipped.
func (p *pass) wrapTarget(key string, target Value) (map[string]Value, bool) {
	if target.Kind() == KindString && looksLikeLiteral(strings.TrimSpace(target.String())) {
		parsed, err := ParseLiteral(strings.TrimSpace(target.String()))
		if err != nil {
			p.r.warn(Warning{
				Kind:    WarnMalformedLiteral,
				TagName: p.req.TagName,
				Key:     key,
				Value:   target.String(),
				Err:     err,
			})
			return nil, false
		}
		target = parsed
	}

	if target.Kind() == KindMap {
		hash := make(map[string]Value, len(target.Entries())+2)
		for k, v := range target.Entries() {
			hash[k] = v.clone()
		}
		return hash, true
	}
	return map[string]Value{KeyTag: target}, true
}

// wrapInner renders content inside the element described by target. When
// escape is false the content is already markup and the nested call never
// escapes it; otherwise the target may still set el-escape itself.
func (p *pass) wrapInner(key string, content Value, target Value, escape bool) (Value, error) {
	hash, ok := p.wrapTarget(key, target)
	if !ok {
		return p.unwrapped(content, escape), nil
	}
	if _, ok := hash[KeyEscape]; !ok || !escape {
		hash[KeyEscape] = Bool(escape)
	}
	if _, ok := hash[KeySplit]; !ok {
		hash[KeySplit] = Bool(false)
	}

	out, ok, err := p.nested(key, content, hash)
	if err != nil {
		return Null, err
	}
	if !ok {
		return p.unwrapped(content, escape), nil
	}
	return String(out), nil
}

// unwrapped is the content a skipped wrap leaves behind.
func (p *pass) unwrapped(content Value, escape bool) Value {
	if escape {
		return String(p.r.escape(content.String()))
	}
	return content
}

// wrapOuter re-runs the pipeline with the rendered output as pre-escaped
// content of the el-wrap-outer element.
func (p *pass) wrapOuter(output string) (string, error) {
	target := p.req.Directives.WrapOuter
	if output == "" || !target.Truthy() {
		return output, nil
	}

	hash, ok := p.wrapTarget(KeyWrapOuter, target)
	if !ok {
		return output, nil
	}
	hash[KeyEscape] = Bool(false)
	if _, ok := hash[KeySplit]; !ok {
		hash[KeySplit] = Bool(false)
	}

	out, ok, err := p.nested(KeyWrapOuter, String(output), hash)
	if err != nil {
		return "", err
	}
	if !ok {
		return output, nil
	}
	return out, nil
}

// nested calls back into the renderer one level deeper. ok is false when the
// depth limit stopped the call.
func (p *pass) nested(key string, content Value, hash map[string]Value) (string, bool, error) {
	if p.depth+1 > p.r.maxDepth {
		p.r.warn(Warning{
			Kind:    WarnWrapDepth,
			TagName: p.req.TagName,
			Key:     key,
		})
		return "", false, nil
	}

	inv := Invocation{
		Args:    []any{content},
		Context: p.req.context,
	}
	out, err := p.r.render(inv, hash, p.depth+1)
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}
