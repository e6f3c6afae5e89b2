package element

import (
	"regexp"
	"strings"
)

// emit writes one element per eligible chunk.
func (p *pass) emit(chunks []Value) (string, error) {
	tag := p.req.TagName
	d := p.req.Directives
	void := p.r.tables.Void[tag]
	force := p.r.tables.ForceRender[tag] || d.Force.Truthy()
	reject := p.rejectPattern()
	trim := d.Trim.Truthy()

	var (
		b        strings.Builder
		attrs    string
		attrsSet bool
	)
	for _, chunk := range chunks {
		text := chunk.String()
		if trim {
			text = strings.TrimSpace(text)
		}
		if !void && !force && reject != nil && reject.MatchString(text) {
			continue
		}

		if !attrsSet {
			var err error
			if attrs, err = p.serializeAttributes(); err != nil {
				return "", err
			}
			attrsSet = true
		}

		if p.escape {
			text = p.r.escape(text)
		}

		b.WriteByte('<')
		b.WriteString(tag)
		b.WriteString(attrs)
		b.WriteByte('>')
		if void {
			continue
		}

		if p.wrap.Truthy() {
			wrapped, err := p.wrapInner(KeyWrap, String(text), p.wrap, false)
			if err != nil {
				return "", err
			}
			text = wrapped.String()
		}
		if d.ContentBefore.Truthy() {
			b.WriteString(d.ContentBefore.String())
		}
		b.WriteString(text)
		if d.ContentAfter.Truthy() {
			b.WriteString(d.ContentAfter.String())
		}
		b.WriteString("</")
		b.WriteString(tag)
		b.WriteByte('>')
	}
	return b.String(), nil
}

// rejectPattern compiles el-reject. A falsy directive disables rejection; an
// invalid string pattern falls back to the default one.
func (p *pass) rejectPattern() *regexp.Regexp {
	directive := p.req.Directives.Reject
	switch {
	case directive.Kind() == KindPattern:
		return directive.Regexp()
	case !directive.Truthy():
		return nil
	}

	re, err := regexp.Compile(directive.String())
	if err != nil {
		p.r.warn(Warning{
			Kind:    WarnInvalidPattern,
			TagName: p.req.TagName,
			Key:     KeyReject,
			Value:   directive.String(),
			Err:     err,
		})
		return defaultReject
	}
	return re
}
