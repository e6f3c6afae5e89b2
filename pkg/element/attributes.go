package element

import (
	"sort"
	"strings"
)

// applyFallbacks runs the pre-pass that fills absent attributes from
// el-fallback-P, defaults img alt and applies el-fallback-class.
func (p *pass) applyFallbacks() {
	attrs := p.req.Attributes
	d := p.req.Directives

	for prop, fallback := range d.FallbackFor {
		if prop == "" {
			continue
		}
		if v, ok := attrs[prop]; !ok || v.IsNull() {
			attrs[prop] = fallback
		}
	}

	if p.req.TagName == "img" && !attrs[AttrAlt].Truthy() {
		attrs[AttrAlt] = String("")
	}

	if d.FallbackClass.Truthy() && attrs[AttrClass].Empty() {
		attrs[AttrClass] = d.FallbackClass
	}
}

// serializeAttributes builds the attribute string, keys in ascending order,
// each entry prefixed by a space.
func (p *pass) serializeAttributes() (string, error) {
	p.applyFallbacks()

	attrs := p.req.Attributes
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		if isDirective(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tables := p.r.tables
	var b strings.Builder
	for _, key := range keys {
		v := attrs[key]
		if v.Kind() == KindFunc {
			resolved, err := v.Call(p.req.Directives.ParamsFor[key].Interface(), p.req.context)
			if err != nil {
				return "", functionError(key, err)
			}
			v = resolved
		}
		if key == AttrClass && v.Kind() == KindList {
			v = String(strings.Join(sortedStrings(v.Items()), " "))
		}

		if !v.Truthy() && !tables.CanBeEmpty[key] {
			continue
		}

		b.WriteByte(' ')
		b.WriteString(key)
		if tables.Boolean[key] {
			continue
		}

		text := v.String()
		if text != "" && !tables.enumeratedAllows(key, text) {
			p.r.warn(Warning{
				Kind:    WarnEnumeratedValue,
				TagName: p.req.TagName,
				Key:     key,
				Value:   text,
			})
		}
		if p.req.Directives.escapeAttr(key) {
			text = p.r.escape(text)
		}
		b.WriteString(`="`)
		b.WriteString(text)
		b.WriteByte('"')
	}
	return b.String(), nil
}
