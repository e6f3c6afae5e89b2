// Package sanitize cleans rendered element markup before it leaves a trust
// boundary. The element renderer escapes text and attribute values but keeps
// whatever tag and attribute names callers pass; this policy drops the unsafe
// ones.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Markup returns raw with disallowed elements and attributes removed. Blank
// input yields "".
func Markup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(Policy().Sanitize(trimmed))
}

// Policy returns the shared element policy: bluemonday's UGC policy plus the
// global attributes the renderer commonly emits and inline SVG icons.
func Policy() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowDataAttributes()
		policy.AllowAttrs("class", "id", "title", "dir", "lang", "role", "hidden").Globally()
		policy.AllowAttrs("aria-label", "aria-hidden", "aria-describedby").Globally()
		policy.AllowElements("section", "article", "header", "footer", "nav", "aside", "main", "figure", "figcaption")

		policy.AllowElements("svg", "g", "path", "circle", "rect", "line", "polyline", "polygon", "ellipse", "use")
		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "stroke-linecap", "stroke-linejoin", "focusable",
		).OnElements("svg")
		policy.AllowAttrs("href", "xlink:href").OnElements("use")
		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "fill", "stroke", "stroke-width",
			).OnElements(el)
		}

		policy.AllowAttrs("type", "name", "value", "placeholder", "checked", "disabled", "selected").OnElements("input", "option", "select", "textarea", "button")
		policy.AllowElements("input", "select", "option", "textarea", "button", "label")
		policy.AllowAttrs("for").OnElements("label")

		markupPolicy = policy
	})
	return markupPolicy
}
