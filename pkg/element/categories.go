package element

// Tables classifies tag names and attribute names. A Renderer copies the
// tables it is given and never mutates them afterwards.
type Tables struct {
	// Void elements have no closing tag and never serialise content.
	Void map[string]bool
	// ContentAttribute elements keep "content" as an HTML attribute instead
	// of treating it as the element body.
	ContentAttribute map[string]bool
	// ForceRender elements are emitted even when their content is empty.
	ForceRender map[string]bool
	// CanBeEmpty attributes are serialised as name="" when their value is
	// empty.
	CanBeEmpty map[string]bool
	// Boolean attributes are serialised as a bare name when truthy and
	// omitted otherwise.
	Boolean map[string]bool
	// Enumerated lists the allowed values for attributes with a closed value
	// set. Values outside the set only raise a warning.
	Enumerated map[string][]string
}

// DefaultTables returns the HTML classification used when no tables are
// injected.
func DefaultTables() Tables {
	return Tables{
		Void: map[string]bool{
			"area":  true,
			"base":  true,
			"br":    true,
			"col":   true,
			"hr":    true,
			"img":   true,
			"input": true,
			"link":  true,
			"meta":  true,
			"param": true,
		},
		ContentAttribute: map[string]bool{
			"meta": true,
		},
		ForceRender: map[string]bool{
			"textarea": true,
			"script":   true,
		},
		CanBeEmpty: map[string]bool{
			"alt":   true,
			"value": true,
		},
		Boolean: map[string]bool{
			"checked":  true,
			"disabled": true,
			"selected": true,
		},
		Enumerated: map[string][]string{
			"dir": {"rtl", "ltr"},
		},
	}
}

func (t Tables) clone() Tables {
	return Tables{
		Void:             cloneSet(t.Void),
		ContentAttribute: cloneSet(t.ContentAttribute),
		ForceRender:      cloneSet(t.ForceRender),
		CanBeEmpty:       cloneSet(t.CanBeEmpty),
		Boolean:          cloneSet(t.Boolean),
		Enumerated:       cloneEnums(t.Enumerated),
	}
}

func cloneSet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneEnums(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (t Tables) enumeratedAllows(attr, value string) bool {
	allowed, ok := t.Enumerated[attr]
	if !ok {
		return true
	}
	for _, candidate := range allowed {
		if candidate == value {
			return true
		}
	}
	return false
}
