package element

import (
	"errors"
	"fmt"
)

// ErrFunctionFailed wraps errors returned by content or attribute functions.
var ErrFunctionFailed = errors.New("element: function failed")

// WarningKind classifies recoverable conditions. None of them abort a render.
type WarningKind string

const (
	// WarnMalformedLiteral: a wrap target looked like an object/array literal
	// but did not parse. The wrap is skipped and the content is emitted as
	// if no wrap had been requested, so the raw text never becomes a tag name.
	WarnMalformedLiteral WarningKind = "malformed_literal"
	// WarnUnsplittableContent: splitting was requested on content that has
	// no string form to split. It is kept as a single chunk.
	WarnUnsplittableContent WarningKind = "unsplittable_content"
	// WarnInvalidPattern: a reject pattern did not compile. The default
	// pattern is used.
	WarnInvalidPattern WarningKind = "invalid_pattern"
	// WarnEnumeratedValue: an enumerated attribute carries a value outside
	// its allowed set. The value is emitted unchanged.
	WarnEnumeratedValue WarningKind = "enumerated_value"
	// WarnWrapDepth: nested wrapping exceeded the configured depth. The
	// content is emitted unwrapped.
	WarnWrapDepth WarningKind = "wrap_depth"
)

// Warning describes a degraded feature during a render.
type Warning struct {
	Kind    WarningKind
	TagName string
	Key     string
	Value   string
	Err     error
}

func (w Warning) Error() string {
	msg := fmt.Sprintf("element: %s on <%s>", w.Kind, w.TagName)
	if w.Key != "" {
		msg += fmt.Sprintf(" key %q", w.Key)
	}
	if w.Value != "" {
		msg += fmt.Sprintf(" value %q", w.Value)
	}
	if w.Err != nil {
		msg += ": " + w.Err.Error()
	}
	return msg
}

func (w Warning) Unwrap() error { return w.Err }

// WarningHandler receives recoverable diagnostics.
type WarningHandler func(Warning)

func functionError(key string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFunctionFailed, key, err)
}
