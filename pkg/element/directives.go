package element

import (
	"regexp"
	"strings"
)

// Prefix marks directive keys. Keys carrying it are never serialised as HTML
// attributes.
const Prefix = "el-"

// Directive keys.
const (
	KeyTag            = "el-tag"
	KeyEscape         = "el-escape"
	KeyWrap           = "el-wrap"
	KeyWrapAll        = "el-wrap-all"
	KeyWrapOuter      = "el-wrap-outer"
	KeyJoin           = "el-join"
	KeySplit          = "el-split"
	KeyReject         = "el-reject"
	KeyFirstMatch     = "el-first-match"
	KeyTernary        = "el-ternary"
	KeyForce          = "el-force"
	KeyAbort          = "el-abort"
	KeyAbortAll       = "el-abort-all"
	KeyTrim           = "el-trim"
	KeyFallback       = "el-fallback"
	KeyContent        = "el-content"
	KeyContentBefore  = "el-content-before"
	KeyContentAfter   = "el-content-after"
	KeyContentParams  = "el-content-params"
	KeyContentPhrase  = "el-content-phrase"
	KeyLang           = "el-lang"
	KeyFallbackPrefix = "el-fallback-"
	KeyParamsPrefix   = "el-params-"
	KeyEscapePrefix   = "el-escape-"
)

// Non-directive keys with special meaning.
const (
	KeyAttributes  = "attributes"
	KeyContents    = "contents"
	AttrContent    = "content"
	AttrClass      = "class"
	AttrAlt        = "alt"
	DefaultTagName = "div"
)

var (
	defaultReject = regexp.MustCompile(`^\s*$`)
	defaultSplit  = regexp.MustCompile(`(\r\n|\n\r|\n|\r)+`)
)

func defaultDirectives() map[string]Value {
	return map[string]Value{
		KeyEscape: Bool(true),
		KeyTag:    String(DefaultTagName),
		KeyJoin:   String(""),
		KeyReject: Pattern(defaultReject),
		KeySplit:  Pattern(defaultSplit),
		KeyTrim:   Bool(true),
	}
}

// Directives is the typed view of every reserved-prefix key of a request.
type Directives struct {
	Escape        Value
	Wrap          Value
	WrapAll       Value
	WrapOuter     Value
	Join          Value
	Split         Value
	Reject        Value
	FirstMatch    Value
	Ternary       Value
	Force         Value
	Abort         Value
	Trim          Value
	Fallback      Value
	FallbackClass Value
	Content       Value
	ContentBefore Value
	ContentAfter  Value
	ContentParams Value
	ContentPhrase Value
	Lang          Value

	// FallbackFor holds el-fallback-P values keyed by P (class excluded).
	FallbackFor map[string]Value
	// ParamsFor holds el-params-P values keyed by P. "content" carries the
	// parameter for function-valued content.
	ParamsFor map[string]Value
	// EscapeFor holds el-escape-P overrides keyed by P.
	EscapeFor map[string]Value
}

func (d *Directives) assign(key string, v Value) {
	switch key {
	case KeyEscape:
		d.Escape = v
	case KeyWrap:
		d.Wrap = v
	case KeyWrapAll:
		d.WrapAll = v
	case KeyWrapOuter:
		d.WrapOuter = v
	case KeyJoin:
		d.Join = v
	case KeySplit:
		d.Split = v
	case KeyReject:
		d.Reject = v
	case KeyFirstMatch:
		d.FirstMatch = v
	case KeyTernary:
		d.Ternary = v
	case KeyForce:
		d.Force = v
	case KeyAbort:
		d.Abort = v
	case KeyTrim:
		d.Trim = v
	case KeyFallback:
		d.Fallback = v
	case KeyContent:
		d.Content = v
	case KeyContentBefore:
		d.ContentBefore = v
	case KeyContentAfter:
		d.ContentAfter = v
	case KeyContentParams:
		d.ContentParams = v
	case KeyContentPhrase:
		d.ContentPhrase = v
	case KeyLang:
		d.Lang = v
	case KeyFallbackPrefix + AttrClass:
		d.FallbackClass = v
	default:
		switch {
		case strings.HasPrefix(key, KeyFallbackPrefix):
			d.FallbackFor[strings.TrimPrefix(key, KeyFallbackPrefix)] = v
		case strings.HasPrefix(key, KeyParamsPrefix):
			d.ParamsFor[strings.TrimPrefix(key, KeyParamsPrefix)] = v
		case strings.HasPrefix(key, KeyEscapePrefix):
			d.EscapeFor[strings.TrimPrefix(key, KeyEscapePrefix)] = v
		}
	}
}

// escapeContent reports whether content text should be escaped. Only an
// explicit false disables it.
func (d Directives) escapeContent() bool {
	return !(d.Escape.Kind() == KindBool && !d.Escape.Truthy())
}

// escapeAttr reports whether the value of attribute name should be escaped.
func (d Directives) escapeAttr(name string) bool {
	override, ok := d.EscapeFor[name]
	if !ok || override.IsNull() {
		return true
	}
	return override.Truthy()
}

func isDirective(key string) bool {
	return strings.HasPrefix(key, Prefix)
}
