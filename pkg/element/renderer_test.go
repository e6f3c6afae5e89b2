package element_test

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/goliatone/go-el/pkg/element"
)

type hash = map[string]any

func newRenderer(t *testing.T, options ...element.Option) *element.Renderer {
	t.Helper()
	options = append([]element.Option{element.WithLogger(zerolog.Nop())}, options...)
	return element.New(options...)
}

func block(body string) func(any) (string, error) {
	return func(any) (string, error) { return body, nil }
}

type renderCase struct {
	name string
	inv  element.Invocation
	want string
}

func runCases(t *testing.T, r *element.Renderer, cases []renderCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Render(tc.inv)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("render mismatch\nwant: %q\n got: %q", tc.want, got)
			}
		})
	}
}

func TestRender_ContentSources(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "block", inv: element.Invocation{Block: block("foo")}, want: "<div>foo</div>"},
		{name: "positional", inv: element.Invocation{Args: []any{"foo"}}, want: "<div>foo</div>"},
		{name: "content attribute", inv: element.Invocation{Hash: hash{"content": "foo"}}, want: "<div>foo</div>"},
		{name: "el-content attribute", inv: element.Invocation{Hash: hash{"el-content": "foo"}}, want: "<div>foo</div>"},
		{name: "block wins over content", inv: element.Invocation{Block: block("foo"), Hash: hash{"content": "bar"}}, want: "<div>foo</div>"},
		{name: "positional wins over content", inv: element.Invocation{Args: []any{"foo"}, Hash: hash{"content": "bar"}}, want: "<div>foo</div>"},
		{name: "content wins over el-content", inv: element.Invocation{Hash: hash{"content": "foo", "el-content": "bar"}}, want: "<div>foo</div>"},
		{name: "nil positional falls through", inv: element.Invocation{Args: []any{nil}, Hash: hash{"content": "foo"}}, want: "<div>foo</div>"},
		{
			name: "meta keeps content attribute",
			inv: element.Invocation{Hash: hash{
				"el-tag":     "meta",
				"http-equiv": "content-type",
				"content":    "text/html;charset=UTF-8",
			}},
			want: `<meta content="text/html;charset=UTF-8" http-equiv="content-type">`,
		},
		{name: "tag name is lower-cased", inv: element.Invocation{Args: []any{"foo"}, Hash: hash{"el-tag": "SPAN"}}, want: "<span>foo</span>"},
		{name: "numeric content", inv: element.Invocation{Args: []any{42}}, want: "<div>42</div>"},
		{name: "zero is content", inv: element.Invocation{Args: []any{0}}, want: "<div>0</div>"},
	})
}

func TestRender_Escaping(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "default escapes", inv: element.Invocation{Block: block("<i>foo</i>")}, want: "<div>&lt;i&gt;foo&lt;/i&gt;</div>"},
		{name: "explicit true", inv: element.Invocation{Block: block("<i>foo</i>"), Hash: hash{"el-escape": true}}, want: "<div>&lt;i&gt;foo&lt;/i&gt;</div>"},
		{name: "disabled", inv: element.Invocation{Block: block("<i>foo</i>"), Hash: hash{"el-escape": false}}, want: "<div><i>foo</i></div>"},
		{name: "disabled through bundle", inv: element.Invocation{Block: block("<i>foo</i>"), Hash: hash{"attributes": hash{"el-escape": false}}}, want: "<div><i>foo</i></div>"},
		{name: "quotes", inv: element.Invocation{Args: []any{`"a" & 'b'`}}, want: "<div>&quot;a&quot; &amp; &#x27;b&#x27;</div>"},
	})
}

func TestRender_EmptyContent(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "empty block", inv: element.Invocation{Block: block("")}, want: ""},
		{name: "empty block ignores content", inv: element.Invocation{Block: block(""), Hash: hash{"content": "bar"}}, want: ""},
		{name: "whitespace block", inv: element.Invocation{Block: block("     ")}, want: ""},
		{name: "no content", inv: element.Invocation{}, want: ""},
		{name: "textarea is forced", inv: element.Invocation{Hash: hash{"el-tag": "textarea"}}, want: "<textarea></textarea>"},
		{name: "script is forced", inv: element.Invocation{Hash: hash{"el-tag": "script", "src": "app.js"}}, want: `<script src="app.js"></script>`},
		{name: "el-force", inv: element.Invocation{Hash: hash{"el-force": true, "class": "spacer"}}, want: `<div class="spacer"></div>`},
		{name: "empty list", inv: element.Invocation{Hash: hash{"content": []any{}}}, want: ""},
	})
}

func TestRender_Attributes(t *testing.T) {
	attrs := hash{"id": "bam"}

	runCases(t, newRenderer(t), []renderCase{
		{name: "class", inv: element.Invocation{Block: block("foo"), Hash: hash{"class": "bar"}}, want: `<div class="bar">foo</div>`},
		{name: "sorted", inv: element.Invocation{Block: block("foo"), Hash: hash{"id": "bam", "class": "bar"}}, want: `<div class="bar" id="bam">foo</div>`},
		{name: "bundle merged", inv: element.Invocation{Block: block("foo"), Hash: hash{"class": "bar", "attributes": attrs}}, want: `<div class="bar" id="bam">foo</div>`},
		{name: "bundle untouched", inv: element.Invocation{Block: block("foo"), Hash: hash{"class": "bar", "attributes": attrs}}, want: `<div class="bar" id="bam">foo</div>`},
		{name: "named beats bundle", inv: element.Invocation{Args: []any{"foo"}, Hash: hash{"id": "mine", "attributes": hash{"id": "theirs"}}}, want: `<div id="mine">foo</div>`},
		{name: "string bundle is tag", inv: element.Invocation{Args: []any{"foo"}, Hash: hash{"attributes": "em"}}, want: "<em>foo</em>"},
		{name: "empty class skipped", inv: element.Invocation{Block: block("foo"), Hash: hash{"class": ""}}, want: "<div>foo</div>"},
		{name: "directives never serialised", inv: element.Invocation{Args: []any{"foo"}, Hash: hash{"el-unknown": "x", "el-trim": true}}, want: "<div>foo</div>"},
		{name: "urls pass through escaped", inv: element.Invocation{Args: []any{"foo"}, Hash: hash{"el-tag": "a", "href": "/foo/bar?bam=1&bim=2"}}, want: `<a href="/foo/bar?bam=1&amp;bim=2">foo</a>`},
		{name: "absolute url", inv: element.Invocation{Args: []any{"foo"}, Hash: hash{"el-tag": "a", "href": "https://zed.com:8080/foo/bar?bam=1&bim=2"}}, want: `<a href="https://zed.com:8080/foo/bar?bam=1&amp;bim=2">foo</a>`},
		{name: "numbers", inv: element.Invocation{Args: []any{"foo"}, Hash: hash{"tabindex": 2, "data-ratio": 1.5}}, want: `<div data-ratio="1.5" tabindex="2">foo</div>`},
	})

	if diff := cmp.Diff(hash{"id": "bam"}, attrs); diff != "" {
		t.Fatalf("attributes bundle mutated (-want +got):\n%s", diff)
	}
}

func TestRender_VoidElements(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "img gets alt", inv: element.Invocation{Hash: hash{"el-tag": "img", "src": "foo.gif"}}, want: `<img alt="" src="foo.gif">`},
		{name: "img alt kept", inv: element.Invocation{Hash: hash{"el-tag": "img", "src": "foo.gif", "alt": "bar"}}, want: `<img alt="bar" src="foo.gif">`},
		{name: "img nil alt", inv: element.Invocation{Hash: hash{"el-tag": "img", "src": "foo.gif", "alt": nil}}, want: `<img alt="" src="foo.gif">`},
		{name: "input ignores content", inv: element.Invocation{Block: block("foo"), Hash: hash{"el-tag": "input", "class": "", "value": ""}}, want: `<input value="">`},
		{name: "input bare", inv: element.Invocation{Hash: hash{"el-tag": "input"}}, want: "<input>"},
		{name: "value zero", inv: element.Invocation{Hash: hash{"el-tag": "input", "value": 0}}, want: `<input value="0">`},
		{name: "value one", inv: element.Invocation{Hash: hash{"el-tag": "input", "value": 1}}, want: `<input value="1">`},
		{name: "br", inv: element.Invocation{Args: []any{"ignored"}, Hash: hash{"el-tag": "br"}}, want: "<br>"},
	})
}

func TestRender_BooleanAttributes(t *testing.T) {
	cases := []struct {
		value any
		want  string
	}{
		{value: true, want: `<input checked type="checkbox">`},
		{value: "true", want: `<input checked type="checkbox">`},
		{value: false, want: `<input type="checkbox">`},
		{value: "", want: `<input type="checkbox">`},
		{value: 0, want: `<input type="checkbox">`},
		{value: nil, want: `<input type="checkbox">`},
	}

	r := newRenderer(t)
	for _, tc := range cases {
		got, err := r.Render(element.Invocation{Hash: hash{"el-tag": "input", "type": "checkbox", "checked": tc.value}})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if got != tc.want {
			t.Fatalf("checked=%#v\nwant: %q\n got: %q", tc.value, tc.want, got)
		}
	}
}

func TestRender_AttributeEscaping(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "escaped", inv: element.Invocation{Hash: hash{"content": "foo", "class": `"bar"`}}, want: `<div class="&quot;bar&quot;">foo</div>`},
		{name: "override off", inv: element.Invocation{Hash: hash{"content": "foo", "class": "&quot;bar&quot;", "el-escape-class": false}}, want: `<div class="&quot;bar&quot;">foo</div>`},
		{name: "override on", inv: element.Invocation{Hash: hash{"content": "foo", "class": "&quot;bar&quot;", "el-escape-class": true}}, want: `<div class="&amp;quot;bar&amp;quot;">foo</div>`},
		{name: "independent of content escape", inv: element.Invocation{Hash: hash{"content": "<b>", "title": "<b>", "el-escape": false}}, want: `<div title="&lt;b&gt;"><b></div>`},
		{name: "literal-looking attribute", inv: element.Invocation{Hash: hash{"content": "foo", "el-escape-id": false, "id": "{bar:'true'}"}}, want: `<div id="{bar:'true'}">foo</div>`},
	})
}

func TestRender_Classes(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "string", inv: element.Invocation{Hash: hash{"content": "foo", "class": "bar"}}, want: `<div class="bar">foo</div>`},
		{name: "list", inv: element.Invocation{Hash: hash{"content": "foo", "class": []string{"klass1", "klass2"}}}, want: `<div class="klass1 klass2">foo</div>`},
		{name: "list sorted", inv: element.Invocation{Hash: hash{"content": "foo", "class": []any{"klass2", "klass1"}}}, want: `<div class="klass1 klass2">foo</div>`},
	})
}

func TestRender_ContentLists(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "content list joined", inv: element.Invocation{Hash: hash{"content": []string{"foo", "bar", "baz"}}}, want: "<div>foobarbaz</div>"},
		{name: "positional list joined", inv: element.Invocation{Args: []any{"foo", "bar", "baz"}}, want: "<div>foobarbaz</div>"},
		{name: "custom join", inv: element.Invocation{Args: []any{"foo", "bar"}, Hash: hash{"el-join": ", "}}, want: "<div>foo, bar</div>"},
		{name: "contents list", inv: element.Invocation{Hash: hash{"contents": []string{"foo", "bar", "baz"}}}, want: "<div>foo</div><div>bar</div><div>baz</div>"},
		{name: "contents flag", inv: element.Invocation{Args: []any{"foo", "bar", "baz"}, Hash: hash{"contents": true}}, want: "<div>foo</div><div>bar</div><div>baz</div>"},
		{
			name: "contents with class",
			inv:  element.Invocation{Args: []any{"foo", "bar", "baz"}, Hash: hash{"contents": true, "class": "klass"}},
			want: `<div class="klass">foo</div><div class="klass">bar</div><div class="klass">baz</div>`,
		},
		{name: "contents skips empty items", inv: element.Invocation{Hash: hash{"contents": []any{"foo", " ", nil, "bar"}}}, want: "<div>foo</div><div>bar</div>"},
		{name: "contents false is not content", inv: element.Invocation{Hash: hash{"contents": false}}, want: ""},
	})
}

func TestRender_Split(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "newlines", inv: element.Invocation{Block: block("foo\nbar\nbaz")}, want: "<div>foobarbaz</div>"},
		{name: "mixed line endings", inv: element.Invocation{Block: block("foo\r\n\r\nbar\rbaz")}, want: "<div>foobarbaz</div>"},
		{name: "string separator", inv: element.Invocation{Block: block("foo,bar,baz"), Hash: hash{"el-split": ","}}, want: "<div>foobarbaz</div>"},
		{name: "string separator contents", inv: element.Invocation{Block: block("foo,bar,baz"), Hash: hash{"el-split": ",", "contents": true}}, want: "<div>foo</div><div>bar</div><div>baz</div>"},
		{name: "disabled", inv: element.Invocation{Block: block("foo\nbar\nbaz"), Hash: hash{"el-split": false}}, want: "<div>foo\nbar\nbaz</div>"},
		{name: "split then join", inv: element.Invocation{Args: []any{"foo\nbar"}, Hash: hash{"el-join": "<br>", "el-escape": false}}, want: "<div>foo<br>bar</div>"},
		{name: "only separators", inv: element.Invocation{Args: []any{"\n\n"}, Hash: hash{"el-force": true}}, want: "<div></div>"},
	})
}

func TestRender_Wrapping(t *testing.T) {
	wrap := hash{"class": "bar", "el-tag": "p"}

	runCases(t, newRenderer(t), []renderCase{
		{name: "tag name", inv: element.Invocation{Hash: hash{"content": "foo", "el-wrap": "p"}}, want: "<div><p>foo</p></div>"},
		{name: "map", inv: element.Invocation{Hash: hash{"content": "foo", "el-wrap": wrap}}, want: `<div><p class="bar">foo</p></div>`},
		{name: "per chunk", inv: element.Invocation{Hash: hash{"content": "foo\nbaz", "el-wrap": wrap}}, want: `<div><p class="bar">foo</p><p class="bar">baz</p></div>`},
		{name: "per chunk with class", inv: element.Invocation{Hash: hash{"content": "foo\nbaz", "class": "wham", "el-wrap": wrap}}, want: `<div class="wham"><p class="bar">foo</p><p class="bar">baz</p></div>`},
		{name: "wrap all", inv: element.Invocation{Hash: hash{"content": "foo\nbaz", "class": "wham", "el-wrap-all": wrap}}, want: `<div class="wham"><p class="bar">foobaz</p></div>`},
		{
			name: "contents wrap inside each element",
			inv:  element.Invocation{Hash: hash{"contents": "foo\nbaz", "class": "wham", "el-wrap": wrap}},
			want: `<div class="wham"><p class="bar">foo</p></div><div class="wham"><p class="bar">baz</p></div>`,
		},
		{name: "outer map", inv: element.Invocation{Hash: hash{"content": "foo", "el-wrap-outer": hash{"el-tag": "section"}}}, want: "<section><div>foo</div></section>"},
		{name: "outer tag name", inv: element.Invocation{Hash: hash{"content": "foo", "el-wrap-outer": "section"}}, want: "<section><div>foo</div></section>"},
		{
			name: "outer around contents",
			inv:  element.Invocation{Hash: hash{"contents": "bar\nbaz", "el-tag": "p", "el-wrap-outer": hash{"el-tag": "div", "class": "display"}}},
			want: `<div class="display"><p>bar</p><p>baz</p></div>`,
		},
		{
			name: "wrap with class on outer element",
			inv:  element.Invocation{Hash: hash{"content": "zim\nzam", "class": "display", "el-tag": "div", "el-wrap": hash{"el-tag": "p"}}},
			want: `<div class="display"><p>zim</p><p>zam</p></div>`,
		},
		{name: "outer skipped when empty", inv: element.Invocation{Hash: hash{"content": " ", "el-wrap-outer": "section"}}, want: ""},
		{name: "literal string target", inv: element.Invocation{Hash: hash{"content": "foo", "el-wrap": "{'el-tag':'p', class:'bar'}"}}, want: `<div><p class="bar">foo</p></div>`},
		{name: "literal with unquoted keys", inv: element.Invocation{Hash: hash{"content": "foo", "el-wrap-outer": `{"el-tag": "section", id: 'main',}`}}, want: `<section id="main"><div>foo</div></section>`},
		{name: "wrap target not mutated by nesting", inv: element.Invocation{Hash: hash{"content": "a\nb", "el-wrap": wrap, "el-wrap-all": wrap}}, want: `<div><p class="bar"><p class="bar">a</p><p class="bar">b</p></p></div>`},
	})

	if diff := cmp.Diff(hash{"class": "bar", "el-tag": "p"}, wrap); diff != "" {
		t.Fatalf("wrap target mutated (-want +got):\n%s", diff)
	}
}

func TestRender_WrapEscapesOnce(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "per chunk", inv: element.Invocation{Args: []any{"a&b"}, Hash: hash{"el-wrap": "p"}}, want: "<div><p>a&amp;b</p></div>"},
		{name: "wrap all", inv: element.Invocation{Args: []any{"a&b"}, Hash: hash{"el-wrap-all": "p"}}, want: "<div><p>a&amp;b</p></div>"},
		{name: "contents", inv: element.Invocation{Hash: hash{"contents": []any{"a&b"}, "el-wrap": "p"}}, want: "<div><p>a&amp;b</p></div>"},
		{name: "contents with escaping target", inv: element.Invocation{Hash: hash{"contents": []any{"a&b"}, "el-wrap": hash{"el-tag": "p", "el-escape": true}}}, want: "<div><p>a&amp;b</p></div>"},
		{name: "outer", inv: element.Invocation{Args: []any{"a&b"}, Hash: hash{"el-wrap-outer": "section"}}, want: "<section><div>a&amp;b</div></section>"},
		{name: "unescaped propagates", inv: element.Invocation{Args: []any{"<b>x</b>"}, Hash: hash{"el-escape": false, "el-wrap": "p"}}, want: "<div><p><b>x</b></p></div>"},
	})
}

func TestRender_MalformedWrapLiteralWarns(t *testing.T) {
	cases := []struct {
		name string
		inv  element.Invocation
		want string
		key  string
	}{
		{
			name: "wrap",
			inv:  element.Invocation{Hash: hash{"content": "foo", "el-wrap": "{el-tag: 'p'"}},
			want: "<div>foo</div>",
			key:  element.KeyWrap,
		},
		{
			name: "wrap escapes once",
			inv:  element.Invocation{Hash: hash{"content": "<b>", "el-wrap": "{bad"}},
			want: "<div>&lt;b&gt;</div>",
			key:  element.KeyWrap,
		},
		{
			name: "wrap per item",
			inv:  element.Invocation{Hash: hash{"contents": []any{"a", "b"}, "el-tag": "li", "el-wrap": "[broken"}},
			want: "<li>a</li><li>b</li>",
			key:  element.KeyWrap,
		},
		{
			name: "wrap all",
			inv:  element.Invocation{Hash: hash{"content": "a\nb", "el-wrap-all": "{'p'"}},
			want: "<div>ab</div>",
			key:  element.KeyWrapAll,
		},
		{
			name: "wrap outer",
			inv:  element.Invocation{Hash: hash{"content": "foo", "el-wrap-outer": "{bad"}},
			want: "<div>foo</div>",
			key:  element.KeyWrapOuter,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var warnings []element.Warning
			r := newRenderer(t, element.WithWarningHandler(func(w element.Warning) {
				warnings = append(warnings, w)
			}))

			got, err := r.Render(tc.inv)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected unwrapped output\nwant: %q\n got: %q", tc.want, got)
			}
			if len(warnings) == 0 {
				t.Fatalf("expected a malformed literal warning")
			}
			for _, w := range warnings {
				if w.Kind != element.WarnMalformedLiteral || w.Key != tc.key {
					t.Fatalf("unexpected warning %#v", w)
				}
			}
			if strings.Contains(got, "<{") || strings.Contains(got, "<[") {
				t.Fatalf("raw literal leaked into markup: %q", got)
			}
		})
	}
}

func TestRender_UnsplittableContentWarns(t *testing.T) {
	var warnings []element.Warning
	r := newRenderer(t, element.WithWarningHandler(func(w element.Warning) {
		warnings = append(warnings, w)
	}))

	got, err := r.Render(element.Invocation{Args: []any{true}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<div>true</div>" {
		t.Fatalf("expected single chunk output, got %q", got)
	}
	if len(warnings) != 1 || warnings[0].Kind != element.WarnUnsplittableContent {
		t.Fatalf("expected unsplittable warning, got %#v", warnings)
	}
}

func TestRender_InvalidRejectPatternWarns(t *testing.T) {
	var warnings []element.Warning
	r := newRenderer(t, element.WithWarningHandler(func(w element.Warning) {
		warnings = append(warnings, w)
	}))

	got, err := r.Render(element.Invocation{Args: []any{"  "}, Hash: hash{"el-reject": "(["}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "" {
		t.Fatalf("expected default reject to suppress whitespace, got %q", got)
	}
	if len(warnings) != 1 || warnings[0].Kind != element.WarnInvalidPattern {
		t.Fatalf("expected invalid pattern warning, got %#v", warnings)
	}
}

func TestRender_RejectPattern(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "custom pattern", inv: element.Invocation{Args: []any{"n/a"}, Hash: hash{"el-reject": `^(n/a|\s*)$`}}, want: ""},
		{name: "custom pattern keeps others", inv: element.Invocation{Args: []any{"yes"}, Hash: hash{"el-reject": `^(n/a|\s*)$`}}, want: "<div>yes</div>"},
		{name: "disabled", inv: element.Invocation{Args: []any{" "}, Hash: hash{"el-reject": false}}, want: "<div></div>"},
	})
}

func TestRender_EnumeratedAttributeWarns(t *testing.T) {
	var warnings []element.Warning
	r := newRenderer(t, element.WithWarningHandler(func(w element.Warning) {
		warnings = append(warnings, w)
	}))

	got, err := r.Render(element.Invocation{Args: []any{"foo"}, Hash: hash{"dir": "up"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != `<div dir="up">foo</div>` {
		t.Fatalf("expected advisory enumerated value, got %q", got)
	}
	if len(warnings) != 1 || warnings[0].Kind != element.WarnEnumeratedValue {
		t.Fatalf("expected enumerated warning, got %#v", warnings)
	}

	warnings = nil
	if _, err := r.Render(element.Invocation{Args: []any{"foo"}, Hash: hash{"dir": "rtl"}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warning for allowed value, got %#v", warnings)
	}
}

func TestRender_Functions(t *testing.T) {
	fn := func() string { return "foo" }
	fn2 := func(x any) string {
		if x == "a" {
			return "foo"
		}
		return "bar"
	}
	idFn := func(x any) string {
		if x == "a" {
			return "bar"
		}
		return "foo"
	}

	runCases(t, newRenderer(t), []renderCase{
		{name: "content func", inv: element.Invocation{Hash: hash{"content": fn}}, want: "<div>foo</div>"},
		{name: "content func params", inv: element.Invocation{Hash: hash{"content": fn2, "el-params-content": "a"}}, want: "<div>foo</div>"},
		{name: "content func list", inv: element.Invocation{Hash: hash{"content": []any{fn, fn2}, "el-params-content": "b"}}, want: "<div>foobar</div>"},
		{name: "content params for list items", inv: element.Invocation{Hash: hash{"content": []any{fn2}, "el-content-params": "a"}}, want: "<div>foo</div>"},
		{name: "attribute func", inv: element.Invocation{Hash: hash{"content": "foo", "id": func() string { return "bar" }}}, want: `<div id="bar">foo</div>`},
		{name: "attribute func params", inv: element.Invocation{Hash: hash{"content": "foo", "id": idFn, "el-params-id": "a"}}, want: `<div id="bar">foo</div>`},
		{
			name: "render context",
			inv: element.Invocation{
				Context: map[string]any{"name": "Ada"},
				Hash: hash{"content": element.Func(func(_ any, ctx any) (any, error) {
					return ctx.(map[string]any)["name"], nil
				})},
			},
			want: "<div>Ada</div>",
		},
		{
			name: "block receives context",
			inv: element.Invocation{
				Context: "ctx",
				Block:   func(ctx any) (string, error) { return ctx.(string), nil },
			},
			want: "<div>ctx</div>",
		},
	})
}

func TestRender_FunctionErrors(t *testing.T) {
	boom := errors.New("boom")
	r := newRenderer(t)

	_, err := r.Render(element.Invocation{Hash: hash{"content": func() (string, error) { return "", boom }}})
	if !errors.Is(err, boom) || !errors.Is(err, element.ErrFunctionFailed) {
		t.Fatalf("expected wrapped function error, got %v", err)
	}

	_, err = r.Render(element.Invocation{Args: []any{"x"}, Hash: hash{"title": func() (string, error) { return "", boom }}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected attribute function error, got %v", err)
	}

	_, err = r.Render(element.Invocation{Block: func(any) (string, error) { return "", boom }})
	if !errors.Is(err, boom) {
		t.Fatalf("expected block error, got %v", err)
	}
}

func TestRender_Abort(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "abort all", inv: element.Invocation{Hash: hash{"content": "foo", "el-abort-all": true}}, want: ""},
		{name: "abort all false", inv: element.Invocation{Hash: hash{"content": "foo", "el-abort-all": false}}, want: "<div>foo</div>"},
		{name: "abort all through bundle", inv: element.Invocation{Hash: hash{"content": "foo", "attributes": hash{"el-abort-all": true}}}, want: ""},
		{name: "abort", inv: element.Invocation{Hash: hash{"content": "foo", "el-abort": true}}, want: "foo"},
		{name: "abort false", inv: element.Invocation{Hash: hash{"content": "foo", "el-abort": false}}, want: "<div>foo</div>"},
		{name: "abort joins split", inv: element.Invocation{Hash: hash{"content": "foo\nbar", "el-abort": true}}, want: "foobar"},
		{name: "abort joins list", inv: element.Invocation{Hash: hash{"content": []string{"foo", "bar"}, "el-abort": true}}, want: "foobar"},
		{name: "abort skips wrapping", inv: element.Invocation{Hash: hash{"content": "foo", "el-abort": true, "el-wrap": "p", "el-wrap-all": "p", "el-wrap-outer": "p"}}, want: "foo"},
		{name: "abort skips escaping", inv: element.Invocation{Hash: hash{"content": "<b>", "el-abort": true}}, want: "<b>"},
	})
}

func TestRender_Trim(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "default", inv: element.Invocation{Hash: hash{"content": " foo "}}, want: "<div>foo</div>"},
		{name: "disabled", inv: element.Invocation{Hash: hash{"content": " foo ", "el-trim": false}}, want: "<div> foo </div>"},
		{name: "mixed whitespace", inv: element.Invocation{Hash: hash{"content": " \n foo \t   "}}, want: "<div>foo</div>"},
	})
}

func TestRender_Fallbacks(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "content fallback", inv: element.Invocation{Hash: hash{"el-fallback": "foo"}}, want: "<div>foo</div>"},
		{name: "content fallback trimmed", inv: element.Invocation{Hash: hash{"el-fallback": " foo "}}, want: "<div>foo</div>"},
		{name: "content wins", inv: element.Invocation{Hash: hash{"content": "foo", "el-fallback": "bar"}}, want: "<div>foo</div>"},
		{name: "class fallback", inv: element.Invocation{Hash: hash{"content": "foo", "el-fallback-class": "bar"}}, want: `<div class="bar">foo</div>`},
		{name: "class wins", inv: element.Invocation{Hash: hash{"content": "foo", "class": "bar", "el-fallback-class": "baz"}}, want: `<div class="bar">foo</div>`},
		{
			name: "empty class list uses fallback list",
			inv:  element.Invocation{Hash: hash{"content": "foo", "class": []string{}, "el-fallback-class": []string{"klass1", "klass2"}}},
			want: `<div class="klass1 klass2">foo</div>`,
		},
		{name: "property fallback", inv: element.Invocation{Hash: hash{"content": "foo", "el-fallback-title": "hint"}}, want: `<div title="hint">foo</div>`},
		{name: "property present", inv: element.Invocation{Hash: hash{"content": "foo", "title": "mine", "el-fallback-title": "hint"}}, want: `<div title="mine">foo</div>`},
		{name: "property nil", inv: element.Invocation{Hash: hash{"content": "foo", "title": nil, "el-fallback-title": "hint"}}, want: `<div title="hint">foo</div>`},
	})
}

func TestRender_FirstMatch(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "string", inv: element.Invocation{Hash: hash{"content": []any{"", nil, "foo"}, "el-first-match": true}}, want: "<div>foo</div>"},
		{name: "numeric zero", inv: element.Invocation{Hash: hash{"content": []any{"", nil, 0}, "el-first-match": true}}, want: "<div>0</div>"},
		{name: "string zero", inv: element.Invocation{Hash: hash{"content": []any{"", nil, "0"}, "el-first-match": true}}, want: "<div>0</div>"},
		{name: "first wins", inv: element.Invocation{Hash: hash{"content": []any{"a", "b"}, "el-first-match": true}}, want: "<div>a</div>"},
	})
}

func TestRender_Ternary(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{name: "true", inv: element.Invocation{Hash: hash{"content": []string{"foo", "bar"}, "el-ternary": true}}, want: "<div>foo</div>"},
		{name: "false", inv: element.Invocation{Hash: hash{"content": []string{"foo", "bar"}, "el-ternary": false}}, want: "<div>bar</div>"},
		{name: "three chunks ignored", inv: element.Invocation{Hash: hash{"content": []string{"foo", "bar", "baz"}, "el-ternary": true}}, want: "<div>foobarbaz</div>"},
		{name: "split chunks", inv: element.Invocation{Args: []any{"yes\nno"}, Hash: hash{"el-ternary": 0}}, want: "<div>no</div>"},
	})
}

func TestRender_ContentBeforeAfter(t *testing.T) {
	runCases(t, newRenderer(t), []renderCase{
		{
			name: "literals around content",
			inv:  element.Invocation{Args: []any{"a<b"}, Hash: hash{"el-content-before": "<span>", "el-content-after": "</span>"}},
			want: "<div><span>a&lt;b</span></div>",
		},
		{
			name: "inside each contents element",
			inv:  element.Invocation{Hash: hash{"contents": []string{"a", "b"}, "el-tag": "li", "el-content-before": "- "}},
			want: "<li>- a</li><li>- b</li>",
		},
		{
			name: "between element and wrap",
			inv:  element.Invocation{Hash: hash{"contents": []string{"a"}, "el-wrap": "em", "el-content-after": "!"}},
			want: "<div><em>a</em>!</div>",
		},
	})
}

func TestRender_Phrase(t *testing.T) {
	phrases := map[string]map[string]string{
		"en": {"foo": "foo phrase"},
		"fr": {"foo": "phrase de foo"},
	}
	var gotCtx any
	r := newRenderer(t, element.WithPhraser(element.PhraserFunc(func(key string, options map[string]any, ctx any, locale string) string {
		gotCtx = ctx
		if locale == "" {
			locale = "en"
		}
		if len(options) != 0 {
			t.Fatalf("expected empty options bag, got %#v", options)
		}
		if msg, ok := phrases[locale][key]; ok {
			return msg
		}
		return key
	})))

	runCases(t, r, []renderCase{
		{name: "default locale", inv: element.Invocation{Hash: hash{"content": "foo", "el-content-phrase": true}}, want: "<div>foo phrase</div>"},
		{name: "explicit locale", inv: element.Invocation{Hash: hash{"content": "foo", "el-content-phrase": true, "el-lang": "fr"}}, want: "<div>phrase de foo</div>"},
		{name: "each chunk", inv: element.Invocation{Hash: hash{"contents": []string{"foo", "bar"}, "el-content-phrase": true}}, want: "<div>foo phrase</div><div>bar</div>"},
		{name: "phrase off", inv: element.Invocation{Hash: hash{"content": "foo"}}, want: "<div>foo</div>"},
	})

	if _, err := r.Render(element.Invocation{Context: "page", Hash: hash{"content": "foo", "el-content-phrase": true}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if gotCtx != "page" {
		t.Fatalf("expected render context to reach phraser, got %#v", gotCtx)
	}
}

func TestRender_PhraseWithoutPhraserReturnsKey(t *testing.T) {
	got, err := newRenderer(t).Render(element.Invocation{Hash: hash{"content": "foo", "el-content-phrase": true}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<div>foo</div>" {
		t.Fatalf("expected key as content, got %q", got)
	}
}

func TestRender_CustomTablesAndEscaper(t *testing.T) {
	tables := element.DefaultTables()
	tables.Void["x-icon"] = true
	tables.Boolean["hidden"] = true

	r := newRenderer(t,
		element.WithTables(tables),
		element.WithEscaper(strings.ToUpper),
	)

	runCases(t, r, []renderCase{
		{name: "custom void", inv: element.Invocation{Hash: hash{"el-tag": "x-icon", "name": "star"}}, want: `<x-icon name="STAR">`},
		{name: "custom boolean", inv: element.Invocation{Args: []any{"foo"}, Hash: hash{"hidden": "yes"}}, want: "<div hidden>FOO</div>"},
	})

	tables.Void["span"] = true
	got, err := r.Render(element.Invocation{Args: []any{"foo"}, Hash: hash{"el-tag": "span"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<span>FOO</span>" {
		t.Fatalf("renderer tables must not follow caller mutation, got %q", got)
	}
}

func TestRender_MaxWrapDepth(t *testing.T) {
	var warnings []element.Warning
	r := newRenderer(t,
		element.WithMaxWrapDepth(1),
		element.WithWarningHandler(func(w element.Warning) { warnings = append(warnings, w) }),
	)

	nested := hash{"el-tag": "p", "el-wrap": "em"}
	got, err := r.Render(element.Invocation{Args: []any{"a&b"}, Hash: hash{"el-wrap": nested}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<div><p>a&amp;b</p></div>" {
		t.Fatalf("unexpected output at depth limit: %q", got)
	}
	if len(warnings) != 1 || warnings[0].Kind != element.WarnWrapDepth {
		t.Fatalf("expected one depth warning, got %#v", warnings)
	}
}

func TestRender_SelfReferencingWrapTarget(t *testing.T) {
	outer := map[string]any{"el-tag": "p"}
	outer["el-wrap-outer"] = outer

	got, err := newRenderer(t).Render(element.Invocation{Hash: hash{
		"content":       "x",
		"el-wrap-outer": outer,
	}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "<p><div>x</div></p>"; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRenderArgs_TrailingHash(t *testing.T) {
	r := newRenderer(t)

	got, err := r.RenderArgs("foo", "bar", map[string]any{"el-tag": "p", "el-join": " "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<p>foo bar</p>" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestNew_DefaultLoggerOnlyWarns(t *testing.T) {
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	r := element.New()
	got, err := r.RenderArgs("foo", map[string]any{"el-wrap": "p", "el-wrap-outer": "section"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "<section><div><p>foo</p></div></section>"; got != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, got)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no log output for a plain render, got %q", buf.String())
	}

	if _, err := r.RenderArgs(true); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), string(element.WarnUnsplittableContent)) {
		t.Fatalf("expected warning to be logged, got %q", buf.String())
	}
}

func TestRenderer_ConcurrentUse(t *testing.T) {
	tables := element.DefaultTables()
	r := newRenderer(t, element.WithTables(tables))

	shared := hash{
		"content":           "a\nb",
		"el-wrap":           hash{"el-tag": "li", "class": []any{"z", "y"}},
		"el-wrap-outer":     hash{"el-tag": "section", "attributes": hash{"id": "main"}},
		"attributes":        hash{"el-tag": "ul", "title": "list"},
		"class":             []any{"b", "a"},
		"el-fallback-title": "unused",
		"el-fallback-role":  "list",
	}
	const want = `<section id="main"><ul class="a b" role="list" title="list">` +
		`<li class="y z">a</li><li class="y z">b</li></ul></section>`

	// Mutating the injected tables after construction has no effect.
	tables.Boolean["title"] = true
	tables.Void["ul"] = true
	delete(tables.Void, "img")

	const workers = 32
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for n := 0; n < 20; n++ {
				results[i], errs[i] = r.Render(element.Invocation{Hash: shared})
				if errs[i] != nil || results[i] != want {
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("worker %d: render: %v", i, errs[i])
		}
		if results[i] != want {
			t.Fatalf("worker %d mismatch\nwant: %q\n got: %q", i, want, results[i])
		}
	}

	img, err := r.RenderArgs(map[string]any{"el-tag": "img", "src": "/a.png"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := `<img alt="" src="/a.png">`; img != want {
		t.Fatalf("void table changed after construction\nwant: %q\n got: %q", want, img)
	}

	if diff := cmp.Diff(hash{"el-tag": "li", "class": []any{"z", "y"}}, shared["el-wrap"]); diff != "" {
		t.Fatalf("shared hash was mutated (-want +got):\n%s", diff)
	}
}
