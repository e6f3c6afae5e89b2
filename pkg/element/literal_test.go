package element_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-el/pkg/element"
)

func TestParseLiteral(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want any
	}{
		{name: "json object", src: `{"el-tag": "p", "class": "bar"}`, want: map[string]any{"el-tag": "p", "class": "bar"}},
		{name: "single quotes", src: `{'el-tag':'p'}`, want: map[string]any{"el-tag": "p"}},
		{name: "bare keys", src: `{el-tag: 'p', data_x: "y"}`, want: map[string]any{"el-tag": "p", "data_x": "y"}},
		{name: "trailing comma", src: `{ a: 1, }`, want: map[string]any{"a": float64(1)}},
		{name: "nested", src: `{wrap: {tag: 'em'}, list: [1, 'two', true, null]}`, want: map[string]any{
			"wrap": map[string]any{"tag": "em"},
			"list": []any{float64(1), "two", true, nil},
		}},
		{name: "array", src: `['a', "b",]`, want: []any{"a", "b"}},
		{name: "escapes", src: `{s: 'it\'s é\n'}`, want: map[string]any{"s": "it's é\n"}},
		{name: "negative number", src: `[-1.5e2]`, want: []any{float64(-150)}},
		{name: "undefined", src: `{a: undefined}`, want: map[string]any{"a": nil}},
		{name: "empty object", src: ` {} `, want: map[string]any{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := element.ParseLiteral(tc.src)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.src, err)
			}
			if diff := cmp.Diff(tc.want, got.Interface()); diff != "" {
				t.Fatalf("literal mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLiteral_Errors(t *testing.T) {
	for _, src := range []string{
		`{el-tag: 'p'`,
		`{a: 'unterminated}`,
		`{a 'missing colon'}`,
		`{a: bare}`,
		`[1 2]`,
		`{a: 1} trailing`,
		`{a: context.taggo}`,
		``,
	} {
		if _, err := element.ParseLiteral(src); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
}
