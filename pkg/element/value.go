package element

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the shape held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
	KindFunc
	KindPattern
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindFunc:
		return "func"
	case KindPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Func is the normalised signature of content and attribute producing
// functions. params carries the matching el-params-* / el-content-params value
// and renderCtx the host's render context.
type Func func(params any, renderCtx any) (any, error)

// Value is the tagged variant every content, attribute and directive value is
// converted into before the pipeline inspects it.
type Value struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	list    []Value
	dict    map[string]Value
	fn      Func
	pattern *regexp.Regexp
}

// Null is the absent value.
var Null = Value{}

// String builds a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number builds a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool builds a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// List builds an ordered sequence value.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Map builds a mapping value.
func Map(entries map[string]Value) Value {
	if entries == nil {
		entries = map[string]Value{}
	}
	return Value{kind: KindMap, dict: entries}
}

// FuncValue wraps a Func.
func FuncValue(fn Func) Value {
	if fn == nil {
		return Null
	}
	return Value{kind: KindFunc, fn: fn}
}

// Pattern wraps a compiled regular expression.
func Pattern(re *regexp.Regexp) Value {
	if re == nil {
		return Null
	}
	return Value{kind: KindPattern, pattern: re}
}

// MaxValueDepth bounds how deeply ValueOf descends into nested maps and
// slices. Deeper levels, and containers that contain themselves, become Null.
const MaxValueDepth = 64

// ValueOf converts an arbitrary Go value supplied by a host into a Value.
func ValueOf(v any) Value {
	c := converter{active: map[uintptr]struct{}{}}
	return c.value(v)
}

// converter tracks the containers on the current path so self-referencing
// data terminates.
type converter struct {
	depth  int
	active map[uintptr]struct{}
}

// enter reports whether the container at rv may be descended into and
// returns the func that leaves it again.
func (c *converter) enter(rv reflect.Value) (func(), bool) {
	if c.depth >= MaxValueDepth {
		return nil, false
	}
	var ptr uintptr
	if (rv.Kind() == reflect.Map || rv.Kind() == reflect.Slice) && rv.Len() > 0 {
		ptr = rv.Pointer()
	}
	if ptr != 0 {
		if _, ok := c.active[ptr]; ok {
			return nil, false
		}
		c.active[ptr] = struct{}{}
	}
	c.depth++
	return func() {
		c.depth--
		if ptr != 0 {
			delete(c.active, ptr)
		}
	}, true
}

func (c *converter) value(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case Value:
		return t
	case *Value:
		if t == nil {
			return Null
		}
		return *t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f)
		}
		return String(t.String())
	case *regexp.Regexp:
		return Pattern(t)
	case Func:
		return FuncValue(t)
	case func(params any, renderCtx any) (any, error):
		return FuncValue(t)
	case func(params any, renderCtx any) any:
		return FuncValue(func(p, c any) (any, error) { return t(p, c), nil })
	case func(params any) any:
		return FuncValue(func(p, _ any) (any, error) { return t(p), nil })
	case func(params any) string:
		return FuncValue(func(p, _ any) (any, error) { return t(p), nil })
	case func() any:
		return FuncValue(func(_, _ any) (any, error) { return t(), nil })
	case func() string:
		return FuncValue(func(_, _ any) (any, error) { return t(), nil })
	case func() (string, error):
		return FuncValue(func(_, _ any) (any, error) { return t() })
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = String(s)
		}
		return List(items...)
	case []any:
		leave, ok := c.enter(reflect.ValueOf(t))
		if !ok {
			return Null
		}
		defer leave()
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = c.value(item)
		}
		return List(items...)
	case map[string]any:
		leave, ok := c.enter(reflect.ValueOf(t))
		if !ok {
			return Null
		}
		defer leave()
		entries := make(map[string]Value, len(t))
		for k, item := range t {
			entries[k] = c.value(item)
		}
		return Map(entries)
	case map[string]string:
		entries := make(map[string]Value, len(t))
		for k, item := range t {
			entries[k] = String(item)
		}
		return Map(entries)
	case fmt.Stringer:
		return String(t.String())
	}
	return c.reflectValue(v)
}

func (c *converter) reflectValue(v any) Value {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Null
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return String(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.Slice, reflect.Array:
		leave, ok := c.enter(rv)
		if !ok {
			return Null
		}
		defer leave()
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = c.value(rv.Index(i).Interface())
		}
		return List(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return String(fmt.Sprint(v))
		}
		leave, ok := c.enter(rv)
		if !ok {
			return Null
		}
		defer leave()
		entries := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries[iter.Key().String()] = c.value(iter.Value().Interface())
		}
		return Map(entries)
	case reflect.Func:
		return reflectFunc(rv)
	}
	return String(fmt.Sprint(v))
}

// reflectFunc adapts functions of up to two arguments returning one value or a
// value and an error.
func reflectFunc(rv reflect.Value) Value {
	ft := rv.Type()
	if ft.NumIn() > 2 || ft.IsVariadic() || ft.NumOut() == 0 || ft.NumOut() > 2 {
		return String(ft.String())
	}
	if ft.NumOut() == 2 && !ft.Out(1).Implements(errorType) {
		return String(ft.String())
	}
	return FuncValue(func(params any, renderCtx any) (any, error) {
		in := make([]reflect.Value, ft.NumIn())
		passed := []any{params, renderCtx}
		for i := range in {
			in[i] = argumentFor(ft.In(i), passed[i])
		}
		out := rv.Call(in)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	})
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func argumentFor(t reflect.Type, v any) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t)
	}
	if t.Kind() == reflect.String {
		return reflect.ValueOf(ValueOf(v).String()).Convert(t)
	}
	return reflect.Zero(t)
}

// Kind reports the variant held.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Truthy follows template-language truthiness: null, false, "", 0 and NaN are
// false; lists and maps are true even when empty.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindBool:
		return v.boolean
	default:
		return true
	}
}

// Present reports whether the value counts as supplied content: truthy values
// plus numeric zero.
func (v Value) Present() bool {
	return v.Truthy() || v.IsZeroNumber()
}

// IsZeroNumber reports whether the value is the number zero.
func (v Value) IsZeroNumber() bool {
	return v.kind == KindNumber && v.num == 0
}

// Empty reports null, "", an empty list or an empty map.
func (v Value) Empty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == ""
	case KindList:
		return len(v.list) == 0
	case KindMap:
		return len(v.dict) == 0
	default:
		return false
	}
}

// String renders the value as text. Null renders as "", lists join their
// items with commas and maps render as JSON.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return strings.Join(parts, ",")
	case KindMap:
		payload, err := json.Marshal(v.Interface())
		if err != nil {
			return ""
		}
		return string(payload)
	case KindPattern:
		return v.pattern.String()
	case KindFunc:
		return "func"
	default:
		return ""
	}
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// Items returns the list items, or nil for non-lists.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Entries returns the map entries, or nil for non-maps.
func (v Value) Entries() map[string]Value {
	if v.kind != KindMap {
		return nil
	}
	return v.dict
}

// Regexp returns the compiled pattern, or nil for non-patterns.
func (v Value) Regexp() *regexp.Regexp {
	return v.pattern
}

// Call invokes a function value. Non-function values are returned unchanged.
func (v Value) Call(params any, renderCtx any) (Value, error) {
	if v.kind != KindFunc {
		return v, nil
	}
	out, err := v.fn(params, renderCtx)
	if err != nil {
		return Null, err
	}
	return ValueOf(out), nil
}

// Interface converts the value back into plain Go data.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.boolean
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.dict))
		for k, item := range v.dict {
			out[k] = item.Interface()
		}
		return out
	case KindFunc:
		return v.fn
	case KindPattern:
		return v.pattern
	default:
		return nil
	}
}

// clone copies lists and maps so nested wrap targets can be mutated safely.
func (v Value) clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.clone()
		}
		return List(items...)
	case KindMap:
		entries := make(map[string]Value, len(v.dict))
		for k, item := range v.dict {
			entries[k] = item.clone()
		}
		return Map(entries)
	default:
		return v
	}
}

func sortedStrings(items []Value) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.String()
	}
	sort.Strings(out)
	return out
}
