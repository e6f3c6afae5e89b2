// Package element renders declarative helper calls into HTML element strings.
//
// A call is resolved in five stages: the request is normalised (positional
// arguments, named arguments and the "attributes" bundle merged, el-*
// defaults applied), content is resolved through a fixed priority chain,
// split/joined/wrapped into chunks, attributes are serialised in key order,
// and one element is emitted per eligible chunk before an optional outer
// wrap re-runs the pipeline around the result.
//
//	r := element.New()
//	out, _ := r.RenderArgs("foo", map[string]any{"el-tag": "p", "class": "lead"})
//	// <p class="lead">foo</p>
//
// Keys prefixed with "el-" are directives and never reach the markup.
package element
