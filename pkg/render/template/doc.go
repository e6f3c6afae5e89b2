// Package template defines the engine-agnostic template contract. The
// gotemplate subpackage implements it on the go-template pongo2 engine and
// installs the el block tag, the el_inline tag and the el global function.
package template
