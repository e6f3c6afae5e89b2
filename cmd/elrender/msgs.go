package main

// Message constants
const (
	MsgRootShort = "Render declarative HTML elements"
	MsgRootLong  = `elrender renders el helper calls from the command line, either one
element at a time or through pongo2 templates that use the el tags.`

	MsgRenderShort   = "Render a single element"
	MsgRenderLong    = `Render one element from positional content and key=value attributes.
Keys starting with el- are directives; every other key becomes an HTML
attribute. Values that look like object or array literals are parsed.`
	MsgRenderExample = `  elrender render "Hello" -a el-tag=p -a class=lead
  elrender render -a el-tag=ul -a el-wrap=li --block "$(printf 'one\ntwo')"
  elrender render -f request.yaml --phrases phrases.yaml --locale fr`

	MsgTemplateShort   = "Render a pongo2 template using the el tags"
	MsgTemplateExample = `  elrender template page.tpl -d data.yaml`

	MsgVersionShort = "Print version information"

	MsgErrAttrFormat  = "invalid attribute %q: expected key=value"
	MsgErrReadRequest = "read request file: %w"
	MsgErrReadData    = "read data file: %w"
	MsgErrPhrases     = "load phrases: %w"
	MsgErrRender      = "render element: %w"
	MsgErrTemplate    = "render template: %w"
)
