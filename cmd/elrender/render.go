package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-el/pkg/element"
)

// requestFile is the on-disk form of a render call. JSON documents are
// accepted since they are valid YAML.
type requestFile struct {
	Args  []any          `yaml:"args"`
	Hash  map[string]any `yaml:"hash"`
	Block *string        `yaml:"block"`
}

type renderOptions struct {
	*sharedOptions
	attrs       []string
	requestPath string
	block       string
	blockSet    bool
}

func newRenderCmd(shared *sharedOptions) *cobra.Command {
	opts := &renderOptions{sharedOptions: shared}

	cmd := &cobra.Command{
		Use:     "render [content...]",
		Short:   MsgRenderShort,
		Long:    MsgRenderLong,
		Example: MsgRenderExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.blockSet = cmd.Flags().Changed("block")
			return runRender(cmd, opts, args)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.attrs, "attr", "a", nil, "named argument as key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.requestPath, "file", "f", "", "YAML or JSON request file")
	cmd.Flags().StringVar(&opts.block, "block", "", "block body; use - to read it from stdin")
	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOptions, args []string) error {
	inv, err := opts.invocation(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	r, _, err := opts.renderer()
	if err != nil {
		return err
	}

	log.Debug().Int("args", len(inv.Args)).Int("hash", len(inv.Hash)).Bool("block", inv.Block != nil).Msg("Rendering element")
	out, err := r.Render(inv)
	if err != nil {
		return fmt.Errorf(MsgErrRender, err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), opts.finish(out))
	return err
}

// invocation merges the request file, positional content and --attr flags.
// Flags win over the file.
func (o *renderOptions) invocation(stdin io.Reader, args []string) (element.Invocation, error) {
	inv := element.Invocation{Hash: map[string]any{}}

	if o.requestPath != "" {
		data, err := os.ReadFile(o.requestPath)
		if err != nil {
			return inv, fmt.Errorf(MsgErrReadRequest, err)
		}
		var req requestFile
		if err := yaml.Unmarshal(data, &req); err != nil {
			return inv, fmt.Errorf(MsgErrReadRequest, err)
		}
		inv.Args = append(inv.Args, req.Args...)
		for k, v := range req.Hash {
			inv.Hash[k] = v
		}
		if req.Block != nil {
			inv.Block = staticBlock(*req.Block)
		}
	}

	for _, arg := range args {
		inv.Args = append(inv.Args, arg)
	}

	for _, raw := range o.attrs {
		key, value, err := parseAttr(raw)
		if err != nil {
			return inv, err
		}
		inv.Hash[key] = value
	}

	if o.blockSet {
		body := o.block
		if body == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return inv, err
			}
			body = string(data)
		}
		inv.Block = staticBlock(body)
	}
	return inv, nil
}

func staticBlock(body string) func(any) (string, error) {
	return func(any) (string, error) { return body, nil }
}

// parseAttr splits key=value. Literal-looking values become lists or maps,
// true and false become booleans and everything else stays a string.
func parseAttr(raw string) (string, any, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf(MsgErrAttrFormat, raw)
	}

	switch trimmed := strings.TrimSpace(value); {
	case trimmed == "true":
		return key, true, nil
	case trimmed == "false":
		return key, false, nil
	case strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "["):
		parsed, err := element.ParseLiteral(trimmed)
		if err != nil {
			log.Debug().Str("key", key).Err(err).Msg("Attribute kept as string")
			return key, value, nil
		}
		return key, parsed.Interface(), nil
	}
	return key, value, nil
}
