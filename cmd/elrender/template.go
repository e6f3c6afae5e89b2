package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-el/pkg/phrase"
	"github.com/goliatone/go-el/pkg/render/template/gotemplate"
	"github.com/goliatone/go-el/pkg/sanitize"
)

type templateOptions struct {
	*sharedOptions
	dataPath string
}

func newTemplateCmd(shared *sharedOptions) *cobra.Command {
	opts := &templateOptions{sharedOptions: shared}

	cmd := &cobra.Command{
		Use:     "template <file>",
		Short:   MsgTemplateShort,
		Example: MsgTemplateExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplate(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.dataPath, "data", "d", "", "YAML or JSON file with template data")
	return cmd
}

func runTemplate(cmd *cobra.Command, opts *templateOptions, path string) error {
	data := map[string]any{}
	if opts.dataPath != "" {
		raw, err := os.ReadFile(opts.dataPath)
		if err != nil {
			return fmt.Errorf(MsgErrReadData, err)
		}
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf(MsgErrReadData, err)
		}
	}

	r, catalog, err := opts.renderer()
	if err != nil {
		return err
	}

	engineOptions := []gotemplate.Option{
		gotemplate.WithBaseDir(filepath.Dir(path)),
		gotemplate.WithElementRenderer(r),
	}
	if catalog != nil {
		engineOptions = append(engineOptions, gotemplate.WithTemplateFunc(phrase.TemplateFuncs(catalog, phrase.TemplateConfig{})))
	}
	if opts.sanitize {
		engineOptions = append(engineOptions, gotemplate.WithPostProcess(sanitize.Markup))
	}

	engine, err := gotemplate.New(engineOptions...)
	if err != nil {
		return fmt.Errorf(MsgErrTemplate, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(MsgErrTemplate, err)
	}

	log.Debug().Str("template", path).Int("keys", len(data)).Msg("Rendering template")
	out, err := engine.RenderString(string(content), data)
	if err != nil {
		return fmt.Errorf(MsgErrTemplate, err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
