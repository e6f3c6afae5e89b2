package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-el/pkg/element"
	"github.com/goliatone/go-el/pkg/logging"
	"github.com/goliatone/go-el/pkg/phrase"
	"github.com/goliatone/go-el/pkg/sanitize"
)

var version = "dev"

// sharedOptions are the flags every rendering command understands.
type sharedOptions struct {
	verbosity   int
	phrasesPath string
	locale      string
	sanitize    bool
	maxDepth    int
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &sharedOptions{}

	rootCmd := &cobra.Command{
		Use:   "elrender",
		Short: MsgRootShort,
		Long:  MsgRootLong,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity, cmd.ErrOrStderr())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.StringVar(&opts.phrasesPath, "phrases", "", "YAML phrase catalog used by el-content-phrase")
	flags.StringVar(&opts.locale, "locale", "", "default locale for phrases")
	flags.BoolVar(&opts.sanitize, "sanitize", false, "sanitize the rendered markup")
	flags.IntVar(&opts.maxDepth, "max-depth", element.DefaultMaxWrapDepth, "maximum nested wrap depth")

	rootCmd.AddCommand(newRenderCmd(opts))
	rootCmd.AddCommand(newTemplateCmd(opts))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "elrender version %s\n", version)
		},
	})

	return rootCmd
}

// renderer builds the element renderer configured by the shared flags.
func (o *sharedOptions) renderer() (*element.Renderer, *phrase.Catalog, error) {
	options := []element.Option{
		element.WithLogger(logging.GetLogger("elrender")),
		element.WithMaxWrapDepth(o.maxDepth),
	}

	var catalog *phrase.Catalog
	if o.phrasesPath != "" {
		catalog = phrase.NewCatalog()
		f, err := os.Open(o.phrasesPath)
		if err != nil {
			return nil, nil, fmt.Errorf(MsgErrPhrases, err)
		}
		defer f.Close()
		if err := catalog.LoadYAML(f); err != nil {
			return nil, nil, fmt.Errorf(MsgErrPhrases, err)
		}
		if o.locale != "" {
			catalog.SetDefaultLocale(o.locale)
		}
		log.Debug().Strs("locales", catalog.Locales()).Str("default", catalog.DefaultLocale()).Msg("Phrases loaded")
		options = append(options, element.WithPhraser(catalog))
	}

	return element.New(options...), catalog, nil
}

// finish applies the output filters to a single rendered element. The
// template command runs the same filter as an engine post-process.
func (o *sharedOptions) finish(out string) string {
	if o.sanitize {
		return sanitize.Markup(out)
	}
	return out
}
