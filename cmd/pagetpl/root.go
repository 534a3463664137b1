package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-pagetemplate/pkg/config"
	"github.com/goliatone/go-pagetemplate/pkg/logging"
)

type rootOptions struct {
	verbosity int
	cfgFile   string
	templates string
	rules     string
	extension string
	sanitize  bool
}

// NewRootCmd builds the pagetpl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "pagetpl",
		Short: "Resolve and render page templates by URL convention",
		Long: `pagetpl picks the template variant for a URL from an ordered rule list
and renders {templates}/{name as path}.{type}{ext} with the configured globals.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity, cmd.ErrOrStderr())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.StringVarP(&opts.cfgFile, "config", "c", "", "site config file (.yaml, .yml or .toml)")
	flags.StringVarP(&opts.templates, "templates", "t", "", "template base directory")
	flags.StringVarP(&opts.rules, "rules", "r", "", "rules file (.yaml, .yml, .json or .toml)")
	flags.StringVar(&opts.extension, "ext", "", "template file extension")
	flags.BoolVar(&opts.sanitize, "sanitize", false, "sanitize rendered HTML with a UGC policy")

	rootCmd.AddCommand(
		newResolveCmd(opts),
		newPathCmd(opts),
		newRenderCmd(opts),
	)
	return rootCmd
}

// siteConfig merges the config file, environment and explicitly set flags.
func (o *rootOptions) siteConfig(cmd *cobra.Command) (config.Config, error) {
	overrides := map[string]any{}
	flags := cmd.Flags()
	if flags.Changed("templates") {
		overrides["templates"] = o.templates
	}
	if flags.Changed("rules") {
		overrides["rules"] = o.rules
	}
	if flags.Changed("ext") {
		overrides["extension"] = o.extension
	}
	if flags.Changed("sanitize") {
		overrides["sanitize"] = o.sanitize
	}
	return config.Load(o.cfgFile, overrides)
}
