package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagetemplate/pkg/config"
	"github.com/goliatone/go-pagetemplate/pkg/logging"
	"github.com/goliatone/go-pagetemplate/pkg/manager"
	"github.com/goliatone/go-pagetemplate/pkg/render/template/pongo"
	"github.com/goliatone/go-pagetemplate/pkg/templater"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <url>",
		Short: "Print the template name selected for a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.siteConfig(cmd)
			if err != nil {
				return err
			}
			mgr, err := newManager(cfg, args[0])
			if err != nil {
				return err
			}
			name, ok := mgr.ResolveName()
			if !ok {
				return fmt.Errorf("no rule matches %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func newPathCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path <name> <type>",
		Short: "Print the template path for a name and type without checking it exists",
		Long:  `Pass an empty string as <name> to get the type-only fallback path.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.siteConfig(cmd)
			if err != nil {
				return err
			}
			loader, err := newLoader(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loader.Path(args[0], templater.CanonicalType(args[1])))
			return nil
		},
	}
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		sets       []string
		valuesFile string
	)

	cmd := &cobra.Command{
		Use:   "render <url> <type>",
		Short: "Render the <type> template of the variant selected for <url>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.siteConfig(cmd)
			if err != nil {
				return err
			}
			values, err := collectValues(valuesFile, sets)
			if err != nil {
				return err
			}
			mgr, err := newManager(cfg, args[0])
			if err != nil {
				return err
			}
			return mgr.AutoDetect(cmd.OutOrStdout(), args[1], values)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "template value as key=value (repeatable)")
	cmd.Flags().StringVar(&valuesFile, "values", "", "YAML or JSON file with template values")
	return cmd
}

func newLoader(cfg config.Config) (*templater.Loader, error) {
	engineOpts := []pongo.Option{pongo.WithFilters(templater.Filters())}
	if cfg.Sanitize {
		engineOpts = append(engineOpts, pongo.WithSanitizer(bluemonday.UGCPolicy()))
	}
	engine, err := pongo.New(engineOpts...)
	if err != nil {
		return nil, err
	}
	return templater.New(cfg.Templates,
		templater.WithExtension(cfg.Extension),
		templater.WithGlobals(cfg.Globals),
		templater.WithRenderer(engine),
		templater.WithLogger(logging.GetLogger("templater")),
	), nil
}

func newManager(cfg config.Config, url string) (*manager.Manager, error) {
	loader, err := newLoader(cfg)
	if err != nil {
		return nil, err
	}
	var source any
	if cfg.Rules != "" {
		source = cfg.Rules
	}
	return manager.New(url, loader, source, manager.WithLogger(logging.GetLogger("manager")))
}

// collectValues reads the values file, if any, then applies --set pairs on
// top of it.
func collectValues(path string, sets []string) (map[string]any, error) {
	values := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read values: %w", err)
		}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parse values %s: %w", path, err)
		}
		if values == nil {
			values = map[string]any{}
		}
	}
	for _, pair := range sets {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", pair)
		}
		values[key] = value
	}
	return values, nil
}
