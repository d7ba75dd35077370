package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"commute-harmony/internal/ai"
	"commute-harmony/internal/config"
	"commute-harmony/internal/logging"
	"commute-harmony/internal/render"
)

type globalOptions struct {
	Provider   string
	Model      string
	Skin       string
	ConfigPath string
	Debug      bool
	NoColor    bool
}

// app is what every subcommand needs once flags and config are resolved.
type app struct {
	opts        globalOptions
	cfg         config.Config
	skin        render.Skin
	recommender ai.Recommender
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "harmony",
		Short: "Daily commute music recommendations",
		Long: `harmony recommends seven songs for your commute, five Korean and two
international, based on a theme you type.

Running harmony with no command opens the terminal UI.

Environment Variables:
  GEMINI_API_KEY, GOOGLE_API_KEY, API_KEY   Gemini credential
  ANTHROPIC_API_KEY                         Claude credential
  HARMONY_PROVIDER, HARMONY_MODEL           Provider selection
  HARMONY_SKIN                              daylight or midnight
  HARMONY_CONFIG                            Config file path`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), a)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error() + "\n(run with --help for usage)"}
	})

	pf := root.PersistentFlags()
	pf.SortFlags = false
	pf.StringVarP(&a.opts.Provider, "provider", "p", "", "AI provider: gemini, claude")
	pf.StringVarP(&a.opts.Model, "model", "m", "", "Provider model override")
	pf.StringVar(&a.opts.Skin, "skin", "", "UI skin: "+strings.Join(render.SkinNames(), ", "))
	pf.StringVar(&a.opts.ConfigPath, "config", "", "Config file (default ~/.config/commute-harmony/config.yaml)")
	pf.BoolVar(&a.opts.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&a.opts.NoColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newTUICmd(a),
		newRecommendCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{msg: err.Error() + "\n(run with --help for usage)"}
		}
		return nil
	}
}

// setup loads config, applies flag overrides and builds the provider client.
func (a *app) setup(flags *pflag.FlagSet) error {
	if a.opts.ConfigPath != "" {
		if _, err := os.Stat(a.opts.ConfigPath); err != nil {
			return usageError{msg: fmt.Sprintf("config file: %v", err)}
		}
		os.Setenv(config.ConfigPathEnvVar, a.opts.ConfigPath)
	}
	cfg, err := config.Load()
	if err != nil {
		return usageError{msg: err.Error()}
	}

	if flags.Changed("provider") {
		switch p := strings.ToLower(a.opts.Provider); p {
		case "gemini":
			cfg.Provider.Name = config.ProviderGemini
		case "claude", "anthropic":
			cfg.Provider.Name = config.ProviderClaude
		default:
			return usageError{msg: "provider must be one of: gemini, claude"}
		}
	}
	if flags.Changed("model") {
		cfg.Provider.Model = a.opts.Model
	}
	if flags.Changed("skin") {
		cfg.UI.Skin = a.opts.Skin
	}
	skin, err := render.LookupSkin(cfg.UI.Skin)
	if err != nil {
		return usageError{msg: err.Error()}
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if a.opts.Debug {
		logging.EnableDebug(os.Stderr)
	}

	rec, err := ai.New(string(cfg.Provider.Name), cfg.APIKey(), ai.Options{
		Model:      cfg.Provider.Model,
		BaseURL:    cfg.Provider.BaseURL,
		Validation: ai.ValidationMode(cfg.Recommend.Validation),
		Timeout:    cfg.Provider.Timeout,
	})
	if err != nil {
		return usageError{msg: err.Error()}
	}
	if cfg.APIKey() == "" {
		logging.Warn().Str("provider", rec.Name()).Msg("No API key configured; every fetch will fail until one is set")
	}

	a.cfg = cfg
	a.skin = skin
	a.recommender = rec
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
