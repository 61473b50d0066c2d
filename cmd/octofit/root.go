package main

import (
	"errors"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/octofit/internal/app"
	"github.com/okian/octofit/internal/config"
	"github.com/okian/octofit/pkg/logger"
)

type rootOptions struct {
	BaseURL  string
	LogLevel string
	Filter   string
}

type cli struct {
	opts *rootOptions
	app  *app.App
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rt := &cli{opts: opts}

	cmd := &cobra.Command{
		Use:           "octofit",
		Short:         "Terminal client for the OctoFit Tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "", "upstream origin (overrides OCTOFIT_BASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&opts.Filter, "filter", "", "only show rows fuzzily matching this text")

	for _, c := range newScreenCmds(rt) {
		cmd.AddCommand(c)
	}
	cmd.AddCommand(newEditUserCmd(rt))
	cmd.AddCommand(newWatchCmd(rt))
	return cmd
}

// setup loads .env, the configuration and the logger, then builds the app.
func (rt *cli) setup(stdout, stderr io.Writer) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if rt.opts.BaseURL != "" {
		cfg.BaseURL = rt.opts.BaseURL
	}
	if rt.opts.LogLevel != "" {
		cfg.LogLevel = rt.opts.LogLevel
	}

	if err := logger.InitWithWriter(stderr, cfg.LogFormat); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}

	a, err := app.New(cfg, app.WithLogger(logger.Named("octofit")), app.WithOutput(stdout))
	if err != nil {
		return err
	}
	rt.app = a
	return nil
}
