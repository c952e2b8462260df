package main

import (
	"context"
	"io"

	"cards-marketplace/internal/config"
	"cards-marketplace/internal/observability"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	apiURL  string
	storage string
	verbose bool
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "marketplace",
		Short:         "Trade collectible cards from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", "", "marketplace API base URL (overrides API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.storage, "storage", "", "client state backend: sqlite, memory, redis or postgres")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	// withApp loads configuration and wires the client for one command run
	var withApp appRunner = func(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			level := cfg.LogLevel
			if opts.verbose {
				level = "debug"
			}
			observability.InitLoggerTo(cmd.ErrOrStderr(), level, cfg.LogFormat)

			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			return fn(ctx, a, args)
		}
	}

	cmd.AddCommand(
		newLoginCmd(withApp),
		newRegisterCmd(withApp),
		newLogoutCmd(withApp),
		newMeCmd(withApp),
		newCardsCmd(withApp),
		newMyCardsCmd(withApp),
		newAddCardsCmd(withApp),
		newTradesCmd(withApp),
		newTradeCmd(withApp),
	)
	return cmd
}

type appRunner func(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.apiURL != "" {
		cfg.APIBaseURL = opts.apiURL
	}
	if opts.storage != "" {
		cfg.Storage.Type = opts.storage
	}
	if opts.apiURL != "" || opts.storage != "" {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
