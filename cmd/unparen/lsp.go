package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"unparen/internal/config"
	"unparen/internal/lsp"
)

func newLSPCmd() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the unparen language server over stdio",
		Long: `lsp publishes unnecessary parentheses of open documents as faded hints and
offers quick fixes. Each document uses the configuration found above it unless
--config names one file for all of them`,
		Args: cobra.NoArgs,
		RunE: instrumented(func(cmd *cobra.Command, _ []string) error {
			opts := lsp.ServerOptions{Debounce: debounce, Log: cmd.ErrOrStderr()}
			configPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("%s: %w", configName(&cfg), err)
				}
				style, err := cfg.Options()
				if err != nil {
					return err
				}
				opts.Style = &style
			}
			if opts.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
				return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
			}

			server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
			err = server.Run(cmd.Context())
			switch {
			case err == nil, errors.Is(err, lsp.ErrExit):
				return nil
			case errors.Is(err, lsp.ErrExitWithoutShutdown):
				return exitError{code: 1}
			}
			return err
		}),
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "delay between the last edit and the analysis")
	return cmd
}
