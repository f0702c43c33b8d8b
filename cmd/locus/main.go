package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/locus-core/internal/app"
	"github.com/dom/locus-core/internal/config"
	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/logging"
	"github.com/spf13/cobra"
)

type contextKey string

const configKey contextKey = "config"

func BuildRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          "locus",
		Short:        "Identity core of the Locus business backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logging.Setup(cfg.LogLevel, cfg.Environment)

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	cmd.AddCommand(
		buildServeCmd(),
		buildNextIDCmd(),
		buildNextEmployeeCodeCmd(),
		buildSweepCacheCmd(),
	)

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default: from LOG_LEVEL)")

	return cmd
}

// withApp opens the application for one command run and closes it when the
// command returns, whether or not it failed.
func withApp(run func(cmd *cobra.Command, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		cfg := cmd.Context().Value(configKey).(*config.Config)

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := a.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("close: %w", closeErr))
			}
		}()

		return run(cmd, a)
	}
}

func buildServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the cache sweeper",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
			return a.Run(cmd.Context())
		}),
	}
}

func buildNextIDCmd() *cobra.Command {
	var (
		prefix string
		branch string
		date   string
		table  string
	)

	cmd := &cobra.Command{
		Use:   "next-id",
		Short: "Print the next sequential identifier for a table, branch and day",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
			day := time.Now()
			if date != "" {
				parsed, err := time.ParseInLocation("2006-01-02", date, a.Config.Location())
				if err != nil {
					return fmt.Errorf("parse --date: %w", err)
				}
				day = parsed
			}

			id, err := a.Services.IDs.NextID(cmd.Context(), prefix, branch, day, table)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		}),
	}

	cmd.Flags().StringVar(&prefix, "prefix", "INC", "entity prefix (INC, CST, LEAD)")
	cmd.Flags().StringVar(&branch, "branch", "", "branch name; the first three letters become the partition code")
	cmd.Flags().StringVar(&date, "date", "", "day in YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&table, "table", domain.IncomeTable.Name, "table to scan")

	return cmd
}

func buildNextEmployeeCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-employee-code",
		Short: "Print the next free employee code",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
			code, err := a.Services.IDs.NextEmployeeCode(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		}),
	}
}

func buildSweepCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-cache",
		Short: "Clear every session and handshake token now",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.App) error {
			return a.Sweeper.Sweep(cmd.Context())
		}),
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := BuildRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
