package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/app"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/config"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/logger"
)

var updateLogLevel string

// updateCmd runs a single quote reconcile cycle, the cron entry point.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run one reconcile cycle and exit",
	Long: `Fetch current quotes from all configured sources, reconcile them
into the asset record store, and exit.

Intended to run from cron. Each invocation is one run under a single
clock reading; hourly and daily archive slots fill as runs cross
bucket boundaries.

Examples:
  fiyat-arsiv update                     # One reconcile run
  fiyat-arsiv update --log-level debug   # With debug logging`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVarP(&updateLogLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("Note: .env file not loaded: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if updateLogLevel != "" {
		cfg.Logging.Level = updateLogLevel
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	assetStore, err := app.BuildStore(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer assetStore.Close()

	eng, err := app.BuildEngine(cfg, assetStore, log)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return eng.Run(ctx, time.Now().UTC())
}
