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

// backfillHistoryCap is the deeper history retained by backfill runs, about
// five calendar years of daily closes.
const backfillHistoryCap = 1826

var (
	backfillSpan     string
	backfillCap      int
	backfillLogLevel string
)

// backfillCmd rebuilds record histories wholesale from source series data.
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Rebuild daily histories from source series data",
	Long: `Fetch full daily close series from sources that provide them and
rebuild record histories wholesale, derived instruments included.
Intraday buffers are cleared for every rebuilt record.

Examples:
  fiyat-arsiv backfill              # Rebuild with the default 5y span
  fiyat-arsiv backfill --span 1y    # Shallower rebuild
  fiyat-arsiv backfill --cap 730    # Keep at most 730 daily closes`,
	RunE: runBackfill,
}

func init() {
	rootCmd.AddCommand(backfillCmd)
	backfillCmd.Flags().StringVar(&backfillSpan, "span", "", "Series span to request (e.g. 1y, 5y, 90d)")
	backfillCmd.Flags().IntVar(&backfillCap, "cap", 0, "Maximum daily closes to retain (default 1826)")
	backfillCmd.Flags().StringVarP(&backfillLogLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
}

func runBackfill(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("Note: .env file not loaded: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if backfillLogLevel != "" {
		cfg.Logging.Level = backfillLogLevel
	}
	if backfillSpan != "" {
		cfg.Engine.SeriesSpan = backfillSpan
	}

	// Backfill keeps a deeper history than the cron cap unless overridden.
	switch {
	case backfillCap > 0:
		cfg.Engine.HistoryCap = backfillCap
	default:
		cfg.Engine.HistoryCap = backfillHistoryCap
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	return eng.Backfill(ctx, time.Now().UTC())
}
