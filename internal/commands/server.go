package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/app"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/config"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/logger"
)

var (
	serverPort     int
	serverHost     string
	serverLogLevel string
	serverUpdater  bool
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the read-only HTTP API server",
	Long: `Serve the asset record store over a read-only HTTP API.

With --updater the server also runs the reconciliation engine on a
fixed interval, replacing an external cron schedule.

Examples:
  fiyat-arsiv server                    # Serve with default settings
  fiyat-arsiv server --port 9090        # Serve on a custom port
  fiyat-arsiv server --updater          # Serve and reconcile periodically
  fiyat-arsiv server --log-level debug  # Enable debug logging`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Server port")
	serverCmd.Flags().StringVarP(&serverHost, "host", "H", "", "Server host")
	serverCmd.Flags().StringVarP(&serverLogLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	serverCmd.Flags().BoolVar(&serverUpdater, "updater", false, "Run the periodic reconciliation updater")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("Note: .env file not loaded: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}
	if serverLogLevel != "" {
		cfg.Logging.Level = serverLogLevel
	}
	if serverUpdater {
		cfg.Updater.Enabled = true
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	log.Info("🚀 Starting price archive server")

	application := app.New(cfg, log)

	if err := application.Initialize(); err != nil {
		log.WithError(err).Error("Failed to initialize application")
		return err
	}

	if err := application.Start(); err != nil {
		log.WithError(err).Error("Failed to start application")
		return err
	}

	// Wait for interrupt signal or internal failure
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-interrupt:
		log.WithField("signal", sig.String()).Info("🛑 Shutdown signal received")
	case <-application.Done():
		log.Warn("Application stopped on its own")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := application.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("❌ Application shutdown error")
		return err
	}

	log.Info("✅ Application shutdown complete")
	return nil
}
