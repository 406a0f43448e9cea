package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fiyat-arsiv",
	Short: "Multi-source price normalization and archive engine",
	Long: `A batch reconciliation engine that turns multiple unreliable price
feeds into one currency-normalized, time-bucketed asset record store.

Features:
• Multi-source quotes with quality-based resolution and fallback
• Currency normalization against a shared FX reference series
• Derived instruments computed from a configurable multiplier table
• Hour/day archive state machine with capped daily history
• Read-only HTTP API over the record store`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
