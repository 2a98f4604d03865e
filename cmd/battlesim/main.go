// Package main is the battlesim command: it plays grid battles interactively
// or in bulk, validates content and manages stored rosters and results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	contentRoot string
	seed        uint64
)

var rootCmd = &cobra.Command{
	Use:   "battlesim",
	Short: "Turn-based grid battle simulator",
	Long: `battlesim runs tactical battles on grid battlefields loaded from YAML content.
Play a battle from the terminal, run seeded bulk simulations, or validate content.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file (defaults and GRIDTACTICS_* env when empty)")
	rootCmd.PersistentFlags().StringVar(&contentRoot, "content", "", "content root directory (overrides content.root)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "dice seed (overrides battle.seed; 0 keeps the configured value)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(autoCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(rosterCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
