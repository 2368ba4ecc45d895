// Package main provides the entry point for the prospector CLI application.
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
	version      = "0.1.0-dev"
	globalDBPath string
	verbose      bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "prospector",
		Short:   "Imports game-save match archives into a queryable relational history",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&globalDBPath, "db", "", "Database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(
		newImportCmd(),
		newResolveCmd(),
		newRosterCmd(),
		newStatusCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
