// Package main provides the entry point for the worldpurse admin CLI.
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
	version       = "0.1.0-dev"
	globalDataDir string
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
		Use:     "worldpurse",
		Short:   "Inspect and maintain per-world money data",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&globalDataDir, "data", "d", ".", "Data directory holding config.yaml, groups.yaml and the database")

	rootCmd.AddCommand(
		newBalanceCmd(),
		newPlayersCmd(),
		newGroupsCmd(),
		newImportCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
