package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Manage stored players",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all stored players",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *deps) error {
				records, err := d.Repo.List(ctx)
				if err != nil {
					return fmt.Errorf("listing players: %w", err)
				}
				if len(records) == 0 {
					fmt.Println("No players stored.")
					return nil
				}
				fmt.Printf("Players (%d total):\n\n", len(records))
				for _, rec := range records {
					fmt.Printf("  %-36s %-20s %s\n", rec.ID, rec.Name, rec.LastWorld)
				}
				return nil
			})
		},
	})

	return cmd
}
