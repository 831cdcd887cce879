package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <player>",
		Short: "Show a player's stored balances per bucket",
		Long: `Show every stored balance bucket for a player.

The player is looked up by name, case-insensitively. Grouped worlds
share one bucket named after the group; ungrouped worlds have a bucket
of their own.

Examples:
  worldpurse balance tastybento
  worldpurse --data /srv/mc/worldpurse balance Alice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *deps) error {
				playerID, err := d.Repo.Resolve(ctx, args[0])
				if err != nil {
					return fmt.Errorf("resolving player: %w", err)
				}
				if playerID == "" {
					return fmt.Errorf("unknown player: %s", args[0])
				}

				rec, err := d.Repo.Load(ctx, playerID)
				if err != nil {
					return fmt.Errorf("loading record: %w", err)
				}

				fmt.Printf("%s (%s)\n", rec.Name, rec.ID)
				if rec.LastWorld != "" {
					fmt.Printf("last world: %s\n", rec.LastWorld)
				}
				if len(rec.Buckets) == 0 {
					fmt.Println("no stored balances")
					return nil
				}

				buckets := make([]string, 0, len(rec.Buckets))
				for b := range rec.Buckets {
					buckets = append(buckets, b)
				}
				sort.Strings(buckets)
				for _, b := range buckets {
					fmt.Printf("  %-24s %s\n", b, rec.Buckets[b].StringFixed(2))
				}
				return nil
			})
		},
	}
}
