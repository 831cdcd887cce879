package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Inspect world groups",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the resolved world group index",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *deps) error {
				if len(d.Groups.Groups) == 0 {
					fmt.Println("No groups configured; every world has its own balance.")
					return nil
				}
				idx := d.groupIndex()
				for _, def := range d.Groups.Groups {
					if len(def.Worlds) == 0 {
						continue
					}
					members := idx.Members(def.Worlds[0])
					fmt.Printf("  %-20s %s\n", def.Name, strings.Join(members, ", "))
				}
				return nil
			})
		},
	})

	return cmd
}
