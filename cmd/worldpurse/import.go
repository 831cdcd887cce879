package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/worldpurse/internal/infrastructure/config"
	"github.com/ersonp/worldpurse/internal/infrastructure/legacy"
)

func newImportCmd() *cobra.Command {
	var legacyDir string
	var extraWorlds []string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the legacy per-player store",
		Long: `Import the legacy flat per-player YAML store into the database.

Each legacy file keeps one balance per world name; balances of worlds
that now share a group are folded into the group bucket. Files that
cannot be parsed are skipped with a log entry. The legacy directory is
renamed with an ".old" suffix when the import completes, so it never
runs twice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *deps) error {
				dir := legacyDir
				if dir == "" {
					dir = config.LegacyDir(globalDataDir)
				}

				known := make([]string, 0, 8)
				for _, def := range d.Groups.Groups {
					known = append(known, def.Worlds...)
				}
				known = append(known, extraWorlds...)

				importer := legacy.NewImporter(d.Repo, d.Repo, d.groupIndex(), d.Logger)
				imported, err := importer.Run(ctx, dir, known)
				if err != nil {
					return fmt.Errorf("importing legacy store: %w", err)
				}
				fmt.Printf("Imported %d players from %s.\n", imported, dir)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&legacyDir, "from", "", "Legacy directory (default: <data>/userdata)")
	cmd.Flags().StringSliceVar(&extraWorlds, "worlds", nil, "Ungrouped world names to accept during import")

	return cmd
}
