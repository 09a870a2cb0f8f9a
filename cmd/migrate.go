package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/teami-app/teami-backend/database"
)

func newMigrateCmd() *cobra.Command {
	var report bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			version, err := db.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			log.Info().
				Int("version", version).
				Int("latest", database.LatestSchemaVersion()).
				Msg("schema is up to date")

			if !report {
				return nil
			}
			reports, err := db.ColumnReport(ctx)
			if err != nil {
				return err
			}
			if n := database.WriteColumnReport(cmd.OutOrStdout(), reports); n > 0 {
				return fmt.Errorf("%d column mismatches found", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&report, "report", false, "print a column mismatch report after migrating")
	return cmd
}
