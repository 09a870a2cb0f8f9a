package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teami-app/teami-backend/database"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of teami",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("teami %s (schema v%d)\n", Version, database.LatestSchemaVersion())
		},
	}
}
