package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/teami-app/teami-backend/bridge"
	"github.com/teami-app/teami-backend/services"
)

func newBridgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bridge",
		Short: "Answer desktop IPC requests as JSON-RPC on stdin/stdout",
		Long: `bridge reads one JSON-RPC 2.0 request per line from stdin and writes one
response per line to stdout. Logs go to stderr. It exits when stdin closes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Error().Err(err).Msg("error closing database")
				}
			}()

			b := bridge.New(services.New(db, serviceOptions(settings)))
			return b.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
