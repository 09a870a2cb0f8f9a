package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teami-app/teami-backend/api"
	"github.com/teami-app/teami-backend/services"
)

const shutdownTimeout = 30 * time.Second

var errInterrupted = errors.New("interrupted")

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve workspaces and projects over REST",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	log.Info().Msg("Initializing app...")

	db, err := openStore(parent)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()

	server, err := api.NewServer(services.New(db, serviceOptions(settings)), settings)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(parent)
	g.Go(func() error {
		return server.Run(ctx, shutdownTimeout)
	})
	g.Go(func() error {
		return listenToInterrupt(ctx)
	})

	err = g.Wait()
	log.Info().Dur("uptime", server.Uptime()).Msg("server stopped")
	if errors.Is(err, errInterrupted) {
		return nil
	}
	return err
}

// listenToInterrupt returns errInterrupted on SIGINT or SIGTERM, or nil once ctx is done.
func listenToInterrupt(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()
	if ctx.Err() != nil {
		return nil
	}
	log.Info().Msg("received shutdown signal")
	return errInterrupted
}
