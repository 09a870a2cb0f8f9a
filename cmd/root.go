package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"github.com/teami-app/teami-backend/config"
	"github.com/teami-app/teami-backend/database"
	"github.com/teami-app/teami-backend/services"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

var (
	envFiles []string
	settings config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "teami",
	Short: "teami workspace and project store",
	Long: `teami keeps workspaces and their projects in a local SQLite file and
serves them to the desktop shell over stdio or to the web client over REST.`,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newBridgeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	var err error
	settings, err = config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	setupLogging(cmd.ErrOrStderr(), settings)
	return nil
}

// setupLogging points the global logger at w. Stdout is left alone so the
// bridge can own it.
func setupLogging(w io.Writer, s config.Settings) {
	level, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if s.LogFormat == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Str("app", s.AppName).Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// gormLogLevel keeps SQL tracing off unless debug logging is on.
func gormLogLevel() logger.LogLevel {
	switch zerolog.GlobalLevel() {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return logger.Info
	case zerolog.Disabled:
		return logger.Silent
	}
	return logger.Warn
}

func databaseConfig(s config.Settings) database.Config {
	return database.Config{
		Driver:   s.DBType,
		Path:     s.DatabasePath,
		DSN:      s.DatabaseURL,
		LogLevel: gormLogLevel(),
	}
}

func serviceOptions(s config.Settings) services.Options {
	return services.Options{
		MaxWorkspaces:    s.MaxWorkspaces,
		StrictReferences: s.StrictReferences,
	}
}

// openStore opens the configured database and brings its schema up to date.
func openStore(ctx context.Context) (database.Database, error) {
	log.Info().Str("driver", settings.DBType).Str("path", settings.DatabasePath).Msg("opening database")

	db, err := database.Open(ctx, databaseConfig(settings))
	if err != nil {
		return database.Database{}, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return database.Database{}, err
	}
	return db, nil
}
