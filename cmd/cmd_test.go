package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/teami-app/teami-backend/config"
)

func TestSetupLoggingLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	var buf bytes.Buffer
	setupLogging(&buf, config.Settings{LogLevel: "DEBUG", LogFormat: "json", AppName: "teami"})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Equal(t, logger.Info, gormLogLevel())

	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"app":"teami"`)

	setupLogging(&buf, config.Settings{LogLevel: "bogus"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Equal(t, logger.Warn, gormLogLevel())
}

func TestDatabaseConfigFromSettings(t *testing.T) {
	s := config.FromMap(map[string]string{
		"DB_TYPE":       "postgres",
		"DATABASE_URL":  "postgres://localhost/teami",
		"DATABASE_PATH": "ignored.sqlite",
	})
	cfg := databaseConfig(s)
	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, "postgres://localhost/teami", cfg.DSN)

	opts := serviceOptions(config.FromMap(map[string]string{"MAX_WORKSPACES": "3", "STRICT_REFERENCES": "true"}))
	assert.Equal(t, 3, opts.MaxWorkspaces)
	assert.True(t, opts.StrictReferences)
}

func TestBridgeCommandServesStdio(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "cli.sqlite"))
	t.Setenv("LOG_LEVEL", "error")

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"workspaces:create","params":[{"name":"cli"}]}` + "\n")
	var out, errOut bytes.Buffer
	rootCmd.SetIn(in)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"bridge", "--env-file", filepath.Join(t.TempDir(), "missing.env")})
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), `"name":"cli"`)
	assert.NotContains(t, out.String(), "bridge ready")
}
