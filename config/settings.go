package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// Settings is the typed view of the environment used by every command.
type Settings struct {
	AppName string

	DBType       string
	DatabasePath string
	DatabaseURL  string

	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	AcceptedOrigins []string
	JWTSecret       string

	MaxWorkspaces    int
	StrictReferences bool

	LogLevel  string
	LogFormat string
}

// Load reads .env files (missing ones are ignored) and then the process environment.
func Load(files ...string) (Settings, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, err
	}
	return FromMap(New()), nil
}

func FromMap(c map[string]string) Settings {
	return Settings{
		AppName: GetString(c, "APP_NAME", "teami"),

		DBType:       GetString(c, "DB_TYPE", "sqlite"),
		DatabasePath: GetString(c, "DATABASE_PATH", "teami.sqlite"),
		DatabaseURL:  GetString(c, "DATABASE_URL", ""),

		Port:         GetString(c, "PORT", "8000"),
		ReadTimeout:  time.Duration(GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout: time.Duration(GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		IdleTimeout:  time.Duration(GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,

		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
		JWTSecret:       GetString(c, "JWT_SECRET", ""),

		MaxWorkspaces:    GetInt(c, "MAX_WORKSPACES", 5),
		StrictReferences: GetBool(c, "STRICT_REFERENCES", false),

		LogLevel:  GetString(c, "LOG_LEVEL", "info"),
		LogFormat: GetString(c, "LOG_FORMAT", "console"),
	}
}
