package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/teami-app/teami-backend/errs"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultReadConns = 4
	busyTimeoutMS    = 5000
)

// Config selects and tunes the backing store. Path is used by sqlite, DSN by postgres.
type Config struct {
	Driver    string
	Path      string
	DSN       string
	ReadConns int
	LogLevel  logger.LogLevel
}

// IDGenerator returns a new external identifier for a record.
type IDGenerator func() string

// Clock returns the current instant used for create and touch timestamps.
type Clock func() time.Time

type storeEnv struct {
	newID IDGenerator
	now   Clock
}

type Option func(*storeEnv)

func WithIDGenerator(gen IDGenerator) Option {
	return func(e *storeEnv) {
		if gen != nil {
			e.newID = gen
		}
	}
}

func WithClock(clock Clock) Option {
	return func(e *storeEnv) {
		if clock != nil {
			e.now = clock
		}
	}
}

type Database struct {
	db            *gorm.DB
	driver        string
	readers       *sql.DB
	workspaceRepo *WorkspaceRepo
	projectRepo   *ProjectRepo
	env           *storeEnv
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB, opts ...Option) Database {
	env := &storeEnv{newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(env)
	}
	return bind(db, db.Dialector.Name(), env)
}

func bind(db *gorm.DB, driver string, env *storeEnv) Database {
	return Database{
		db:            db,
		driver:        driver,
		workspaceRepo: NewWorkspaceRepo(db, env),
		projectRepo:   NewProjectRepo(db, env),
		env:           env,
	}
}

// Open connects to the configured store. For sqlite the writer pool is capped at a
// single connection and reads go to a separate pool through dbresolver.
func Open(ctx context.Context, cfg Config, opts ...Option) (Database, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		PrepareStmt:    false,
		Logger:         newGormLogger(cfg.LogLevel),
	}

	switch cfg.Driver {
	case "", DriverSQLite:
		return openSQLite(ctx, cfg, gormCfg, opts)
	case DriverPostgres:
		if cfg.DSN == "" {
			return Database{}, errs.NewBadRequestError("DATABASE_URL is required for postgres")
		}
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gormCfg)
		if err != nil {
			return Database{}, errs.NewDatabaseError("connect to", "postgres", err)
		}
		d := New(db, opts...)
		if err := d.Ping(ctx); err != nil {
			return Database{}, err
		}
		return d, nil
	default:
		return Database{}, errs.NewBadRequestError("unsupported DB_TYPE " + cfg.Driver)
	}
}

func openSQLite(ctx context.Context, cfg Config, gormCfg *gorm.Config, opts []Option) (Database, error) {
	path := cfg.Path
	if path == "" {
		path = "teami.sqlite"
	}
	inMemory := isMemoryPath(path)
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Database{}, errs.NewInternalErrorWithCause("create database directory", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(writerDSN(path)), gormCfg)
	if err != nil {
		return Database{}, errs.NewDatabaseError("open", "sqlite", err)
	}
	writer, err := db.DB()
	if err != nil {
		return Database{}, errs.NewDatabaseError("open", "sqlite", err)
	}
	// single writer; an in-memory database also lives only as long as its one connection
	writer.SetMaxOpenConns(1)
	writer.SetMaxIdleConns(1)
	writer.SetConnMaxLifetime(0)

	d := New(db, opts...)
	d.driver = DriverSQLite

	if !inMemory {
		n := cfg.ReadConns
		if n <= 0 {
			n = defaultReadConns
		}
		readers, err := sql.Open(sqlite.DriverName, readerDSN(path))
		if err != nil {
			_ = writer.Close()
			return Database{}, errs.NewDatabaseError("open", "sqlite readers", err)
		}
		readers.SetMaxOpenConns(n)
		readers.SetMaxIdleConns(n)

		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{sqlite.New(sqlite.Config{DriverName: sqlite.DriverName, Conn: readers})},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			_ = readers.Close()
			_ = writer.Close()
			return Database{}, errs.NewInternalErrorWithCause("register read pool", err)
		}
		d.readers = readers
	}

	if err := d.Ping(ctx); err != nil {
		_ = d.Close()
		return Database{}, err
	}

	log.Info().
		Str("path", path).
		Bool("readPool", d.readers != nil).
		Msg("sqlite store opened")
	return d, nil
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

func writerDSN(path string) string {
	if isMemoryPath(path) {
		return path
	}
	return fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL&_txlock=immediate", path, busyTimeoutMS)
}

func readerDSN(path string) string {
	return fmt.Sprintf("%s?_busy_timeout=%d&_query_only=true", path, busyTimeoutMS)
}

func newGormLogger(level logger.LogLevel) logger.Interface {
	if level == 0 {
		level = logger.Warn
	}
	return logger.New(
		stdlog.New(log.Logger, "", 0),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Accessor methods for each repository

func (d Database) WorkspaceRepo() *WorkspaceRepo {
	return d.workspaceRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) Driver() string {
	return d.driver
}

// Ping checks the writer connection.
func (d Database) Ping(ctx context.Context) error {
	var result int
	if err := d.db.WithContext(ctx).Clauses(dbresolver.Write).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return errs.NewDatabaseError("ping", "database", err)
	}
	return nil
}

// Transaction runs fn against a Database bound to a single writer transaction.
// fn must only use the Database it is handed.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bind(tx, d.driver, d.env))
	})
	if err == nil {
		return nil
	}
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return err
	}
	return errs.NewTransactionFailedError("transaction", err)
}

// Close releases the reader pool and then the writer.
func (d Database) Close() error {
	if d.readers != nil {
		if err := d.readers.Close(); err != nil {
			log.Warn().Err(err).Msg("closing reader pool")
		}
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
