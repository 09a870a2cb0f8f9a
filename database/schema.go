package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/teami-app/teami-backend/errs"
	"github.com/teami-app/teami-backend/models"
)

type migration struct {
	version int
	name    string
	apply   func(tx *gorm.DB) error
}

// migrations are applied in order; each one runs in its own transaction together
// with the version bump.
var migrations = []migration{
	{
		version: 1,
		name:    "baseline",
		// the base schema created by AutoMigrate already is version 1
		apply: func(*gorm.DB) error { return nil },
	},
}

// LatestSchemaVersion is the version a fully migrated store reports.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// schemaModels lists every table the store owns.
func schemaModels() []any {
	return []any{&models.Workspace{}, &models.Project{}}
}

// versionStore persists the schema version marker.
type versionStore interface {
	prepare(db *gorm.DB) error
	read(db *gorm.DB) (int, error)
	write(tx *gorm.DB, version int) error
}

// sqlite keeps the version in the database header.
type pragmaVersionStore struct{}

func (pragmaVersionStore) prepare(*gorm.DB) error { return nil }

func (pragmaVersionStore) read(db *gorm.DB) (int, error) {
	var v int
	if err := db.Raw("PRAGMA user_version").Scan(&v).Error; err != nil {
		return 0, err
	}
	return v, nil
}

func (pragmaVersionStore) write(tx *gorm.DB, version int) error {
	// PRAGMA does not accept bound parameters
	return tx.Exec("PRAGMA user_version = " + strconv.Itoa(version)).Error
}

type schemaVersion struct {
	Version   int    `gorm:"column:version;primaryKey;autoIncrement:false"`
	AppliedAt string `gorm:"column:applied_at;type:text;not null"`
}

func (schemaVersion) TableName() string { return "schema_versions" }

// tableVersionStore is used where there is no header field to borrow.
type tableVersionStore struct {
	now Clock
}

func (tableVersionStore) prepare(db *gorm.DB) error {
	return db.AutoMigrate(&schemaVersion{})
}

func (tableVersionStore) read(db *gorm.DB) (int, error) {
	var v int
	if err := db.Model(&schemaVersion{}).Select("COALESCE(MAX(version), 0)").Scan(&v).Error; err != nil {
		return 0, err
	}
	return v, nil
}

func (s tableVersionStore) write(tx *gorm.DB, version int) error {
	return tx.Create(&schemaVersion{Version: version, AppliedAt: models.FormatTime(s.now())}).Error
}

func (d Database) versionStore() versionStore {
	if d.driver == DriverPostgres {
		return tableVersionStore{now: d.env.now}
	}
	return pragmaVersionStore{}
}

// Migrate creates the tables and indexes if absent and applies pending migrations.
// Running it again on a migrated store is a no-op.
func (d Database) Migrate(ctx context.Context) error {
	db := d.db.WithContext(ctx).Clauses(dbresolver.Write).Session(&gorm.Session{})

	if d.driver == DriverSQLite {
		// journal mode cannot change inside a transaction
		if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return errs.NewDatabaseError("enable WAL on", "database", err)
		}
	}

	if err := db.AutoMigrate(schemaModels()...); err != nil {
		return errs.NewDatabaseError("create schema for", "database", err)
	}

	store := d.versionStore()
	if err := store.prepare(db); err != nil {
		return errs.NewDatabaseError("prepare version table for", "database", err)
	}

	current, err := store.read(db)
	if err != nil {
		log.Warn().Err(err).Msg("schema version unreadable, assuming 0")
		current = 0
	}

	latest := LatestSchemaVersion()
	if current > latest {
		return errs.NewMigrationMismatchError(strconv.Itoa(latest), strconv.Itoa(current))
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.apply(tx); err != nil {
				return err
			}
			return store.write(tx, m.version)
		})
		if err != nil {
			return errs.NewTransactionFailedError(fmt.Sprintf("migration %d (%s)", m.version, m.name), err)
		}
		log.Info().
			Int("version", m.version).
			Str("name", m.name).
			Msg("schema migration applied")
	}
	return nil
}

// SchemaVersion reports the stored schema version, 0 when absent.
func (d Database) SchemaVersion(ctx context.Context) (int, error) {
	db := d.db.WithContext(ctx).Clauses(dbresolver.Write).Session(&gorm.Session{})
	store := d.versionStore()
	if err := store.prepare(db); err != nil {
		return 0, errs.NewDatabaseError("read schema version of", "database", err)
	}
	v, err := store.read(db)
	if err != nil {
		return 0, errs.NewDatabaseError("read schema version of", "database", err)
	}
	return v, nil
}
