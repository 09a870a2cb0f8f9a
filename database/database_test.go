package database

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/plugin/dbresolver"

	"github.com/teami-app/teami-backend/errs"
	"github.com/teami-app/teami-backend/models"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// steppingClock returns start, start+step, start+2*step, ... on successive calls.
func steppingClock(start time.Time, step time.Duration) Clock {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur := next
		next = next.Add(step)
		return cur
	}
}

func newTestDB(t *testing.T, opts ...Option) Database {
	t.Helper()
	opts = append([]Option{WithClock(steppingClock(baseTime, time.Second))}, opts...)
	d, err := Open(context.Background(), Config{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "teami.sqlite"),
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, d.Migrate(context.Background()))
	return d
}

func countRows(t *testing.T, d Database, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, d.db.Clauses(dbresolver.Write).Model(model).Count(&n).Error)
	return n
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	v, err := d.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion(), v)
	assert.Equal(t, 1, v)

	require.NoError(t, d.Migrate(ctx))
	v, err = d.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	m := d.db.Migrator()
	for _, idx := range []string{"idx_workspaces_uuid", "idx_workspaces_last_open"} {
		assert.True(t, m.HasIndex(&models.Workspace{}, idx), idx)
	}
	for _, idx := range []string{"idx_projects_workspace_uuid", "idx_projects_uuid", "idx_projects_last_open"} {
		assert.True(t, m.HasIndex(&models.Project{}, idx), idx)
	}
}

func TestMigrateKeepsData(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	ws, err := d.WorkspaceRepo().Create(ctx, models.WorkspaceInput{Name: "Alpha"})
	require.NoError(t, err)
	require.NoError(t, d.Migrate(ctx))

	got, err := d.WorkspaceRepo().FindByID(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, ws, got)
}

func TestMigrateRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	require.NoError(t, d.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", LatestSchemaVersion()+5)).Error)

	err := d.Migrate(ctx)
	require.Error(t, err)
	assert.True(t, errs.IsMigrationMismatchError(err))
}

func TestOpenInMemoryHasNoReadPool(t *testing.T) {
	ctx := context.Background()
	d, err := Open(ctx, Config{Path: ":memory:"})
	require.NoError(t, err)
	defer d.Close()

	assert.Nil(t, d.readers)
	assert.Equal(t, DriverSQLite, d.Driver())
	require.NoError(t, d.Migrate(ctx))

	ws, err := d.WorkspaceRepo().Create(ctx, models.WorkspaceInput{Name: "mem"})
	require.NoError(t, err)
	list, err := d.WorkspaceRepo().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ws.WorkspaceUUID, list[0].WorkspaceUUID)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle"})
	require.Error(t, err)
	assert.True(t, errs.IsBadRequest(err))
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	err := d.Transaction(ctx, func(tx Database) error {
		if _, err := tx.WorkspaceRepo().Create(ctx, models.WorkspaceInput{Name: "doomed"}); err != nil {
			return err
		}
		return errs.NewNotFound(errs.EntityProject)
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, int64(0), countRows(t, d, &models.Workspace{}))
}

func TestColumnReport(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	reports, err := d.ColumnReport(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.True(t, r.Exists, r.Table)
		assert.Empty(t, r.Unmapped, r.Table)
		assert.Empty(t, r.Missing, r.Table)
	}

	require.NoError(t, d.db.Exec("ALTER TABLE projects ADD COLUMN archived INTEGER").Error)
	reports, err = d.ColumnReport(ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	total := WriteColumnReport(&buf, reports)
	assert.Equal(t, 1, total)
	assert.Contains(t, buf.String(), "--- Table: projects ---")
	assert.Contains(t, buf.String(), "  - archived")
}

func TestColumnReportBeforeMigrate(t *testing.T) {
	ctx := context.Background()
	d, err := Open(ctx, Config{Path: filepath.Join(t.TempDir(), "fresh.sqlite")})
	require.NoError(t, err)
	defer d.Close()

	reports, err := d.ColumnReport(ctx)
	require.NoError(t, err)
	for _, r := range reports {
		assert.False(t, r.Exists)
	}

	var buf bytes.Buffer
	assert.Equal(t, 0, WriteColumnReport(&buf, reports))
	assert.Contains(t, buf.String(), "Table does not exist yet")
}
