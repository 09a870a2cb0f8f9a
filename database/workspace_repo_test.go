package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teami-app/teami-backend/errs"
	"github.com/teami-app/teami-backend/models"
)

func TestWorkspaceCreate(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	ws, err := d.WorkspaceRepo().Create(ctx, models.WorkspaceInput{Name: "Alpha", Description: "first"})
	require.NoError(t, err)

	assert.NotZero(t, ws.ID)
	assert.NotEmpty(t, ws.WorkspaceUUID)
	assert.Equal(t, "Alpha", ws.Name)
	assert.Equal(t, "first", ws.Description)
	assert.Equal(t, "2025-03-01T09:00:00.000Z", ws.CreateTime)
	require.NotNil(t, ws.LastOpenTime)
	assert.Equal(t, ws.CreateTime, *ws.LastOpenTime)

	byUUID, err := d.WorkspaceRepo().FindByUUID(ctx, ws.WorkspaceUUID)
	require.NoError(t, err)
	assert.Equal(t, ws, byUUID)
}

func TestWorkspaceIdentifiersAreUnique(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	seen := map[string]bool{}
	ids := map[int64]bool{}
	for i := 0; i < 25; i++ {
		ws, err := d.WorkspaceRepo().Create(ctx, models.WorkspaceInput{Name: "ws"})
		require.NoError(t, err)
		assert.False(t, seen[ws.WorkspaceUUID])
		assert.False(t, ids[ws.ID])
		seen[ws.WorkspaceUUID] = true
		ids[ws.ID] = true
	}
}

func TestWorkspaceCreateCollisionIsConstraintError(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t, WithIDGenerator(func() string { return "same-uuid" }))

	_, err := d.WorkspaceRepo().Create(ctx, models.WorkspaceInput{Name: "one"})
	require.NoError(t, err)

	_, err = d.WorkspaceRepo().Create(ctx, models.WorkspaceInput{Name: "two"})
	require.Error(t, err)
	assert.True(t, errs.IsConstraint(err))
	assert.Equal(t, errs.CodeWorkspaceConflict, errs.As(err).Code)
	assert.Equal(t, int64(1), countRows(t, d, &models.Workspace{}))
}

func TestWorkspaceListOrdersNullLast(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	repo := d.WorkspaceRepo()

	never, err := repo.Create(ctx, models.WorkspaceInput{Name: "never"})
	require.NoError(t, err)
	t1, err := repo.Create(ctx, models.WorkspaceInput{Name: "t1"})
	require.NoError(t, err)
	t2, err := repo.Create(ctx, models.WorkspaceInput{Name: "t2"})
	require.NoError(t, err)

	require.NoError(t, d.db.Model(&models.Workspace{}).Where("id = ?", never.ID).Update("last_open_time", nil).Error)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{t2.ID, t1.ID, never.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})
	assert.Nil(t, list[2].LastOpenTime)

	// touching the oldest moves it to the front
	_, err = repo.UpdateLastOpen(ctx, t1.ID)
	require.NoError(t, err)
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, t1.ID, list[0].ID)
}

func TestWorkspaceFindByName(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	repo := d.WorkspaceRepo()

	ws, err := repo.Create(ctx, models.WorkspaceInput{Name: "Alpha"})
	require.NoError(t, err)

	got, err := repo.FindByName(ctx, "Alpha")
	require.NoError(t, err)
	assert.Equal(t, ws.ID, got.ID)

	_, err = repo.FindByName(ctx, "alpha")
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, errs.CodeWorkspaceNotFound, errs.As(err).Code)
}

func TestWorkspaceListTiesBrokenByCreateTime(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	repo := d.WorkspaceRepo()

	a, err := repo.Create(ctx, models.WorkspaceInput{Name: "a"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, models.WorkspaceInput{Name: "b"})
	require.NoError(t, err)

	same := "2025-04-01T00:00:00.000Z"
	require.NoError(t, d.db.Model(&models.Workspace{}).Where("1 = 1").Update("last_open_time", same).Error)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
}

func TestWorkspaceListPageAndCount(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	repo := d.WorkspaceRepo()

	var created []*models.Workspace
	for _, name := range []string{"a", "b", "c"} {
		ws, err := repo.Create(ctx, models.WorkspaceInput{Name: name})
		require.NoError(t, err)
		created = append(created, ws)
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	page, err := repo.ListPage(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, created[1].ID, page[0].ID)
}

func TestWorkspaceUpdateOverwritesBothFields(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	repo := d.WorkspaceRepo()

	ws, err := repo.Create(ctx, models.WorkspaceInput{Name: "Alpha", Description: "keep?"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, ws.ID, models.WorkspaceInput{Name: "Beta"})
	require.NoError(t, err)
	assert.Equal(t, "Beta", updated.Name)
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, ws.CreateTime, updated.CreateTime)
	assert.Equal(t, ws.LastOpenTime, updated.LastOpenTime)
	assert.Equal(t, ws.WorkspaceUUID, updated.WorkspaceUUID)
}

func TestWorkspaceUpdateLastOpenChangesOnlyLastOpen(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	repo := d.WorkspaceRepo()

	ws, err := repo.Create(ctx, models.WorkspaceInput{Name: "Alpha", Description: "d"})
	require.NoError(t, err)

	touched, err := repo.UpdateLastOpen(ctx, ws.ID)
	require.NoError(t, err)
	require.NotNil(t, touched.LastOpenTime)
	assert.NotEqual(t, *ws.LastOpenTime, *touched.LastOpenTime)

	before := *ws
	after := *touched
	before.LastOpenTime, after.LastOpenTime = nil, nil
	assert.Equal(t, before, after)
}

func TestWorkspaceMissingRecordIsNotFound(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	repo := d.WorkspaceRepo()

	existing, err := repo.Create(ctx, models.WorkspaceInput{Name: "stay"})
	require.NoError(t, err)

	_, err = repo.Update(ctx, 9999, models.WorkspaceInput{Name: "x"})
	assert.True(t, errs.IsNotFound(err))
	_, err = repo.UpdateLastOpen(ctx, 9999)
	assert.True(t, errs.IsNotFound(err))
	err = repo.Delete(ctx, 9999)
	assert.True(t, errs.IsNotFound(err))
	_, err = repo.FindByID(ctx, 9999)
	assert.True(t, errs.IsNotFound(err))
	_, err = repo.FindByUUID(ctx, "missing")
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, errs.CodeWorkspaceNotFound, errs.As(err).Code)

	got, err := repo.FindByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, existing, got)
	assert.Equal(t, int64(1), countRows(t, d, &models.Workspace{}))
}

func TestWorkspaceDeleteLeavesProjects(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)

	ws, err := d.WorkspaceRepo().Create(ctx, models.WorkspaceInput{Name: "Alpha"})
	require.NoError(t, err)
	_, err = d.ProjectRepo().Create(ctx, models.ProjectInput{WorkspaceUUID: ws.WorkspaceUUID, ProjectName: "orphan"})
	require.NoError(t, err)

	require.NoError(t, d.WorkspaceRepo().Delete(ctx, ws.ID))

	_, err = d.WorkspaceRepo().FindByID(ctx, ws.ID)
	assert.True(t, errs.IsNotFound(err))
	projects, err := d.ProjectRepo().List(ctx, ws.WorkspaceUUID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}
