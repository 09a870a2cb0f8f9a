package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teami-app/teami-backend/database"
	"github.com/teami-app/teami-backend/errs"
	"github.com/teami-app/teami-backend/models"
)

func newTestServices(t *testing.T, opts Options) (Services, database.Database) {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Path: filepath.Join(t.TempDir(), "svc.sqlite")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))
	return New(db, opts), db
}

func TestWorkspaceAdmissionControl(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t, Options{})
	ws := svc.Workspaces()
	assert.Equal(t, DefaultMaxWorkspaces, ws.MaxWorkspaces())

	for i := 0; i < 5; i++ {
		_, err := ws.Create(ctx, models.WorkspaceInput{Name: "ws"})
		require.NoError(t, err, "workspace %d", i+1)
	}

	_, err := ws.Create(ctx, models.WorkspaceInput{Name: "sixth"})
	require.Error(t, err)
	assert.True(t, errs.IsLimitReached(err))
	assert.Equal(t, "Workspace limit reached (5)", err.Error())

	list, err := ws.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestWorkspaceLimitIsConfigurable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t, Options{MaxWorkspaces: 1})

	_, err := svc.Workspaces().Create(ctx, models.WorkspaceInput{Name: "only"})
	require.NoError(t, err)
	_, err = svc.Workspaces().Create(ctx, models.WorkspaceInput{Name: "extra"})
	assert.EqualError(t, err, "Workspace limit reached (1)")
}

func TestWorkspaceNameIsTrimmedAndRequired(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestServices(t, Options{})
	ws := svc.Workspaces()

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := ws.Create(ctx, models.WorkspaceInput{Name: name})
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Equal(t, "Workspace name is required", err.Error())
	}
	n, err := db.WorkspaceRepo().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	created, err := ws.Create(ctx, models.WorkspaceInput{Name: "  Alpha  ", Description: " notes "})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", created.Name)
	assert.Equal(t, "notes", created.Description)

	_, err = ws.Update(ctx, created.ID, models.WorkspaceInput{Name: " "})
	assert.True(t, errs.IsValidation(err))
	got, err := ws.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)
}

func TestWorkspaceListPage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t, Options{})
	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Workspaces().Create(ctx, models.WorkspaceInput{Name: name})
		require.NoError(t, err)
	}

	items, total, err := svc.Workspaces().ListPage(ctx, Page{Number: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 1)
}

func TestProjectCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t, Options{})
	projects := svc.Projects()

	_, err := projects.Create(ctx, models.ProjectInput{ProjectName: "x"})
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, "Workspace UUID is required", err.Error())

	_, err = projects.Create(ctx, models.ProjectInput{WorkspaceUUID: "ws", ProjectName: "  "})
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, "Project name is required", err.Error())

	_, err = projects.Create(ctx, models.ProjectInput{WorkspaceUUID: "ws", ProjectName: "x", Status: "DONE"})
	assert.True(t, errs.IsValidation(err))

	blank := "   "
	p, err := projects.Create(ctx, models.ProjectInput{WorkspaceUUID: " ws ", ProjectName: " Launch ", TeamUUID: &blank})
	require.NoError(t, err)
	assert.Equal(t, "ws", p.WorkspaceUUID)
	assert.Equal(t, "Launch", p.ProjectName)
	assert.Nil(t, p.TeamUUID)
	assert.Equal(t, models.StatusReady, p.Status)
}

func TestProjectUpdateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t, Options{})
	projects := svc.Projects()

	p, err := projects.Create(ctx, models.ProjectInput{WorkspaceUUID: "ws", ProjectName: "Launch", Progress: 40})
	require.NoError(t, err)

	_, err = projects.Update(ctx, p.ProjectUUID, models.ProjectPatch{ProjectName: ""})
	assert.True(t, errs.IsValidation(err))

	bad := models.ProjectStatus("nope")
	_, err = projects.Update(ctx, p.ProjectUUID, models.ProjectPatch{ProjectName: "x", Status: &bad})
	assert.True(t, errs.IsValidation(err))

	_, err = projects.Update(ctx, "missing", models.ProjectPatch{ProjectName: "x"})
	assert.True(t, errs.IsNotFound(err))

	updated, err := projects.Update(ctx, p.ProjectUUID, models.ProjectPatch{ProjectName: " Renamed "})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.ProjectName)
	assert.Equal(t, 40, updated.Progress)
}

func TestLooseReferencesAllowOrphans(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t, Options{})

	p, err := svc.Projects().Create(ctx, models.ProjectInput{WorkspaceUUID: "ghost", ProjectName: "orphan"})
	require.NoError(t, err)

	list, err := svc.Projects().List(ctx, "ghost")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ProjectUUID, list[0].ProjectUUID)

	ws, err := svc.Workspaces().Create(ctx, models.WorkspaceInput{Name: "Alpha"})
	require.NoError(t, err)
	_, err = svc.Projects().Create(ctx, models.ProjectInput{WorkspaceUUID: ws.WorkspaceUUID, ProjectName: "child"})
	require.NoError(t, err)
	require.NoError(t, svc.Workspaces().Delete(ctx, ws.ID))

	left, err := svc.Projects().List(ctx, ws.WorkspaceUUID)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestStrictReferences(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestServices(t, Options{StrictReferences: true})

	_, err := svc.Projects().Create(ctx, models.ProjectInput{WorkspaceUUID: "ghost", ProjectName: "orphan"})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, errs.CodeWorkspaceNotFound, errs.As(err).Code)

	_, err = svc.Projects().List(ctx, "ghost")
	assert.True(t, errs.IsNotFound(err))

	ws, err := svc.Workspaces().Create(ctx, models.WorkspaceInput{Name: "Alpha"})
	require.NoError(t, err)
	other, err := svc.Workspaces().Create(ctx, models.WorkspaceInput{Name: "Beta"})
	require.NoError(t, err)
	for _, name := range []string{"a", "b"} {
		_, err := svc.Projects().Create(ctx, models.ProjectInput{WorkspaceUUID: ws.WorkspaceUUID, ProjectName: name})
		require.NoError(t, err)
	}
	kept, err := svc.Projects().Create(ctx, models.ProjectInput{WorkspaceUUID: other.WorkspaceUUID, ProjectName: "c"})
	require.NoError(t, err)

	require.NoError(t, svc.Workspaces().Delete(ctx, ws.ID))

	n, err := db.ProjectRepo().CountByWorkspace(ctx, ws.WorkspaceUUID)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = svc.Projects().Get(ctx, kept.ProjectUUID)
	assert.NoError(t, err)

	err = svc.Workspaces().Delete(ctx, ws.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestNameChecksAreOptIn(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t, Options{})
	workspaces, projects := svc.Workspaces(), svc.Projects()

	// Create itself allows duplicates; the desktop bridge relies on that.
	alpha, err := workspaces.Create(ctx, models.WorkspaceInput{Name: "Alpha"})
	require.NoError(t, err)
	_, err = workspaces.Create(ctx, models.WorkspaceInput{Name: "Alpha"})
	require.NoError(t, err)

	err = workspaces.CheckNameAvailable(ctx, " Alpha ", 0)
	require.Error(t, err)
	assert.True(t, errs.IsConstraint(err))
	assert.Equal(t, errs.CodeWorkspaceConflict, errs.As(err).Code)
	assert.NoError(t, workspaces.CheckNameAvailable(ctx, "Gamma", 0))
	assert.NoError(t, workspaces.CheckNameAvailable(ctx, "", 0))

	site, err := projects.Create(ctx, models.ProjectInput{WorkspaceUUID: alpha.WorkspaceUUID, ProjectName: "Site"})
	require.NoError(t, err)

	err = projects.CheckNameAvailable(ctx, alpha.WorkspaceUUID, "Site", "")
	assert.True(t, errs.IsConstraint(err))
	assert.Equal(t, errs.CodeProjectConflict, errs.As(err).Code)
	assert.NoError(t, projects.CheckNameAvailable(ctx, alpha.WorkspaceUUID, "Site", site.ProjectUUID))
	assert.NoError(t, projects.CheckNameAvailable(ctx, "elsewhere", "Site", ""))

	assert.NoError(t, projects.RequireWorkspace(ctx, alpha.WorkspaceUUID))
	err = projects.RequireWorkspace(ctx, "ghost")
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, errs.CodeWorkspaceNotFound, errs.As(err).Code)
	err = projects.RequireWorkspace(ctx, " ")
	assert.Equal(t, errs.CodeValidation, errs.As(err).Code)
}
