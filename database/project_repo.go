package database

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/teami-app/teami-backend/errs"
	"github.com/teami-app/teami-backend/models"
)

// Unlike workspaces, projects get no explicit null placement, so where a
// never-opened project lands depends on the dialect: SQLite sorts NULL last
// under DESC, PostgreSQL sorts it first.
const projectOrder = "last_open_time DESC, create_time DESC, id DESC"

type ProjectRepo struct {
	db  *gorm.DB
	env *storeEnv
}

func NewProjectRepo(db *gorm.DB, env *storeEnv) *ProjectRepo {
	return &ProjectRepo{db: db, env: env}
}

// List returns the projects of one workspace, most recently opened first.
func (r *ProjectRepo) List(ctx context.Context, workspaceUUID string) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Where("workspace_uuid = ?", workspaceUUID).
		Order(projectOrder).
		Find(&projects).Error
	if err != nil {
		return nil, storeError("list", errs.EntityProject, err)
	}
	return projects, nil
}

func (r *ProjectRepo) ListPage(ctx context.Context, workspaceUUID string, offset, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Where("workspace_uuid = ?", workspaceUUID).
		Order(projectOrder).
		Offset(offset).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, storeError("list", errs.EntityProject, err)
	}
	return projects, nil
}

func (r *ProjectRepo) CountByWorkspace(ctx context.Context, workspaceUUID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("workspace_uuid = ?", workspaceUUID).
		Count(&n).Error
	if err != nil {
		return 0, storeError("count", errs.EntityProject, err)
	}
	return n, nil
}

func (r *ProjectRepo) FindByUUID(ctx context.Context, projectUUID string) (*models.Project, error) {
	var p models.Project
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("project_uuid = ?", projectUUID).
		First(&p).Error
	if err != nil {
		return nil, storeError("find", errs.EntityProject, err)
	}
	return &p, nil
}

func (r *ProjectRepo) FindByWorkspaceAndName(ctx context.Context, workspaceUUID, name string) (*models.Project, error) {
	var p models.Project
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("workspace_uuid = ? AND project_name = ?", workspaceUUID, name).
		First(&p).Error
	if err != nil {
		return nil, storeError("find", errs.EntityProject, err)
	}
	return &p, nil
}

// Create inserts a project. An empty status becomes READY and nil labels become [].
// The workspace reference is not checked here.
func (r *ProjectRepo) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	status := in.Status
	if status == "" {
		status = models.StatusReady
	}
	labels := in.Labels
	if labels == nil {
		labels = []string{}
	}

	now := models.FormatTime(r.env.now())
	p := &models.Project{
		WorkspaceUUID: in.WorkspaceUUID,
		ProjectUUID:   r.env.newID(),
		ProjectName:   in.ProjectName,
		Description:   in.Description,
		CreateTime:    now,
		LastOpenTime:  &now,
		TeamUUID:      in.TeamUUID,
		Status:        status,
		Labels:        datatypes.JSONSlice[string](labels),
		Progress:      in.Progress,
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, storeError("create", errs.EntityProject, err)
	}
	return p, nil
}

// Update applies patch in a single UPDATE. Name, description and team are always
// written; status, labels and progress only when the patch carries them.
func (r *ProjectRepo) Update(ctx context.Context, projectUUID string, patch models.ProjectPatch) (*models.Project, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("project_uuid = ?", projectUUID).
		Updates(patchColumns(patch))
	if res.Error != nil {
		return nil, storeError("update", errs.EntityProject, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound(errs.EntityProject)
	}
	return r.FindByUUID(ctx, projectUUID)
}

func patchColumns(patch models.ProjectPatch) map[string]any {
	cols := map[string]any{
		"project_name": patch.ProjectName,
		"description":  patch.Description,
		"team_uuid":    patch.TeamUUID,
	}
	if patch.Status != nil {
		cols["status"] = string(*patch.Status)
	}
	if patch.Labels != nil {
		labels := *patch.Labels
		if labels == nil {
			labels = []string{}
		}
		cols["labels"] = datatypes.JSONSlice[string](labels)
	}
	if patch.Progress != nil {
		cols["progress"] = *patch.Progress
	}
	return cols
}

func (r *ProjectRepo) UpdateLastOpen(ctx context.Context, projectUUID string) (*models.Project, error) {
	now := models.FormatTime(r.env.now())
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("project_uuid = ?", projectUUID).
		Update("last_open_time", now)
	if res.Error != nil {
		return nil, storeError("touch", errs.EntityProject, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound(errs.EntityProject)
	}
	return r.FindByUUID(ctx, projectUUID)
}

func (r *ProjectRepo) Delete(ctx context.Context, projectUUID string) error {
	res := r.db.WithContext(ctx).Where("project_uuid = ?", projectUUID).Delete(&models.Project{})
	if res.Error != nil {
		return storeError("delete", errs.EntityProject, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(errs.EntityProject)
	}
	return nil
}

// DeleteByWorkspace removes every project of a workspace and reports how many went.
func (r *ProjectRepo) DeleteByWorkspace(ctx context.Context, workspaceUUID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("workspace_uuid = ?", workspaceUUID).Delete(&models.Project{})
	if res.Error != nil {
		return 0, storeError("delete", errs.EntityProject, res.Error)
	}
	return res.RowsAffected, nil
}
