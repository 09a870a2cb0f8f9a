package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/teami-app/teami-backend/errs"
	"github.com/teami-app/teami-backend/models"
)

// Workspaces with no last_open_time sort after every opened one.
const workspaceOrder = "last_open_time IS NULL, last_open_time DESC, create_time DESC, id DESC"

type WorkspaceRepo struct {
	db  *gorm.DB
	env *storeEnv
}

func NewWorkspaceRepo(db *gorm.DB, env *storeEnv) *WorkspaceRepo {
	return &WorkspaceRepo{db: db, env: env}
}

// List returns every workspace, most recently opened first.
func (r *WorkspaceRepo) List(ctx context.Context) ([]*models.Workspace, error) {
	var workspaces []*models.Workspace
	if err := r.db.WithContext(ctx).Order(workspaceOrder).Find(&workspaces).Error; err != nil {
		return nil, storeError("list", errs.EntityWorkspace, err)
	}
	return workspaces, nil
}

// ListPage returns one page of List.
func (r *WorkspaceRepo) ListPage(ctx context.Context, offset, limit int) ([]*models.Workspace, error) {
	var workspaces []*models.Workspace
	err := r.db.WithContext(ctx).
		Order(workspaceOrder).
		Offset(offset).
		Limit(limit).
		Find(&workspaces).Error
	if err != nil {
		return nil, storeError("list", errs.EntityWorkspace, err)
	}
	return workspaces, nil
}

func (r *WorkspaceRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Model(&models.Workspace{}).Count(&n).Error; err != nil {
		return 0, storeError("count", errs.EntityWorkspace, err)
	}
	return n, nil
}

func (r *WorkspaceRepo) FindByID(ctx context.Context, id int64) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Where("id = ?", id).First(&ws).Error; err != nil {
		return nil, storeError("find", errs.EntityWorkspace, err)
	}
	return &ws, nil
}

func (r *WorkspaceRepo) FindByUUID(ctx context.Context, workspaceUUID string) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.WithContext(ctx).Where("workspace_uuid = ?", workspaceUUID).First(&ws).Error; err != nil {
		return nil, storeError("find", errs.EntityWorkspace, err)
	}
	return &ws, nil
}

// FindByName reads through the writer so a rename is visible to the next check.
func (r *WorkspaceRepo) FindByName(ctx context.Context, name string) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).Where("name = ?", name).First(&ws).Error; err != nil {
		return nil, storeError("find", errs.EntityWorkspace, err)
	}
	return &ws, nil
}

// Create inserts a workspace with a fresh uuid; create and last-open time are both now.
// Name validation and admission control belong to the caller.
func (r *WorkspaceRepo) Create(ctx context.Context, in models.WorkspaceInput) (*models.Workspace, error) {
	now := models.FormatTime(r.env.now())
	ws := &models.Workspace{
		WorkspaceUUID: r.env.newID(),
		Name:          in.Name,
		Description:   in.Description,
		CreateTime:    now,
		LastOpenTime:  &now,
	}
	if err := r.db.WithContext(ctx).Create(ws).Error; err != nil {
		return nil, storeError("create", errs.EntityWorkspace, err)
	}
	return ws, nil
}

// Update overwrites name and description.
func (r *WorkspaceRepo) Update(ctx context.Context, id int64, in models.WorkspaceInput) (*models.Workspace, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Workspace{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        in.Name,
			"description": in.Description,
		})
	if res.Error != nil {
		return nil, storeError("update", errs.EntityWorkspace, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound(errs.EntityWorkspace)
	}
	return r.FindByID(ctx, id)
}

// UpdateLastOpen sets last_open_time to now and changes nothing else.
func (r *WorkspaceRepo) UpdateLastOpen(ctx context.Context, id int64) (*models.Workspace, error) {
	now := models.FormatTime(r.env.now())
	res := r.db.WithContext(ctx).
		Model(&models.Workspace{}).
		Where("id = ?", id).
		Update("last_open_time", now)
	if res.Error != nil {
		return nil, storeError("touch", errs.EntityWorkspace, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound(errs.EntityWorkspace)
	}
	return r.FindByID(ctx, id)
}

// Delete hard-deletes the row. Projects are left alone here.
func (r *WorkspaceRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Workspace{})
	if res.Error != nil {
		return storeError("delete", errs.EntityWorkspace, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(errs.EntityWorkspace)
	}
	return nil
}

// storeError maps gorm failures onto the store's error taxonomy.
func storeError(operation, entity string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewNotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		field := "workspace_uuid"
		if entity == errs.EntityProject {
			field = "project_uuid"
		}
		return errs.NewConstraintError(entity, field, err)
	}
	return errs.NewDatabaseError(operation, entity, err)
}
