package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/teami-app/teami-backend/database"
	"github.com/teami-app/teami-backend/errs"
	"github.com/teami-app/teami-backend/models"
)

type WorkspaceService struct {
	db     database.Database
	opts   Options
	logger zerolog.Logger
}

func newWorkspaceService(db database.Database, opts Options) *WorkspaceService {
	return &WorkspaceService{
		db:     db,
		opts:   opts,
		logger: log.With().Str("service", "workspace").Logger(),
	}
}

func (s *WorkspaceService) MaxWorkspaces() int {
	return s.opts.MaxWorkspaces
}

func (s *WorkspaceService) List(ctx context.Context) ([]*models.Workspace, error) {
	return s.db.WorkspaceRepo().List(ctx)
}

// ListPage returns one page plus the total number of workspaces.
func (s *WorkspaceService) ListPage(ctx context.Context, page Page) ([]*models.Workspace, int64, error) {
	total, err := s.db.WorkspaceRepo().Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.db.WorkspaceRepo().ListPage(ctx, page.offset(), page.Size)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *WorkspaceService) Get(ctx context.Context, id int64) (*models.Workspace, error) {
	return s.db.WorkspaceRepo().FindByID(ctx, id)
}

func (s *WorkspaceService) GetByUUID(ctx context.Context, workspaceUUID string) (*models.Workspace, error) {
	workspaceUUID = strings.TrimSpace(workspaceUUID)
	if workspaceUUID == "" {
		return nil, errs.NewValidationErrorWithField("Workspace UUID is required", "workspace_uuid")
	}
	return s.db.WorkspaceRepo().FindByUUID(ctx, workspaceUUID)
}

func normalizeWorkspace(in models.WorkspaceInput) (models.WorkspaceInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, errs.NewValidationErrorWithField("Workspace name is required", "name")
	}
	return in, nil
}

// CheckNameAvailable fails with a conflict when another workspace already uses
// name. exceptID is the workspace being renamed, or 0 on create. The REST API
// calls it; the desktop bridge allows duplicate names.
func (s *WorkspaceService) CheckNameAvailable(ctx context.Context, name string, exceptID int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	ws, err := s.db.WorkspaceRepo().FindByName(ctx, name)
	if errs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if ws.ID == exceptID {
		return nil
	}
	s.logger.Debug().Str("name", name).Int64("holder", ws.ID).Msg("workspace name taken")
	return errs.NewNameConflictError(errs.EntityWorkspace, name)
}

// Create admits a new workspace if the limit allows it.
// The count check is not atomic with the insert; the store has a single writer.
func (s *WorkspaceService) Create(ctx context.Context, in models.WorkspaceInput) (*models.Workspace, error) {
	in, err := normalizeWorkspace(in)
	if err != nil {
		return nil, err
	}

	count, err := s.db.WorkspaceRepo().Count(ctx)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.opts.MaxWorkspaces) {
		s.logger.Warn().Int64("count", count).Msg("workspace limit reached")
		return nil, errs.NewLimitReachedError(errs.EntityWorkspace, s.opts.MaxWorkspaces)
	}

	ws, err := s.db.WorkspaceRepo().Create(ctx, in)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create workspace")
		return nil, err
	}
	s.logger.Info().
		Int64("id", ws.ID).
		Str("workspaceUUID", ws.WorkspaceUUID).
		Msg("workspace created")
	return ws, nil
}

func (s *WorkspaceService) Update(ctx context.Context, id int64, in models.WorkspaceInput) (*models.Workspace, error) {
	in, err := normalizeWorkspace(in)
	if err != nil {
		return nil, err
	}
	ws, err := s.db.WorkspaceRepo().Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("id", id).Msg("workspace updated")
	return ws, nil
}

func (s *WorkspaceService) UpdateLastOpen(ctx context.Context, id int64) (*models.Workspace, error) {
	ws, err := s.db.WorkspaceRepo().UpdateLastOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("id", id).Msg("workspace opened")
	return ws, nil
}

// Delete removes the workspace. In strict mode its projects go in the same transaction.
func (s *WorkspaceService) Delete(ctx context.Context, id int64) error {
	if !s.opts.StrictReferences {
		if err := s.db.WorkspaceRepo().Delete(ctx, id); err != nil {
			return err
		}
		s.logger.Info().Int64("id", id).Msg("workspace deleted")
		return nil
	}

	return s.db.Transaction(ctx, func(tx database.Database) error {
		ws, err := tx.WorkspaceRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		removed, err := tx.ProjectRepo().DeleteByWorkspace(ctx, ws.WorkspaceUUID)
		if err != nil {
			return err
		}
		if err := tx.WorkspaceRepo().Delete(ctx, id); err != nil {
			return err
		}
		s.logger.Info().
			Int64("id", id).
			Int64("projectsRemoved", removed).
			Msg("workspace deleted")
		return nil
	})
}
