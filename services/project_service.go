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

type ProjectService struct {
	db     database.Database
	opts   Options
	logger zerolog.Logger
}

func newProjectService(db database.Database, opts Options) *ProjectService {
	return &ProjectService{
		db:     db,
		opts:   opts,
		logger: log.With().Str("service", "project").Logger(),
	}
}

func requireWorkspaceUUID(workspaceUUID string) (string, error) {
	workspaceUUID = strings.TrimSpace(workspaceUUID)
	if workspaceUUID == "" {
		return "", errs.NewValidationErrorWithField("Workspace UUID is required", "workspace_uuid")
	}
	return workspaceUUID, nil
}

// checkWorkspace enforces the referential policy: in strict mode the workspace must exist.
func (s *ProjectService) checkWorkspace(ctx context.Context, workspaceUUID string) error {
	if !s.opts.StrictReferences {
		return nil
	}
	_, err := s.db.WorkspaceRepo().FindByUUID(ctx, workspaceUUID)
	return err
}

// RequireWorkspace fails with not found unless the workspace exists, whatever
// the referential policy.
func (s *ProjectService) RequireWorkspace(ctx context.Context, workspaceUUID string) error {
	workspaceUUID, err := requireWorkspaceUUID(workspaceUUID)
	if err != nil {
		return err
	}
	_, err = s.db.WorkspaceRepo().FindByUUID(ctx, workspaceUUID)
	return err
}

// CheckNameAvailable fails with a conflict when another project of the same
// workspace already uses name. exceptUUID is the project being renamed, or ""
// on create. Like RequireWorkspace it is a REST rule the bridge does not apply.
func (s *ProjectService) CheckNameAvailable(ctx context.Context, workspaceUUID, name, exceptUUID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	p, err := s.db.ProjectRepo().FindByWorkspaceAndName(ctx, strings.TrimSpace(workspaceUUID), name)
	if errs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.ProjectUUID == exceptUUID {
		return nil
	}
	return errs.NewNameConflictError(errs.EntityProject, name)
}

func validateStatus(status models.ProjectStatus) error {
	if !status.Valid() {
		return errs.NewValidationErrorWithField("Invalid project status: "+string(status), "status")
	}
	return nil
}

func (s *ProjectService) List(ctx context.Context, workspaceUUID string) ([]*models.Project, error) {
	workspaceUUID, err := requireWorkspaceUUID(workspaceUUID)
	if err != nil {
		return nil, err
	}
	if err := s.checkWorkspace(ctx, workspaceUUID); err != nil {
		return nil, err
	}
	return s.db.ProjectRepo().List(ctx, workspaceUUID)
}

func (s *ProjectService) ListPage(ctx context.Context, workspaceUUID string, page Page) ([]*models.Project, int64, error) {
	workspaceUUID, err := requireWorkspaceUUID(workspaceUUID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.checkWorkspace(ctx, workspaceUUID); err != nil {
		return nil, 0, err
	}
	total, err := s.db.ProjectRepo().CountByWorkspace(ctx, workspaceUUID)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.db.ProjectRepo().ListPage(ctx, workspaceUUID, page.offset(), page.Size)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *ProjectService) Get(ctx context.Context, projectUUID string) (*models.Project, error) {
	return s.db.ProjectRepo().FindByUUID(ctx, strings.TrimSpace(projectUUID))
}

func (s *ProjectService) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	workspaceUUID, err := requireWorkspaceUUID(in.WorkspaceUUID)
	if err != nil {
		return nil, err
	}
	in.WorkspaceUUID = workspaceUUID
	in.ProjectName = strings.TrimSpace(in.ProjectName)
	in.Description = strings.TrimSpace(in.Description)
	in.TeamUUID = trimPtr(in.TeamUUID)
	if in.ProjectName == "" {
		return nil, errs.NewValidationErrorWithField("Project name is required", "project_name")
	}
	if in.Status == "" {
		in.Status = models.StatusReady
	}
	if err := validateStatus(in.Status); err != nil {
		return nil, err
	}
	if err := s.checkWorkspace(ctx, in.WorkspaceUUID); err != nil {
		return nil, err
	}

	p, err := s.db.ProjectRepo().Create(ctx, in)
	if err != nil {
		s.logger.Error().Err(err).Str("workspaceUUID", in.WorkspaceUUID).Msg("failed to create project")
		return nil, err
	}
	s.logger.Info().
		Str("projectUUID", p.ProjectUUID).
		Str("workspaceUUID", p.WorkspaceUUID).
		Msg("project created")
	return p, nil
}

// Update forwards the patch semantics untouched after trimming and validation.
func (s *ProjectService) Update(ctx context.Context, projectUUID string, patch models.ProjectPatch) (*models.Project, error) {
	patch.ProjectName = strings.TrimSpace(patch.ProjectName)
	patch.Description = strings.TrimSpace(patch.Description)
	patch.TeamUUID = trimPtr(patch.TeamUUID)
	if patch.ProjectName == "" {
		return nil, errs.NewValidationErrorWithField("Project name is required", "project_name")
	}
	if patch.Status != nil {
		if err := validateStatus(*patch.Status); err != nil {
			return nil, err
		}
	}

	p, err := s.db.ProjectRepo().Update(ctx, strings.TrimSpace(projectUUID), patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("projectUUID", p.ProjectUUID).Msg("project updated")
	return p, nil
}

func (s *ProjectService) UpdateLastOpen(ctx context.Context, projectUUID string) (*models.Project, error) {
	p, err := s.db.ProjectRepo().UpdateLastOpen(ctx, strings.TrimSpace(projectUUID))
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("projectUUID", p.ProjectUUID).Msg("project opened")
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, projectUUID string) error {
	projectUUID = strings.TrimSpace(projectUUID)
	if err := s.db.ProjectRepo().Delete(ctx, projectUUID); err != nil {
		return err
	}
	s.logger.Info().Str("projectUUID", projectUUID).Msg("project deleted")
	return nil
}
