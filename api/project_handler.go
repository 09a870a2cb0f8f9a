package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/teami-app/teami-backend/errs"
	"github.com/teami-app/teami-backend/models"
	"github.com/teami-app/teami-backend/services"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
}

func newProjectHandler(projects *services.ProjectService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

func projectEnvelope(p *models.Project) map[string]ProjectDTO {
	return map[string]ProjectDTO{"project": toProjectDTO(p)}
}

// listProjects retrieves one page of a workspace's projects
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param workspace_uuid query string true "Workspace UUID" format(uuid)
// @Param page query int false "Page number" minimum(1)
// @Param page_size query int false "Page size" minimum(1) maximum(100)
// @Success 200 {object} Envelope{data=ProjectPage}
// @Failure 400 {object} Envelope "Bad Request - Missing workspace_uuid"
// @Failure 404 {object} Envelope "Not Found - Workspace not found"
// @Router /projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceUUID := strings.TrimSpace(r.URL.Query().Get("workspace_uuid"))
		if workspaceUUID == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("workspace_uuid"))
			return
		}
		if _, err := uuid.Parse(workspaceUUID); err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("workspace_uuid", "must be a valid UUID"))
			return
		}

		page, err := parsePage(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.RequireWorkspace(r.Context(), workspaceUUID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		items, total, err := h.projects.ListPage(r.Context(), workspaceUUID, page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		dtos := make([]ProjectDTO, 0, len(items))
		for _, p := range items {
			dtos = append(dtos, toProjectDTO(p))
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", ProjectPage{
			Projects: dtos,
			Total:    total,
			Page:     page.Number,
			PageSize: page.Size,
		})
	}
}

// createProject creates a new project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Success 201 {object} Envelope "Created project"
// @Failure 400 {object} Envelope "Bad Request - Invalid project data"
// @Failure 404 {object} Envelope "Not Found - Workspace not found"
// @Failure 409 {object} Envelope "Conflict - Project name taken in this workspace"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProjectRequest
		if err := decodeAndValidate(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		in := models.ProjectInput{
			WorkspaceUUID: req.WorkspaceUUID,
			ProjectName:   req.Name,
			Description:   req.Description,
			TeamUUID:      req.TeamUUID,
			Status:        models.ProjectStatus(req.Status),
			Labels:        req.Labels,
		}
		if req.Progress != nil {
			in.Progress = *req.Progress
		}

		if err := h.projects.RequireWorkspace(r.Context(), in.WorkspaceUUID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.projects.CheckNameAvailable(r.Context(), in.WorkspaceUUID, in.ProjectName, ""); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		p, err := h.projects.Create(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("projectUUID", p.ProjectUUID).
			Str("subject", subjectOrAnonymous(r)).
			Msg("project created via REST")
		h.responder.WriteSuccess(w, http.StatusCreated, "project created", projectEnvelope(p))
	}
}

// getProject retrieves a specific project by uuid
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectUUID path string true "Project UUID" format(uuid)
// @Success 200 {object} Envelope "Project details"
// @Failure 404 {object} Envelope "Not Found - Project not found"
// @Router /projects/{projectUUID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectUUID, err := uuidParam(r, "projectUUID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		p, err := h.projects.Get(r.Context(), projectUUID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", projectEnvelope(p))
	}
}

// updateProject applies a partial update. Name, description and team keep their
// stored value when omitted; an explicit null team clears it.
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectUUID path string true "Project UUID" format(uuid)
// @Success 200 {object} Envelope "Updated project"
// @Failure 400 {object} Envelope "Bad Request - Invalid project data"
// @Failure 404 {object} Envelope "Not Found - Project not found"
// @Failure 409 {object} Envelope "Conflict - Project name taken in this workspace"
// @Router /projects/{projectUUID} [patch]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectUUID, err := uuidParam(r, "projectUUID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req updateProjectRequest
		if err := decodeAndValidate(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.projects.Get(r.Context(), projectUUID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		patch := models.ProjectPatch{
			ProjectName: existing.ProjectName,
			Description: existing.Description,
			TeamUUID:    existing.TeamUUID,
			Labels:      req.Labels,
			Progress:    req.Progress,
		}
		if req.Name != nil {
			patch.ProjectName = *req.Name
		}
		if req.Description != nil {
			patch.Description = *req.Description
		}
		if req.TeamUUID.Set {
			patch.TeamUUID = req.TeamUUID.Value
		}
		if req.Status != nil {
			status := models.ProjectStatus(*req.Status)
			patch.Status = &status
		}

		if err := h.projects.CheckNameAvailable(r.Context(), existing.WorkspaceUUID, patch.ProjectName, existing.ProjectUUID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		p, err := h.projects.Update(r.Context(), projectUUID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "project updated", projectEnvelope(p))
	}
}

// openProject records that the project was just opened
// @Summary Touch project
// @Tags Projects
// @Produce json
// @Param projectUUID path string true "Project UUID" format(uuid)
// @Success 200 {object} Envelope "Touched project"
// @Failure 404 {object} Envelope "Not Found - Project not found"
// @Router /projects/{projectUUID}/open [post]
func (h projectHandler) openProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectUUID, err := uuidParam(r, "projectUUID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		p, err := h.projects.UpdateLastOpen(r.Context(), projectUUID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", projectEnvelope(p))
	}
}

// deleteProject deletes a project by uuid
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectUUID path string true "Project UUID" format(uuid)
// @Success 200 {object} Envelope "Success message"
// @Failure 404 {object} Envelope "Not Found - Project not found"
// @Router /projects/{projectUUID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectUUID, err := uuidParam(r, "projectUUID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Delete(r.Context(), projectUUID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "project deleted", nil)
	}
}
