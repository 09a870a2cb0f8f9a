package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/teami-app/teami-backend/models"
	"github.com/teami-app/teami-backend/services"
)

type workspaceHandler struct {
	responder  Responder
	logger     zerolog.Logger
	workspaces *services.WorkspaceService
}

func newWorkspaceHandler(workspaces *services.WorkspaceService) workspaceHandler {
	logger := log.With().Str("handlerName", "workspaceHandler").Logger()

	return workspaceHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		workspaces: workspaces,
	}
}

// listWorkspaces returns one page of workspaces, most recently opened first
// @Summary List workspaces
// @Tags Workspaces
// @Produce json
// @Param page query int false "Page number" minimum(1)
// @Param page_size query int false "Page size" minimum(1) maximum(100)
// @Success 200 {object} Envelope{data=WorkspacePage}
// @Failure 400 {object} Envelope "Bad Request - Invalid pagination"
// @Router /workspaces [get]
func (h workspaceHandler) listWorkspaces() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := parsePage(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		items, total, err := h.workspaces.ListPage(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		dtos := make([]WorkspaceDTO, 0, len(items))
		for _, ws := range items {
			dtos = append(dtos, toWorkspaceDTO(ws))
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", WorkspacePage{
			Workspaces: dtos,
			Total:      total,
			Page:       page.Number,
			PageSize:   page.Size,
		})
	}
}

// createWorkspace creates a new workspace
// @Summary Create workspace
// @Tags Workspaces
// @Accept json
// @Produce json
// @Success 201 {object} Envelope "Created workspace"
// @Failure 400 {object} Envelope "Bad Request - Invalid workspace data"
// @Failure 409 {object} Envelope "Conflict - Workspace name taken or limit reached"
// @Router /workspaces [post]
func (h workspaceHandler) createWorkspace() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createWorkspaceRequest
		if err := decodeAndValidate(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.workspaces.CheckNameAvailable(r.Context(), req.Name, 0); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ws, err := h.workspaces.Create(r.Context(), models.WorkspaceInput{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("workspaceUUID", ws.WorkspaceUUID).
			Str("subject", subjectOrAnonymous(r)).
			Msg("workspace created via REST")
		h.responder.WriteSuccess(w, http.StatusCreated, "workspace created", map[string]WorkspaceDTO{
			"workspace": toWorkspaceDTO(ws),
		})
	}
}

// getWorkspace retrieves a workspace by uuid
// @Summary Get workspace
// @Tags Workspaces
// @Produce json
// @Param workspaceUUID path string true "Workspace UUID" format(uuid)
// @Success 200 {object} Envelope "Workspace details"
// @Failure 404 {object} Envelope "Not Found - Workspace not found"
// @Router /workspaces/{workspaceUUID} [get]
func (h workspaceHandler) getWorkspace() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceUUID, err := uuidParam(r, "workspaceUUID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ws, err := h.workspaces.GetByUUID(r.Context(), workspaceUUID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", map[string]WorkspaceDTO{"workspace": toWorkspaceDTO(ws)})
	}
}

// updateWorkspace renames or re-describes a workspace; omitted fields keep their value
// @Summary Update workspace
// @Tags Workspaces
// @Accept json
// @Produce json
// @Param workspaceUUID path string true "Workspace UUID" format(uuid)
// @Success 200 {object} Envelope "Updated workspace"
// @Failure 400 {object} Envelope "Bad Request - Invalid workspace data"
// @Failure 404 {object} Envelope "Not Found - Workspace not found"
// @Failure 409 {object} Envelope "Conflict - Workspace name taken"
// @Router /workspaces/{workspaceUUID} [patch]
func (h workspaceHandler) updateWorkspace() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceUUID, err := uuidParam(r, "workspaceUUID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req updateWorkspaceRequest
		if err := decodeAndValidate(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.workspaces.GetByUUID(r.Context(), workspaceUUID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		in := models.WorkspaceInput{Name: existing.Name, Description: existing.Description}
		if req.Name != nil {
			in.Name = *req.Name
		}
		if req.Description != nil {
			in.Description = *req.Description
		}

		if err := h.workspaces.CheckNameAvailable(r.Context(), in.Name, existing.ID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ws, err := h.workspaces.Update(r.Context(), existing.ID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "workspace updated", map[string]WorkspaceDTO{"workspace": toWorkspaceDTO(ws)})
	}
}

// openWorkspace records that the workspace was just opened
// @Summary Touch workspace
// @Tags Workspaces
// @Produce json
// @Param workspaceUUID path string true "Workspace UUID" format(uuid)
// @Success 200 {object} Envelope "Touched workspace"
// @Failure 404 {object} Envelope "Not Found - Workspace not found"
// @Router /workspaces/{workspaceUUID}/open [post]
func (h workspaceHandler) openWorkspace() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceUUID, err := uuidParam(r, "workspaceUUID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.workspaces.GetByUUID(r.Context(), workspaceUUID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ws, err := h.workspaces.UpdateLastOpen(r.Context(), existing.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", map[string]WorkspaceDTO{"workspace": toWorkspaceDTO(ws)})
	}
}

// deleteWorkspace deletes a workspace by uuid
// @Summary Delete workspace
// @Tags Workspaces
// @Produce json
// @Param workspaceUUID path string true "Workspace UUID" format(uuid)
// @Success 200 {object} Envelope "Success message"
// @Failure 404 {object} Envelope "Not Found - Workspace not found"
// @Router /workspaces/{workspaceUUID} [delete]
func (h workspaceHandler) deleteWorkspace() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceUUID, err := uuidParam(r, "workspaceUUID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.workspaces.GetByUUID(r.Context(), workspaceUUID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.workspaces.Delete(r.Context(), existing.ID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "workspace deleted", nil)
	}
}
