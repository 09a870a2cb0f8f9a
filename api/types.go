package api

import (
	"encoding/json"

	"github.com/teami-app/teami-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler    healthHandler
	workspaceHandler workspaceHandler
	projectHandler   projectHandler
}

// Envelope is the body of every REST response except /health.
// Code 2000 means success.
type Envelope struct {
	Code int    `json:"code" example:"2000"`
	Msg  string `json:"msg" example:"success"`
	Data any    `json:"data"`
}

// ErrorData is the data member of a failed envelope.
type ErrorData struct {
	Field   string `json:"field,omitempty" example:"name"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}

// WorkspaceDTO is the REST shape of a workspace: `uuid` rather than `workspace_uuid`.
type WorkspaceDTO struct {
	ID           int64   `json:"id"`
	UUID         string  `json:"uuid"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	CreateTime   string  `json:"create_time"`
	LastOpenTime *string `json:"last_open_time"`
}

func toWorkspaceDTO(ws *models.Workspace) WorkspaceDTO {
	return WorkspaceDTO{
		ID:           ws.ID,
		UUID:         ws.WorkspaceUUID,
		Name:         ws.Name,
		Description:  ws.Description,
		CreateTime:   ws.CreateTime,
		LastOpenTime: ws.LastOpenTime,
	}
}

// ProjectDTO is the REST shape of a project: `uuid` and `name` rather than
// `project_uuid` and `project_name`.
type ProjectDTO struct {
	ID            int64    `json:"id"`
	UUID          string   `json:"uuid"`
	WorkspaceUUID string   `json:"workspace_uuid"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	TeamUUID      *string  `json:"team_uuid"`
	Status        string   `json:"status"`
	Labels        []string `json:"labels"`
	Progress      int      `json:"progress"`
	CreateTime    string   `json:"create_time"`
	LastOpenTime  *string  `json:"last_open_time"`
}

func toProjectDTO(p *models.Project) ProjectDTO {
	labels := []string(p.Labels)
	if labels == nil {
		labels = []string{}
	}
	return ProjectDTO{
		ID:            p.ID,
		UUID:          p.ProjectUUID,
		WorkspaceUUID: p.WorkspaceUUID,
		Name:          p.ProjectName,
		Description:   p.Description,
		TeamUUID:      p.TeamUUID,
		Status:        string(p.Status),
		Labels:        labels,
		Progress:      p.Progress,
		CreateTime:    p.CreateTime,
		LastOpenTime:  p.LastOpenTime,
	}
}

type WorkspacePage struct {
	Workspaces []WorkspaceDTO `json:"workspaces"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

type ProjectPage struct {
	Projects []ProjectDTO `json:"projects"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

type createWorkspaceRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=1024"`
}

type updateWorkspaceRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
}

type createProjectRequest struct {
	WorkspaceUUID string   `json:"workspace_uuid" validate:"required,uuid"`
	Name          string   `json:"name" validate:"required,min=1,max=255"`
	Description   string   `json:"description" validate:"max=2048"`
	TeamUUID      *string  `json:"team_uuid" validate:"omitempty,max=255"`
	Status        string   `json:"status" validate:"omitempty,oneof=READY ACTIVE COMPLETED PLANNING"`
	Labels        []string `json:"labels" validate:"omitempty,dive,max=64"`
	Progress      *int     `json:"progress" validate:"omitempty,min=0,max=100"`
}

type updateProjectRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string        `json:"description" validate:"omitempty,max=2048"`
	TeamUUID    nullableString `json:"team_uuid"`
	Status      *string        `json:"status" validate:"omitempty,oneof=READY ACTIVE COMPLETED PLANNING"`
	Labels      *[]string      `json:"labels" validate:"omitempty,dive,max=64"`
	Progress    *int           `json:"progress" validate:"omitempty,min=0,max=100"`
}

// nullableString tells an absent JSON member apart from an explicit null.
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}
