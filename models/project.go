package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectStatus is the lifecycle state shown on a project card
type ProjectStatus string

const (
	StatusReady     ProjectStatus = "READY"
	StatusActive    ProjectStatus = "ACTIVE"
	StatusCompleted ProjectStatus = "COMPLETED"
	StatusPlanning  ProjectStatus = "PLANNING"
)

var projectStatuses = []ProjectStatus{StatusReady, StatusActive, StatusCompleted, StatusPlanning}

// ProjectStatuses returns the accepted status values in display order.
func ProjectStatuses() []ProjectStatus {
	out := make([]ProjectStatus, len(projectStatuses))
	copy(out, projectStatuses)
	return out
}

func (s ProjectStatus) Valid() bool {
	for _, known := range projectStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Project belongs to exactly one workspace through WorkspaceUUID.
// Labels are persisted as a JSON array in a text column.
type Project struct {
	ID            int64                       `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	WorkspaceUUID string                      `json:"workspace_uuid" db:"workspace_uuid" gorm:"column:workspace_uuid;type:text;not null;index:idx_projects_workspace_uuid"`
	ProjectUUID   string                      `json:"project_uuid" db:"project_uuid" gorm:"column:project_uuid;type:text;not null;uniqueIndex:idx_projects_uuid"`
	ProjectName   string                      `json:"project_name" db:"project_name" gorm:"column:project_name;type:text;not null"`
	Description   string                      `json:"description" db:"description" gorm:"column:description;type:text;not null;default:''"`
	CreateTime    string                      `json:"create_time" db:"create_time" gorm:"column:create_time;type:text;not null"`
	LastOpenTime  *string                     `json:"last_open_time" db:"last_open_time" gorm:"column:last_open_time;type:text;index:idx_projects_last_open"`
	TeamUUID      *string                     `json:"team_uuid" db:"team_uuid" gorm:"column:team_uuid;type:text"`
	Status        ProjectStatus               `json:"status" db:"status" gorm:"column:status;type:text;not null;default:'READY'"`
	Labels        datatypes.JSONSlice[string] `json:"labels" db:"labels" gorm:"column:labels;not null;default:'[]'"`
	Progress      int                         `json:"progress" db:"progress" gorm:"column:progress;not null;default:0"`
}

func (Project) TableName() string { return "projects" }

// AfterFind keeps a stored "null" labels value from reaching callers as null.
func (p *Project) AfterFind(tx *gorm.DB) error {
	if p.Labels == nil {
		p.Labels = datatypes.JSONSlice[string]{}
	}
	return nil
}

// ProjectInput is the create payload. Zero values take the documented defaults:
// empty description, no team, READY, no labels, progress 0.
type ProjectInput struct {
	WorkspaceUUID string
	ProjectName   string
	Description   string
	TeamUUID      *string
	Status        ProjectStatus
	Labels        []string
	Progress      int
}

// ProjectPatch describes an update. ProjectName, Description and TeamUUID are
// always written, a nil TeamUUID clears the team. Status, Labels and Progress
// are written only when non-nil.
type ProjectPatch struct {
	ProjectName string
	Description string
	TeamUUID    *string

	Status   *ProjectStatus
	Labels   *[]string
	Progress *int
}
