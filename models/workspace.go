package models

// Workspace is the top-level container a desktop installation keeps a handful of
type Workspace struct {
	ID            int64   `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	WorkspaceUUID string  `json:"workspace_uuid" db:"workspace_uuid" gorm:"column:workspace_uuid;type:text;not null;uniqueIndex:idx_workspaces_uuid"`
	Name          string  `json:"name" db:"name" gorm:"column:name;type:text;not null"`
	Description   string  `json:"description" db:"description" gorm:"column:description;type:text;not null;default:''"`
	CreateTime    string  `json:"create_time" db:"create_time" gorm:"column:create_time;type:text;not null"`
	LastOpenTime  *string `json:"last_open_time" db:"last_open_time" gorm:"column:last_open_time;type:text;index:idx_workspaces_last_open"`
}

func (Workspace) TableName() string { return "workspaces" }

// WorkspaceInput carries the caller-supplied fields of a create or update.
// Both fields are always written.
type WorkspaceInput struct {
	Name        string
	Description string
}
