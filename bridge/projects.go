package bridge

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/teami-app/teami-backend/models"
	"github.com/teami-app/teami-backend/services"
)

const entityProject = "project"

func registerProjectMethods(b *Bridge, projects *services.ProjectService) {
	// projects:list(workspaceUuid)
	b.Register("projects:list", func(ctx context.Context, req *Request) (any, error) {
		return projects.List(ctx, trimmedString(req.Param(0)))
	})

	// projects:create({workspaceUuid, project_name, description?, team_uuid?, status?, labels?, progress?})
	b.Register("projects:create", func(ctx context.Context, req *Request) (any, error) {
		payload := req.Param(0)
		if err := requireObject(payload, entityProject); err != nil {
			return nil, err
		}
		in, err := projectInput(payload)
		if err != nil {
			return nil, err
		}
		return projects.Create(ctx, in)
	})

	// projects:update(projectUuid, {project_name, description, team_uuid, status?, labels?, progress?})
	b.Register("projects:update", func(ctx context.Context, req *Request) (any, error) {
		projectUUID, err := requireProjectUUID(req.Param(0))
		if err != nil {
			return nil, err
		}
		payload := req.Param(1)
		if err := requireObject(payload, entityProject); err != nil {
			return nil, err
		}
		patch, err := projectPatch(payload)
		if err != nil {
			return nil, err
		}
		return projects.Update(ctx, projectUUID, patch)
	})

	b.Register("projects:update-last-open", func(ctx context.Context, req *Request) (any, error) {
		projectUUID, err := requireProjectUUID(req.Param(0))
		if err != nil {
			return nil, err
		}
		return projects.UpdateLastOpen(ctx, projectUUID)
	})

	b.Register("projects:delete", func(ctx context.Context, req *Request) (any, error) {
		projectUUID, err := requireProjectUUID(req.Param(0))
		if err != nil {
			return nil, err
		}
		if err := projects.Delete(ctx, projectUUID); err != nil {
			return nil, err
		}
		return deleted{Success: true}, nil
	})
}

func projectInput(payload gjson.Result) (models.ProjectInput, error) {
	workspaceUUID := payload.Get("workspaceUuid")
	if !present(workspaceUUID) {
		workspaceUUID = payload.Get("workspace_uuid")
	}

	in := models.ProjectInput{
		WorkspaceUUID: trimmedString(workspaceUUID),
		ProjectName:   looseString(payload.Get("project_name")),
		Description:   looseString(payload.Get("description")),
		TeamUUID:      optionalTeam(payload.Get("team_uuid")),
		Status:        models.ProjectStatus(trimmedString(payload.Get("status"))),
	}

	if labels := payload.Get("labels"); present(labels) {
		values, err := labelsValue(labels)
		if err != nil {
			return in, err
		}
		in.Labels = values
	}
	if progress := payload.Get("progress"); present(progress) {
		value, err := progressValue(progress)
		if err != nil {
			return in, err
		}
		in.Progress = value
	}
	return in, nil
}

// projectPatch always carries name, description and team; status only when
// non-empty, labels and progress only when present and non-null.
func projectPatch(payload gjson.Result) (models.ProjectPatch, error) {
	patch := models.ProjectPatch{
		ProjectName: looseString(payload.Get("project_name")),
		Description: looseString(payload.Get("description")),
		TeamUUID:    optionalTeam(payload.Get("team_uuid")),
	}

	if status := trimmedString(payload.Get("status")); status != "" {
		s := models.ProjectStatus(status)
		patch.Status = &s
	}
	if labels := payload.Get("labels"); present(labels) {
		values, err := labelsValue(labels)
		if err != nil {
			return patch, err
		}
		patch.Labels = &values
	}
	// A null progress counts as absent and keeps the stored value; it is not reset to 0.
	if progress := payload.Get("progress"); present(progress) {
		value, err := progressValue(progress)
		if err != nil {
			return patch, err
		}
		patch.Progress = &value
	}
	return patch, nil
}
