package bridge

import (
	"context"

	"github.com/teami-app/teami-backend/models"
	"github.com/teami-app/teami-backend/services"
)

const entityWorkspace = "workspace"

// deleted is the result of every delete channel.
type deleted struct {
	Success bool `json:"success"`
}

func registerWorkspaceMethods(b *Bridge, workspaces *services.WorkspaceService) {
	b.Register("workspaces:list", func(ctx context.Context, _ *Request) (any, error) {
		return workspaces.List(ctx)
	})

	// workspaces:create({name, description?})
	b.Register("workspaces:create", func(ctx context.Context, req *Request) (any, error) {
		payload := req.Param(0)
		if err := requireObject(payload, entityWorkspace); err != nil {
			return nil, err
		}
		return workspaces.Create(ctx, models.WorkspaceInput{
			Name:        looseString(payload.Get("name")),
			Description: looseString(payload.Get("description")),
		})
	})

	// workspaces:update(id, {name, description})
	b.Register("workspaces:update", func(ctx context.Context, req *Request) (any, error) {
		id, err := workspaceID(req.Param(0))
		if err != nil {
			return nil, err
		}
		payload := req.Param(1)
		if err := requireObject(payload, entityWorkspace); err != nil {
			return nil, err
		}
		return workspaces.Update(ctx, id, models.WorkspaceInput{
			Name:        looseString(payload.Get("name")),
			Description: looseString(payload.Get("description")),
		})
	})

	b.Register("workspaces:update-last-open", func(ctx context.Context, req *Request) (any, error) {
		id, err := workspaceID(req.Param(0))
		if err != nil {
			return nil, err
		}
		return workspaces.UpdateLastOpen(ctx, id)
	})

	b.Register("workspaces:delete", func(ctx context.Context, req *Request) (any, error) {
		id, err := workspaceID(req.Param(0))
		if err != nil {
			return nil, err
		}
		if err := workspaces.Delete(ctx, id); err != nil {
			return nil, err
		}
		return deleted{Success: true}, nil
	})
}
