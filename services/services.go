// Package services holds the boundary rules shared by the REST API and the
// desktop bridge: input trimming, required fields, workspace admission control
// and the workspace/project referential policy.
package services

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/teami-app/teami-backend/database"
)

const DefaultMaxWorkspaces = 5

type Options struct {
	// MaxWorkspaces caps the number of workspaces; <= 0 means DefaultMaxWorkspaces.
	MaxWorkspaces int
	// StrictReferences rejects projects under unknown workspaces and deletes a
	// workspace's projects together with it.
	StrictReferences bool
}

type Services struct {
	workspaces *WorkspaceService
	projects   *ProjectService
}

func New(db database.Database, opts Options) Services {
	if opts.MaxWorkspaces <= 0 {
		opts.MaxWorkspaces = DefaultMaxWorkspaces
	}
	log.Debug().
		Int("maxWorkspaces", opts.MaxWorkspaces).
		Bool("strictReferences", opts.StrictReferences).
		Msg("services configured")

	return Services{
		workspaces: newWorkspaceService(db, opts),
		projects:   newProjectService(db, opts),
	}
}

func (s Services) Workspaces() *WorkspaceService {
	return s.workspaces
}

func (s Services) Projects() *ProjectService {
	return s.projects
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
