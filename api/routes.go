package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public health probe and the workspace/project routes.
// The latter require a bearer token when a JWT secret is configured.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/health", handlers.healthHandler.health())

	r.Group(func(r chi.Router) {
		if authMiddleware.enabled() {
			r.Use(authMiddleware.authenticate)
		}

		r.Route("/workspaces", func(r chi.Router) {
			r.Get("/", handlers.workspaceHandler.listWorkspaces())
			r.Post("/", handlers.workspaceHandler.createWorkspace())
			r.Get("/{workspaceUUID}", handlers.workspaceHandler.getWorkspace())
			r.Patch("/{workspaceUUID}", handlers.workspaceHandler.updateWorkspace())
			r.Delete("/{workspaceUUID}", handlers.workspaceHandler.deleteWorkspace())
			r.Post("/{workspaceUUID}/open", handlers.workspaceHandler.openWorkspace())
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.listProjects())
			r.Post("/", handlers.projectHandler.createProject())
			r.Get("/{projectUUID}", handlers.projectHandler.getProject())
			r.Patch("/{projectUUID}", handlers.projectHandler.updateProject())
			r.Delete("/{projectUUID}", handlers.projectHandler.deleteProject())
			r.Post("/{projectUUID}/open", handlers.projectHandler.openProject())
		})
	})
}
