package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/teami-app/teami-backend/errs"
	"github.com/teami-app/teami-backend/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(svc services.Services) *routeHandlers {
	return &routeHandlers{
		healthHandler:    newHealthHandler(),
		workspaceHandler: newWorkspaceHandler(svc.Workspaces()),
		projectHandler:   newProjectHandler(svc.Projects()),
	}
}

type healthHandler struct {
	responder Responder
}

func newHealthHandler() healthHandler {
	return healthHandler{
		responder: NewResponder(log.With().Str("handlerName", "healthHandler").Logger()),
	}
}

// health answers infrastructure probes outside the envelope.
// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// parsePage reads page (>= 1, default 1) and page_size (1..100, default 20).
func parsePage(r *http.Request) (services.Page, error) {
	page := services.Page{Number: 1, Size: defaultPageSize}
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, errs.NewInvalidFieldError("page", "must be an integer >= 1")
		}
		page.Number = n
	}
	if raw := q.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageSize {
			return page, errs.NewInvalidFieldError("page_size", "must be an integer between 1 and 100")
		}
		page.Size = n
	}
	return page, nil
}

// uuidParam returns a path parameter that must be a UUID.
func uuidParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return "", errs.NewMissingRequiredFieldError(name)
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", errs.NewInvalidFieldError(name, "must be a valid UUID")
	}
	return raw, nil
}
