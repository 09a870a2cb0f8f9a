package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/teami-app/teami-backend/config"
	"github.com/teami-app/teami-backend/errs"
	"github.com/teami-app/teami-backend/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(svc services.Services, settings config.Settings) (Server, error) {
	address := fmt.Sprintf("0.0.0.0:%s", settings.Port)

	// Capture startup time
	startupTime := time.Now()

	router := newRouter(svc, withConfig(settings))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout,  // Timeout for reading the entire request
		WriteTimeout: settings.WriteTimeout, // Timeout for writing the response
		IdleTimeout:  settings.IdleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config    config.Settings
	logOutput io.Writer
}

func withConfig(c config.Settings) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withLogOutput(w io.Writer) func(*router) {
	return func(r *router) {
		r.logOutput = w
	}
}

func newRouter(svc services.Services, opts ...func(*router)) *chi.Mux {
	router := router{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	// Initialize all handlers
	handlers := initializeHandlers(svc)

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(router.config.JWTSecret)

	// Apply CORS middleware
	acceptedOrigins := router.config.AcceptedOrigins
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"*"}
	}
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))
	chiRouter.Use(ColoredHTTPLoggingMiddleware(router.logOutput, router.config.LogFormat != "json"))

	notFound := NewResponder(log.Logger)
	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		notFound.WriteError(w, errs.NewRouteNotFoundError(r.URL.Path))
	})
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		notFound.WriteError(w, errs.NewMethodNotAllowedError(r.Method))
	})

	// Setup all route types
	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

// Uptime reports how long ago the server was built.
func (s Server) Uptime() time.Duration {
	return time.Since(s.startupTime)
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

// Run serves until ctx is done, then shuts down within timeout.
func (s Server) Run(ctx context.Context, timeout time.Duration) error {
	errChannel := make(chan error, 1)
	go s.Start(errChannel)

	select {
	case err := <-errChannel:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.ShutdownGracefully(timeout)
		return nil
	}
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
