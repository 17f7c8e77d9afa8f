package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gonbooster/AIArriendo-sub000/internal/core/port"
)

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

func NewServer(httpPort string, allowedOrigins []string, handlers *SearchHandlers, baseLogger port.LoggerPort) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handlers.HandleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", handlers.HandleSearch)
		r.Get("/locations/suggest", handlers.HandleSuggestLocations)
		r.Post("/properties/similar", handlers.HandleFindSimilar)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + httpPort,
			Handler: r,
		},
		logger: baseLogger,
	}
}

// Start runs the HTTP server until an error or a Shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
