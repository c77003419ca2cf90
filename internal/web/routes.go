package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/photo-dedupe/internal/dedupe"
	"github.com/kozaktomas/photo-dedupe/internal/web/handlers"
)

func (s *Server) setupRoutes(scanner *dedupe.Scanner) {
	scansHandler := handlers.NewScansHandler(s.config, scanner, s.jobManager)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/scans", scansHandler.Start)
		r.Get("/scans/{jobId}", scansHandler.Status)
		r.Get("/scans/{jobId}/events", scansHandler.Events)
		r.Get("/scans/{jobId}/groups", scansHandler.Groups)
		r.Delete("/scans/{jobId}", scansHandler.Cancel)
	})
}
