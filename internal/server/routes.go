package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"symptomdx/internal/engine"
	"symptomdx/internal/handlers/api"
	"symptomdx/internal/middleware"
	"symptomdx/internal/session"
)

// RegisterRoutes registers all application routes. A nil verifier leaves the
// API unauthenticated.
func (s *Server) RegisterRoutes(e *engine.Engine, store *session.Store, verifier middleware.TokenVerifier) {
	// Initialize handlers
	healthHandler := api.NewHealthHandler(e)
	symptomHandler := api.NewSymptomHandler(e)
	diagnoseHandler := api.NewDiagnoseHandler(e)
	sessionHandler := api.NewSessionHandler(e, store)

	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	var handlers []any
	if verifier != nil {
		handlers = append(handlers, middleware.NewAuthMiddleware(verifier).RequireAuth)
	}
	apiGroup := s.App.Group("/api", handlers...)

	apiGroup.Get("/symptoms", symptomHandler.List)
	apiGroup.Get("/symptoms/match", symptomHandler.Match)
	apiGroup.Post("/diagnose", diagnoseHandler.Diagnose)

	apiGroup.Post("/sessions", sessionHandler.Create)
	apiGroup.Get("/sessions/:id", sessionHandler.Get)
	apiGroup.Post("/sessions/:id/answer", sessionHandler.Answer)
	apiGroup.Post("/sessions/:id/finish", sessionHandler.Finish)
	apiGroup.Delete("/sessions/:id", sessionHandler.Delete)
}
