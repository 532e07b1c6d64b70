package api

import (
	"github.com/gofiber/fiber/v3"

	"symptomdx/internal/engine"
	"symptomdx/internal/models"
)

// HealthHandler reports whether the model is loaded.
type HealthHandler struct {
	engine *engine.Engine
}

// NewHealthHandler creates a new API health handler.
func NewHealthHandler(e *engine.Engine) *HealthHandler {
	return &HealthHandler{engine: e}
}

// Check returns model statistics.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	stats := h.engine.Stats()
	return jsonSuccess(c, models.HealthResponse{
		Status:    "ok",
		Symptoms:  stats.Symptoms,
		Diseases:  stats.Diseases,
		Knowledge: stats.Knowledge,
		Accuracy:  stats.Accuracy,
	})
}
