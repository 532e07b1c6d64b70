package api

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"symptomdx/internal/engine"
	"symptomdx/internal/models"
)

// SymptomHandler exposes the symptom vocabulary.
type SymptomHandler struct {
	engine *engine.Engine
}

// NewSymptomHandler creates a new API symptom handler.
func NewSymptomHandler(e *engine.Engine) *SymptomHandler {
	return &SymptomHandler{engine: e}
}

// List returns the vocabulary in feature order.
func (h *SymptomHandler) List(c fiber.Ctx) error {
	vocab := h.engine.Vocabulary()
	return jsonSuccess(c, models.VocabularyResponse{Count: len(vocab), Symptoms: vocab})
}

// Match returns the vocabulary symptoms related to the q parameter.
func (h *SymptomHandler) Match(c fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q", ""))
	if q == "" {
		return jsonError(c, fiber.StatusBadRequest, "query parameter q is required")
	}

	matches := h.engine.Related(q)
	if matches == nil {
		matches = []string{}
	}
	return jsonSuccess(c, models.SymptomMatchResponse{Query: q, Matches: matches})
}
