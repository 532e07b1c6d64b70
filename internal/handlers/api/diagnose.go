package api

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"symptomdx/internal/engine"
	"symptomdx/internal/metrics"
)

// maxDiagnoseSymptoms bounds the symptom list of a direct diagnosis.
const maxDiagnoseSymptoms = 64

// DiagnoseHandler reports on a symptom list supplied in one request.
type DiagnoseHandler struct {
	engine *engine.Engine
}

// NewDiagnoseHandler creates a new API diagnose handler.
func NewDiagnoseHandler(e *engine.Engine) *DiagnoseHandler {
	return &DiagnoseHandler{engine: e}
}

// Diagnose classifies the given symptoms. Every name must belong to the
// vocabulary; an empty list yields the insufficient-input outcome.
func (h *DiagnoseHandler) Diagnose(c fiber.Ctx) error {
	var body struct {
		Symptoms []string `json:"symptoms"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(body.Symptoms) > maxDiagnoseSymptoms {
		return jsonError(c, fiber.StatusBadRequest, "too many symptoms")
	}

	d, err := h.engine.Diagnose(body.Symptoms)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownSymptom) {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		slog.Error("failed to diagnose", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to diagnose")
	}
	metrics.RecordDiagnosis(d)

	return jsonSuccess(c, d)
}
