package api

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"symptomdx/internal/dialogue"
	"symptomdx/internal/engine"
	"symptomdx/internal/metrics"
	"symptomdx/internal/middleware"
	"symptomdx/internal/models"
	"symptomdx/internal/session"
)

// SessionHandler runs elicitation dialogues over HTTP. Between turns each
// dialogue lives in the session store as a snapshot.
type SessionHandler struct {
	engine *engine.Engine
	store  *session.Store
}

// NewSessionHandler creates a new API session handler.
func NewSessionHandler(e *engine.Engine, store *session.Store) *SessionHandler {
	return &SessionHandler{engine: e, store: store}
}

// Create starts a new dialogue and returns its first question.
func (h *SessionHandler) Create(c fiber.Ctx) error {
	s := h.engine.NewSession()
	rec, err := h.store.Create(s.Snapshot(), ownerOf(c))
	if err != nil {
		slog.Error("failed to create session", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	metrics.SessionStarted()

	c.Status(fiber.StatusCreated)
	return jsonSuccess(c, sessionResponse(rec, s, nil))
}

// Get returns the pending question of a dialogue.
func (h *SessionHandler) Get(c fiber.Ctx) error {
	rec, s, err := h.load(c)
	if err != nil {
		return err
	}
	return jsonSuccess(c, sessionResponse(rec, s, nil))
}

// Answer feeds one reply to the dialogue. When the reply ends the dialogue
// the diagnosis is returned and the session is removed.
func (h *SessionHandler) Answer(c fiber.Ctx) error {
	var body struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rec, s, err := h.load(c)
	if err != nil {
		return err
	}

	if err := s.Answer(body.Answer); err != nil {
		if errors.Is(err, dialogue.ErrInvalidSymptom) {
			return jsonError(c, fiber.StatusUnprocessableEntity, "symptoms may only contain letters, digits, spaces, underscores, hyphens, dots and parentheses")
		}
		return jsonError(c, fiber.StatusConflict, err.Error())
	}
	return h.advance(c, rec, s)
}

// Finish ends the dialogue as if the user closed the input, and returns the
// diagnosis.
func (h *SessionHandler) Finish(c fiber.Ctx) error {
	rec, s, err := h.load(c)
	if err != nil {
		return err
	}
	s.Finish()
	return h.advance(c, rec, s)
}

// Delete cancels a dialogue without a diagnosis.
func (h *SessionHandler) Delete(c fiber.Ctx) error {
	rec, _, err := h.load(c)
	if err != nil {
		return err
	}
	if err := h.store.Delete(rec.ID); err != nil {
		slog.Error("failed to delete session", "id", rec.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete session")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SessionHandler) advance(c fiber.Ctx, rec *session.Record, s *dialogue.Session) error {
	if !s.Done() {
		rec.Snapshot = s.Snapshot()
		if err := h.store.Save(rec); err != nil {
			slog.Error("failed to save session", "id", rec.ID, "error", err)
			return jsonError(c, fiber.StatusInternalServerError, "failed to save session")
		}
		return jsonSuccess(c, sessionResponse(rec, s, nil))
	}

	d, err := h.engine.Finish(s)
	if err != nil {
		slog.Error("failed to report diagnosis", "id", rec.ID, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to report diagnosis")
	}
	metrics.RecordDiagnosis(d)

	if err := h.store.Delete(rec.ID); err != nil {
		slog.Warn("failed to delete finished session", "id", rec.ID, "error", err)
	}
	return jsonSuccess(c, sessionResponse(rec, s, &d))
}

// load fetches and restores the session named in the route. Failures are
// returned as *fiber.Error for ErrorHandler to render.
func (h *SessionHandler) load(c fiber.Ctx) (*session.Record, *dialogue.Session, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	rec, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		slog.Error("failed to load session", "id", id, "error", err)
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "failed to load session")
	}
	if rec.Owner != "" && rec.Owner != ownerOf(c) {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}

	s, err := h.engine.Restore(rec.Snapshot)
	if err != nil {
		slog.Error("failed to restore session", "id", id, "error", err)
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "failed to restore session")
	}
	return rec, s, nil
}

func ownerOf(c fiber.Ctx) string {
	if caller := middleware.CallerFrom(c); caller != nil {
		return caller.Sub
	}
	return ""
}

func sessionResponse(rec *session.Record, s *dialogue.Session, d *models.Diagnosis) models.SessionResponse {
	resp := models.SessionResponse{
		ID:        rec.ID,
		State:     string(s.State()),
		Confirmed: s.Confirmed(),
		Diagnosis: d,
	}
	if !s.Done() {
		q := s.Prompt()
		resp.Question = &models.QuestionResponse{
			Kind:    string(q.Kind),
			Text:    q.Text,
			Symptom: q.Symptom,
			Typed:   q.Typed,
		}
		expires := rec.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}
