package models

import (
	"time"

	"github.com/google/uuid"
)

// QuestionResponse is the question a dialogue session waits on.
type QuestionResponse struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Symptom string `json:"symptom,omitempty"` // candidate being confirmed
	Typed   string `json:"typed,omitempty"`   // token that produced the candidate
}

// SessionResponse describes a dialogue session after a turn.
type SessionResponse struct {
	ID        uuid.UUID         `json:"id"`
	State     string            `json:"state"`
	Confirmed []string          `json:"confirmed"`
	Question  *QuestionResponse `json:"question,omitempty"`
	Diagnosis *Diagnosis        `json:"diagnosis,omitempty"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
}

// SymptomMatchResponse lists vocabulary symptoms related to a query.
type SymptomMatchResponse struct {
	Query   string   `json:"query"`
	Matches []string `json:"matches"`
}

// VocabularyResponse lists the full symptom vocabulary.
type VocabularyResponse struct {
	Count    int      `json:"count"`
	Symptoms []string `json:"symptoms"`
}

// HealthResponse reports service readiness.
type HealthResponse struct {
	Status    string  `json:"status"`
	Symptoms  int     `json:"symptoms"`
	Diseases  int     `json:"diseases"`
	Knowledge int     `json:"knowledge_entries"`
	Accuracy  float64 `json:"holdout_accuracy"`
}
