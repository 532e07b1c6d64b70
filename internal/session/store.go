package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"symptomdx/internal/dialogue"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

const keyPrefix = "dialogue:"

// Storage is a byte-level key/value store with expiry. The gofiber storage
// drivers satisfy it.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// Record is one in-flight dialogue as stored between HTTP turns.
type Record struct {
	ID        uuid.UUID         `json:"id"`
	Owner     string            `json:"owner,omitempty"` // OIDC subject when auth is enabled
	Snapshot  dialogue.Snapshot `json:"snapshot"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Store keeps dialogue records under random IDs with a sliding TTL.
type Store struct {
	storage Storage
	ttl     time.Duration
	now     func() time.Time
}

// New creates a Store over storage.
func New(storage Storage, ttl time.Duration) *Store {
	return &Store{storage: storage, ttl: ttl, now: time.Now}
}

// TTL returns how long an idle session is kept.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create stores a new record for snap.
func (s *Store) Create(snap dialogue.Snapshot, owner string) (*Record, error) {
	now := s.now().UTC()
	rec := &Record{
		ID:        uuid.New(),
		Owner:     owner,
		Snapshot:  snap,
		CreatedAt: now,
	}
	if err := s.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get loads the record for id.
func (s *Store) Get(id uuid.UUID) (*Record, error) {
	data, err := s.storage.Get(keyPrefix + id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &rec, nil
}

// Save writes rec and extends its expiry by the TTL.
func (s *Store) Save(rec *Record) error {
	rec.ExpiresAt = s.now().UTC().Add(s.ttl)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.storage.Set(keyPrefix+rec.ID.String(), data, s.ttl); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Delete removes the record for id. Deleting a missing record is not an error.
func (s *Store) Delete(id uuid.UUID) error {
	if err := s.storage.Delete(keyPrefix + id.String()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
