package dialogue

import "fmt"

// Snapshot is the serializable state of a Session, used by request/response
// transports that cannot keep a Session in memory between turns.
type Snapshot struct {
	State     State    `json:"state"`
	Confirmed []string `json:"confirmed"`
	Typed     string   `json:"typed,omitempty"`
	Pending   []string `json:"pending,omitempty"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:     s.state,
		Confirmed: s.Confirmed(),
		Typed:     s.typed,
	}
	if len(s.pending) > 0 {
		snap.Pending = append([]string(nil), s.pending...)
	}
	return snap
}

// Restore rebuilds a Session from a snapshot.
func Restore(snap Snapshot, m Matcher, opts Options) (*Session, error) {
	switch snap.State {
	case Collecting, Done:
		if len(snap.Pending) > 0 || snap.Typed != "" {
			return nil, fmt.Errorf("%w: %s session with pending candidates", ErrInvalidSnapshot, snap.State)
		}
	case Confirming:
		if len(snap.Pending) == 0 || snap.Typed == "" {
			return nil, fmt.Errorf("%w: confirming session without candidates", ErrInvalidSnapshot)
		}
	default:
		return nil, fmt.Errorf("%w: unknown state %q", ErrInvalidSnapshot, snap.State)
	}

	s := NewSession(m, opts)
	s.state = snap.State
	for _, c := range snap.Confirmed {
		s.add(c)
	}
	s.typed = snap.Typed
	s.pending = append([]string(nil), snap.Pending...)
	return s, nil
}
