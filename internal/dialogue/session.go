package dialogue

import (
	"errors"
	"fmt"
	"strings"

	"symptomdx/internal/validation"
)

var (
	// ErrSessionDone is returned when answering a finished session.
	ErrSessionDone = errors.New("session is done")
	// ErrInvalidSymptom is returned for a symptom token that fails validation.
	// The session state does not change.
	ErrInvalidSymptom = errors.New("invalid symptom")
	// ErrInvalidSnapshot is returned by Restore for inconsistent state.
	ErrInvalidSnapshot = errors.New("invalid session snapshot")
)

// State is the dialogue phase.
type State string

const (
	Collecting State = "collecting"
	Confirming State = "confirming"
	Done       State = "done"
)

// QuestionKind distinguishes free symptom entry from yes/no confirmation.
type QuestionKind string

const (
	AskSymptom QuestionKind = "symptom"
	AskConfirm QuestionKind = "confirm"
)

// Question is what the session currently waits for.
type Question struct {
	Kind    QuestionKind `json:"kind"`
	Text    string       `json:"text"`
	Symptom string       `json:"symptom,omitempty"` // candidate being confirmed
	Typed   string       `json:"typed,omitempty"`   // token that produced the candidate
}

// Matcher proposes vocabulary symptoms related to a typed token and maps a
// token to the vocabulary entry it names.
type Matcher interface {
	Related(token string) []string
	Resolve(token string) (string, bool)
}

// Outcome is the result of a finished session.
type Outcome struct {
	Symptoms     []string
	Insufficient bool // no symptom confirmed, nothing to classify
}

// Session is one elicitation run. It is not safe for concurrent use; each
// user gets their own.
type Session struct {
	opts    Options
	matcher Matcher

	state     State
	confirmed []string
	seen      map[string]bool
	typed     string
	pending   []string
}

// NewSession starts a session in the Collecting state.
func NewSession(m Matcher, opts Options) *Session {
	return &Session{
		opts:    opts.withDefaults(),
		matcher: m,
		state:   Collecting,
		seen:    make(map[string]bool),
	}
}

// State returns the current phase.
func (s *Session) State() State {
	return s.state
}

// Done reports whether the session reached its terminal state.
func (s *Session) Done() bool {
	return s.state == Done
}

// Confirmed returns the confirmed symptoms in the order they were added.
func (s *Session) Confirmed() []string {
	out := make([]string, len(s.confirmed))
	copy(out, s.confirmed)
	return out
}

// Prompt returns the pending question. A finished session returns the zero
// Question.
func (s *Session) Prompt() Question {
	switch s.state {
	case Collecting:
		return Question{Kind: AskSymptom, Text: fmt.Sprintf(s.opts.SymptomPrompt, s.opts.Sentinel)}
	case Confirming:
		cand := s.pending[0]
		return Question{
			Kind:    AskConfirm,
			Text:    fmt.Sprintf(s.opts.ConfirmPrompt, humanize(cand)),
			Symptom: cand,
			Typed:   s.typed,
		}
	default:
		return Question{}
	}
}

// Answer feeds the user's reply to the pending question.
func (s *Session) Answer(text string) error {
	switch s.state {
	case Collecting:
		return s.collect(strings.TrimSpace(text))
	case Confirming:
		s.confirm(strings.TrimSpace(text))
		return nil
	default:
		return ErrSessionDone
	}
}

// Finish ends the session as if the input stream closed. A symptom whose
// candidates were still being confirmed is kept.
func (s *Session) Finish() {
	if s.state == Confirming {
		s.add(s.typed)
	}
	s.typed = ""
	s.pending = nil
	s.state = Done
}

// Result returns the outcome once the session is done.
func (s *Session) Result() (Outcome, bool) {
	if s.state != Done {
		return Outcome{}, false
	}
	return Outcome{Symptoms: s.Confirmed(), Insufficient: len(s.confirmed) == 0}, true
}

func (s *Session) collect(answer string) error {
	if answer == "" {
		return nil
	}
	if s.isSentinel(answer) {
		s.state = Done
		return nil
	}

	token := validation.NormalizeSymptom(answer)
	if !validation.ValidateSymptom(token) {
		return fmt.Errorf("%w: %q", ErrInvalidSymptom, answer)
	}
	if name, ok := s.matcher.Resolve(token); ok {
		token = name
	}

	related := s.matcher.Related(token)
	if len(related) > 1 {
		var pending []string
		for _, r := range related {
			if r == token || s.seen[r] {
				continue
			}
			pending = append(pending, r)
		}
		if len(pending) > 0 {
			s.typed = token
			s.pending = pending
			s.state = Confirming
			return nil
		}
	}

	s.add(token)
	return nil
}

func (s *Session) confirm(answer string) {
	if s.isSentinel(answer) {
		s.Finish()
		return
	}

	cand := s.pending[0]
	s.pending = s.pending[1:]
	if s.isAffirmative(answer) {
		s.add(cand)
	}

	if len(s.pending) == 0 {
		s.add(s.typed)
		s.typed = ""
		s.pending = nil
		s.state = Collecting
	}
}

func (s *Session) add(symptom string) {
	if symptom == "" || s.seen[symptom] {
		return
	}
	s.seen[symptom] = true
	s.confirmed = append(s.confirmed, symptom)
}

func (s *Session) isSentinel(answer string) bool {
	return strings.EqualFold(answer, s.opts.Sentinel)
}

func (s *Session) isAffirmative(answer string) bool {
	for _, a := range s.opts.Affirmatives {
		if strings.EqualFold(answer, a) {
			return true
		}
	}
	return false
}

func humanize(symptom string) string {
	return strings.ReplaceAll(symptom, "_", " ")
}
