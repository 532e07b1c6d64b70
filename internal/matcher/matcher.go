package matcher

import (
	"strings"

	"symptomdx/internal/validation"
)

// Matcher expands a typed symptom into the vocabulary symptoms that mention
// it. It only proposes candidates; confirming them is the caller's job.
type Matcher struct {
	vocab  []string
	folded []string
	byKey  map[string]string // folded symptom -> first vocabulary entry
}

// New builds a Matcher over an ordered vocabulary.
func New(vocabulary []string) *Matcher {
	m := &Matcher{
		vocab:  make([]string, len(vocabulary)),
		folded: make([]string, len(vocabulary)),
		byKey:  make(map[string]string, len(vocabulary)),
	}
	copy(m.vocab, vocabulary)
	for i, v := range vocabulary {
		key := validation.FoldKey(v)
		m.folded[i] = key
		if _, ok := m.byKey[key]; !ok {
			m.byKey[key] = v
		}
	}
	return m
}

// Resolve returns the vocabulary entry that token names, ignoring case,
// underscores and spacing. "severe headache" resolves to "severe_Headache".
func (m *Matcher) Resolve(token string) (string, bool) {
	key := validation.FoldKey(token)
	if key == "" {
		return "", false
	}
	v, ok := m.byKey[key]
	return v, ok
}

// Related returns, in vocabulary order, every symptom whose text contains
// token. Comparison ignores case and underscores on both sides. An empty
// token or no match yields nil.
func (m *Matcher) Related(token string) []string {
	key := validation.FoldKey(token)
	if key == "" {
		return nil
	}

	var out []string
	for i, f := range m.folded {
		if strings.Contains(f, key) {
			out = append(out, m.vocab[i])
		}
	}
	return out
}

// Vocabulary returns the symptoms the matcher searches.
func (m *Matcher) Vocabulary() []string {
	out := make([]string, len(m.vocab))
	copy(out, m.vocab)
	return out
}
