package knowledge

import (
	"context"
	"sort"

	"symptomdx/internal/models"
	"symptomdx/internal/validation"
)

// MaxPrecautions is the number of precautions kept per disease.
const MaxPrecautions = 4

// Entry is everything known about one disease.
type Entry struct {
	Disease     string
	Description string
	Severity    models.Severity
	Precautions []string
}

// Source loads knowledge tables, e.g. from CSV files or Postgres.
type Source interface {
	Load(ctx context.Context) (*Tables, error)
}

// Tables holds disease descriptions, severities and precautions. It is
// immutable once built and safe to share between goroutines.
type Tables struct {
	entries map[string]Entry
}

// New builds tables from entries. Disease names match case-insensitively
// and ignoring surrounding whitespace. A later entry for the same disease
// fills fields the earlier one left empty.
func New(entries []Entry) *Tables {
	t := &Tables{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		key := validation.NormalizeDisease(e.Disease)
		if key == "" {
			continue
		}
		cur, ok := t.entries[key]
		if !ok {
			cur = Entry{Disease: e.Disease, Severity: models.SeverityUnknown}
		}
		if cur.Description == "" {
			cur.Description = e.Description
		}
		if cur.Severity == models.SeverityUnknown && e.Severity != "" {
			cur.Severity = e.Severity
		}
		if len(cur.Precautions) == 0 {
			cur.Precautions = clipPrecautions(e.Precautions)
		}
		t.entries[key] = cur
	}
	return t
}

// Description returns the description for disease.
func (t *Tables) Description(disease string) (string, bool) {
	e, ok := t.lookup(disease)
	if !ok || e.Description == "" {
		return "", false
	}
	return e.Description, true
}

// Severity returns the severity tier for disease, SeverityUnknown if absent.
func (t *Tables) Severity(disease string) models.Severity {
	e, ok := t.lookup(disease)
	if !ok || e.Severity == "" {
		return models.SeverityUnknown
	}
	return e.Severity
}

// Precautions returns a copy of the ordered precautions for disease.
func (t *Tables) Precautions(disease string) ([]string, bool) {
	e, ok := t.lookup(disease)
	if !ok || len(e.Precautions) == 0 {
		return nil, false
	}
	out := make([]string, len(e.Precautions))
	copy(out, e.Precautions)
	return out, true
}

// Entries returns all entries sorted by disease name.
func (t *Tables) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		e.Precautions = append([]string(nil), e.Precautions...)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Disease < out[j].Disease })
	return out
}

// Len returns the number of diseases with at least one known field.
func (t *Tables) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

func (t *Tables) lookup(disease string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[validation.NormalizeDisease(disease)]
	return e, ok
}

func clipPrecautions(in []string) []string {
	var out []string
	for _, p := range in {
		if p == "" {
			continue
		}
		out = append(out, p)
		if len(out) == MaxPrecautions {
			break
		}
	}
	return out
}
