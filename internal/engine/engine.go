package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"symptomdx/internal/classifier"
	"symptomdx/internal/dataset"
	"symptomdx/internal/dialogue"
	"symptomdx/internal/knowledge"
	"symptomdx/internal/matcher"
	"symptomdx/internal/models"
	"symptomdx/internal/reporter"
	"symptomdx/internal/validation"
)

var (
	// ErrUnknownSymptom is returned by Diagnose for names outside the vocabulary.
	ErrUnknownSymptom = errors.New("unknown symptom")
	// ErrSessionActive is returned by Finish for a session still asking questions.
	ErrSessionActive = errors.New("session still in progress")
)

// Options controls how the engine is built.
type Options struct {
	TrainingCSV string
	LabelColumn string
	MaxDepth    int
	Knowledge   knowledge.Source // nil means no knowledge tables
	Dialogue    dialogue.Options
	Texts       reporter.Texts
}

// Stats summarizes the loaded model for health checks.
type Stats struct {
	Symptoms  int
	Diseases  int
	Knowledge int
	Accuracy  float64
}

// Engine owns the trained classifier and everything derived from the
// training table. It is read-only after construction and shared by all
// dialogue sessions.
type Engine struct {
	space    *dataset.FeatureSpace
	labels   *dataset.LabelEncoder
	model    *classifier.Classifier
	eval     classifier.Evaluation
	tables   *knowledge.Tables
	matcher  *matcher.Matcher
	reporter *reporter.Reporter
	dialogue dialogue.Options
}

// Load reads the training CSV and knowledge source, then trains the classifier.
func Load(ctx context.Context, opts Options) (*Engine, error) {
	training, err := dataset.LoadCSV(opts.TrainingCSV, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load training data: %w", err)
	}

	var tables *knowledge.Tables
	if opts.Knowledge != nil {
		tables, err = opts.Knowledge.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load knowledge tables: %w", err)
		}
	}
	return New(training, tables, opts)
}

// New builds an engine from an already loaded training table. Only the
// LabelColumn, MaxDepth, Dialogue and Texts fields of opts are used.
func New(training *dataset.Table, tables *knowledge.Tables, opts Options) (*Engine, error) {
	if opts.LabelColumn == "" {
		opts.LabelColumn = dataset.DefaultLabelColumn
	}

	space, err := dataset.NewFeatureSpace(training, opts.LabelColumn)
	if err != nil {
		return nil, err
	}
	X, names, err := space.Records()
	if err != nil {
		return nil, err
	}
	labels := dataset.FitLabelEncoder(names)
	y, err := labels.EncodeAll(names)
	if err != nil {
		return nil, err
	}

	model := classifier.New(opts.MaxDepth)
	eval, err := model.Train(X, y)
	if err != nil {
		return nil, fmt.Errorf("failed to train classifier: %w", err)
	}
	if tables == nil {
		tables = knowledge.New(nil)
	}

	slog.Info("classifier trained",
		"symptoms", space.Size(),
		"diseases", labels.Len(),
		"records", len(X),
		"depth", model.Depth(),
		"holdout", eval.HoldoutSize,
		"accuracy", eval.Accuracy,
		"knowledge", tables.Len(),
	)

	return &Engine{
		space:    space,
		labels:   labels,
		model:    model,
		eval:     eval,
		tables:   tables,
		matcher:  matcher.New(space.Vocabulary()),
		reporter: reporter.New(space, model, labels, tables, opts.Texts),
		dialogue: opts.Dialogue,
	}, nil
}

// NewSession starts a fresh elicitation dialogue.
func (e *Engine) NewSession() *dialogue.Session {
	return dialogue.NewSession(e.matcher, e.dialogue)
}

// Restore rebuilds a dialogue from its snapshot.
func (e *Engine) Restore(snap dialogue.Snapshot) (*dialogue.Session, error) {
	return dialogue.Restore(snap, e.matcher, e.dialogue)
}

// Report renders the diagnosis for a confirmed symptom set.
func (e *Engine) Report(symptoms []string) (models.Diagnosis, error) {
	return e.reporter.Report(symptoms)
}

// Finish reports on a finished session.
func (e *Engine) Finish(s *dialogue.Session) (models.Diagnosis, error) {
	out, ok := s.Result()
	if !ok {
		return models.Diagnosis{}, ErrSessionActive
	}
	return e.reporter.Report(out.Symptoms)
}

// Diagnose reports on symptoms supplied directly, without a dialogue.
// Names are resolved case-insensitively; duplicates are dropped.
func (e *Engine) Diagnose(symptoms []string) (models.Diagnosis, error) {
	resolved := make([]string, 0, len(symptoms))
	seen := make(map[string]bool, len(symptoms))
	var unknown []string
	for _, raw := range symptoms {
		name, ok := e.Resolve(raw)
		if !ok {
			unknown = append(unknown, strings.TrimSpace(raw))
			continue
		}
		if !seen[name] {
			seen[name] = true
			resolved = append(resolved, name)
		}
	}
	if len(unknown) > 0 {
		return models.Diagnosis{}, fmt.Errorf("%w: %s", ErrUnknownSymptom, strings.Join(unknown, ", "))
	}
	return e.reporter.Report(resolved)
}

// Resolve maps a user-supplied name to its vocabulary entry.
func (e *Engine) Resolve(name string) (string, bool) {
	return e.matcher.Resolve(validation.NormalizeSymptom(name))
}

// Related returns the vocabulary symptoms matching token.
func (e *Engine) Related(token string) []string {
	return e.matcher.Related(token)
}

// Vocabulary returns the ordered symptom vocabulary.
func (e *Engine) Vocabulary() []string {
	return e.space.Vocabulary()
}

// Diseases returns the disease labels the classifier can predict.
func (e *Engine) Diseases() []string {
	return e.labels.Classes()
}

// Knowledge returns the knowledge tables in use.
func (e *Engine) Knowledge() *knowledge.Tables {
	return e.tables
}

// Evaluation returns the holdout evaluation from training.
func (e *Engine) Evaluation() classifier.Evaluation {
	return e.eval
}

// Stats returns counts for health reporting.
func (e *Engine) Stats() Stats {
	return Stats{
		Symptoms:  e.space.Size(),
		Diseases:  e.labels.Len(),
		Knowledge: e.tables.Len(),
		Accuracy:  e.eval.Accuracy,
	}
}
