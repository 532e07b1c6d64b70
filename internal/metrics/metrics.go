package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"symptomdx/internal/models"
)

var (
	diagnosisOutcomeDesc = prometheus.NewDesc(
		"symptomdx_diagnosis_outcomes_total",
		"Persisted diagnosis count by disease and outcome",
		[]string{"disease", "outcome"},
		nil,
	)

	sessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "symptomdx_sessions_started_total",
		Help: "Dialogue sessions started since process start",
	})
	diagnosesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "symptomdx_diagnoses_total",
		Help: "Diagnoses reported since process start by outcome",
	}, []string{"outcome"})
	holdoutAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "symptomdx_classifier_holdout_accuracy",
		Help: "Accuracy of the classifier on held-out training records",
	})
)

// OutcomeStore persists aggregate diagnosis counts.
type OutcomeStore interface {
	IncrementDiagnosisOutcome(ctx context.Context, disease, outcome string) error
	GetAllDiagnosisOutcomes(ctx context.Context) ([]models.DiagnosisOutcome, error)
}

// OutcomeCollector is a custom Prometheus collector that reads diagnosis
// counts from the store on each scrape.
type OutcomeCollector struct {
	store OutcomeStore
}

// NewOutcomeCollector creates a collector over store.
func NewOutcomeCollector(store OutcomeStore) *OutcomeCollector {
	return &OutcomeCollector{store: store}
}

// Describe sends the metric descriptor to the channel.
func (c *OutcomeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- diagnosisOutcomeDesc
}

// Collect queries the store for all outcome rows and emits them as counters.
func (c *OutcomeCollector) Collect(ch chan<- prometheus.Metric) {
	outcomes, err := c.store.GetAllDiagnosisOutcomes(context.Background())
	if err != nil {
		slog.Error("failed to collect diagnosis outcome metrics", "error", err)
		return
	}
	for _, o := range outcomes {
		ch <- prometheus.MustNewConstMetric(
			diagnosisOutcomeDesc,
			prometheus.CounterValue,
			float64(o.Count),
			o.Disease,
			o.Outcome,
		)
	}
}

// Recorder writes diagnosis outcomes to the store.
type Recorder struct {
	store OutcomeStore
}

// Record persists one diagnosis outcome.
func (r *Recorder) Record(ctx context.Context, d models.Diagnosis) error {
	return r.store.IncrementDiagnosisOutcome(ctx, d.Disease, d.Outcome)
}

var (
	recorder     *Recorder
	registerOnce sync.Once
)

// Init registers the metrics. When store is non-nil diagnosis outcomes are
// also persisted and exported from it. Must be called once at startup.
func Init(store OutcomeStore) {
	registerOnce.Do(func() {
		prometheus.MustRegister(sessionsStarted, diagnosesTotal, holdoutAccuracy)
		if store != nil {
			recorder = &Recorder{store: store}
			prometheus.MustRegister(NewOutcomeCollector(store))
		}
	})
}

// SessionStarted counts a new dialogue session.
func SessionStarted() {
	sessionsStarted.Inc()
}

// SetHoldoutAccuracy publishes the classifier's holdout accuracy.
func SetHoldoutAccuracy(accuracy float64) {
	holdoutAccuracy.Set(accuracy)
}

// RecordDiagnosis counts a diagnosis and asynchronously persists its outcome.
func RecordDiagnosis(d models.Diagnosis) {
	diagnosesTotal.WithLabelValues(d.Outcome).Inc()
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.Record(context.Background(), d); err != nil {
			slog.Error("failed to record diagnosis outcome", "disease", d.Disease, "outcome", d.Outcome, "error", err)
		}
	}()
}
