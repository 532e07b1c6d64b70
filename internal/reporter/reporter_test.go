package reporter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptomdx/internal/classifier"
	"symptomdx/internal/dataset"
	"symptomdx/internal/knowledge"
	"symptomdx/internal/models"
)

const training = `fever,cough,headache,prognosis
1,0,0,Flu
0,1,0,Cold
0,0,1,Migraine
`

type fixture struct {
	space *dataset.FeatureSpace
	enc   *dataset.LabelEncoder
	model *classifier.Classifier
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	tbl, err := dataset.ReadCSV("training", strings.NewReader(training))
	require.NoError(t, err)
	fs, err := dataset.NewFeatureSpace(tbl, "prognosis")
	require.NoError(t, err)
	X, labels, err := fs.Records()
	require.NoError(t, err)
	enc := dataset.FitLabelEncoder(labels)
	y, err := enc.EncodeAll(labels)
	require.NoError(t, err)
	model := classifier.New(0)
	_, err = model.Train(X, y)
	require.NoError(t, err)
	return fixture{space: fs, enc: enc, model: model}
}

func (f fixture) reporter(tables *knowledge.Tables) *Reporter {
	return New(f.space, f.model, f.enc, tables, Texts{})
}

func TestReport_EndToEndDefaults(t *testing.T) {
	r := newFixture(t).reporter(knowledge.New(nil))

	d, err := r.Report([]string{"fever"})
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeDiagnosed, d.Outcome)
	assert.Equal(t, "Flu", d.Disease)
	assert.Equal(t, "No description available.", d.Description)
	assert.Equal(t, models.SeverityUnknown, d.Severity)
	assert.Equal(t, "Please consult a doctor for further advice.", d.SeverityText)
	assert.Equal(t, []string{"Please consult a doctor for further advice."}, d.Precautions)
	assert.Equal(t, []string{"fever"}, d.Symptoms)
	assert.InDelta(t, 1.0, d.Confidence, 1e-9)
}

func TestReport_UsesKnowledgeTables(t *testing.T) {
	tables := knowledge.New([]knowledge.Entry{
		{Disease: "Migraine", Description: "Recurring headaches.", Severity: models.SeverityModerate, Precautions: []string{"meditation", "reduce stress"}},
	})
	r := newFixture(t).reporter(tables)

	d, err := r.Report([]string{"headache"})
	require.NoError(t, err)

	assert.Equal(t, "Migraine", d.Disease)
	assert.Equal(t, "Recurring headaches.", d.Description)
	assert.Equal(t, models.SeverityModerate, d.Severity)
	assert.Equal(t, DefaultTexts().SeverityAdvice[models.SeverityModerate], d.SeverityText)
	assert.Equal(t, []string{"meditation", "reduce stress"}, d.Precautions)
}

func TestReport_UnknownSeverityUsesAdvice(t *testing.T) {
	tables := knowledge.New([]knowledge.Entry{{Disease: "Cold", Severity: models.SeverityUnknown}})
	r := newFixture(t).reporter(tables)

	d, err := r.Report([]string{"cough"})
	require.NoError(t, err)
	assert.Equal(t, "Cold", d.Disease)
	assert.Equal(t, DefaultAdvice, d.SeverityText)
}

func TestReport_EmptySetIsInsufficient(t *testing.T) {
	r := New(nil, panicPredictor{}, nil, nil, Texts{})

	d, err := r.Report(nil)
	require.NoError(t, err)
	assert.True(t, d.IsInsufficient())
	assert.Empty(t, d.Disease)
	assert.Empty(t, d.Symptoms)
}

func TestReport_IgnoresSymptomsOutsideVocabulary(t *testing.T) {
	r := newFixture(t).reporter(nil)

	d, err := r.Report([]string{"itching", "cough"})
	require.NoError(t, err)
	assert.Equal(t, "Cold", d.Disease)
	assert.Equal(t, []string{"itching", "cough"}, d.Symptoms)
}

func TestReport_Deterministic(t *testing.T) {
	r := newFixture(t).reporter(knowledge.New([]knowledge.Entry{{Disease: "Flu", Precautions: []string{"rest"}}}))

	first, err := r.Report([]string{"fever", "cough"})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := r.Report([]string{"fever", "cough"})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestReport_CustomTexts(t *testing.T) {
	f := newFixture(t)
	tables := knowledge.New([]knowledge.Entry{{Disease: "Flu", Severity: models.SeveritySevere}})
	r := New(f.space, f.model, f.enc, tables, Texts{
		DefaultDescription: "Nothing on file.",
		SeverityAdvice:     map[models.Severity]string{models.SeveritySevere: "Go to hospital."},
	})

	d, err := r.Report([]string{"fever"})
	require.NoError(t, err)
	assert.Equal(t, "Nothing on file.", d.Description)
	assert.Equal(t, "Go to hospital.", d.SeverityText)
	assert.Equal(t, []string{DefaultAdvice}, d.Precautions)
}

type fixedPredictor struct {
	label int
	err   error
}

func (p fixedPredictor) PredictWithConfidence(v []float64) (classifier.Result, error) {
	return classifier.Result{Label: p.label, Confidence: 0.5}, p.err
}

type panicPredictor struct{}

func (panicPredictor) PredictWithConfidence(v []float64) (classifier.Result, error) {
	panic("classifier must not be called")
}

func TestReport_UndecodableLabelFallsBack(t *testing.T) {
	f := newFixture(t)
	r := New(f.space, fixedPredictor{label: 42}, f.enc, nil, Texts{})

	d, err := r.Report([]string{"fever"})
	require.NoError(t, err)
	assert.Equal(t, models.UnknownDisease, d.Disease)
	assert.Equal(t, DefaultDescription, d.Description)
	assert.Equal(t, DefaultAdvice, d.SeverityText)
	assert.Equal(t, []string{DefaultAdvice}, d.Precautions)
}

func TestReport_DimensionMismatchFallsBack(t *testing.T) {
	f := newFixture(t)
	err := fmt.Errorf("%w: got 2 features, want 3", classifier.ErrDimensionMismatch)
	r := New(f.space, fixedPredictor{err: err}, f.enc, nil, Texts{})

	d, err := r.Report([]string{"fever"})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDiagnosed, d.Outcome)
	assert.Equal(t, models.UnknownDisease, d.Disease)
	assert.Equal(t, DefaultDescription, d.Description)
	assert.Equal(t, []string{DefaultAdvice}, d.Precautions)
	assert.Equal(t, []string{"fever"}, d.Symptoms)
	assert.Zero(t, d.Confidence)
}

func TestReport_PredictorErrorPropagates(t *testing.T) {
	f := newFixture(t)
	r := New(f.space, fixedPredictor{err: classifier.ErrNotTrained}, f.enc, nil, Texts{})

	_, err := r.Report([]string{"fever"})
	assert.True(t, errors.Is(err, classifier.ErrNotTrained))
}
