package reporter

import (
	"errors"
	"fmt"
	"log/slog"

	"symptomdx/internal/classifier"
	"symptomdx/internal/dataset"
	"symptomdx/internal/knowledge"
	"symptomdx/internal/models"
)

// Default report texts.
const (
	DefaultDescription = "No description available."
	DefaultAdvice      = "Please consult a doctor for further advice."
)

// Predictor is the trained model the reporter queries.
type Predictor interface {
	PredictWithConfidence(vector []float64) (classifier.Result, error)
}

// Encoder turns a symptom set into a feature vector.
type Encoder interface {
	Encode(symptoms []string) []float64
}

// Decoder maps a label code back to a disease name.
type Decoder interface {
	Decode(code int) (string, error)
}

// Texts holds the wording of the report.
type Texts struct {
	DefaultDescription string
	DefaultAdvice      string
	SeverityAdvice     map[models.Severity]string
}

// DefaultTexts returns the stock report wording.
func DefaultTexts() Texts {
	return Texts{
		DefaultDescription: DefaultDescription,
		DefaultAdvice:      DefaultAdvice,
		SeverityAdvice: map[models.Severity]string{
			models.SeverityMild:     "Mild. Rest and monitor your symptoms; consult a doctor if they get worse.",
			models.SeverityModerate: "Moderate. Consider seeing a doctor if symptoms persist.",
			models.SeveritySevere:   "Severe. Seek medical attention promptly.",
		},
	}
}

// Reporter assembles diagnoses from the classifier and knowledge tables.
// It holds only read-only collaborators and is safe for concurrent use.
type Reporter struct {
	encoder   Encoder
	predictor Predictor
	decoder   Decoder
	tables    *knowledge.Tables
	texts     Texts
}

// New creates a Reporter. Empty fields of texts fall back to DefaultTexts.
func New(enc Encoder, p Predictor, dec Decoder, tables *knowledge.Tables, texts Texts) *Reporter {
	def := DefaultTexts()
	if texts.DefaultDescription == "" {
		texts.DefaultDescription = def.DefaultDescription
	}
	if texts.DefaultAdvice == "" {
		texts.DefaultAdvice = def.DefaultAdvice
	}
	advice := make(map[models.Severity]string, len(def.SeverityAdvice))
	for k, v := range def.SeverityAdvice {
		advice[k] = v
	}
	for k, v := range texts.SeverityAdvice {
		if v != "" {
			advice[k] = v
		}
	}
	texts.SeverityAdvice = advice

	return &Reporter{encoder: enc, predictor: p, decoder: dec, tables: tables, texts: texts}
}

// Report classifies the confirmed symptoms and looks up what is known about
// the predicted disease. An empty set yields the insufficient-input outcome
// without consulting the classifier. A prediction that cannot be decoded,
// or a vector the classifier rejects for its size, is reported as
// UnknownDisease with default texts.
func (r *Reporter) Report(symptoms []string) (models.Diagnosis, error) {
	confirmed := append([]string{}, symptoms...)
	if len(confirmed) == 0 {
		return models.Diagnosis{Outcome: models.OutcomeInsufficientInput, Symptoms: confirmed}, nil
	}

	vec := r.encoder.Encode(confirmed)
	res, err := r.predictor.PredictWithConfidence(vec)
	if err != nil {
		if errors.Is(err, classifier.ErrDimensionMismatch) {
			slog.Warn("feature vector does not fit the classifier", "symptoms", len(confirmed), "error", err)
			return r.fallback(confirmed, 0), nil
		}
		return models.Diagnosis{}, fmt.Errorf("failed to classify symptoms: %w", err)
	}

	disease, err := r.decoder.Decode(res.Label)
	if err != nil {
		if !errors.Is(err, dataset.ErrUnknownLabel) {
			return models.Diagnosis{}, err
		}
		return r.fallback(confirmed, res.Confidence), nil
	}

	d := models.Diagnosis{
		Outcome:      models.OutcomeDiagnosed,
		Disease:      disease,
		Description:  r.texts.DefaultDescription,
		Severity:     r.tables.Severity(disease),
		SeverityText: r.texts.DefaultAdvice,
		Precautions:  []string{r.texts.DefaultAdvice},
		Symptoms:     confirmed,
		Confidence:   res.Confidence,
	}
	if desc, ok := r.tables.Description(disease); ok {
		d.Description = desc
	}
	if d.Severity.IsKnown() {
		if text, ok := r.texts.SeverityAdvice[d.Severity]; ok {
			d.SeverityText = text
		}
	}
	if ps, ok := r.tables.Precautions(disease); ok {
		d.Precautions = ps
	}
	return d, nil
}

func (r *Reporter) fallback(symptoms []string, confidence float64) models.Diagnosis {
	return models.Diagnosis{
		Outcome:      models.OutcomeDiagnosed,
		Disease:      models.UnknownDisease,
		Description:  r.texts.DefaultDescription,
		Severity:     models.SeverityUnknown,
		SeverityText: r.texts.DefaultAdvice,
		Precautions:  []string{r.texts.DefaultAdvice},
		Symptoms:     symptoms,
		Confidence:   confidence,
	}
}
