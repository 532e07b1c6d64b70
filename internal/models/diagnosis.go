package models

// Diagnosis outcome constants
const (
	OutcomeDiagnosed         = "diagnosed"
	OutcomeInsufficientInput = "insufficient_input"
)

// UnknownDisease is reported when a prediction cannot be decoded to a label.
const UnknownDisease = "Unknown"

// Diagnosis is the final answer of one elicitation run.
type Diagnosis struct {
	Outcome      string   `json:"outcome"`
	Disease      string   `json:"disease,omitempty"`
	Description  string   `json:"description,omitempty"`
	Severity     Severity `json:"severity,omitempty"`
	SeverityText string   `json:"severity_text,omitempty"`
	Precautions  []string `json:"precautions,omitempty"`
	Symptoms     []string `json:"symptoms"`
	Confidence   float64  `json:"confidence,omitempty"`
}

// IsInsufficient returns true if no symptom was available to classify.
func (d *Diagnosis) IsInsufficient() bool {
	return d.Outcome == OutcomeInsufficientInput
}
