package db

import (
	"context"

	"symptomdx/internal/models"
)

// IncrementDiagnosisOutcome upserts the report count for a disease and outcome.
func (d *DB) IncrementDiagnosisOutcome(ctx context.Context, disease, outcome string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO diagnosis_outcomes (disease, outcome, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (disease, outcome) DO UPDATE
		SET count = diagnosis_outcomes.count + 1, last_seen_at = NOW()
	`, disease, outcome)
	return err
}

// GetAllDiagnosisOutcomes returns all outcome rows for metrics export.
func (d *DB) GetAllDiagnosisOutcomes(ctx context.Context) ([]models.DiagnosisOutcome, error) {
	rows, err := d.Pool.Query(ctx, `SELECT disease, outcome, count, last_seen_at FROM diagnosis_outcomes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []models.DiagnosisOutcome
	for rows.Next() {
		var o models.DiagnosisOutcome
		if err := rows.Scan(&o.Disease, &o.Outcome, &o.Count, &o.LastSeenAt); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
