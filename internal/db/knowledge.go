package db

import (
	"context"
	"fmt"
	"strings"

	"symptomdx/internal/knowledge"
	"symptomdx/internal/models"
)

// LoadKnowledge returns every disease with its precautions in position order.
func (d *DB) LoadKnowledge(ctx context.Context) ([]knowledge.Entry, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT d.name, d.description, d.severity,
		       COALESCE(array_agg(p.precaution ORDER BY p.position)
		                FILTER (WHERE p.precaution IS NOT NULL), '{}')
		FROM diseases d
		LEFT JOIN disease_precautions p ON p.disease = d.name
		GROUP BY d.name, d.description, d.severity
		ORDER BY d.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query diseases: %w", err)
	}
	defer rows.Close()

	var entries []knowledge.Entry
	for rows.Next() {
		var (
			e        knowledge.Entry
			severity string
		)
		if err := rows.Scan(&e.Disease, &e.Description, &severity, &e.Precautions); err != nil {
			return nil, fmt.Errorf("failed to scan disease: %w", err)
		}
		e.Severity = models.ParseSeverity(severity)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ImportKnowledge upserts entries in a single transaction. Precautions of an
// imported disease are replaced, not merged. Returns the number of diseases
// written.
func (d *DB) ImportKnowledge(ctx context.Context, entries []knowledge.Entry) (int, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		name := strings.TrimSpace(e.Disease)
		if name == "" {
			return 0, ErrEmptyDisease
		}
		severity := e.Severity
		if !severity.IsKnown() {
			severity = models.SeverityUnknown
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO diseases (name, description, severity)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE
			SET description = EXCLUDED.description, severity = EXCLUDED.severity, updated_at = NOW()
		`, name, e.Description, string(severity))
		if err != nil {
			return 0, fmt.Errorf("failed to upsert disease %s: %w", name, err)
		}

		if _, err = tx.Exec(ctx, `DELETE FROM disease_precautions WHERE disease = $1`, name); err != nil {
			return 0, fmt.Errorf("failed to clear precautions for %s: %w", name, err)
		}
		for i, p := range e.Precautions {
			if i >= knowledge.MaxPrecautions {
				break
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO disease_precautions (disease, position, precaution)
				VALUES ($1, $2, $3)
			`, name, i+1, p)
			if err != nil {
				return 0, fmt.Errorf("failed to insert precaution for %s: %w", name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(entries), nil
}

// KnowledgeSource serves knowledge tables from Postgres.
type KnowledgeSource struct {
	DB *DB
}

// Load implements knowledge.Source.
func (s KnowledgeSource) Load(ctx context.Context) (*knowledge.Tables, error) {
	entries, err := s.DB.LoadKnowledge(ctx)
	if err != nil {
		return nil, err
	}
	return knowledge.New(entries), nil
}
