// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"strings"
	"testing"

	"symptomdx/internal/dataset"
	"symptomdx/internal/db"
	"symptomdx/internal/engine"
	"symptomdx/internal/knowledge"
	"symptomdx/internal/models"
)

// TrainingCSV is a small training table covering three diseases.
const TrainingCSV = `itching,skin_rash,high_fever,cough,chest_pain,back_pain,headache,prognosis
1,1,0,0,0,0,0,Fungal infection
1,0,0,0,0,0,0,Fungal infection
0,0,1,1,0,0,0,Flu
0,0,1,0,0,0,0,Flu
0,0,0,0,0,0,1,Migraine
0,0,0,0,0,1,1,Migraine
0,0,0,1,1,0,0,Bronchitis
`

// Knowledge returns knowledge tables matching TrainingCSV.
func Knowledge() *knowledge.Tables {
	return knowledge.New([]knowledge.Entry{
		{Disease: "Flu", Description: "A viral infection.", Severity: models.SeverityModerate, Precautions: []string{"rest", "drink fluids"}},
		{Disease: "Migraine", Description: "Recurring headaches.", Severity: models.SeverityMild},
	})
}

// Engine builds an engine over TrainingCSV and Knowledge.
func Engine(t *testing.T) *engine.Engine {
	t.Helper()

	tbl, err := dataset.ReadCSV("training", strings.NewReader(TrainingCSV))
	if err != nil {
		t.Fatalf("failed to parse training table: %v", err)
	}
	e, err := engine.New(tbl, Knowledge(), engine.Options{})
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return e
}

// TestDB creates a test database connection and returns a cleanup function.
// The test is skipped unless TEST_DATABASE_URL is set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		// Delete in order to respect foreign keys
		database.Pool.Exec(ctx, "DELETE FROM disease_precautions")
		database.Pool.Exec(ctx, "DELETE FROM diseases")
		database.Pool.Exec(ctx, "DELETE FROM diagnosis_outcomes")
		database.Close()
	}

	return database, cleanup
}
