package knowledge

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"symptomdx/internal/dataset"
	"symptomdx/internal/models"
)

// CSVSource reads the three knowledge tables from CSV files. An empty path
// leaves that table empty.
//
//	description: disease, text
//	severity:    disease, tier
//	precautions: disease, precaution_1 .. precaution_4
type CSVSource struct {
	DescriptionPath string
	SeverityPath    string
	PrecautionPath  string
	Header          bool // first line of each file is a header
}

// Load reads the three files concurrently.
func (s CSVSource) Load(ctx context.Context) (*Tables, error) {
	var desc, sev, prec *dataset.Table

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		desc, err = s.read(ctx, s.DescriptionPath)
		return err
	})
	g.Go(func() (err error) {
		sev, err = s.read(ctx, s.SeverityPath)
		return err
	})
	g.Go(func() (err error) {
		prec, err = s.read(ctx, s.PrecautionPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []Entry
	for _, t := range []*dataset.Table{desc, sev, prec} {
		if t != nil && len(t.Rows) > 0 && width(t) < 2 {
			return nil, &dataset.SchemaError{Table: t.Name, Reason: "knowledge table needs a disease column and a value column"}
		}
	}

	if desc != nil {
		for _, row := range desc.Rows {
			entries = append(entries, Entry{Disease: dataset.Cell(row, 0), Description: dataset.Cell(row, 1)})
		}
	}
	if sev != nil {
		for _, row := range sev.Rows {
			entries = append(entries, Entry{Disease: dataset.Cell(row, 0), Severity: models.ParseSeverity(dataset.Cell(row, 1))})
		}
	}
	if prec != nil {
		for _, row := range prec.Rows {
			var ps []string
			for i := 1; i <= MaxPrecautions; i++ {
				ps = append(ps, dataset.Cell(row, i))
			}
			entries = append(entries, Entry{Disease: dataset.Cell(row, 0), Precautions: ps})
		}
	}
	return New(entries), nil
}

func (s CSVSource) read(ctx context.Context, path string) (*dataset.Table, error) {
	if path == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := dataset.LoadCSV(path, s.Header)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge table %s: %w", path, err)
	}
	return t, nil
}

func width(t *dataset.Table) int {
	w := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}
