package dataset

import (
	"strconv"
	"strings"
)

// DefaultLabelColumn is the disease column name used by the usual training sets.
const DefaultLabelColumn = "prognosis"

// FeatureSpace is the ordered symptom vocabulary derived from a training
// table. The same value encodes training records and inference vectors, so
// column order cannot drift between the two.
type FeatureSpace struct {
	table       *Table
	labelColumn string
	labelIdx    int
	columns     []int // table column index per vocabulary position
	vocab       []string
	index       map[string]int
}

// NewFeatureSpace derives the vocabulary from every non-label column of t,
// in table order. Columns with a blank header are dropped.
func NewFeatureSpace(t *Table, labelColumn string) (*FeatureSpace, error) {
	if t == nil {
		return nil, &SchemaError{Reason: "no training table"}
	}
	if labelColumn == "" {
		labelColumn = DefaultLabelColumn
	}
	if len(t.Header) < 2 {
		return nil, &SchemaError{Table: t.Name, Reason: "training table needs at least 2 columns"}
	}

	fs := &FeatureSpace{
		table:       t,
		labelColumn: labelColumn,
		labelIdx:    -1,
		index:       make(map[string]int, len(t.Header)),
	}
	for i, name := range t.Header {
		if name == labelColumn {
			fs.labelIdx = i
			continue
		}
		if name == "" {
			continue
		}
		if _, dup := fs.index[name]; dup {
			return nil, &SchemaError{Table: t.Name, Column: name, Reason: "duplicate symptom column"}
		}
		fs.index[name] = len(fs.vocab)
		fs.vocab = append(fs.vocab, name)
		fs.columns = append(fs.columns, i)
	}

	if fs.labelIdx < 0 {
		return nil, &SchemaError{Table: t.Name, Column: labelColumn, Reason: "label column absent"}
	}
	if len(fs.vocab) == 0 {
		return nil, &SchemaError{Table: t.Name, Reason: "no symptom columns"}
	}
	if len(t.Rows) == 0 {
		return nil, &SchemaError{Table: t.Name, Reason: "no training rows"}
	}
	return fs, nil
}

// Vocabulary returns the ordered symptom names. Every feature vector uses
// this order.
func (fs *FeatureSpace) Vocabulary() []string {
	out := make([]string, len(fs.vocab))
	copy(out, fs.vocab)
	return out
}

// Size returns the vocabulary length.
func (fs *FeatureSpace) Size() int {
	return len(fs.vocab)
}

// LabelColumn returns the name of the disease column.
func (fs *FeatureSpace) LabelColumn() string {
	return fs.labelColumn
}

// Contains reports whether symptom is part of the vocabulary.
func (fs *FeatureSpace) Contains(symptom string) bool {
	_, ok := fs.index[symptom]
	return ok
}

// Records returns the training vectors and their labels. Indicator cells
// are normalized to 0 or 1; any non-zero number counts as present.
func (fs *FeatureSpace) Records() ([][]float64, []string, error) {
	X := make([][]float64, 0, len(fs.table.Rows))
	y := make([]string, 0, len(fs.table.Rows))

	for r, row := range fs.table.Rows {
		label := Cell(row, fs.labelIdx)
		if label == "" {
			return nil, nil, &SchemaError{Table: fs.table.Name, Row: r + 1, Column: fs.labelColumn, Reason: "missing label"}
		}

		vec := make([]float64, len(fs.vocab))
		for j, col := range fs.columns {
			cell := Cell(row, col)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, &SchemaError{Table: fs.table.Name, Row: r + 1, Column: fs.vocab[j], Reason: "indicator is not numeric: " + strings.TrimSpace(cell)}
			}
			if v != 0 {
				vec[j] = 1
			}
		}
		X = append(X, vec)
		y = append(y, label)
	}
	return X, y, nil
}

// Encode builds a dense 0/1 vector of vocabulary length. Symptoms outside
// the vocabulary are ignored.
func (fs *FeatureSpace) Encode(symptoms []string) []float64 {
	vec := make([]float64, len(fs.vocab))
	for _, s := range symptoms {
		if i, ok := fs.index[s]; ok {
			vec[i] = 1
		}
	}
	return vec
}
