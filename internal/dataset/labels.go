package dataset

import (
	"fmt"
	"sort"
)

// LabelEncoder is a bijection between disease labels and dense codes
// 0..K-1. Codes follow sorted label order, so the mapping depends only on
// the set of labels and not on row order.
type LabelEncoder struct {
	classes []string
	codes   map[string]int
}

// FitLabelEncoder builds an encoder over the distinct labels.
func FitLabelEncoder(labels []string) *LabelEncoder {
	codes := make(map[string]int)
	classes := make([]string, 0)
	for _, l := range labels {
		if _, ok := codes[l]; ok {
			continue
		}
		codes[l] = 0
		classes = append(classes, l)
	}
	sort.Strings(classes)
	for i, c := range classes {
		codes[c] = i
	}
	return &LabelEncoder{classes: classes, codes: codes}
}

// Encode returns the code for label.
func (e *LabelEncoder) Encode(label string) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return code, nil
}

// EncodeAll encodes every label or fails on the first unknown one.
func (e *LabelEncoder) EncodeAll(labels []string) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		code, err := e.Encode(l)
		if err != nil {
			return nil, err
		}
		out[i] = code
	}
	return out, nil
}

// Decode returns the label for code.
func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("%w: code %d", ErrUnknownLabel, code)
	}
	return e.classes[code], nil
}

// Classes returns the labels in code order.
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Len returns the number of classes.
func (e *LabelEncoder) Len() int {
	return len(e.classes)
}
