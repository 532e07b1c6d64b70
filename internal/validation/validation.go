package validation

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// SymptomPattern defines the valid symptom token format once normalized:
// letters, digits, underscores, hyphens, dots and parentheses.
var SymptomPattern = regexp.MustCompile(`^[\p{L}\p{N}_().-]+$`)

// MaxSymptomLength bounds a single symptom token.
const MaxSymptomLength = 100

// NormalizeSymptom lowercases a symptom and joins words with underscores so
// "Skin Rash" and "skin_rash" name the same vocabulary entry.
func NormalizeSymptom(symptom string) string {
	s := norm.NFKC.String(strings.TrimSpace(symptom))
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), "_")
}

// ValidateSymptom checks if a normalized symptom matches the allowed pattern.
func ValidateSymptom(symptom string) bool {
	if symptom == "" || len(symptom) > MaxSymptomLength {
		return false
	}
	return SymptomPattern.MatchString(symptom)
}

// FoldKey returns the comparison form of s: case-folded with underscores and
// whitespace removed. "severe_Headache" and "severe headache" fold equally.
func FoldKey(s string) string {
	s = cases.Fold().String(norm.NFKC.String(s))
	return strings.Map(func(r rune) rune {
		if r == '_' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
}

// NormalizeDisease trims and case-folds a disease name for table lookups.
// Source tables often carry trailing spaces ("Diabetes ") that must still match.
func NormalizeDisease(disease string) string {
	return cases.Fold().String(strings.Join(strings.Fields(disease), " "))
}
