package models

import "strings"

// Severity is the tier attached to a disease.
type Severity string

// Severity tier constants
const (
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
	SeverityUnknown  Severity = "Unknown"
)

// ParseSeverity maps a table cell to a tier. Anything unrecognized is
// SeverityUnknown.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mild":
		return SeverityMild
	case "moderate":
		return SeverityModerate
	case "severe":
		return SeveritySevere
	default:
		return SeverityUnknown
	}
}

// IsKnown returns true for Mild, Moderate and Severe.
func (s Severity) IsKnown() bool {
	return s == SeverityMild || s == SeverityModerate || s == SeveritySevere
}
