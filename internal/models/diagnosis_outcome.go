package models

import "time"

// DiagnosisOutcome is an aggregate count of reports per disease and outcome.
// It holds no per-user or per-session data.
type DiagnosisOutcome struct {
	Disease    string
	Outcome    string
	Count      int64
	LastSeenAt time.Time
}
