// Package match defines the review lifecycle of a job match.
//
// Every match starts as "new". Review transitions are user-driven and
// deliberately unrestricted: any status may move to any other, so a
// rejected job can be un-rejected and an applied one rolled back.
package match

import "fmt"

// Status values mirror the job_matches.status column.
type Status string

const (
	StatusNew      Status = "new"
	StatusReviewed Status = "reviewed"
	StatusSaved    Status = "saved"
	StatusRejected Status = "rejected"
	StatusApplied  Status = "applied"
)

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusNew, StatusReviewed, StatusSaved, StatusRejected, StatusApplied:
		return st, nil
	}
	return "", fmt.Errorf("unknown match status %q", s)
}
