package model

import "time"

// RunKind identifies which command produced a run.
type RunKind string

const (
	RunKindRemediate RunKind = "remediate"
	RunKindQuality   RunKind = "quality"
	RunKindVerify    RunKind = "verify"
)

// RunStatus represents the current state of a recorded run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one recorded invocation of a command against a source.
type Run struct {
	ID        string         `json:"id"`
	Kind      RunKind        `json:"kind"`
	Source    string         `json:"source"`
	Status    RunStatus      `json:"status"`
	Summary   map[string]any `json:"summary,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// FixEntry is an audit row describing one applied name change.
type FixEntry struct {
	Line     int    `json:"line"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	OldFirst string `json:"old_first"`
	OldLast  string `json:"old_last"`
	NewFirst string `json:"new_first"`
	NewLast  string `json:"new_last"`
	Outcome  string `json:"outcome"`
	Reason   string `json:"reason"`
}

// UnresolvedEntry is an audit row for a record that needs manual review.
type UnresolvedEntry struct {
	Line          int    `json:"line"`
	Company       string `json:"company"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Reason        string `json:"reason"`
	ProposedFirst string `json:"proposed_first,omitempty"`
	ProposedLast  string `json:"proposed_last,omitempty"`
}
