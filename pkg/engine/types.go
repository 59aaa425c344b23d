package engine

import (
	"time"

	apperrors "webscan/pkg/errors"
)

// Severity is the ordinal classification of a finding. It drives both
// summary counts and report ordering (high > medium > low).
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ParseSeverity maps a raw severity string onto the enumerated values.
// Unrecognized severities are rejected, never coerced.
func ParseSeverity(raw string) (Severity, error) {
	switch Severity(raw) {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return Severity(raw), nil
	default:
		return "", apperrors.ErrInvalidSeverity
	}
}

// Rank returns the report ordering key for the severity, high first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// VulnType identifies the vulnerability class of a finding.
type VulnType string

const (
	VulnXSS             VulnType = "XSS"
	VulnSQLInjection    VulnType = "SQL Injection"
	VulnCSRF            VulnType = "CSRF"
	VulnInfoDisclosure  VulnType = "Information Disclosure"
	VulnInsecureHeaders VulnType = "Insecure Headers"
	VulnOpenRedirect    VulnType = "Open Redirect"
)

// State is the lifecycle state of a scan session.
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether no further mutation of the session is accepted.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// RawFinding is what the scanning backend emits. The collector validates
// and normalizes it into a Finding before it enters a session.
type RawFinding struct {
	ID          string `json:"id,omitempty"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	URL         string `json:"url"`
	Parameter   string `json:"parameter,omitempty"`
	Payload     string `json:"payload,omitempty"`
	Description string `json:"description"`
	Evidence    string `json:"evidence"`
	Remediation string `json:"remediation"`
}

// Finding is a single detected issue. Immutable once created; a session
// owns its findings exclusively.
type Finding struct {
	ID          string   `json:"id"`
	Type        VulnType `json:"type"`
	Severity    Severity `json:"severity"`
	URL         string   `json:"url"`
	Parameter   string   `json:"parameter,omitempty"`
	Payload     string   `json:"payload,omitempty"`
	Description string   `json:"description"`
	Evidence    string   `json:"evidence"`
	Remediation string   `json:"remediation"`
}

// Summary holds the severity counts derived from a session's findings.
// It is never independently mutated; recompute via Aggregate.
type Summary struct {
	Target      string        `json:"target"`
	High        int           `json:"high"`
	Medium      int           `json:"medium"`
	Low         int           `json:"low"`
	Total       int           `json:"total"`
	Duration    time.Duration `json:"duration"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Status is the non-blocking progress view of a session.
type Status struct {
	State    State         `json:"state"`
	Progress float64       `json:"progress"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Session is an immutable snapshot of one end-to-end scan attempt.
// The orchestrator owns the authoritative state; snapshots handed out by
// GetScanResults are copies and safe to share.
type Session struct {
	ID            string     `json:"id"`
	Config        ScanConfig `json:"config"`
	State         State      `json:"state"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	Findings      []Finding  `json:"findings"`
	Summary       *Summary   `json:"summary,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}
