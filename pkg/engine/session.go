package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "webscan/pkg/errors"
)

// session is the orchestrator's mutable record of one scan. All reads and
// writes go through its mutex; check-state-then-append is one locked
// operation so no late finding can slip in after a terminal transition.
type session struct {
	mu sync.Mutex

	id            string
	cfg           ScanConfig
	state         State
	startedAt     time.Time
	endedAt       *time.Time
	findings      []Finding
	summary       *Summary
	failureReason string
	progress      float64

	seq  int
	seen map[string]struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

func newSession(id string, cfg ScanConfig, cancel context.CancelFunc) *session {
	return &session{
		id:        id,
		cfg:       cfg,
		state:     StateRunning,
		startedAt: time.Now(),
		seen:      make(map[string]struct{}),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// ingest validates and appends a raw finding. Atomic with respect to the
// session state check.
func (s *session) ingest(raw RawFinding) (Finding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return Finding{}, apperrors.ErrSessionNotRunning
	}

	severity, err := ParseSeverity(raw.Severity)
	if err != nil {
		return Finding{}, err
	}

	id := raw.ID
	if id == "" {
		s.seq++
		id = fmt.Sprintf("f-%06d", s.seq)
	}
	if _, dup := s.seen[id]; dup {
		return Finding{}, apperrors.ErrDuplicateFinding
	}
	s.seen[id] = struct{}{}

	f := Finding{
		ID:          id,
		Type:        VulnType(raw.Type),
		Severity:    severity,
		URL:         raw.URL,
		Parameter:   raw.Parameter,
		Payload:     raw.Payload,
		Description: raw.Description,
		Evidence:    raw.Evidence,
		Remediation: raw.Remediation,
	}
	s.findings = append(s.findings, f)
	return f, nil
}

// terminate moves the session into a terminal state exactly once. Completed
// and cancelled sessions get a summary over whatever findings were
// collected; failed sessions keep a nil summary and the failure reason.
func (s *session) terminate(state State, reason string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return false
	}

	now := time.Now()
	s.state = state
	s.endedAt = &now
	s.failureReason = reason

	switch state {
	case StateCompleted:
		s.progress = 1
		fallthrough
	case StateCancelled:
		summary := summarize(s.cfg.TargetURL, s.findings, now.Sub(s.startedAt))
		s.summary = &summary
	}

	close(s.done)
	return true
}

func (s *session) setProgress(fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	s.progress = fraction
}

func (s *session) status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := time.Since(s.startedAt)
	if s.endedAt != nil {
		elapsed = s.endedAt.Sub(s.startedAt)
	}
	return Status{
		State:    s.state,
		Progress: s.progress,
		Elapsed:  elapsed,
	}
}

// snapshot copies the session into an immutable view.
func (s *session) snapshot() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	findings := make([]Finding, len(s.findings))
	copy(findings, s.findings)

	snap := &Session{
		ID:            s.id,
		Config:        s.cfg,
		State:         s.state,
		StartedAt:     s.startedAt,
		Findings:      findings,
		FailureReason: s.failureReason,
	}
	if s.endedAt != nil {
		ended := *s.endedAt
		snap.EndedAt = &ended
	}
	if s.summary != nil {
		summary := *s.summary
		snap.Summary = &summary
	}
	return snap
}
