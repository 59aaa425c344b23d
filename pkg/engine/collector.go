package engine

// Ingest serializes a raw finding into its owning session. The state check
// and the append happen under one lock, so a finding can never land in a
// session after its terminal transition, and two concurrent ingests cannot
// both claim the same identifier.
//
// Rejections: ErrUnknownSession for an unrecognized id,
// ErrSessionNotRunning once the session is terminal, ErrInvalidSeverity for
// a severity outside the enumerated set, ErrDuplicateFinding for an
// identifier already present in the session.
func (o *Orchestrator) Ingest(sessionID string, raw RawFinding) (Finding, error) {
	s, err := o.lookup(sessionID)
	if err != nil {
		return Finding{}, err
	}
	return s.ingest(raw)
}
