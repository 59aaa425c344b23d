package models

import (
	"time"

	"webscan/pkg/engine"
)

// ScanRecord is the persisted archive row for a scan session. Live session
// state stays in the orchestrator; records exist for history listings and
// report regeneration after the fact.
type ScanRecord struct {
	UUID          string          `gorm:"primaryKey;type:varchar(36)" json:"uuid"`
	Target        string          `json:"target"`
	Mode          string          `json:"mode"`
	Speed         string          `json:"speed"`
	State         string          `json:"state"`
	High          int             `json:"high"`
	Medium        int             `json:"medium"`
	Low           int             `json:"low"`
	Total         int             `json:"total"`
	FailureReason string          `json:"failure_reason,omitempty"`
	StartedAt     int64           `json:"started_at"`
	EndedAt       int64           `json:"ended_at,omitempty"`
	CreatedAt     int64           `json:"created_at"`
	UpdatedAt     int64           `json:"updated_at"`
	Findings      []FindingRecord `gorm:"foreignKey:ScanUUID;references:UUID" json:"findings,omitempty"`
}

// FindingRecord is one archived finding belonging to a scan record.
type FindingRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ScanUUID    string `gorm:"index;type:varchar(36)" json:"-"`
	FindingID   string `json:"finding_id"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	URL         string `json:"url"`
	Parameter   string `json:"parameter,omitempty"`
	Payload     string `json:"payload,omitempty"`
	Description string `json:"description"`
	Evidence    string `json:"evidence"`
	Remediation string `json:"remediation"`
}

// RecordFromSession flattens a terminal session snapshot into its archive
// representation.
func RecordFromSession(s *engine.Session) *ScanRecord {
	rec := &ScanRecord{
		UUID:          s.ID,
		Target:        s.Config.TargetURL,
		Mode:          string(s.Config.Mode),
		Speed:         string(s.Config.Speed),
		State:         string(s.State),
		FailureReason: s.FailureReason,
		StartedAt:     s.StartedAt.Unix(),
	}
	if s.EndedAt != nil {
		rec.EndedAt = s.EndedAt.Unix()
	}
	if s.Summary != nil {
		rec.High = s.Summary.High
		rec.Medium = s.Summary.Medium
		rec.Low = s.Summary.Low
		rec.Total = s.Summary.Total
	}
	for _, f := range s.Findings {
		rec.Findings = append(rec.Findings, FindingRecord{
			ScanUUID:    s.ID,
			FindingID:   f.ID,
			Type:        string(f.Type),
			Severity:    string(f.Severity),
			URL:         f.URL,
			Parameter:   f.Parameter,
			Payload:     f.Payload,
			Description: f.Description,
			Evidence:    f.Evidence,
			Remediation: f.Remediation,
		})
	}
	return rec
}

// SessionFromRecord rebuilds a session snapshot from its archive row so
// reports can be regenerated after the owning process restarted.
func SessionFromRecord(rec *ScanRecord) *engine.Session {
	sess := &engine.Session{
		ID: rec.UUID,
		Config: engine.ScanConfig{
			TargetURL: rec.Target,
			Mode:      engine.Mode(rec.Mode),
			Speed:     engine.Speed(rec.Speed),
		},
		State:         engine.State(rec.State),
		StartedAt:     time.Unix(rec.StartedAt, 0),
		FailureReason: rec.FailureReason,
	}
	if rec.EndedAt != 0 {
		ended := time.Unix(rec.EndedAt, 0)
		sess.EndedAt = &ended
	}
	for _, f := range rec.Findings {
		sess.Findings = append(sess.Findings, engine.Finding{
			ID:          f.FindingID,
			Type:        engine.VulnType(f.Type),
			Severity:    engine.Severity(f.Severity),
			URL:         f.URL,
			Parameter:   f.Parameter,
			Payload:     f.Payload,
			Description: f.Description,
			Evidence:    f.Evidence,
			Remediation: f.Remediation,
		})
	}
	if sess.State != engine.StateFailed && sess.State.Terminal() {
		summary := engine.Aggregate(sess)
		sess.Summary = &summary
	}
	return sess
}
