package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webscan/pkg/engine"
)

func TestRecordFromSessionRoundTrip(t *testing.T) {
	ended := time.Now().Truncate(time.Second)
	started := ended.Add(-30 * time.Second)
	sess := &engine.Session{
		ID: "123e4567-e89b-12d3-a456-426614174000",
		Config: engine.ScanConfig{
			TargetURL: "https://example.com",
			Mode:      engine.ModeActive,
			Speed:     engine.SpeedFast,
		},
		State:     engine.StateCompleted,
		StartedAt: started,
		EndedAt:   &ended,
		Findings: []engine.Finding{
			{ID: "f-000001", Type: engine.VulnXSS, Severity: engine.SeverityHigh, URL: "https://example.com/search", Parameter: "q", Payload: "<script>alert(1)</script>"},
			{ID: "f-000002", Type: engine.VulnCSRF, Severity: engine.SeverityMedium, URL: "https://example.com/account/settings"},
		},
		Summary: &engine.Summary{Target: "https://example.com", High: 1, Medium: 1, Total: 2, Duration: 30 * time.Second},
	}

	rec := RecordFromSession(sess)
	assert.Equal(t, sess.ID, rec.UUID)
	assert.Equal(t, "active", rec.Mode)
	assert.Equal(t, "completed", rec.State)
	assert.Equal(t, 1, rec.High)
	assert.Equal(t, 1, rec.Medium)
	assert.Equal(t, 2, rec.Total)
	require.Len(t, rec.Findings, 2)
	assert.Equal(t, "f-000001", rec.Findings[0].FindingID)
	assert.Equal(t, sess.ID, rec.Findings[0].ScanUUID)

	rebuilt := SessionFromRecord(rec)
	assert.Equal(t, sess.ID, rebuilt.ID)
	assert.Equal(t, engine.StateCompleted, rebuilt.State)
	require.Len(t, rebuilt.Findings, 2)
	assert.Equal(t, sess.Findings[0].ID, rebuilt.Findings[0].ID)
	assert.Equal(t, sess.Findings[0].Payload, rebuilt.Findings[0].Payload)

	// The summary is recomputed from the archived findings.
	require.NotNil(t, rebuilt.Summary)
	assert.Equal(t, 2, rebuilt.Summary.Total)
	assert.Equal(t, 1, rebuilt.Summary.High)
	assert.Equal(t, 1, rebuilt.Summary.Medium)
	assert.Equal(t, rebuilt.Summary.Total, rebuilt.Summary.High+rebuilt.Summary.Medium+rebuilt.Summary.Low)
}

func TestSessionFromFailedRecordKeepsNilSummary(t *testing.T) {
	rec := &ScanRecord{
		UUID:          "scan-failed",
		Target:        "https://example.com",
		State:         string(engine.StateFailed),
		FailureReason: "target unreachable",
		StartedAt:     time.Now().Unix(),
	}

	sess := SessionFromRecord(rec)
	assert.Equal(t, engine.StateFailed, sess.State)
	assert.Equal(t, "target unreachable", sess.FailureReason)
	assert.Nil(t, sess.Summary)
}

func TestSessionFromCancelledRecordSummarizesPartialFindings(t *testing.T) {
	rec := &ScanRecord{
		UUID:      "scan-cancelled",
		Target:    "https://example.com",
		State:     string(engine.StateCancelled),
		StartedAt: time.Now().Add(-time.Minute).Unix(),
		EndedAt:   time.Now().Unix(),
		Findings: []FindingRecord{
			{FindingID: "f-000001", Type: "XSS", Severity: "high"},
		},
	}

	sess := SessionFromRecord(rec)
	require.NotNil(t, sess.Summary)
	assert.Equal(t, 1, sess.Summary.Total)
	assert.Equal(t, 1, sess.Summary.High)
	require.NotNil(t, sess.EndedAt)
}
