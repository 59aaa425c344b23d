package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAggregateEmptySession(t *testing.T) {
	ended := time.Now()
	s := &Session{
		Config:    ScanConfig{TargetURL: "https://example.com"},
		State:     StateCompleted,
		StartedAt: ended.Add(-3 * time.Second),
		EndedAt:   &ended,
	}

	summary := Aggregate(s)

	assert.Equal(t, "https://example.com", summary.Target)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.High+summary.Medium+summary.Low)
	assert.Equal(t, 3*time.Second, summary.Duration.Round(time.Second))
}

func TestAggregatePartitionsBySeverity(t *testing.T) {
	s := &Session{
		Config:    ScanConfig{TargetURL: "https://example.com"},
		State:     StateCompleted,
		StartedAt: time.Now(),
		Findings: []Finding{
			{ID: "f-000001", Severity: SeverityHigh},
			{ID: "f-000002", Severity: SeverityHigh},
			{ID: "f-000003", Severity: SeverityMedium},
			{ID: "f-000004", Severity: SeverityLow},
			{ID: "f-000005", Severity: SeverityLow},
			{ID: "f-000006", Severity: SeverityLow},
		},
	}

	summary := Aggregate(s)

	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, 2, summary.High)
	assert.Equal(t, 1, summary.Medium)
	assert.Equal(t, 3, summary.Low)
	assert.Equal(t, summary.Total, len(s.Findings))
	assert.Equal(t, summary.Total, summary.High+summary.Medium+summary.Low)
}

func TestAggregateIsPure(t *testing.T) {
	s := &Session{
		Config:    ScanConfig{TargetURL: "https://example.com"},
		StartedAt: time.Now(),
		Findings:  []Finding{{ID: "f-000001", Severity: SeverityHigh}},
	}

	first := Aggregate(s)
	second := Aggregate(s)

	assert.Equal(t, first.High, second.High)
	assert.Equal(t, first.Total, second.Total)
	assert.Len(t, s.Findings, 1)
}
