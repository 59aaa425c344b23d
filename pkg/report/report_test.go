package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webscan/pkg/engine"
	apperrors "webscan/pkg/errors"
)

// completedSession mirrors a finished scan that found one XSS, one SQL
// injection, one CSRF gap and one information disclosure.
func completedSession() *engine.Session {
	ended := time.Now()
	started := ended.Add(-42 * time.Second)
	return &engine.Session{
		ID:        "9f2c1a7e-0000-0000-0000-000000000000",
		Config:    engine.ScanConfig{TargetURL: "https://example.com"},
		State:     engine.StateCompleted,
		StartedAt: started,
		EndedAt:   &ended,
		Findings: []engine.Finding{
			{ID: "f-000001", Type: engine.VulnXSS, Severity: engine.SeverityHigh, URL: "https://example.com/search", Parameter: "q"},
			{ID: "f-000002", Type: engine.VulnCSRF, Severity: engine.SeverityMedium, URL: "https://example.com/account/settings"},
			{ID: "f-000003", Type: engine.VulnInfoDisclosure, Severity: engine.SeverityLow, URL: "https://example.com/"},
			{ID: "f-000004", Type: engine.VulnSQLInjection, Severity: engine.SeverityHigh, URL: "https://example.com/products", Parameter: "id"},
		},
		Summary: &engine.Summary{
			Target:      "https://example.com",
			High:        2,
			Medium:      1,
			Low:         1,
			Total:       4,
			Duration:    42 * time.Second,
			GeneratedAt: ended,
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"document", "table", "pdf"} {
		f, err := ParseFormat(valid)
		assert.NoError(t, err)
		assert.Equal(t, Format(valid), f)
	}

	for _, invalid := range []string{"", "html", "DOCUMENT", "xml"} {
		_, err := ParseFormat(invalid)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat, "format %q", invalid)
	}
}

func TestGenerateRequiresSummary(t *testing.T) {
	_, err := Generate(nil, FormatDocument)
	assert.ErrorIs(t, err, apperrors.ErrNoData)

	running := &engine.Session{
		State:     engine.StateRunning,
		StartedAt: time.Now(),
	}
	_, err = Generate(running, FormatDocument)
	assert.ErrorIs(t, err, apperrors.ErrNoData)

	failed := &engine.Session{
		State:         engine.StateFailed,
		StartedAt:     time.Now(),
		FailureReason: "target unreachable",
	}
	_, err = Generate(failed, FormatTable)
	assert.ErrorIs(t, err, apperrors.ErrNoData)
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	_, err := Generate(completedSession(), Format("html"))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}

func TestDocumentReportOrdersFindings(t *testing.T) {
	artifact, err := Generate(completedSession(), FormatDocument)
	require.NoError(t, err)
	assert.Equal(t, "application/json", artifact.ContentType)

	var doc struct {
		Title    string `json:"title"`
		Target   string `json:"target"`
		State    string `json:"state"`
		Duration string `json:"duration"`
		Summary  struct {
			High   int `json:"high"`
			Medium int `json:"medium"`
			Low    int `json:"low"`
			Total  int `json:"total"`
		} `json:"summary"`
		Findings []engine.Finding `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(artifact.Data, &doc))

	assert.Equal(t, "https://example.com", doc.Target)
	assert.Equal(t, "completed", doc.State)
	assert.Equal(t, "42s", doc.Duration)
	assert.Equal(t, 2, doc.Summary.High)
	assert.Equal(t, 1, doc.Summary.Medium)
	assert.Equal(t, 1, doc.Summary.Low)
	assert.Equal(t, 4, doc.Summary.Total)

	// High severity first; within a severity, id ascending.
	require.Len(t, doc.Findings, 4)
	assert.Equal(t, "f-000001", doc.Findings[0].ID)
	assert.Equal(t, "f-000004", doc.Findings[1].ID)
	assert.Equal(t, "f-000002", doc.Findings[2].ID)
	assert.Equal(t, "f-000003", doc.Findings[3].ID)
}

func TestTableReportLayout(t *testing.T) {
	artifact, err := Generate(completedSession(), FormatTable)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", artifact.ContentType)

	reader := csv.NewReader(bytes.NewReader(artifact.Data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 14)

	// Title block and severity summary precede the findings.
	assert.Equal(t, []string{"title", "Web Application Scan Report"}, records[0])
	assert.Equal(t, []string{"target", "https://example.com"}, records[1])
	assert.Equal(t, []string{"state", "completed"}, records[2])
	assert.Equal(t, "generated_at", records[3][0])
	assert.NotEmpty(t, records[3][1])
	assert.Equal(t, []string{"duration", "42s"}, records[4])
	assert.Equal(t, []string{"high", "2"}, records[5])
	assert.Equal(t, []string{"medium", "1"}, records[6])
	assert.Equal(t, []string{"low", "1"}, records[7])
	assert.Equal(t, []string{"total", "4"}, records[8])

	assert.Equal(t, []string{"id", "type", "severity", "url", "parameter", "payload", "description", "evidence", "remediation"}, records[9])
	assert.Equal(t, "f-000001", records[10][0])
	assert.Equal(t, "high", records[10][2])
	assert.Equal(t, "f-000004", records[11][0])
	assert.Equal(t, "f-000002", records[12][0])
	assert.Equal(t, "medium", records[12][2])
	assert.Equal(t, "f-000003", records[13][0])
	assert.Equal(t, "low", records[13][2])
}

func TestPDFReportRenders(t *testing.T) {
	artifact, err := Generate(completedSession(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", artifact.ContentType)
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")), "missing PDF magic bytes")
}

func TestGenerateIsDeterministic(t *testing.T) {
	s := completedSession()

	first, err := Generate(s, FormatTable)
	require.NoError(t, err)
	second, err := Generate(s, FormatTable)
	require.NoError(t, err)

	// Finding ordering is stable across repeated calls; only the
	// generation timestamp row may differ.
	assert.Equal(t, findingRows(t, first.Data), findingRows(t, second.Data))
	// Generation never reorders the session's own findings.
	assert.Equal(t, "f-000001", s.Findings[0].ID)
	assert.Equal(t, "f-000002", s.Findings[1].ID)
}

// findingRows returns every csv record from the findings header onward.
func findingRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	for i, rec := range records {
		if rec[0] == "id" {
			return records[i:]
		}
	}
	t.Fatal("findings header row missing from table artifact")
	return nil
}

func TestCancelledScanReportsPartialFindings(t *testing.T) {
	ended := time.Now()
	s := &engine.Session{
		Config:    engine.ScanConfig{TargetURL: "https://example.com"},
		State:     engine.StateCancelled,
		StartedAt: ended.Add(-5 * time.Second),
		EndedAt:   &ended,
		Findings: []engine.Finding{
			{ID: "f-000001", Type: engine.VulnXSS, Severity: engine.SeverityHigh},
		},
		Summary: &engine.Summary{
			Target:   "https://example.com",
			High:     1,
			Total:    1,
			Duration: 5 * time.Second,
		},
	}

	artifact, err := Generate(s, FormatDocument)
	require.NoError(t, err)

	var doc struct {
		State    string           `json:"state"`
		Findings []engine.Finding `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(artifact.Data, &doc))
	assert.Equal(t, "cancelled", doc.State)
	assert.Len(t, doc.Findings, 1)
}
