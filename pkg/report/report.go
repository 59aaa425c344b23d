// Package report transforms a terminal scan session into export artifacts.
// Generation is a pure transformation: it never mutates the session nor
// re-triggers aggregation, and identical input yields identical output.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"webscan/pkg/engine"
	apperrors "webscan/pkg/errors"
)

// Format selects the export encoding of a report artifact.
type Format string

const (
	FormatDocument Format = "document"
	FormatTable    Format = "table"
	FormatPDF      Format = "pdf"
)

// ParseFormat maps a raw format string onto the supported formats.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatDocument, FormatTable, FormatPDF:
		return Format(raw), nil
	default:
		return "", apperrors.ErrUnsupportedFormat
	}
}

// Artifact is a self-contained report payload with a content-type tag.
type Artifact struct {
	Format      Format
	ContentType string
	Data        []byte
}

// Generate renders the session's summary and findings in the requested
// format. Fails with ErrNoData when the session has no summary (i.e. is
// not yet terminal) and ErrUnsupportedFormat for unknown formats.
func Generate(s *engine.Session, format Format) (Artifact, error) {
	if s == nil || s.Summary == nil {
		return Artifact{}, apperrors.ErrNoData
	}

	findings := orderedFindings(s.Findings)

	switch format {
	case FormatDocument:
		return renderDocument(s, findings)
	case FormatTable:
		return renderTable(s, findings)
	case FormatPDF:
		return renderPDF(s, findings)
	default:
		return Artifact{}, apperrors.ErrUnsupportedFormat
	}
}

// orderedFindings sorts by severity rank high→medium→low, ties broken by
// identifier ascending, so repeated generation is reproducible.
func orderedFindings(findings []engine.Finding) []engine.Finding {
	out := make([]engine.Finding, len(findings))
	copy(out, findings)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity.Rank() != out[j].Severity.Rank() {
			return out[i].Severity.Rank() < out[j].Severity.Rank()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type documentSummary struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	Total  int `json:"total"`
}

type document struct {
	Title       string           `json:"title"`
	Target      string           `json:"target"`
	State       engine.State     `json:"state"`
	GeneratedAt time.Time        `json:"generated_at"`
	Duration    string           `json:"duration"`
	Summary     documentSummary  `json:"summary"`
	Findings    []engine.Finding `json:"findings"`
}

func renderDocument(s *engine.Session, findings []engine.Finding) (Artifact, error) {
	doc := document{
		Title:       "Web Application Scan Report",
		Target:      s.Summary.Target,
		State:       s.State,
		GeneratedAt: time.Now(),
		Duration:    s.Summary.Duration.Round(time.Millisecond).String(),
		Summary: documentSummary{
			High:   s.Summary.High,
			Medium: s.Summary.Medium,
			Low:    s.Summary.Low,
			Total:  s.Summary.Total,
		},
		Findings: findings,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to marshal report document: %w", err)
	}
	return Artifact{
		Format:      FormatDocument,
		ContentType: "application/json",
		Data:        data,
	}, nil
}

func renderTable(s *engine.Session, findings []engine.Finding) (Artifact, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Leading key/value rows carry the same title block and severity
	// summary the other formats render, then the findings follow.
	records := [][]string{
		{"title", "Web Application Scan Report"},
		{"target", s.Summary.Target},
		{"state", string(s.State)},
		{"generated_at", time.Now().Format(time.RFC3339)},
		{"duration", s.Summary.Duration.Round(time.Millisecond).String()},
		{"high", strconv.Itoa(s.Summary.High)},
		{"medium", strconv.Itoa(s.Summary.Medium)},
		{"low", strconv.Itoa(s.Summary.Low)},
		{"total", strconv.Itoa(s.Summary.Total)},
		{"id", "type", "severity", "url", "parameter", "payload", "description", "evidence", "remediation"},
	}
	for _, f := range findings {
		records = append(records, []string{
			f.ID,
			string(f.Type),
			string(f.Severity),
			f.URL,
			f.Parameter,
			f.Payload,
			f.Description,
			f.Evidence,
			f.Remediation,
		})
	}

	if err := w.WriteAll(records); err != nil {
		return Artifact{}, fmt.Errorf("failed to write report table: %w", err)
	}
	return Artifact{
		Format:      FormatTable,
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}
