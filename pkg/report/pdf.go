package report

import (
	"bytes"
	"fmt"
	"time"

	gofpdf "github.com/go-pdf/fpdf"

	"webscan/pkg/engine"
)

var pdfSeverityColors = map[engine.Severity][]int{
	engine.SeverityHigh:   {220, 38, 38},
	engine.SeverityMedium: {234, 138, 0},
	engine.SeverityLow:    {202, 162, 0},
}

func renderPDF(s *engine.Session, findings []engine.Finding) (Artifact, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Title block.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Web Application Scan Report")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, fmt.Sprintf("Target: %s", s.Summary.Target))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().Format(time.RFC3339)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Scan duration: %s", s.Summary.Duration.Round(time.Millisecond)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("State: %s", s.State))
	pdf.Ln(10)

	// Severity summary row.
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, "Severity Summary")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range []string{"High", "Medium", "Low", "Total"} {
		pdf.CellFormat(30, 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, n := range []int{s.Summary.High, s.Summary.Medium, s.Summary.Low, s.Summary.Total} {
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", n), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(12)

	// One record per finding, already in report order.
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Findings")
	pdf.Ln(9)

	if len(findings) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, "No findings.")
		pdf.Ln(6)
	}

	for _, f := range findings {
		color := pdfSeverityColors[f.Severity]
		if color == nil {
			color = []int{128, 128, 128}
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(color[0], color[1], color[2])
		pdf.Cell(0, 7, fmt.Sprintf("[%s] %s (%s)", f.Severity, f.Type, f.ID))
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(60, 60, 60)
		pdf.MultiCell(0, 5, fmt.Sprintf("URL: %s", f.URL), "", "L", false)
		if f.Parameter != "" {
			pdf.MultiCell(0, 5, fmt.Sprintf("Parameter: %s", f.Parameter), "", "L", false)
		}
		if f.Payload != "" {
			pdf.MultiCell(0, 5, fmt.Sprintf("Payload: %s", f.Payload), "", "L", false)
		}
		pdf.MultiCell(0, 5, fmt.Sprintf("Description: %s", f.Description), "", "L", false)
		pdf.MultiCell(0, 5, fmt.Sprintf("Evidence: %s", f.Evidence), "", "L", false)
		pdf.MultiCell(0, 5, fmt.Sprintf("Remediation: %s", f.Remediation), "", "L", false)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Artifact{}, fmt.Errorf("failed to render pdf report: %w", err)
	}
	return Artifact{
		Format:      FormatPDF,
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}
