package engine

import "time"

// Aggregate computes the severity summary for a session snapshot. Pure
// function of the session's current finding sequence; safe on an empty set.
// For terminal sessions the duration is end minus start; for a running
// session it reflects wall-clock elapsed time (progress display only).
func Aggregate(s *Session) Summary {
	elapsed := time.Since(s.StartedAt)
	if s.EndedAt != nil {
		elapsed = s.EndedAt.Sub(s.StartedAt)
	}
	return summarize(s.Config.TargetURL, s.Findings, elapsed)
}

func summarize(target string, findings []Finding, elapsed time.Duration) Summary {
	summary := Summary{
		Target:      target,
		Duration:    elapsed,
		GeneratedAt: time.Now(),
	}
	for _, f := range findings {
		switch f.Severity {
		case SeverityHigh:
			summary.High++
		case SeverityMedium:
			summary.Medium++
		case SeverityLow:
			summary.Low++
		}
		summary.Total++
	}
	return summary
}
