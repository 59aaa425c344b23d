// Package metrics exposes Prometheus counters for the scan pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "webscan",
		Name:      "scans_started_total",
		Help:      "Number of scan sessions started.",
	})

	ScansTerminal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webscan",
		Name:      "scans_terminal_total",
		Help:      "Number of scan sessions reaching a terminal state, by state.",
	}, []string{"state"})

	FindingsCollected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webscan",
		Name:      "findings_collected_total",
		Help:      "Number of findings accepted by the collector, by severity.",
	}, []string{"severity"})

	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webscan",
		Name:      "reports_generated_total",
		Help:      "Number of report artifacts generated, by format.",
	}, []string{"format"})
)
