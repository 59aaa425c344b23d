package engine

import "context"

// Callbacks carries the signals a backend reports while scanning.
// Implementations must call OnFinding only before OnDone, and OnDone
// exactly once per run.
type Callbacks struct {
	OnFinding  func(RawFinding)
	OnProgress func(float64)
	OnDone     func(error)
}

// Backend produces raw findings and lifecycle signals for one scan. It is
// the orchestrator's sole dependency for actual scanning work; any
// implementation (real crawler, simulator) must honor ctx cancellation by
// ceasing to emit findings promptly.
type Backend interface {
	Run(ctx context.Context, cfg ScanConfig, cb Callbacks)
}
