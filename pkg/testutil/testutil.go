// Package testutil provides testing utilities for the webscan application
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"webscan/pkg/engine"
)

// MockBackend implements engine.Backend for testing. By default it emits
// its scripted findings and signals done immediately; with Hold set it
// stays "running" until Release or ctx cancellation, which lets tests
// drive cancellation and late-finding scenarios deterministically.
type MockBackend struct {
	mu       sync.Mutex
	runs     []engine.ScanConfig
	Findings []engine.RawFinding
	Err      error
	Hold     bool

	release chan struct{}
	started chan struct{}
}

func NewMockBackend() *MockBackend {
	return &MockBackend{
		release: make(chan struct{}),
		started: make(chan struct{}, 16),
	}
}

func (m *MockBackend) Run(ctx context.Context, cfg engine.ScanConfig, cb engine.Callbacks) {
	m.mu.Lock()
	m.runs = append(m.runs, cfg)
	findings := m.Findings
	err := m.Err
	hold := m.Hold
	m.mu.Unlock()

	for i, f := range findings {
		cb.OnFinding(f)
		cb.OnProgress(float64(i+1) / float64(len(findings)))
	}

	// Signalled only after the scripted findings are ingested, so tests
	// synchronizing on WaitStarted observe them.
	m.started <- struct{}{}

	if hold {
		select {
		case <-m.release:
		case <-ctx.Done():
			cb.OnDone(ctx.Err())
			return
		}
	}

	cb.OnDone(err)
}

// Release lets a held run signal done.
func (m *MockBackend) Release() {
	close(m.release)
}

// WaitStarted blocks until a run has emitted its scripted findings.
func (m *MockBackend) WaitStarted(t *testing.T, timeout time.Duration) {
	t.Helper()
	select {
	case <-m.started:
	case <-time.After(timeout):
		t.Fatal("timed out waiting for backend run to start")
	}
}

// Runs returns the configurations the backend was invoked with.
func (m *MockBackend) Runs() []engine.ScanConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	runs := make([]engine.ScanConfig, len(m.runs))
	copy(runs, m.runs)
	return runs
}

// WithTimeout creates a context with timeout for tests
func WithTimeout(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

// ValidConfig returns a validated configuration suitable for most tests.
func ValidConfig(t *testing.T) engine.ScanConfig {
	t.Helper()
	cfg, err := engine.Validate(engine.RawConfig{
		TargetURL: "https://example.com",
		Depth:     2,
		MaxPages:  10,
		Mode:      "passive",
		Speed:     "fast",
	})
	if err != nil {
		t.Fatalf("failed to build test config: %v", err)
	}
	return cfg
}
