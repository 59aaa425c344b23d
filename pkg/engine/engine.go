package engine

import (
	"context"
	"fmt"
	"sync"

	apperrors "webscan/pkg/errors"
	"webscan/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Hook is invoked once when a session reaches a terminal state.
type Hook interface {
	OnScanTerminal(s *Session)
}

// Orchestrator owns the authoritative state of every scan session it
// started. Only the orchestrator mutates session state; status and result
// reads are lock-protected snapshots and never block on backend work.
type Orchestrator struct {
	mu       sync.RWMutex
	sessions map[string]*session

	backend Backend
	queue   *Queue
	hooks   []Hook
	logger  *logger.Logger
}

type OptFunc func(*Orchestrator)

// WithMaxConcurrent bounds how many scans run at the same time.
func WithMaxConcurrent(n int) OptFunc {
	return func(o *Orchestrator) {
		o.queue = NewQueue(n)
	}
}

// WithHook registers a hook fired on every terminal transition.
func WithHook(h Hook) OptFunc {
	return func(o *Orchestrator) {
		o.hooks = append(o.hooks, h)
	}
}

func WithLogger(l *logger.Logger) OptFunc {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

func NewOrchestrator(backend Backend, opts ...OptFunc) *Orchestrator {
	o := &Orchestrator{
		sessions: make(map[string]*session),
		backend:  backend,
		queue:    NewQueue(4),
		logger:   logger.NewLogger(logrus.InfoLevel),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StartScan allocates a session for a validated configuration and drives
// the backend asynchronously. Returns the session id immediately.
func (o *Orchestrator) StartScan(cfg ScanConfig) (string, error) {
	id := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())
	s := newSession(id, cfg, cancel)

	o.mu.Lock()
	o.sessions[id] = s
	o.mu.Unlock()

	o.logger.WithSession(id, cfg.TargetURL).Info("Scan started")

	go o.run(ctx, s)
	return id, nil
}

func (o *Orchestrator) run(ctx context.Context, s *session) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("panic in background scan", logger.Fields{"session_id": s.id, "panic": r})
			o.finish(s, apperrors.NewBackendError("run", fmt.Errorf("panic: %v", r)))
		}
	}()

	o.queue.Execute(func() {
		o.backend.Run(ctx, s.cfg, Callbacks{
			OnFinding: func(raw RawFinding) {
				if _, err := o.Ingest(s.id, raw); err != nil {
					// Late or invalid findings are anomalies, never a re-open.
					o.logger.Warn("Finding rejected", logger.Fields{
						"session_id": s.id,
						"error":      err,
						"type":       raw.Type,
					})
				}
			},
			OnProgress: s.setProgress,
			OnDone: func(err error) {
				o.finish(s, err)
			},
		})
	})
}

// finish applies the backend's done signal. A no-op when the session is
// already terminal (e.g. cancelled while the backend was winding down).
func (o *Orchestrator) finish(s *session, err error) {
	var changed bool
	if err != nil {
		changed = s.terminate(StateFailed, err.Error())
	} else {
		changed = s.terminate(StateCompleted, "")
	}
	if !changed {
		return
	}
	s.cancel()

	snap := s.snapshot()
	if err != nil {
		o.logger.Error("Scan failed", logger.Fields{"session_id": s.id, "error": err})
	} else {
		o.logger.Info("Scan completed", logger.Fields{
			"session_id": s.id,
			"findings":   snap.Summary.Total,
		})
	}
	o.fireHooks(snap)
}

// CancelScan cooperatively cancels a running session. Already-collected
// findings are retained and summarized as a partial result.
func (o *Orchestrator) CancelScan(id string) error {
	s, err := o.lookup(id)
	if err != nil {
		return err
	}
	if !s.terminate(StateCancelled, "cancelled by caller") {
		return apperrors.ErrSessionNotRunning
	}
	s.cancel()

	snap := s.snapshot()
	o.logger.Info("Scan cancelled", logger.Fields{
		"session_id": id,
		"findings":   snap.Summary.Total,
	})
	o.fireHooks(snap)
	return nil
}

// GetScanStatus returns the session's state, progress and elapsed time.
func (o *Orchestrator) GetScanStatus(id string) (Status, error) {
	s, err := o.lookup(id)
	if err != nil {
		return Status{}, err
	}
	return s.status(), nil
}

// GetScanResults returns the full session snapshot, including partial data
// for cancelled or failed scans. Fails while the scan is still running.
func (o *Orchestrator) GetScanResults(id string) (*Session, error) {
	s, err := o.lookup(id)
	if err != nil {
		return nil, err
	}
	snap := s.snapshot()
	if !snap.State.Terminal() {
		return nil, apperrors.ErrResultsNotReady
	}
	return snap, nil
}

// Wait blocks until the session reaches a terminal state or ctx expires.
func (o *Orchestrator) Wait(ctx context.Context, id string) error {
	s, err := o.lookup(id)
	if err != nil {
		return err
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) lookup(id string) (*session, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s, ok := o.sessions[id]
	if !ok {
		return nil, apperrors.ErrUnknownSession
	}
	return s, nil
}

func (o *Orchestrator) fireHooks(snap *Session) {
	for _, h := range o.hooks {
		go h.OnScanTerminal(snap)
	}
}
