package engine

import (
	"sync"

	"webscan/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Queue bounds the number of concurrently running scans with a simple
// semaphore. Queued scans stay in RUNNING state at zero progress until a
// slot frees up.
type Queue struct {
	semaphore chan struct{}
	running   int
	queued    int
	mu        sync.Mutex
	logger    *logger.Logger
}

func NewQueue(maxConcurrent int) *Queue {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Queue{
		semaphore: make(chan struct{}, maxConcurrent),
		logger:    logger.NewLogger(logrus.InfoLevel),
	}
}

// Execute blocks until a slot is available, then runs fn.
func (q *Queue) Execute(fn func()) {
	q.mu.Lock()
	q.queued++
	currentQueued := q.queued
	currentRunning := q.running
	q.mu.Unlock()

	q.logger.Debug("Scan added to queue", logger.Fields{
		"queued":  currentQueued,
		"running": currentRunning,
		"slots":   cap(q.semaphore),
	})

	q.semaphore <- struct{}{}

	q.mu.Lock()
	q.queued--
	q.running++
	q.mu.Unlock()

	defer func() {
		<-q.semaphore
		q.mu.Lock()
		q.running--
		q.mu.Unlock()
	}()

	fn()
}

// Stats returns the current queue occupancy.
func (q *Queue) Stats() (running, queued int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running, q.queued
}
