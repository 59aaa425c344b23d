// Package hooks contains orchestrator hooks fired on terminal scan
// transitions.
package hooks

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"webscan/internal/notification"
	"webscan/pkg/engine"
	"webscan/pkg/logger"
)

// MessageSender is satisfied by notification.NotificationClient.
type MessageSender interface {
	Send(msg notification.Message) error
}

// NotifierHook posts a summary message whenever a scan reaches a terminal
// state. A nil sender disables it.
type NotifierHook struct {
	sender MessageSender
	logger *logger.Logger
}

func NewNotifierHook(sender MessageSender) *NotifierHook {
	return &NotifierHook{
		sender: sender,
		logger: logger.NewLogger(logrus.InfoLevel),
	}
}

func (h *NotifierHook) OnScanTerminal(s *engine.Session) {
	if h.sender == nil {
		return
	}

	msg := notification.Message{
		Title:       fmt.Sprintf("Scan %s: %s", s.State, s.Config.TargetURL),
		Description: describe(s),
		Severity:    highestSeverity(s),
		Fields:      summaryFields(s),
	}

	if err := h.sender.Send(msg); err != nil {
		h.logger.Error("Failed to send scan notification", logger.Fields{
			"session_id": s.ID,
			"error":      err,
		})
	}
}

func describe(s *engine.Session) string {
	switch s.State {
	case engine.StateFailed:
		return fmt.Sprintf("Scan failed: %s", s.FailureReason)
	case engine.StateCancelled:
		return "Scan cancelled; summary covers findings collected before cancellation."
	default:
		return "Scan completed."
	}
}

func summaryFields(s *engine.Session) map[string]string {
	if s.Summary == nil {
		return nil
	}
	return map[string]string{
		"High":   fmt.Sprintf("%d", s.Summary.High),
		"Medium": fmt.Sprintf("%d", s.Summary.Medium),
		"Low":    fmt.Sprintf("%d", s.Summary.Low),
		"Total":  fmt.Sprintf("%d", s.Summary.Total),
	}
}

func highestSeverity(s *engine.Session) string {
	if s.Summary == nil || s.Summary.Total == 0 {
		return "info"
	}
	switch {
	case s.Summary.High > 0:
		return string(engine.SeverityHigh)
	case s.Summary.Medium > 0:
		return string(engine.SeverityMedium)
	default:
		return string(engine.SeverityLow)
	}
}
