package services

import (
	"github.com/sirupsen/logrus"

	"webscan/internal/dao"
	"webscan/internal/metrics"
	"webscan/internal/models"
	"webscan/pkg/engine"
	"webscan/pkg/logger"
)

// ArchiveHook persists the final session snapshot when a scan reaches a
// terminal state, and records the terminal metrics.
type ArchiveHook struct {
	scanDao dao.ScanDAO
	logger  *logger.Logger
}

func NewArchiveHook(scanDao dao.ScanDAO) *ArchiveHook {
	return &ArchiveHook{
		scanDao: scanDao,
		logger:  logger.NewLogger(logrus.InfoLevel),
	}
}

func (h *ArchiveHook) OnScanTerminal(s *engine.Session) {
	metrics.ScansTerminal.WithLabelValues(string(s.State)).Inc()
	if s.Summary != nil {
		metrics.FindingsCollected.WithLabelValues(string(engine.SeverityHigh)).Add(float64(s.Summary.High))
		metrics.FindingsCollected.WithLabelValues(string(engine.SeverityMedium)).Add(float64(s.Summary.Medium))
		metrics.FindingsCollected.WithLabelValues(string(engine.SeverityLow)).Add(float64(s.Summary.Low))
	}

	rec := models.RecordFromSession(s)
	if err := h.scanDao.UpdateScan(rec); err != nil {
		h.logger.Error("Failed to persist terminal scan state", logger.Fields{
			"scan_id": s.ID,
			"state":   s.State,
			"error":   err,
		})
		return
	}

	h.logger.Info("Scan archived", logger.Fields{
		"scan_id": s.ID,
		"state":   s.State,
	})
}
