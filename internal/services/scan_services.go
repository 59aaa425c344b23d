package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"webscan/internal/dao"
	"webscan/internal/metrics"
	"webscan/internal/models"
	"webscan/pkg/engine"
	apperrors "webscan/pkg/errors"
	"webscan/pkg/logger"
	"webscan/pkg/report"
)

type ScanServiceMethods interface {
	StartScan(raw engine.RawConfig) (string, error)
	GetScanStatus(id string) (engine.Status, error)
	GetScanResults(id string) (*engine.Session, error)
	CancelScan(id string) error
	ListScans(page, limit int) ([]models.ScanRecord, int64, error)
	DeleteScan(id string) error
	GenerateReport(id, format string) (report.Artifact, error)
}

type scanService struct {
	orchestrator *engine.Orchestrator
	scanDao      dao.ScanDAO
	logger       *logger.Logger
}

func NewScanService(orchestrator *engine.Orchestrator, scanDao dao.ScanDAO) ScanServiceMethods {
	return &scanService{
		orchestrator: orchestrator,
		scanDao:      scanDao,
		logger:       logger.NewLogger(logrus.InfoLevel),
	}
}

func (s *scanService) StartScan(raw engine.RawConfig) (string, error) {
	cfg, err := engine.Validate(raw)
	if err != nil {
		return "", err
	}

	id, err := s.orchestrator.StartScan(cfg)
	if err != nil {
		return "", err
	}
	metrics.ScansStarted.Inc()

	// The archive row is best effort; the orchestrator stays authoritative
	// for live state either way.
	rec := &models.ScanRecord{
		UUID:      id,
		Target:    cfg.TargetURL,
		Mode:      string(cfg.Mode),
		Speed:     string(cfg.Speed),
		State:     string(engine.StateRunning),
		StartedAt: time.Now().Unix(),
	}
	if err := s.scanDao.SaveScan(rec); err != nil {
		s.logger.Error("Failed to archive scan record", logger.Fields{"scan_id": id, "error": err})
	}

	return id, nil
}

func (s *scanService) GetScanStatus(id string) (engine.Status, error) {
	return s.orchestrator.GetScanStatus(id)
}

// GetScanResults serves live sessions from the orchestrator and falls back
// to the archive for scans that finished before this process started.
func (s *scanService) GetScanResults(id string) (*engine.Session, error) {
	sess, err := s.orchestrator.GetScanResults(id)
	if err == nil || !errors.Is(err, apperrors.ErrUnknownSession) {
		return sess, err
	}

	rec, daoErr := s.scanDao.GetScanByUUID(id)
	if daoErr != nil {
		if errors.Is(daoErr, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnknownSession
		}
		return nil, daoErr
	}
	return models.SessionFromRecord(rec), nil
}

func (s *scanService) CancelScan(id string) error {
	return s.orchestrator.CancelScan(id)
}

func (s *scanService) ListScans(page, limit int) ([]models.ScanRecord, int64, error) {
	return s.scanDao.ListScansWithPagination(page, limit)
}

func (s *scanService) DeleteScan(id string) error {
	return s.scanDao.DeleteScan(id)
}

func (s *scanService) GenerateReport(id, format string) (report.Artifact, error) {
	f, err := report.ParseFormat(format)
	if err != nil {
		return report.Artifact{}, err
	}

	sess, err := s.GetScanResults(id)
	if err != nil {
		return report.Artifact{}, err
	}

	artifact, err := report.Generate(sess, f)
	if err != nil {
		return report.Artifact{}, err
	}
	metrics.ReportsGenerated.WithLabelValues(format).Inc()
	return artifact, nil
}
