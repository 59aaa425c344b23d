package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"webscan/internal/services"
	"webscan/pkg/engine"
	apperrors "webscan/pkg/errors"
	"webscan/pkg/logger"
)

type ScanHandler struct {
	scanService services.ScanServiceMethods
	logger      *logger.Logger
}

func NewScanHandler(scanService services.ScanServiceMethods) *ScanHandler {
	return &ScanHandler{scanService: scanService, logger: logger.NewLogger(logrus.InfoLevel)}
}

func (h *ScanHandler) StartScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", logger.Fields{"error": err})
		c.JSON(400, gin.H{"error": "Invalid request payload"})
		return
	}

	raw := engine.RawConfig{
		TargetURL:  req.TargetURL,
		Depth:      req.Depth,
		MaxPages:   req.MaxPages,
		Exclusions: req.Exclusions,
		Mode:       req.Mode,
		Speed:      req.Speed,
	}
	// Omitted knobs get API-level defaults; the validator itself is strict.
	if raw.MaxPages == 0 {
		raw.MaxPages = 50
	}
	if raw.Mode == "" {
		raw.Mode = string(engine.ModePassive)
	}
	if raw.Speed == "" {
		raw.Speed = string(engine.SpeedMedium)
	}

	h.logger.Info("Starting scan", logger.Fields{"target": raw.TargetURL, "mode": raw.Mode})
	id, err := h.scanService.StartScan(raw)
	if err != nil {
		var ve *apperrors.ValidationError
		if errors.As(err, &ve) {
			c.JSON(400, gin.H{"error": ve.Error(), "field": ve.Field, "reason": ve.Reason})
			return
		}
		h.logger.Error("Failed to start scan:", logger.Fields{"error": err})
		c.JSON(500, gin.H{"error": "Failed to start scan"})
		return
	}
	c.JSON(202, ScanResponse{ScanID: id})
}

func (h *ScanHandler) GetScanStatus(c *gin.Context) {
	status, err := h.scanService.GetScanStatus(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(200, StatusResponse{
		State:    string(status.State),
		Progress: status.Progress,
		Elapsed:  status.Elapsed.String(),
	})
}

func (h *ScanHandler) GetScanResults(c *gin.Context) {
	sess, err := h.scanService.GetScanResults(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(200, sess)
}

func (h *ScanHandler) CancelScan(c *gin.Context) {
	if err := h.scanService.CancelScan(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(204)
}

func (h *ScanHandler) ListScans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	scans, total, err := h.scanService.ListScans(page, limit)
	if err != nil {
		h.logger.Error("Failed to list scans:", logger.Fields{"error": err})
		c.JSON(500, gin.H{"error": "Failed to list scans"})
		return
	}
	c.JSON(200, ListScansResponse{Scans: scans, Total: total, Page: page, Limit: limit})
}

func (h *ScanHandler) DeleteScan(c *gin.Context) {
	if err := h.scanService.DeleteScan(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(204)
}

// respondError maps pipeline errors onto HTTP statuses. Unknown sessions
// and not-ready results stay distinct deliberately.
func (h *ScanHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnknownSession):
		c.JSON(404, gin.H{"error": "Scan not found"})
	case errors.Is(err, apperrors.ErrResultsNotReady):
		c.JSON(409, gin.H{"error": "Scan still running"})
	case errors.Is(err, apperrors.ErrSessionNotRunning):
		c.JSON(409, gin.H{"error": "Scan already finished"})
	default:
		if isRecordNotFound(err) {
			c.JSON(404, gin.H{"error": "Scan not found"})
			return
		}
		h.logger.Error("Request failed:", logger.Fields{"error": err})
		c.JSON(500, gin.H{"error": "Internal error"})
	}
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
