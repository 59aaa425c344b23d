package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"webscan/internal/services"
	apperrors "webscan/pkg/errors"
	"webscan/pkg/logger"
)

type ReportHandler struct {
	scanService services.ScanServiceMethods
	logger      *logger.Logger
}

func NewReportHandler(scanService services.ScanServiceMethods) *ReportHandler {
	return &ReportHandler{scanService: scanService, logger: logger.NewLogger(logrus.InfoLevel)}
}

// GenerateReport streams a report artifact for a terminal scan. The
// artifact reflects the session at generation time; it is not live.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	id := c.Param("id")
	format := c.DefaultQuery("format", "document")

	artifact, err := h.scanService.GenerateReport(id, format)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnsupportedFormat):
			c.JSON(400, gin.H{"error": "Unsupported report format"})
		case errors.Is(err, apperrors.ErrNoData):
			c.JSON(409, gin.H{"error": "Scan has no reportable data yet"})
		case errors.Is(err, apperrors.ErrUnknownSession):
			c.JSON(404, gin.H{"error": "Scan not found"})
		case errors.Is(err, apperrors.ErrResultsNotReady):
			c.JSON(409, gin.H{"error": "Scan still running"})
		default:
			if isRecordNotFound(err) {
				c.JSON(404, gin.H{"error": "Scan not found"})
				return
			}
			h.logger.Error("Failed to generate report:", logger.Fields{"error": err, "scan_id": id})
			c.JSON(500, gin.H{"error": "Failed to generate report"})
		}
		return
	}

	c.Data(200, artifact.ContentType, artifact.Data)
}
