package routes

import (
	"github.com/gin-gonic/gin"

	"webscan/internal/handlers"
	"webscan/internal/services"
)

func InitScanRoutes(router *gin.RouterGroup, scanService services.ScanServiceMethods) {
	scanHandlers := handlers.NewScanHandler(scanService)
	reportHandlers := handlers.NewReportHandler(scanService)

	scanRoutes := router.Group("/scans")
	{
		scanRoutes.POST("", scanHandlers.StartScan)
		scanRoutes.GET("", scanHandlers.ListScans)
		scanRoutes.GET("/:id/status", scanHandlers.GetScanStatus)
		scanRoutes.GET("/:id/results", scanHandlers.GetScanResults)
		scanRoutes.POST("/:id/cancel", scanHandlers.CancelScan)
		scanRoutes.GET("/:id/report", reportHandlers.GenerateReport)
		scanRoutes.DELETE("/:id", scanHandlers.DeleteScan)
	}
}
