package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"webscan/internal/dao"
	"webscan/internal/services"
	"webscan/pkg/engine"
)

func InitRouter(db *gorm.DB, orchestrator *engine.Orchestrator, profilePath string) *gin.Engine {
	router := gin.Default()

	scanDao := dao.NewScanDAO(db)
	scanService := services.NewScanService(orchestrator, scanDao)
	profileService := services.NewProfileService(profilePath)

	// REST APIs
	api := router.Group("/api")
	{
		InitScanRoutes(api, scanService)
		InitProfileRoutes(api, profileService)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
