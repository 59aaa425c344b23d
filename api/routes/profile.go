package routes

import (
	"github.com/gin-gonic/gin"

	"webscan/internal/handlers"
	"webscan/internal/services"
)

func InitProfileRoutes(router *gin.RouterGroup, profileService services.ProfileServiceMethods) {
	profileHandlers := handlers.NewProfileHandler(profileService)

	router.GET("/profiles", profileHandlers.GetCheckProfiles)
}
