package handlers

import (
	"github.com/gin-gonic/gin"

	"webscan/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileServiceMethods
}

func NewProfileHandler(profileService services.ProfileServiceMethods) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) GetCheckProfiles(c *gin.Context) {
	c.JSON(200, h.profileService.GetCheckProfiles())
}
