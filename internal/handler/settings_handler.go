package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/middleware"
	"github.com/talkboard/talkboard-backend/internal/service"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(service service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings handles GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(middleware.GetActor(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, settings, nil)
}

// UpdateSettings handles PUT /api/v1/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req domain.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	settings, err := h.service.UpdateSettings(middleware.GetActor(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, settings, nil)
}
