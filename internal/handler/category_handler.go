package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/middleware"
	"github.com/talkboard/talkboard-backend/internal/service"
	"github.com/talkboard/talkboard-backend/pkg/ginutil"
)

type CategoryHandler struct {
	service service.CategoryService
}

func NewCategoryHandler(service service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	actor := middleware.GetActor(c)

	categories, err := h.service.ListCategories(actor)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, categories, nil)
}

// GetCategory handles GET /api/v1/categories/:slug
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	actor := middleware.GetActor(c)

	category, err := h.service.GetCategory(actor, c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, category, nil)
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req domain.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	category, err := h.service.CreateCategory(middleware.GetActor(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.CreatedResponse(c, category)
}

// UpdateCategory handles PUT /api/v1/categories/:slug
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req domain.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	category, err := h.service.UpdateCategory(middleware.GetActor(c), c.Param("slug"), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, category, nil)
}

// ListModerators handles GET /api/v1/categories/:slug/moderators
func (h *CategoryHandler) ListModerators(c *gin.Context) {
	moderators, err := h.service.ListModerators(middleware.GetActor(c), c.Param("slug"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, moderators, nil)
}

// AddModerator handles PUT /api/v1/categories/:slug/moderators/:user_id
func (h *CategoryHandler) AddModerator(c *gin.Context) {
	userID, err := ginutil.ParamUint64(c, "user_id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid user ID")
		return
	}

	moderator, err := h.service.AddModerator(middleware.GetActor(c), c.Param("slug"), userID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.CreatedResponse(c, moderator)
}

// RemoveModerator handles DELETE /api/v1/categories/:slug/moderators/:user_id
func (h *CategoryHandler) RemoveModerator(c *gin.Context) {
	userID, err := ginutil.ParamUint64(c, "user_id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid user ID")
		return
	}

	if err := h.service.RemoveModerator(middleware.GetActor(c), c.Param("slug"), userID); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"removed": userID}, nil)
}
