package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/middleware"
	"github.com/talkboard/talkboard-backend/internal/service"
	"github.com/talkboard/talkboard-backend/pkg/ginutil"
)

type ThreadHandler struct {
	service service.ThreadService
}

func NewThreadHandler(service service.ThreadService) *ThreadHandler {
	return &ThreadHandler{service: service}
}

// ListThreads handles GET /api/v1/categories/:slug/threads
func (h *ThreadHandler) ListThreads(c *gin.Context) {
	actor := middleware.GetActor(c)
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	result, err := h.service.ListThreads(actor, c.Param("slug"), page, limit)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, result.Threads, &common.Meta{
		Page:  page,
		Limit: limit,
		Total: result.Total,
	})
}

// GetThread handles GET /api/v1/threads/:id
func (h *ThreadHandler) GetThread(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid thread ID")
		return
	}

	thread, err := h.service.GetThread(middleware.GetActor(c), id)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, thread, nil)
}

// CreateThread handles POST /api/v1/categories/:slug/threads
func (h *ThreadHandler) CreateThread(c *gin.Context) {
	var req domain.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	thread, err := h.service.CreateThread(middleware.GetActor(c), c.Param("slug"), &req, c.ClientIP())
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.CreatedResponse(c, thread)
}

// UpdateThread handles PUT /api/v1/threads/:id
func (h *ThreadHandler) UpdateThread(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid thread ID")
		return
	}

	var req domain.UpdateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	thread, err := h.service.UpdateThread(middleware.GetActor(c), id, &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, thread, nil)
}

// DeleteThread handles DELETE /api/v1/threads/:id
func (h *ThreadHandler) DeleteThread(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid thread ID")
		return
	}

	if err := h.service.DeleteThread(middleware.GetActor(c), id); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}

// WatchThread handles PUT /api/v1/threads/:id/watch
func (h *ThreadHandler) WatchThread(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid thread ID")
		return
	}

	if err := h.service.Watch(middleware.GetActor(c), id); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"watching": true}, nil)
}

// UnwatchThread handles DELETE /api/v1/threads/:id/watch
func (h *ThreadHandler) UnwatchThread(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid thread ID")
		return
	}

	if err := h.service.Unwatch(middleware.GetActor(c), id); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"watching": false}, nil)
}
