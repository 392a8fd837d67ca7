package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/middleware"
	"github.com/talkboard/talkboard-backend/internal/service"
	"github.com/talkboard/talkboard-backend/pkg/ginutil"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// ListPosts handles GET /api/v1/threads/:id/posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	threadID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid thread ID")
		return
	}
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 0)

	posts, total, err := h.service.ListPosts(middleware.GetActor(c), threadID, page, limit)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, posts, &common.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// CountPosts handles GET /api/v1/threads/:id/posts/count. The optional
// before query (RFC 3339) counts only posts older than the given time,
// which lets clients show "new since last visit" badges.
func (h *PostHandler) CountPosts(c *gin.Context) {
	threadID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid thread ID")
		return
	}

	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			common.ErrorResponse(c, 400, "Invalid before timestamp")
			return
		}
		before = &t
	}

	count, err := h.service.VisiblePostCount(middleware.GetActor(c), threadID, before)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"count": count}, nil)
}

// CreatePost handles POST /api/v1/threads/:id/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	threadID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid thread ID")
		return
	}

	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	post, err := h.service.CreatePost(middleware.GetActor(c), threadID, &req, c.ClientIP())
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.CreatedResponse(c, post)
}

// EditPost handles PUT /api/v1/posts/:id
func (h *PostHandler) EditPost(c *gin.Context) {
	postID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid post ID")
		return
	}

	var req domain.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	revision, err := h.service.EditPost(middleware.GetActor(c), postID, &req, c.ClientIP())
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, revision, nil)
}

// DeletePost handles DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid post ID")
		return
	}

	if err := h.service.DeletePost(middleware.GetActor(c), postID); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": postID}, nil)
}
