package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/middleware"
	"github.com/talkboard/talkboard-backend/internal/service"
	"github.com/talkboard/talkboard-backend/pkg/ginutil"
)

// ModerationHandler exposes the moderator and administrator surface:
// censor and protection flags, abuse reports and the denylists.
type ModerationHandler struct {
	posts service.PostService
	bans  service.BanService
}

func NewModerationHandler(posts service.PostService, bans service.BanService) *ModerationHandler {
	return &ModerationHandler{posts: posts, bans: bans}
}

type flagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

// CensorPost handles PUT /api/v1/posts/:id/censor
func (h *ModerationHandler) CensorPost(c *gin.Context) {
	postID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid post ID")
		return
	}

	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	if err := h.posts.CensorPost(middleware.GetActor(c), postID, *req.Value); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"censored": *req.Value}, nil)
}

// ProtectPost handles PUT /api/v1/posts/:id/protect
func (h *ModerationHandler) ProtectPost(c *gin.Context) {
	postID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid post ID")
		return
	}

	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	if err := h.posts.ProtectPost(middleware.GetActor(c), postID, *req.Value); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"protected": *req.Value}, nil)
}

// ReportPost handles POST /api/v1/posts/:id/report
func (h *ModerationHandler) ReportPost(c *gin.Context) {
	postID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid post ID")
		return
	}

	var req domain.ReportPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	if err := h.posts.ReportPost(middleware.GetActor(c), postID, &req); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"reported": postID}, nil)
}

// ListUserBans handles GET /api/v1/bans/users
func (h *ModerationHandler) ListUserBans(c *gin.Context) {
	bans, err := h.bans.ListUserBans(middleware.GetActor(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, bans, nil)
}

// BanUser handles POST /api/v1/bans/users
func (h *ModerationHandler) BanUser(c *gin.Context) {
	var req domain.CreateUserBanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	ban, err := h.bans.BanUser(middleware.GetActor(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.CreatedResponse(c, ban)
}

// UnbanUser handles DELETE /api/v1/bans/users/:user_id
func (h *ModerationHandler) UnbanUser(c *gin.Context) {
	userID, err := ginutil.ParamUint64(c, "user_id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid user ID")
		return
	}

	if err := h.bans.UnbanUser(middleware.GetActor(c), userID); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"unbanned": userID}, nil)
}

// ListIPBans handles GET /api/v1/bans/ips
func (h *ModerationHandler) ListIPBans(c *gin.Context) {
	bans, err := h.bans.ListIPBans(middleware.GetActor(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, bans, nil)
}

// BanIP handles POST /api/v1/bans/ips
func (h *ModerationHandler) BanIP(c *gin.Context) {
	var req domain.CreateIPBanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	ban, err := h.bans.BanIP(middleware.GetActor(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.CreatedResponse(c, ban)
}

// UnbanIP handles DELETE /api/v1/bans/ips/:address
func (h *ModerationHandler) UnbanIP(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		common.ErrorResponse(c, 400, "Invalid address")
		return
	}

	if err := h.bans.UnbanIP(middleware.GetActor(c), address); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"unbanned": address}, nil)
}
