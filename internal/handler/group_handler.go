package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"github.com/talkboard/talkboard-backend/internal/middleware"
	"github.com/talkboard/talkboard-backend/internal/service"
	"github.com/talkboard/talkboard-backend/pkg/ginutil"
)

type GroupHandler struct {
	service service.GroupService
}

func NewGroupHandler(service service.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

// GetGroup handles GET /api/v1/groups/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid group ID")
		return
	}

	group, err := h.service.GetGroup(middleware.GetActor(c), id)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, group, nil)
}

// CreateGroup handles POST /api/v1/groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req domain.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	group, err := h.service.CreateGroup(middleware.GetActor(c), &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.CreatedResponse(c, group)
}

// DeleteGroup handles DELETE /api/v1/groups/:id
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid group ID")
		return
	}

	if err := h.service.DeleteGroup(middleware.GetActor(c), id); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}

// AddMember handles PUT /api/v1/groups/:id/members/:user_id
func (h *GroupHandler) AddMember(c *gin.Context) {
	groupID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid group ID")
		return
	}
	userID, err := ginutil.ParamUint64(c, "user_id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid user ID")
		return
	}

	if err := h.service.AddMember(middleware.GetActor(c), groupID, userID); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"added": userID}, nil)
}

// RemoveMember handles DELETE /api/v1/groups/:id/members/:user_id
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid group ID")
		return
	}
	userID, err := ginutil.ParamUint64(c, "user_id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid user ID")
		return
	}

	if err := h.service.RemoveMember(middleware.GetActor(c), groupID, userID); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"removed": userID}, nil)
}

// GrantAdmin handles PUT /api/v1/groups/:id/admins/:user_id
func (h *GroupHandler) GrantAdmin(c *gin.Context) {
	groupID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid group ID")
		return
	}
	userID, err := ginutil.ParamUint64(c, "user_id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid user ID")
		return
	}

	if err := h.service.GrantAdmin(middleware.GetActor(c), groupID, userID); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"admin": userID}, nil)
}

// ListInvitations handles GET /api/v1/invitations
func (h *GroupHandler) ListInvitations(c *gin.Context) {
	invitations, err := h.service.ListInvitations(middleware.GetActor(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, invitations, nil)
}

// Invite handles POST /api/v1/groups/:id/invitations
func (h *GroupHandler) Invite(c *gin.Context) {
	groupID, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid group ID")
		return
	}

	var req domain.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	invitation, err := h.service.Invite(middleware.GetActor(c), groupID, &req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.CreatedResponse(c, invitation)
}

// AnswerInvitation handles PUT /api/v1/invitations/:id
func (h *GroupHandler) AnswerInvitation(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid invitation ID")
		return
	}

	var req domain.AnswerInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body")
		return
	}

	if err := h.service.AnswerInvitation(middleware.GetActor(c), id, req.Accept); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"accepted": req.Accept}, nil)
}

// CancelInvitation handles DELETE /api/v1/invitations/:id
func (h *GroupHandler) CancelInvitation(c *gin.Context) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid invitation ID")
		return
	}

	if err := h.service.CancelInvitation(middleware.GetActor(c), id); err != nil {
		common.FailFromError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}
