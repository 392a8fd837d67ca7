package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/service"
)

// BanCheck rejects requests from banned users and banned addresses.
// Checks the in-process registry snapshot, so no query runs per
// request. Must run after Identify.
func BanCheck(registry *service.BanRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if registry.IsIPBanned(c.ClientIP()) {
			common.ErrorResponse(c, 403, "Access denied")
			c.Abort()
			return
		}
		actor := GetActor(c)
		if actor.IsAuthenticated() && registry.IsUserBanned(actor.ID) {
			common.ErrorResponse(c, 403, "Access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}
