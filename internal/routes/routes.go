package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/talkboard/talkboard-backend/internal/handler"
	"github.com/talkboard/talkboard-backend/internal/middleware"
	"github.com/talkboard/talkboard-backend/internal/service"
	"github.com/talkboard/talkboard-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	categoryHandler *handler.CategoryHandler,
	threadHandler *handler.ThreadHandler,
	postHandler *handler.PostHandler,
	moderationHandler *handler.ModerationHandler,
	groupHandler *handler.GroupHandler,
	settingsHandler *handler.SettingsHandler,
	jwtManager *jwt.Manager,
	registry *service.BanRegistry,
) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Every API request resolves its actor and passes the denylist.
	api := router.Group("/api/v1",
		middleware.Identify(jwtManager),
		middleware.BanCheck(registry),
	)

	categories := api.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:slug", categoryHandler.GetCategory)
	categories.POST("", middleware.RequireStaff(), categoryHandler.CreateCategory)
	categories.PUT("/:slug", middleware.RequireStaff(), categoryHandler.UpdateCategory)
	categories.GET("/:slug/moderators", middleware.RequireStaff(), categoryHandler.ListModerators)
	categories.PUT("/:slug/moderators/:user_id", middleware.RequireStaff(), categoryHandler.AddModerator)
	categories.DELETE("/:slug/moderators/:user_id", middleware.RequireStaff(), categoryHandler.RemoveModerator)

	categories.GET("/:slug/threads", threadHandler.ListThreads)
	categories.POST("/:slug/threads", middleware.RequireAuth(), threadHandler.CreateThread)

	threads := api.Group("/threads")
	threads.GET("/:id", threadHandler.GetThread)
	threads.PUT("/:id", middleware.RequireStaff(), threadHandler.UpdateThread)
	threads.DELETE("/:id", middleware.RequireStaff(), threadHandler.DeleteThread)
	threads.PUT("/:id/watch", middleware.RequireAuth(), threadHandler.WatchThread)
	threads.DELETE("/:id/watch", middleware.RequireAuth(), threadHandler.UnwatchThread)
	threads.GET("/:id/posts", postHandler.ListPosts)
	threads.GET("/:id/posts/count", postHandler.CountPosts)
	threads.POST("/:id/posts", middleware.RequireAuth(), postHandler.CreatePost)

	posts := api.Group("/posts")
	posts.PUT("/:id", middleware.RequireAuth(), postHandler.EditPost)
	posts.DELETE("/:id", middleware.RequireStaff(), postHandler.DeletePost)
	// Censoring is open to category moderators too; the service decides.
	posts.PUT("/:id/censor", middleware.RequireAuth(), moderationHandler.CensorPost)
	posts.PUT("/:id/protect", middleware.RequireAuth(), moderationHandler.ProtectPost)
	posts.POST("/:id/report", middleware.RequireAuth(), moderationHandler.ReportPost)

	groups := api.Group("/groups")
	groups.POST("", middleware.RequireAuth(), groupHandler.CreateGroup)
	groups.GET("/:id", middleware.RequireAuth(), groupHandler.GetGroup)
	groups.DELETE("/:id", middleware.RequireAuth(), groupHandler.DeleteGroup)
	groups.PUT("/:id/members/:user_id", middleware.RequireAuth(), groupHandler.AddMember)
	groups.DELETE("/:id/members/:user_id", middleware.RequireAuth(), groupHandler.RemoveMember)
	groups.PUT("/:id/admins/:user_id", middleware.RequireAuth(), groupHandler.GrantAdmin)
	groups.POST("/:id/invitations", middleware.RequireAuth(), groupHandler.Invite)

	invitations := api.Group("/invitations", middleware.RequireAuth())
	invitations.GET("", groupHandler.ListInvitations)
	invitations.PUT("/:id", groupHandler.AnswerInvitation)
	invitations.DELETE("/:id", groupHandler.CancelInvitation)

	settings := api.Group("/settings", middleware.RequireAuth())
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)

	bans := api.Group("/bans", middleware.RequireStaff())
	bans.GET("/users", moderationHandler.ListUserBans)
	bans.POST("/users", moderationHandler.BanUser)
	bans.DELETE("/users/:user_id", moderationHandler.UnbanUser)
	bans.GET("/ips", moderationHandler.ListIPBans)
	bans.POST("/ips", moderationHandler.BanIP)
	bans.DELETE("/ips/:address", moderationHandler.UnbanIP)
}
