package router

import (
	"Hive_Community/internal/handler"
	"Hive_Community/internal/middleware"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Store      repository.Store
	Dispatcher repository.Dispatcher
	SMTP       pkg.SMTPConfig
}

func InitRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler()
	email := handler.NewEmailHandler(deps.SMTP)
	community := handler.NewCommunityHandler(deps.Store)
	channel := handler.NewChannelHandler(deps.Store)
	membership := handler.NewMembershipHandler(deps.Store, deps.Dispatcher)
	thread := handler.NewThreadHandler(deps.Store)
	threadLike := handler.NewThreadLikeHandler()

	// 邮件相关接口
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/code", email.SendCode)
		emailGroup.POST("/verify", email.VerifyCode)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
	}

	// 社区相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.POST("/create", community.Create)
		communityGroup.GET("/list", community.List)
		communityGroup.DELETE("/:id", community.Delete)
		communityGroup.POST("/:id/channel", channel.Create)
		communityGroup.GET("/:id/permissions", membership.CommunityPermissions)
	}

	// 频道相关接口
	channelGroup := r.Group("/api/channel")
	channelGroup.Use(middleware.AuthMiddleware())
	{
		channelGroup.PATCH("/:id", channel.Edit)
		channelGroup.DELETE("/:id", channel.Delete)
		channelGroup.GET("/:id/permissions", membership.Permissions)

		// 订阅开关与审核动作
		channelGroup.POST("/:id/subscription", membership.ToggleSubscription)
		channelGroup.POST("/:id/notifications", membership.ToggleNotifications)
		channelGroup.POST("/:id/approve", membership.Approve)
		channelGroup.POST("/:id/block", membership.Block)
		channelGroup.POST("/:id/unblock", membership.Unblock)

		channelGroup.POST("/:id/thread", thread.Create)
		channelGroup.GET("/:id/threads", thread.ListByChannel)
	}

	// 帖子相关接口
	threadGroup := r.Group("/api/thread")
	threadGroup.Use(middleware.AuthMiddleware())
	{
		threadGroup.DELETE("/:id", thread.Delete)
		threadGroup.POST("/:id/like", threadLike.Like)
		threadGroup.POST("/:id/unlike", threadLike.Unlike)
		threadGroup.GET("/:id/liked", threadLike.IsLiked)
		threadGroup.GET("/:id/like-count", threadLike.Count)
	}

	return r
}
