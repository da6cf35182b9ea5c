package app

import (
	"codequest_backend/docs"
	"codequest_backend/internal/config"
	"codequest_backend/internal/middleware"
	"codequest_backend/internal/model"
	"codequest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/languages", c.exercise.Languages)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/users/me", c.user.UpdateProfile)
		authGroup.POST("/users/me/avatar", c.user.UploadAvatar)

		authGroup.GET("/exercises", c.exercise.List)
		authGroup.GET("/exercises/mine", c.exercise.ListMine)
		authGroup.GET("/exercises/code/:code", c.exercise.GetByCode)
		authGroup.GET("/exercises/:id", c.exercise.Get)

		authGroup.GET("/attempts/current", c.attempt.GetCurrent)
		authGroup.POST("/attempts", c.attempt.Save)
		authGroup.DELETE("/attempts/:exerciseId", c.attempt.Delete)

		authGroup.POST("/sessions", c.session.Open)
		authGroup.GET("/sessions/:exerciseId", c.session.GetState)
		authGroup.PUT("/sessions/:exerciseId/code", c.session.UpdateCode)
		authGroup.POST("/sessions/:exerciseId/save", c.session.Save)
		authGroup.POST("/sessions/:exerciseId/submit", c.session.Submit)
		authGroup.DELETE("/sessions/:exerciseId", c.session.Close)

		authGroup.POST("/execute", c.execution.Execute)

		authGroup.GET("/submissions", c.submission.ListMine)
		authGroup.GET("/achievements", c.achievement.GetAchievements)
		authGroup.GET("/leaderboard", c.achievement.GetLeaderboard)

		// 出题人接口
		author := authGroup.Group("")
		author.Use(middleware.RoleMiddleware(model.Author))
		{
			author.POST("/exercises", c.exercise.Create)
			author.PUT("/exercises/:id", c.exercise.Update)
		}
	}
}
