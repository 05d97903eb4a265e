package app

import (
	"vivaai_backend/docs"
	"vivaai_backend/internal/config"
	"vivaai_backend/internal/middleware"
	"vivaai_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/me", c.auth.Me)

		// 面试会话
		authGroup.POST("/sessions", c.session.Start)
		authGroup.GET("/sessions/:id", c.session.Get)
		authGroup.POST("/sessions/:id/answers", c.session.SubmitAnswer)
		authGroup.DELETE("/sessions/:id", c.session.Abandon)
		authGroup.POST("/recordings/upload", c.session.UploadRecording)

		// 历史记录
		authGroup.GET("/interviews", c.interview.List)
		authGroup.GET("/interviews/:id", c.interview.Get)

		// 数据分析
		analytics := authGroup.Group("/analytics")
		{
			analytics.GET("/overview", c.analytics.Overview)
			analytics.GET("/trend", c.analytics.ScoreTrend)
			analytics.GET("/confidence-trend", c.analytics.ConfidenceTrend)
			analytics.GET("/types", c.analytics.TypePerformance)
			analytics.GET("/type-distribution", c.analytics.TypeDistribution)
			analytics.GET("/difficulty-distribution", c.analytics.DifficultyDistribution)
			analytics.GET("/insights", c.analytics.Insights)
			analytics.GET("/coaching", c.analytics.Coaching)
		}

		authGroup.POST("/coaching/feedback", c.analytics.CoachingFeedback)
	}
}
