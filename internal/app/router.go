package app

import (
	"testwave_backend/internal/config"
	"testwave_backend/internal/middleware"
	"testwave_backend/internal/model"
	"testwave_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// Authenticated routes
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/me", c.auth.Me)

		// Student surface: taking tests and reading own results
		authGroup.GET("/tests", c.attempt.ListPublished)
		authGroup.GET("/tests/:id/view", c.attempt.GetTestView)
		authGroup.POST("/tests/:id/completeness", c.attempt.CheckCompleteness)
		authGroup.POST("/tests/:id/submit", c.attempt.Submit)
		authGroup.GET("/results", c.result.MyResults)
		authGroup.GET("/results/:id", c.result.GetResult)

		// Race mode
		authGroup.POST("/tests/:id/race/start", c.race.Start)
		authGroup.POST("/tests/:id/race/advance", c.race.Advance)
		authGroup.DELETE("/tests/:id/race", c.race.Abandon)

		// Admin surface
		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("/tests", c.test.CreateTest)
			admin.GET("/tests", c.test.ListTests)
			admin.GET("/tests/:id", c.test.GetTest)
			admin.PUT("/tests/:id", c.test.UpdateTest)
			admin.DELETE("/tests/:id", c.test.DeleteTest)
			admin.GET("/tests/:id/results", c.result.TestResults)
			admin.DELETE("/results/:id", c.result.DeleteResult)
			admin.POST("/uploads/question-image", c.test.UploadImage)
		}
	}
}
