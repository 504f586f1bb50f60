package app

import (
	"edutech_backend/internal/middleware"
	"edutech_backend/pkg/monitoring"

	_ "edutech_backend/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.GET("/health", c.health.HealthCheck)
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		api.POST("/auth/login", c.auth.Login)

		// Course catalog is public, progress state is not.
		courses := api.Group("/courses")
		{
			courses.GET("", c.catalog.ListCourses)
			courses.GET("/:courseId", c.catalog.GetCourse)
			courses.GET("/:courseId/modules/:moduleId", c.catalog.GetModule)
		}

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(a.Runtime))
		{
			authed.POST("/auth/logout", c.auth.Logout)
			authed.GET("/profile", c.auth.GetProfile)

			authed.POST("/courses/:courseId/enroll", c.progress.Enroll)
			authed.GET("/courses/:courseId/progress", c.progress.GetOverview)

			authed.POST("/courses/:courseId/modules/:moduleId/quiz/attempts", c.quiz.StartAttempt)

			attempts := authed.Group("/quiz/attempts/:attemptId")
			{
				attempts.POST("/answer", c.quiz.SelectAnswer)
				attempts.POST("/advance", c.quiz.Advance)
				attempts.POST("/finalize", c.quiz.Finalize)
				attempts.DELETE("", c.quiz.Abandon)
			}

			authed.GET("/certificates", c.certificate.ListCertificates)
			authed.POST("/certificates/:certificateId/export", c.certificate.ExportCertificate)

			authed.GET("/events/ws", a.services.hub.ServeWS)
		}
	}
}
