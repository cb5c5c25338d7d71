package app

import (
	"access_edu_backend/docs"
	"access_edu_backend/internal/config"
	"access_edu_backend/internal/middleware"
	"access_edu_backend/internal/model"
	"access_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		registerLearnerRoutes(authGroup, c)

		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		registerTeacherRoutes(teacher, c)
	}
}

func registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	// 课程进度与分析
	rg.GET("/courses/:courseId/weak-topics", c.analytics.GetWeakTopics)
	rg.GET("/courses/:courseId/progress", c.analytics.GetCourseProgress)
	rg.GET("/quizzes/:quizId/trend", c.analytics.GetQuizTrend)

	// 测验
	rg.POST("/quizzes/:quizId/attempts", c.quiz.SubmitAttempt)
	rg.GET("/quizzes/:quizId/attempts", c.quiz.ListAttempts)

	// 课时
	rg.POST("/lessons/:lessonId/complete", c.learning.CompleteLesson)

	// 证书
	rg.POST("/courses/:courseId/certificate/check", c.certificate.CheckCertificate)
	rg.GET("/courses/:courseId/certificate", c.certificate.GetCertificate)
	rg.GET("/certificates", c.certificate.ListCertificates)
}

func registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/courses/:courseId/certificates/reconcile", c.certificate.ReconcileCourse)
}
