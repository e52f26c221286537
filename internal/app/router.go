package app

import (
	"learnul_backend/docs"
	"learnul_backend/internal/middleware"
	"learnul_backend/internal/model"
	"learnul_backend/internal/session"
	"learnul_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) maintenanceMiddleware() gin.HandlerFunc {
	return middleware.MaintenanceMiddleware(a.maintenance.Load)
}

func (a *App) registerRoutes(router *gin.Engine, c *controllers, profiles session.ProfileSource) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由，角色来自存储的用户资料
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(c.auth.AuthService, profiles))
	{
		a.registerStudentRoutes(authGroup.Group("", middleware.RoleMiddleware()), c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup.Group("/teacher", middleware.RoleMiddleware(model.Teacher, model.Admin)), c)

		// 管理员相关接口
		a.registerAdminRoutes(authGroup.Group("/admin", middleware.RoleMiddleware(model.Admin)), c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/password-reset", c.auth.RequestPasswordReset)
		public.POST("/password-reset/confirm", c.auth.ConfirmPasswordReset)

		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)
		public.GET("/courses/:id/lessons", c.course.GetCourseLessons)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/logout", c.auth.Logout)
	rg.GET("/session", c.auth.CurrentSession)

	rg.GET("/profile", c.user.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.POST("/user/avatar", c.user.UploadAvatar)
	rg.GET("/activity", c.user.MyActivity)
	rg.POST("/activity", c.user.TrackActivity)

	rg.POST("/courses/:id/enroll", c.course.Enroll)
	rg.GET("/enrollments", c.course.MyEnrollments)

	rg.GET("/lessons/:id", c.lesson.GetLesson)
	rg.POST("/lessons/:id/complete", c.user.CompleteLesson)
	rg.GET("/quizzes/:id", c.lesson.GetQuiz)
	rg.POST("/quizzes/:id/submit", c.lesson.SubmitQuiz)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/courses", c.teacher.GetMyCourses)
	rg.POST("/courses", c.teacher.CreateCourse)
	rg.POST("/courses/:id/lessons", c.teacher.CreateLesson)
	rg.GET("/courses/:id/analytics", c.teacher.GetCourseAnalytics)
	rg.GET("/quizzes/:id", c.teacher.GetQuizAnswers)
	rg.GET("/stats", c.teacher.GetStats)
	rg.GET("/students", c.teacher.GetStudents)
	rg.POST("/uploads", c.teacher.Upload)
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/users", c.admin.GetUsers)
	rg.PUT("/users/:id/role", c.admin.UpdateUserRole)
	rg.PUT("/users/:id/status", c.admin.UpdateUserStatus)
	rg.GET("/courses", c.admin.GetCourses)
}
