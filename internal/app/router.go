package app

import (
	"stem_tutor_backend/internal/config"
	"stem_tutor_backend/internal/middleware"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 内容：读公开，写需要教师权限
	a.registerContentRoutes(router, c, cfg)

	// 3. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerUserRoutes(authGroup, c)
	}

	// 4. 管理员相关接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/oracle-requests", c.ask.OracleRequests)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/leaderboard", c.progress.Leaderboard)
		public.GET("/daily-challenge", c.ask.DailyChallenge)
	}
}

func (a *App) registerContentRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	content := router.Group("/api")
	content.Use(middleware.ReadOnlyOrAuth(cfg.JWT.Secret))
	{
		content.GET("/subjects", c.subject.List)
		content.GET("/subjects/:id", c.subject.Get)

		content.GET("/questions", c.question.List)
		content.GET("/questions/by-subject", c.question.BySubject)
		content.GET("/questions/:id", c.question.Get)

		content.GET("/projects", c.project.List)
		content.GET("/projects/:id", c.project.Get)

		teacher := content.Group("")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/subjects", c.subject.Create)
			teacher.PUT("/subjects/:id", c.subject.Update)
			teacher.DELETE("/subjects/:id", c.subject.Delete)

			teacher.POST("/questions", c.question.Create)
			teacher.PATCH("/questions/:id", c.question.Update)
			teacher.DELETE("/questions/:id", c.question.Delete)
			teacher.POST("/questions/:id/image", c.question.UploadImage)

			teacher.POST("/projects", c.project.Create)
			teacher.PUT("/projects/:id", c.project.Update)
			teacher.DELETE("/projects/:id", c.project.Delete)
		}
	}
}

func (a *App) registerStudentRoutes(r *gin.RouterGroup, c *controllers) {
	r.GET("/profile", c.auth.GetProfile)

	// 答题
	r.POST("/answers", c.answer.Submit)
	r.GET("/answers", c.answer.List)
	r.GET("/answers/:id", c.answer.Get)
	r.DELETE("/answers/:id", c.answer.Delete)
	r.GET("/questions/next", c.curriculum.NextQuestion)
	r.GET("/questions/:id/answers", middleware.RoleMiddleware(model.Teacher), c.question.Answers)

	// 学习路径
	r.POST("/learning-paths", c.learningPath.Create)
	r.GET("/learning-paths", middleware.RoleMiddleware(model.Teacher), c.learningPath.List)
	r.GET("/learning-paths/:id", c.learningPath.Get)
	r.PATCH("/learning-paths/:id", c.learningPath.Update)
	r.DELETE("/learning-paths/:id", c.learningPath.Delete)

	// 进度
	r.GET("/progress/summary", c.progress.Summary)
	r.POST("/progress", c.progress.Create)
	r.GET("/progress", c.progress.List)
	r.GET("/progress/:id", c.progress.Get)

	// 自由提问
	r.POST("/ask", c.ask.Ask)
	r.GET("/ask/history", c.ask.History)
	r.POST("/ask/:id/feedback", c.ask.Feedback)
}

func (a *App) registerUserRoutes(r *gin.RouterGroup, c *controllers) {
	users := r.Group("/users")
	{
		users.GET("", middleware.RoleMiddleware(model.Teacher), c.user.GetUsers)
		users.GET("/:id", c.user.GetUser)
		users.DELETE("/:id", middleware.RoleMiddleware(model.Admin), c.user.DeleteUser)
		users.GET("/:id/progress-summary", c.progress.UserSummary)

		self := users.Group("")
		self.Use(middleware.SelfOrRole(model.Teacher))
		{
			self.PATCH("/:id", c.user.UpdateUser)
			self.POST("/:id/profile-picture", c.user.UploadProfilePicture)
			self.GET("/:id/next-question", c.curriculum.NextQuestionForUser)
			self.GET("/:id/personalized-questions", c.ask.Personalized)
			self.POST("/:id/learning-path", c.learningPath.CreateForUser)
			self.GET("/:id/learning-path", c.learningPath.GetForUser)
			self.PATCH("/:id/learning-path", c.learningPath.UpdateForUser)
		}
	}
}
