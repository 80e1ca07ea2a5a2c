package app

import (
	"learnsphere_backend/docs"
	"learnsphere_backend/internal/config"
	"learnsphere_backend/internal/middleware"
	"learnsphere_backend/internal/model"
	"learnsphere_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.GetCurrentUser)
	rg.GET("/dashboard", c.dashboard.GetStudentDashboard)

	// 课程与观看进度
	rg.GET("/courses", c.course.ListCourses)
	rg.GET("/courses/:id", c.course.GetCourse)
	rg.GET("/courses/:id/progress", c.course.GetCourseProgress)
	rg.POST("/progress", c.course.ReportProgress)

	// 章节测试答题
	rg.POST("/tests/:testId/attempts", c.chapterTest.StartAttempt)
	attempts := rg.Group("/attempts/:attemptId")
	{
		attempts.GET("", c.chapterTest.GetAttempt)
		attempts.POST("/answers", c.chapterTest.SubmitAnswer)
		attempts.POST("/navigate", c.chapterTest.Navigate)
		attempts.POST("/complete", c.chapterTest.CompleteAttempt)
		attempts.POST("/retake", c.chapterTest.RetakeAttempt)
	}

	// 每日一练
	rg.GET("/daily-quiz", c.dailyQuiz.GetTodayQuiz)
	rg.POST("/daily-quiz/:quizId/submit", c.dailyQuiz.SubmitQuiz)

	// 编程练习
	rg.GET("/practice/problems", c.practice.ListProblems)
	rg.GET("/practice/problems/:id", c.practice.GetProblem)
	rg.POST("/practice/problems/:id/submit", c.practice.SubmitSolution)
	rg.GET("/practice/problems/:id/submissions", c.practice.GetSubmissionHistory)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		// 课程管理
		teacher.POST("/courses", c.course.CreateCourse)
		teacher.PUT("/courses/:id", c.course.UpdateCourse)
		teacher.DELETE("/courses/:id", c.course.DeleteCourse)
		teacher.POST("/chapters", c.course.CreateChapter)
		teacher.PUT("/chapters/:id", c.course.UpdateChapter)
		teacher.DELETE("/chapters/:id", c.course.DeleteChapter)

		// 视频管理
		teacher.POST("/videos", c.content.UploadVideo)
		teacher.POST("/videos/chunk", c.content.UploadVideoChunk)
		teacher.GET("/videos/progress/:identifier", c.content.GetUploadProgress)
		teacher.PUT("/videos/:id", c.content.UpdateVideo)
		teacher.DELETE("/videos/:id", c.content.DeleteVideo)

		// 试卷管理
		teacher.POST("/tests", c.chapterTest.CreateTest)
		teacher.GET("/tests", c.chapterTest.ListTests)
		teacher.GET("/tests/:testId", c.chapterTest.GetTest)
		teacher.PUT("/tests/:testId", c.chapterTest.UpdateTest)
		teacher.DELETE("/tests/:testId", c.chapterTest.DeleteTest)
		teacher.GET("/tests/:testId/attempts", c.chapterTest.ListAttempts)
		teacher.GET("/attempts/:attemptId", c.chapterTest.GetAttemptDetail)
		teacher.POST("/attempts/reset", c.chapterTest.ResetAttempts)

		// 每日一练管理
		teacher.POST("/daily-quizzes", c.dailyQuiz.CreateQuiz)
		teacher.GET("/daily-quizzes", c.dailyQuiz.ListQuizzes)
		teacher.GET("/daily-quizzes/:quizId", c.dailyQuiz.GetQuiz)
		teacher.PUT("/daily-quizzes/:quizId", c.dailyQuiz.UpdateQuiz)
		teacher.DELETE("/daily-quizzes/:quizId", c.dailyQuiz.DeleteQuiz)
		teacher.GET("/daily-quizzes/:quizId/submissions", c.dailyQuiz.ListSubmissions)
		teacher.GET("/daily-quiz-submissions/:submissionId", c.dailyQuiz.GetSubmissionDetail)

		// 编程练习管理
		teacher.POST("/practice/problems", c.practice.CreateProblem)
		teacher.PUT("/practice/problems/:id", c.practice.UpdateProblem)
		teacher.DELETE("/practice/problems/:id", c.practice.DeleteProblem)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/dashboard", c.dashboard.GetAdminDashboard)
		admin.GET("/users", c.user.ListUsers)
		admin.GET("/users/:id", c.user.GetUser)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.DELETE("/users/:id", c.user.DeleteUser)
		admin.POST("/users/:id/reset-password", c.user.ResetPassword)
		admin.PUT("/users/:id/disable", c.user.DisableUser)
	}
}
