package app

import (
	"bitbybit_backend/docs"
	"bitbybit_backend/internal/config"
	"bitbybit_backend/internal/middleware"
	"bitbybit_backend/internal/model"
	"bitbybit_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, repos, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg, repos.user), middleware.RoleMiddleware(model.Admin))
	{
		a.registerAdminRoutes(adminGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.GET("/banners", c.content.ListBanners)

		// Course catalogue is browsable by guests; details are gated later.
		public.GET("/courses", middleware.TryAuthMiddleware(cfg, repos.user), c.content.ListCourses)

		auth := public.Group("/auth")
		{
			auth.POST("/jwt/create", c.auth.Login)
		}

		otp := public.Group("/auth-otp")
		{
			otp.POST("/request_otp", c.auth.RequestOTP)
			otp.POST("/verify_otp", c.auth.VerifyOTP)
			otp.POST("/firebase_exchange", c.auth.FirebaseExchange)
		}
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.GET("/courses/:id", c.content.GetCourseTree)
	rg.POST("/courses/:id/subscribe", c.content.Subscribe)
	rg.GET("/subscriptions", c.content.ListSubscriptions)
	rg.GET("/topics/:id/notes", c.content.GetTopicNotes)

	rg.GET("/exams", c.content.ListExams)
	rg.GET("/exams/:id", c.exam.GetExam)
	rg.POST("/exams/:id/start_attempt", c.exam.StartAttempt)
	rg.POST("/exams/:id/submit_exam", c.exam.SubmitExam)
	rg.POST("/exams/:id/check_answer", c.exam.CheckAnswer)
	rg.GET("/history", c.exam.History)
	rg.GET("/history/:id", c.exam.AttemptDetail)
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/courses", c.admin.CreateCourse)
	rg.DELETE("/courses/:id", c.admin.DeleteCourse)
	rg.POST("/subjects", c.admin.CreateSubject)
	rg.POST("/chapters", c.admin.CreateChapter)
	rg.POST("/topics", c.admin.CreateTopic)
	rg.PUT("/topics/:id/notes", c.admin.UpdateTopicNotes)

	rg.POST("/exams", c.admin.CreateExam)
	rg.POST("/exams/:id/questions", c.admin.AddQuestion)
	rg.DELETE("/questions/:id", c.admin.DeleteQuestion)

	rg.POST("/ai-generator/generate", c.admin.GenerateExam)
	rg.POST("/bulk-notes/upload", c.admin.BulkUploadNotes)
	rg.POST("/bulk-questions/upload", c.admin.BulkUploadQuestions)

	rg.POST("/banners", c.admin.CreateBanner)
	rg.DELETE("/banners/:id", c.admin.DeleteBanner)
}
