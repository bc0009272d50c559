package app

import (
	"edu_manage_backend/docs"
	"edu_manage_backend/internal/config"
	"edu_manage_backend/internal/middleware"
	"edu_manage_backend/internal/model"
	"edu_manage_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		api.GET("/me", c.auth.Me)
		api.PUT("/me/password", c.auth.ChangePassword)
		api.PUT("/me/profile", c.user.UpdateProfile)
		api.GET("/me/courses", c.course.Mine)
		api.GET("/me/grades", c.grade.Mine)

		api.GET("/users/:id", c.user.Get)

		api.GET("/courses", c.course.List)
		api.GET("/courses/:id", c.course.Get)
		api.GET("/courses/:id/quizzes", c.quiz.ListForCourse)
		api.GET("/courses/:id/assignments", c.assignment.ListForCourse)

		api.GET("/quizzes/:id", c.quiz.Get)
		api.GET("/quizzes/:id/questions", c.quiz.Questions)
		api.GET("/assignments/:id", c.assignment.Get)

		student := api.Group("")
		student.Use(middleware.RoleMiddleware(model.Student))
		{
			student.POST("/courses/:id/enroll", c.course.Enroll)
			student.DELETE("/courses/:id/enroll", c.course.Unenroll)
			student.GET("/courses/:id/grades/me", c.grade.MineForCourse)

			student.POST("/quizzes/:id/start", c.quiz.Start)
			student.PUT("/quizzes/:id/answer", c.quiz.Answer)
			student.POST("/quizzes/:id/submit", c.quiz.Submit)
			student.DELETE("/quizzes/:id/attempt", c.quiz.Abandon)
			student.GET("/quizzes/:id/result", c.quiz.Result)
			student.GET("/quizzes/:id/review", c.quiz.Review)

			student.GET("/assignments/:id/status", c.assignment.Status)
			student.POST("/assignments/:id/submit", c.assignment.Submit)
		}

		tutor := api.Group("")
		tutor.Use(middleware.RoleMiddleware(model.Tutor))
		{
			tutor.POST("/courses", c.course.Create)
			tutor.PUT("/courses/:id", c.course.Update)
			tutor.DELETE("/courses/:id", c.course.Delete)
			tutor.GET("/courses/:id/students", c.course.Students)

			tutor.POST("/courses/:id/quizzes", c.quiz.Create)
			tutor.PUT("/quizzes/:id", c.quiz.Update)
			tutor.DELETE("/quizzes/:id", c.quiz.Delete)
			tutor.PUT("/quizzes/:id/publish", c.quiz.Publish)
			tutor.GET("/quizzes/:id/results", c.quiz.Results)

			tutor.POST("/courses/:id/assignments", c.assignment.Create)
			tutor.PUT("/assignments/:id", c.assignment.Update)
			tutor.DELETE("/assignments/:id", c.assignment.Delete)
			tutor.POST("/assignments/:id/handout", c.assignment.AttachHandout)
			tutor.GET("/assignments/:id/submissions", c.assignment.Submissions)

			tutor.GET("/courses/:id/grades", c.grade.ForCourse)
			tutor.PUT("/courses/:id/grades/:userId", c.grade.Record)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.GET("/users", c.user.List)
			admin.PUT("/users/:id/role", c.user.SetRole)
			admin.PUT("/users/:id/disabled", c.user.SetDisabled)
		}
	}
}
