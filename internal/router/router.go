package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/prepforge/cbt-backend/internal/config"
	"github.com/prepforge/cbt-backend/internal/handler"
	"github.com/prepforge/cbt-backend/internal/middleware"
	"github.com/prepforge/cbt-backend/internal/model"
	"github.com/prepforge/cbt-backend/internal/response"
	"github.com/prepforge/cbt-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Subject  *handler.SubjectHandler
	Topic    *handler.TopicHandler
	Exam     *handler.ExamHandler
	Question *handler.QuestionHandler
	Session  *handler.SessionHandler
	Stats    *handler.StatsHandler
	GraphQL  gin.HandlerFunc
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Auth group, public and rate limited.
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/password-reset", handlers.Auth.RequestPasswordReset)
		auth.POST("/password-reset/confirm", handlers.Auth.ResetPassword)

		auth.GET("/me",
			middleware.RequireAuth(authService),
			middleware.CheckSingleDeviceLogin(authService),
			handlers.Auth.Me,
		)
	}

	// Everything below requires a valid access token. Students are also
	// held to their most recent login.
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireAuth(authService),
		middleware.CheckSingleDeviceLogin(authService),
	)

	// User administration. Listing and deletion are admin-only; reads and
	// profile updates are authorized in the service layer.
	users := api.Group("/users")
	{
		users.GET("", middleware.RequireRole(model.RoleAdministrator), handlers.User.GetAll)
		users.GET("/:id", handlers.User.GetByID)
		users.PATCH("/:id", handlers.User.Update)
		users.DELETE("/:id", middleware.RequireRole(model.RoleAdministrator), handlers.User.Delete)
	}

	// Content catalog. Reads are open to any authenticated user; writes
	// are for content creators and administrators.
	manageContent := middleware.RequireAnyRole(model.RoleContentCreator)

	subjects := api.Group("/subjects")
	{
		subjects.GET("", handlers.Subject.GetAll)
		subjects.GET("/:id", handlers.Subject.GetByID)
		subjects.GET("/:id/topics", handlers.Subject.GetTopics)
		subjects.POST("", manageContent, handlers.Subject.Create)
		subjects.PATCH("/:id", manageContent, handlers.Subject.Update)
		subjects.DELETE("/:id", manageContent, handlers.Subject.Delete)
	}

	topics := api.Group("/topics")
	{
		topics.GET("/:id", handlers.Topic.GetByID)
		topics.POST("", manageContent, handlers.Topic.Create)
		topics.PATCH("/:id", manageContent, handlers.Topic.Update)
		topics.DELETE("/:id", manageContent, handlers.Topic.Delete)
	}

	exams := api.Group("/exams")
	{
		exams.GET("", handlers.Exam.GetAll)
		exams.GET("/:id", handlers.Exam.GetByID)
		exams.GET("/:id/subjects", handlers.Exam.GetSubjects)
		exams.POST("", manageContent, handlers.Exam.Create)
		exams.PATCH("/:id", manageContent, handlers.Exam.Update)
		exams.DELETE("/:id", manageContent, handlers.Exam.Delete)
		exams.POST("/:id/subjects", manageContent, handlers.Exam.AddSubject)
	}

	examSubjects := api.Group("/exam-subjects")
	{
		examSubjects.GET("/:id", handlers.Exam.GetSubjectPairing)
		examSubjects.PATCH("/:id", manageContent, handlers.Exam.UpdateSubjectPairing)
		examSubjects.DELETE("/:id", manageContent, handlers.Exam.RemoveSubjectPairing)
	}

	questions := api.Group("/questions")
	{
		questions.GET("", handlers.Question.GetAll)
		questions.GET("/:id", handlers.Question.GetByID)
		questions.POST("", manageContent, handlers.Question.Create)
		questions.PATCH("/:id", manageContent, handlers.Question.Update)
		questions.DELETE("/:id", manageContent, handlers.Question.Delete)
	}

	// Sessions. Ownership checks live in the service layer, so students
	// only ever reach their own sessions.
	sessions := api.Group("/sessions")
	{
		sessions.POST("", handlers.Session.Start)
		sessions.GET("", handlers.Session.GetAll)
		sessions.GET("/:id", handlers.Session.GetByID)
		sessions.POST("/:id/end", handlers.Session.End)
		sessions.PUT("/:id/settings", handlers.Session.UpdateSettings)
		sessions.POST("/:id/answers", handlers.Session.SubmitAnswer)
		sessions.GET("/:id/answers", handlers.Session.GetAnswers)
		sessions.GET("/:id/results", handlers.Session.GetResults)
		sessions.DELETE("/:id", handlers.Session.Delete)
	}

	// Answer administration.
	answers := api.Group("/answers")
	{
		answers.GET("", handlers.Session.GetAllAnswers)
		answers.GET("/:id", handlers.Session.GetAnswerByID)
		answers.PATCH("/:id", handlers.Session.CorrectAnswer)
		answers.DELETE("/:id", handlers.Session.DeleteAnswer)
	}

	// Platform activity snapshots.
	api.GET("/stats/daily", manageContent, handlers.Stats.GetDaily)

	// GraphQL endpoint; does its own auth so login works anonymously.
	router.POST("/graphql", handlers.GraphQL)

	return router
}
