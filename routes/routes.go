package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"langlab_backend/handlers"
	"langlab_backend/middleware"
	"langlab_backend/session"
	"langlab_backend/store"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, db *sql.DB, jwtSecret []byte, sessions *session.Registry, gen session.Generator, log *zap.SugaredLogger) {
	courseStore := store.NewCourseStore(db)
	vocabStore := store.NewVocabularyStore(db)

	deps := session.Deps{
		Progress:   courseStore,
		Vocabulary: vocabStore,
		Generator:  gen,
		Log:        log,
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, jwtSecret)
	healthHandler := handlers.NewHealthHandler(db)
	courseHandler := handlers.NewCourseHandler(courseStore, sessions, deps)
	sessionHandler := handlers.NewSessionHandler(sessions)
	vocabHandler := handlers.NewVocabularyHandler(vocabStore)

	// Public routes
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.GET("/health", healthHandler.HealthCheck)

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		// Course routes
		protected.GET("/courses", courseHandler.GetCourses)
		protected.POST("/courses/import", courseHandler.ImportCourse)
		protected.POST("/courses/:id/open", courseHandler.OpenCourse)
		protected.DELETE("/courses/:id", courseHandler.DeleteCourse)

		// Session routes
		protected.GET("/sessions/:id", sessionHandler.GetSession)
		protected.DELETE("/sessions/:id", sessionHandler.CloseSession)
		protected.POST("/sessions/:id/lesson", sessionHandler.SelectLesson)
		protected.POST("/sessions/:id/view", sessionHandler.SetView)
		protected.GET("/sessions/:id/content", sessionHandler.GetContent)
		protected.GET("/sessions/:id/transcript", sessionHandler.GetTranscript)
		protected.POST("/sessions/:id/progress", sessionHandler.UpdateProgress)
		protected.POST("/sessions/:id/complete", sessionHandler.CompletePlayback)
		protected.POST("/sessions/:id/lookup", sessionHandler.Lookup)

		// Vocabulary workflow routes
		protected.GET("/sessions/:id/vocab", sessionHandler.GetVocabCandidates)
		protected.POST("/sessions/:id/vocab/accept", sessionHandler.AcceptVocab)
		protected.POST("/sessions/:id/vocab/decline", sessionHandler.DeclineVocab)
		protected.POST("/sessions/:id/vocab/confirm", sessionHandler.ConfirmVocab)
		protected.POST("/sessions/:id/vocab/cancel", sessionHandler.CancelVocab)

		// Vocabulary collection routes
		protected.GET("/vocabulary", vocabHandler.GetVocabulary)
		protected.POST("/vocabulary", vocabHandler.SaveVocabulary)
		protected.GET("/vocabulary/review", vocabHandler.GetReview)

		// Logout route
		protected.POST("/logout", authHandler.Logout)
	}
}
