package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"langlab_backend/ai"
	"langlab_backend/config"
	"langlab_backend/db"
	"langlab_backend/middleware"
	"langlab_backend/routes"
	"langlab_backend/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found") // Non-fatal in production
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if cfg.Environment == "development" {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	database, err := db.Initialize(db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	})
	if err != nil {
		logger.Fatalw("database connection failed", "error", err)
	}
	defer database.Close()

	if err := db.InitSchema(database); err != nil {
		logger.Fatalw("schema initialization failed", "error", err)
	}

	passwordHash, err := middleware.HashPassword(cfg.AuthPassword)
	if err != nil {
		logger.Fatalw("password hashing failed", "error", err)
	}
	if err := db.EnsureUser(database, cfg.AuthEmail, passwordHash); err != nil {
		logger.Fatalw("user seeding failed", "error", err)
	}

	aiClient := ai.NewClient(logger)
	sessions := session.NewRegistry()

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// The browser UI is served from its own origin in development.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
		"Range",
	}
	corsConfig.AllowMethods = []string{
		"GET",
		"POST",
		"PUT",
		"DELETE",
		"PATCH",
	}
	r.Use(cors.New(corsConfig))

	routes.SetupRoutes(r, database, []byte(cfg.JWTSecret), sessions, aiClient, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		logger.Infow("server listening", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("listen failed", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Closing sessions first flushes any buffered progress writes.
	sessions.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("server forced to shutdown", "error", err)
	}
}
