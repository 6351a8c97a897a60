package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"building-lca/project-portal-backend/internal/auth"
	"building-lca/project-portal-backend/internal/config"
	"building-lca/project-portal-backend/internal/notifications"
	"building-lca/project-portal-backend/internal/projects"
	"building-lca/project-portal-backend/internal/users"
)

func main() {
	_ = godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	if os.Getenv("GIN_MODE") != "release" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&projects.Project{},
		&notifications.SentNotification{},
		&users.User{},
		&users.Organization{},
	); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// User directory with TTL cache, invalidated on account mutation
	directory := users.NewCachedDirectory(users.NewDirectory(db), cfg.Cache.UserTTL)
	defer directory.Stop()

	// Notification channel: SES when configured, record-only otherwise
	var email notifications.EmailSender
	if cfg.Email.Enabled {
		ses, err := notifications.NewSESChannel(context.Background(), cfg.Email.Region, cfg.Email.FromAddress)
		if err != nil {
			logger.Fatal("Failed to initialize email channel", zap.Error(err))
		}
		email = ses
	}
	notifier := notifications.NewService(db, directory, email, logger)

	// Project workflow
	projectRepo := projects.NewProjectRepository(db)
	projectService := projects.NewProjectService(projectRepo, notifier, logger)
	projectHandler := projects.NewHandler(projectService, logger)

	// Setup Router
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	api := router.Group("/api/v1")
	api.Use(auth.Middleware(cfg.Security.JWTSecret))
	{
		projectHandler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:    cfg.Server.GetServerAddr(),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
