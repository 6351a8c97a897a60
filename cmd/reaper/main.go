package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"building-lca/project-portal-backend/internal/config"
	"building-lca/project-portal-backend/internal/projects"
)

// The reaper physically removes projects that the workflow marked
// TO_DELETE once they are older than the configured retention window.
// The state machine itself never deletes records.
func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	repo := projects.NewProjectRepository(db)

	c := cron.New()
	_, err = c.AddFunc(cfg.Reaper.Schedule, func() {
		purgeMarkedProjects(repo, cfg.Reaper.Retention, logger)
	})
	if err != nil {
		logger.Fatal("Invalid reaper schedule", zap.String("schedule", cfg.Reaper.Schedule), zap.Error(err))
	}
	c.Start()
	logger.Info("Reaper started",
		zap.String("schedule", cfg.Reaper.Schedule),
		zap.Duration("retention", cfg.Reaper.Retention))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx := c.Stop()
	<-ctx.Done()
	logger.Info("Reaper exiting")
}

func purgeMarkedProjects(repo projects.ProjectRepository, retention time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-retention)
	marked, err := repo.List(ctx, projects.ProjectFilter{
		States:    []projects.ProjectState{projects.StateToDelete},
		OlderThan: &cutoff,
	})
	if err != nil {
		logger.Error("Failed to list projects marked for deletion", zap.Error(err))
		return
	}

	for _, p := range marked {
		if err := repo.Purge(ctx, p.ID); err != nil {
			logger.Error("Failed to purge project",
				zap.String("project_id", p.ID.String()), zap.Error(err))
			continue
		}
		logger.Info("Purged project",
			zap.String("project_id", p.ID.String()),
			zap.Time("marked_at", p.UpdatedAt))
	}
}
