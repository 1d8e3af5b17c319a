// Package app assembles the database, caches, worker and services shared by
// the API server and the inmoctl command.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/config"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/database"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/holidays"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/jobs"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/services"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Repos    *repository.Repositories
	Calendar *holidays.Calendar
	Worker   *jobs.Worker
	Services *services.Services

	redis *holidays.RedisCache
}

// New connects to the database and builds every service. Without REDIS_URL,
// or when redis does not answer, holidays are cached in memory.
func New(cfg *config.Config) (*App, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database")

	a := &App{Config: cfg, DB: db, Repos: repository.NewRepositories(db)}

	var cache holidays.Cache = holidays.NewMemoryCache()
	if cfg.RedisURL != "" {
		rc, err := holidays.NewRedisCache(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, using in-memory holiday cache", "error", err)
			_ = rc.Close()
		} else {
			a.redis = rc
			cache = rc
			logger.Info("Connected to redis")
		}
	}
	a.Calendar = holidays.NewCalendar(a.Repos.Holiday, cache, cfg.HolidayCacheTTL)

	a.Worker = jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	a.Services = services.NewServices(a.Repos, a.Calendar, a.Worker, cfg.Now)
	return a, nil
}

// ScheduleJobs registers the recurring jobs of the API process
func (a *App) ScheduleJobs() {
	a.Worker.ScheduleEveryImmediate(6*time.Hour, func(ctx context.Context) error {
		year := a.Config.Now().Year()
		logger.Info("[Job] Warming holiday cache...", "years", []int{year, year + 1})
		return a.Calendar.Warm(ctx, year, year+1)
	})
	logger.Info("Scheduled recurring jobs")
}

// Close stops the worker, waiting for pending audit writes, and releases
// connections
func (a *App) Close() {
	a.Worker.Shutdown()
	logger.Info("Background worker stopped")
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
