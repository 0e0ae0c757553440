package main

import (
	"log"
	"time"

	"go.uber.org/zap"

	"studytrack/backend/internal/config"
	"studytrack/backend/internal/db"
	"studytrack/backend/internal/handler"
	"studytrack/backend/internal/logging"
	"studytrack/backend/internal/repository"
	"studytrack/backend/internal/router"
	"studytrack/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(database)
	prefsRepo := repository.NewPreferencesRepository(database)
	ledgerRepo := repository.NewLedgerRepository(database)
	taskRepo := repository.NewTaskRepository(database)

	authService := service.NewAuthService(userRepo, prefsRepo, cfg.JWTSecret, cfg.TokenTTL)
	prefsService := service.NewPreferencesService(prefsRepo)
	timerService := service.NewTimerService(prefsService, ledgerRepo, time.Second, logger)
	taskService := service.NewTaskService(taskRepo)
	statsService := service.NewStatsService(ledgerRepo, taskRepo)

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Timer:       handler.NewTimerHandler(timerService),
		Preferences: handler.NewPreferencesHandler(prefsService),
		Tasks:       handler.NewTaskHandler(taskService),
		Stats:       handler.NewStatsHandler(statsService),
	}

	engine := router.New(authService, handlers, cfg.CORSOrigins, logger)
	logger.Info("backend listening", zap.String("port", cfg.Port))
	if err := engine.Run(":" + cfg.Port); err != nil {
		logger.Fatal("run server", zap.Error(err))
	}
}
