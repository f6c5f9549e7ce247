package main

import (
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/kavin1122/task-management/internal/cache"
	"github.com/kavin1122/task-management/internal/config"
	"github.com/kavin1122/task-management/internal/db"
	"github.com/kavin1122/task-management/internal/handler"
	"github.com/kavin1122/task-management/internal/httpserver"
	"github.com/kavin1122/task-management/internal/mq"
	redisclient "github.com/kavin1122/task-management/internal/redis"
	"github.com/kavin1122/task-management/internal/repository"
	"github.com/kavin1122/task-management/internal/service/auth"
	"github.com/kavin1122/task-management/internal/service/project"
	"github.com/kavin1122/task-management/internal/service/task"
)

func main() {
	// Load config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	// Init RabbitMQ Producer
	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("failed to init producer", zap.Error(err))
	}
	defer producer.Close()

	// Init Repositories
	userRepo := repository.NewUserRepository(dbConn, logger)
	projectRepo := repository.NewProjectRepository(dbConn, logger)
	taskRepo := repository.NewTaskRepository(dbConn, logger)

	// Init Services
	authService := auth.NewService(userRepo, cfg.JWT.Secret, logger)
	projectService := project.NewService(projectRepo, producer, logger)
	taskCache := cache.NewTaskCache(rdb, 5*time.Minute)
	taskService := task.NewService(taskRepo, projectRepo, taskCache, producer, logger)

	// Init Handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)

	// Router
	router := httpserver.NewRouter(authHandler, projectHandler, taskHandler, authService, dbConn)

	// Start API server
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("server start failed", zap.Error(err))
	}
}
