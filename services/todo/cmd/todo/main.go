package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sun1tar/todo-app/services/todo/internal/config"
	handlers "github.com/sun1tar/todo-app/services/todo/internal/http"
	customMiddleware "github.com/sun1tar/todo-app/services/todo/internal/middleware"
	"github.com/sun1tar/todo-app/services/todo/internal/repository"
	"github.com/sun1tar/todo-app/services/todo/internal/service"
	"github.com/sun1tar/todo-app/shared/logger"
	"github.com/sun1tar/todo-app/shared/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("todo").WithError(err).Fatal("failed to load config")
	}
	logrusLogger := logger.New("todo", os.Stdout, cfg.LogLevel)

	repo, err := openRepository(cfg)
	if err != nil {
		logrusLogger.WithError(err).Fatal("failed to open store")
	}
	defer repo.Close()

	todoService := service.NewTodoService(repo, logrusLogger)
	if cfg.Seed {
		if err := todoService.SeedDefaults(context.Background()); err != nil {
			logrusLogger.WithError(err).Fatal("failed to seed store")
		}
	}

	todoHandler := handlers.NewTodoHandler(todoService, logrusLogger)

	mux := http.NewServeMux()
	todoHandler.Register(mux)
	mux.HandleFunc("GET /healthz", handlers.Healthz)
	mux.Handle("GET /metrics", customMiddleware.MetricsHandler())

	// Цепочка middleware: снаружи внутрь request-id -> логирование -> CORS -> заголовки -> метрики -> mux
	handler := customMiddleware.MetricsMiddleware(mux)
	handler = customMiddleware.SecurityHeadersMiddleware(handler)
	handler = customMiddleware.CORSMiddleware(cfg.CORSOrigin)(handler)
	handler = middleware.LoggingMiddleware(logrusLogger)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logrusLogger.WithFields(logrus.Fields{
			"port":   cfg.Port,
			"driver": cfg.DB.Driver,
		}).Info("todo service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrusLogger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrusLogger.Info("shutting down todo service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrusLogger.WithError(err).Error("graceful shutdown failed")
	}
}

func openRepository(cfg *config.Config) (repository.TodoRepository, error) {
	switch cfg.DB.Driver {
	case "postgres":
		repo, err := repository.NewPostgresTodoRepository(cfg.DB.DSN())
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "sqlite":
		repo, err := repository.NewSQLiteTodoRepository(cfg.DB.DSN())
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return repository.NewMemoryTodoRepository(), nil
	}
}
