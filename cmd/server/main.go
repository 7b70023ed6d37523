package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/undeluro/tglens/internal/adapters/parser"
	"github.com/undeluro/tglens/internal/cache"
	"github.com/undeluro/tglens/internal/core/services"
	"github.com/undeluro/tglens/internal/log"
	"github.com/undeluro/tglens/internal/pkg/config"
	"github.com/undeluro/tglens/internal/server"
	"github.com/undeluro/tglens/internal/server/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска приложения.
func run() error {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		// Логгер еще не инициализирован, выводим в stderr
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализация логгера
	log.Setup(cfg.Logging, os.Stdout)

	// 3. Валидация конфигурации (после инициализации логгера)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Инициализация зависимостей
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	taskStore := server.NewTaskStore()
	cacheStore := cache.NewCacheStore()
	parserSvc := parser.NewJsonParser()
	normalizerSvc := services.NewNormalizeService()
	processor := usecase.NewProcessArchiveUseCase(cfg, parserSvc, normalizerSvc, cacheStore)

	// 5. Создание HTTP-сервера
	srv, err := server.New(cfg, processor, taskStore, cacheStore)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	srv.StartCleanup(appCtx)

	// 6. Запуск сервера и graceful shutdown
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		slog.Info("Starting server", "addr", cfg.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Signal received, shutting down...")

	// Сначала отменяем контекст приложения, чтобы остановить фоновые тикеры
	appCancel()

	// Затем останавливаем HTTP-сервер
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	<-serverDone
	slog.Info("HTTP server stopped")

	slog.Info("Application exited gracefully")
	return nil
}
