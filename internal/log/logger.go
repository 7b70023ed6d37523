// Package log содержит настройку структурированного логирования приложения.
package log

import (
	"io"
	"log/slog"

	"github.com/undeluro/tglens/internal/pkg/config"
)

// Setup создает логгер по настройкам конфигурации и делает его логгером по
// умолчанию для пакета slog.
func Setup(cfg config.Logging, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
