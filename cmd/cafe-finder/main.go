// Package main Cafe Recommendation API
//
// @title           Cafe Recommendation API
// @version         1.0
// @description     Поиск кафе рядом с точкой и персональные рекомендации по рейтингу и цене

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/cafe-finder/internal/app/cafefinder"
	"github.com/magabrotheeeer/cafe-finder/internal/config"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env, cfg.LogLevel)

	logger.Info("starting cafe-finder", slog.String("env", cfg.Env))
	logger.Debug("loaded config", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cafefinder.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("cafe-finder stopped gracefully")
}

// setupLogger выбирает формат по окружению: текст локально, JSON в dev и prod.
func setupLogger(env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel(env, level)}

	switch env {
	case config.EnvLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
}

// logLevel разбирает LOG_LEVEL. Пустое или нераспознанное значение даёт
// уровень по умолчанию для окружения: debug в local и dev, info иначе.
func logLevel(env, level string) slog.Level {
	var lvl slog.Level
	if level != "" && lvl.UnmarshalText([]byte(level)) == nil {
		return lvl
	}
	if env == config.EnvLocal || env == config.EnvDev {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
