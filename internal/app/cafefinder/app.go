// Package cafefinder собирает HTTP-приложение сервиса рекомендаций кафе.
package cafefinder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/cafe-finder/internal/cache"
	"github.com/magabrotheeeer/cafe-finder/internal/config"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/jwt"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/password"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
	"github.com/magabrotheeeer/cafe-finder/internal/places"
	"github.com/magabrotheeeer/cafe-finder/internal/services/auth"
	"github.com/magabrotheeeer/cafe-finder/internal/services/search"
	"github.com/magabrotheeeer/cafe-finder/internal/storage/memory"
)

const shutdownTimeout = 15 * time.Second

// App - HTTP-сервер со всеми зависимостями.
type App struct {
	server *http.Server
	logger *slog.Logger
	cache  *cache.Cache
}

// New создаёт зависимости и HTTP-сервер. Хранилище пользователей создаётся
// один раз и передаётся сервисам по указателю.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "cafefinder.New"

	users := memory.New()

	tokens, err := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.JWTAlgorithm, cfg.TokenTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client, err := places.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Places.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	provider := places.NewBreakerLookup(client, places.BreakerConfig{
		Name:             "google-places",
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
	}, logger)

	var (
		lookup     search.PlaceLookup = provider
		cacheRedis *cache.Cache
	)
	if cfg.Redis.Enabled {
		cacheRedis, err = cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		lookup = places.NewCachedLookup(provider, cacheRedis, cfg.Redis.TTL, logger)
		logger.Info("places cache enabled", slog.String("address", cfg.AddressRedis))
	}

	services := Services{
		Auth:   auth.NewService(users, password.NewHasher(cfg.BcryptCost), tokens, logger),
		Search: search.NewService(lookup, provider, logger),
		Places: provider,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		cache:  cacheRedis,
	}, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeCache()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeCache()
		return err
	}
}

func (a *App) closeCache() {
	if a.cache == nil {
		return
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis", sl.Err(err))
	}
}
