package cafefinder

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/cafe-finder/internal/config"
	"github.com/magabrotheeeer/cafe-finder/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/cafe-finder/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/cafe-finder/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/cafe-finder/internal/http/handlers/cafes/details"
	"github.com/magabrotheeeer/cafe-finder/internal/http/handlers/cafes/recommend"
	searchhandler "github.com/magabrotheeeer/cafe-finder/internal/http/handlers/cafes/search"
	"github.com/magabrotheeeer/cafe-finder/internal/http/handlers/health"
	"github.com/magabrotheeeer/cafe-finder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafe-finder/internal/metrics"
	"github.com/magabrotheeeer/cafe-finder/internal/services/auth"
	"github.com/magabrotheeeer/cafe-finder/internal/services/search"
)

// Services - бизнес-сервисы, которые обслуживают маршруты.
type Services struct {
	Auth   *auth.Service
	Search *search.Service
	// Places - состояние breaker'а каталога мест для /health, может быть nil.
	Places health.BreakerState
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		metrics.Middleware,
	)

	r.Get("/", health.NewInfo(cfg.AppName, cfg.Env).ServeHTTP)
	r.Get("/health", health.New(logger, svc.Places).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)
		r.Get("/cafes/{id}", details.New(logger, svc.Search).ServeHTTP)

		// Поиск доступен всем, пользователь с токеном попадает в лог
		r.With(middlewarectx.OptionalJWTMiddleware(svc.Auth, logger)).
			Get("/search", searchhandler.New(logger, svc.Search, cfg.DefaultRadius).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))
			r.Get("/auth/me", me.New(logger).ServeHTTP)
			r.Get("/recommendations", recommend.New(logger, svc.Search, cfg.DefaultRadius).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
