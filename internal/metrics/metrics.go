// Package metrics содержит метрики Prometheus сервиса и middleware для HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal - количество HTTP-запросов.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration - длительность обработки HTTP-запросов.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// PlacesLookupTotal - обращения к каталогу мест по результату: ok, empty, error.
	PlacesLookupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_lookup_total",
			Help: "Total number of places provider lookups",
		},
		[]string{"result"},
	)

	// PlacesMappingFailures - записи провайдера, которые не удалось преобразовать.
	PlacesMappingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "places_mapping_failures_total",
			Help: "Total number of raw place records dropped during mapping",
		},
	)

	// PlacesCacheTotal - попадания и промахи кэша поиска: hit, miss, error.
	PlacesCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_cache_total",
			Help: "Places lookup cache results",
		},
		[]string{"result"},
	)

	// AuthFailuresTotal - отказы в аутентификации по внутренней причине.
	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of rejected authentication attempts",
		},
		[]string{"reason"},
	)

	// CircuitBreakerState - состояние circuit breaker: 0=closed, 1=half-open, 2=open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordPlacesLookup учитывает обращение к каталогу мест.
func RecordPlacesLookup(records int, err error) {
	switch {
	case err != nil:
		PlacesLookupTotal.WithLabelValues("error").Inc()
	case records == 0:
		PlacesLookupTotal.WithLabelValues("empty").Inc()
	default:
		PlacesLookupTotal.WithLabelValues("ok").Inc()
	}
}

// RecordAuthFailure учитывает отказ в аутентификации.
func RecordAuthFailure(reason string) {
	AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// Middleware считает запросы и их длительность по шаблону маршрута chi.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
