package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/magabrotheeeer/cafe-finder/internal/metrics"
	"github.com/magabrotheeeer/cafe-finder/internal/models"
)

// Provider - каталог мест с поиском и получением подробностей.
type Provider interface {
	Lookup
	Details(ctx context.Context, placeID string) (*RawPlace, error)
}

// BreakerConfig - параметры circuit breaker.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// BreakerLookup защищает Provider circuit breaker'ом: после серии ошибок
// запросы к провайдеру не выполняются и сразу возвращают ErrUpstream.
type BreakerLookup struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[any]
}

// NewBreakerLookup оборачивает inner.
func NewBreakerLookup(inner Provider, cfg BreakerConfig, log *slog.Logger) *BreakerLookup {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// отмена запроса клиентом не говорит о сбое провайдера
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("places circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	}
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))

	return &BreakerLookup{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State возвращает текущее состояние breaker'а.
func (b *BreakerLookup) State() gobreaker.State {
	return b.cb.State()
}

// SearchNearby выполняет поиск через breaker.
func (b *BreakerLookup) SearchNearby(ctx context.Context, origin models.Coordinate, radiusMeters int) ([]RawPlace, error) {
	const op = "places.BreakerLookup.SearchNearby"
	res, err := b.cb.Execute(func() (any, error) {
		return b.inner.SearchNearby(ctx, origin, radiusMeters)
	})
	if err != nil {
		return nil, breakerError(op, err)
	}
	raws, _ := res.([]RawPlace)
	return raws, nil
}

// Details получает подробности места через breaker.
func (b *BreakerLookup) Details(ctx context.Context, placeID string) (*RawPlace, error) {
	const op = "places.BreakerLookup.Details"
	res, err := b.cb.Execute(func() (any, error) {
		return b.inner.Details(ctx, placeID)
	})
	if err != nil {
		return nil, breakerError(op, err)
	}
	raw, _ := res.(*RawPlace)
	return raw, nil
}

func breakerError(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w: %v", op, ErrUpstream, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
