package places

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
	"github.com/magabrotheeeer/cafe-finder/internal/metrics"
	"github.com/magabrotheeeer/cafe-finder/internal/models"
)

// Cache описывает методы кэша, нужные CachedLookup.
type Cache interface {
	// Get читает значение по ключу; false, если ключа нет.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// CachedLookup кэширует сырые результаты поиска. Ошибки кэша пишутся
// в лог и не влияют на запрос: при сбое кэша запрос идёт к провайдеру.
type CachedLookup struct {
	inner Lookup
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedLookup оборачивает inner кэшем с временем жизни ttl.
func NewCachedLookup(inner Lookup, cache Cache, ttl time.Duration, log *slog.Logger) *CachedLookup {
	return &CachedLookup{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// SearchNearby возвращает результат из кэша или запрашивает провайдера.
// Ошибки провайдера не кэшируются.
func (c *CachedLookup) SearchNearby(ctx context.Context, origin models.Coordinate, radiusMeters int) ([]RawPlace, error) {
	const op = "places.CachedLookup.SearchNearby"
	log := c.log.With(sl.Op(op))
	key := CacheKey(origin, radiusMeters)

	var cached []RawPlace
	found, err := c.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.PlacesCacheTotal.WithLabelValues("error").Inc()
		log.Warn("failed to read places from cache", slog.String("key", key), sl.Err(err))
	case found:
		metrics.PlacesCacheTotal.WithLabelValues("hit").Inc()
		log.Debug("places cache hit", slog.String("key", key))
		return cached, nil
	default:
		metrics.PlacesCacheTotal.WithLabelValues("miss").Inc()
	}

	raws, err := c.inner.SearchNearby(ctx, origin, radiusMeters)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, raws, c.ttl); err != nil {
		log.Warn("failed to cache places", slog.String("key", key), sl.Err(err))
	}
	return raws, nil
}

// CacheKey строит ключ кэша; координаты округляются до 5 знаков (~1 м).
func CacheKey(origin models.Coordinate, radiusMeters int) string {
	return fmt.Sprintf("places:%.5f:%.5f:%d", origin.Latitude(), origin.Longitude(), radiusMeters)
}
