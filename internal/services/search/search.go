// Package search отвечает за поиск кафе вокруг точки: обращается к каталогу
// мест и переводит его записи в доменные Place.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
	"github.com/magabrotheeeer/cafe-finder/internal/metrics"
	"github.com/magabrotheeeer/cafe-finder/internal/models"
	"github.com/magabrotheeeer/cafe-finder/internal/places"
)

// ErrPlaceNotFound - каталог не знает места с таким идентификатором.
var ErrPlaceNotFound = errors.New("place not found")

// PlaceLookup ищет записи мест вокруг точки.
type PlaceLookup interface {
	SearchNearby(ctx context.Context, origin models.Coordinate, radiusMeters int) ([]places.RawPlace, error)
}

// PlaceDetails возвращает запись места по идентификатору или nil, если места нет.
type PlaceDetails interface {
	Details(ctx context.Context, placeID string) (*places.RawPlace, error)
}

// Service реализует поиск кафе.
type Service struct {
	lookup  PlaceLookup
	details PlaceDetails
	log     *slog.Logger
}

// NewService создаёт сервис поиска.
func NewService(lookup PlaceLookup, details PlaceDetails, log *slog.Logger) *Service {
	return &Service{
		lookup:  lookup,
		details: details,
		log:     log,
	}
}

// Search возвращает кафе в радиусе radiusMeters от origin с рассчитанным расстоянием.
// Ошибки каталога оборачивают places.ErrUpstream.
func (s *Service) Search(ctx context.Context, origin models.Coordinate, radiusMeters int) ([]models.Place, error) {
	const op = "search.Service.Search"
	log := s.log.With(sl.Op(op))

	raws, err := s.lookup.SearchNearby(ctx, origin, radiusMeters)
	metrics.RecordPlacesLookup(len(raws), err)
	if err != nil {
		log.Error("places lookup failed", sl.Err(err))
		return nil, upstreamError(op, err)
	}

	result := MapPlaces(log, raws, origin)
	log.Debug("mapped places",
		slog.Int("raw", len(raws)),
		slog.Int("mapped", len(result)),
	)
	return result, nil
}

// Details возвращает одно место без расстояния.
func (s *Service) Details(ctx context.Context, placeID string) (*models.Place, error) {
	const op = "search.Service.Details"

	raw, err := s.details.Details(ctx, placeID)
	if err != nil {
		s.log.Error("place details lookup failed", sl.Op(op), slog.String("place_id", placeID), sl.Err(err))
		return nil, upstreamError(op, err)
	}
	if raw == nil {
		return nil, ErrPlaceNotFound
	}

	place, err := MapDetails(*raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &place, nil
}

// upstreamError гарантирует, что ошибка каталога распознаётся как places.ErrUpstream.
func upstreamError(op string, err error) error {
	if errors.Is(err, places.ErrUpstream) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, places.ErrUpstream, err)
}
