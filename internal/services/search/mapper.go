package search

import (
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/cafe-finder/internal/lib/geo"
	"github.com/magabrotheeeer/cafe-finder/internal/lib/sl"
	"github.com/magabrotheeeer/cafe-finder/internal/metrics"
	"github.com/magabrotheeeer/cafe-finder/internal/models"
	"github.com/magabrotheeeer/cafe-finder/internal/places"
)

// Значения по умолчанию для отсутствующих полей записи провайдера.
const (
	DefaultName    = "Unknown Cafe"
	DefaultAddress = "Address not available"
)

// MapPlace переводит запись провайдера в Place и считает расстояние от origin.
// Отсутствующая геометрия даёт координаты (0,0), отсутствующий рейтинг - 0.
func MapPlace(raw places.RawPlace, origin models.Coordinate) (models.Place, error) {
	return mapRaw(raw, &origin)
}

// MapDetails переводит запись провайдера в Place без расстояния.
func MapDetails(raw places.RawPlace) (models.Place, error) {
	return mapRaw(raw, nil)
}

func mapRaw(raw places.RawPlace, origin *models.Coordinate) (models.Place, error) {
	const op = "search.MapPlace"

	name := raw.Name
	if name == "" {
		name = DefaultName
	}
	address := raw.Vicinity
	if address == "" {
		address = raw.FormattedAddress
	}
	if address == "" {
		address = DefaultAddress
	}

	var lat, lng float64
	if raw.Geometry != nil && raw.Geometry.Location != nil {
		lat, lng = raw.Geometry.Location.Lat, raw.Geometry.Location.Lng
	}
	loc, err := models.NewCoordinate(lat, lng)
	if err != nil {
		return models.Place{}, fmt.Errorf("%s: place %q: %w", op, raw.PlaceID, err)
	}

	var ratingValue float64
	if raw.Rating != nil {
		ratingValue = *raw.Rating
	}
	rating, err := models.NewRatingScore(ratingValue)
	if err != nil {
		return models.Place{}, fmt.Errorf("%s: place %q: %w", op, raw.PlaceID, err)
	}

	var distance *float64
	if origin != nil {
		d := geo.Distance(*origin, loc)
		distance = &d
	}

	place, err := models.NewPlace(raw.PlaceID, name, address, loc, rating, models.PriceCategoryFromLevel(raw.PriceLevel), distance)
	if err != nil {
		return models.Place{}, fmt.Errorf("%s: %w", op, err)
	}
	return place, nil
}

// MapPlaces переводит пачку записей. Запись с ошибкой пропускается и пишется
// в лог, остальные сохраняют исходный порядок.
func MapPlaces(log *slog.Logger, raws []places.RawPlace, origin models.Coordinate) []models.Place {
	result := make([]models.Place, 0, len(raws))
	for _, raw := range raws {
		place, err := MapPlace(raw, origin)
		if err != nil {
			metrics.PlacesMappingFailures.Inc()
			log.Warn("skipping place that failed to map",
				slog.String("place_id", raw.PlaceID),
				sl.Err(err),
			)
			continue
		}
		result = append(result, place)
	}
	return result
}
