// Package places содержит клиент внешнего каталога мест (Google Places)
// и обёртки над ним: circuit breaker и кэш результатов поиска.
//
// Все обёртки реализуют Lookup и могут комбинироваться в любом порядке.
package places

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/cafe-finder/internal/models"
)

// ErrUpstream - каталог мест недоступен или ответил ошибкой.
var ErrUpstream = errors.New("places provider error")

// Lookup ищет сырые записи мест вокруг точки.
type Lookup interface {
	SearchNearby(ctx context.Context, origin models.Coordinate, radiusMeters int) ([]RawPlace, error)
}

// LatLng - координаты места в ответе провайдера.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry - геометрия места в ответе провайдера.
type Geometry struct {
	Location *LatLng `json:"location,omitempty"`
}

// RawPlace - запись места в формате Google Places Nearby Search.
// Необязательные поля - указатели, чтобы отличать отсутствие от нуля.
type RawPlace struct {
	PlaceID          string    `json:"place_id"`
	Name             string    `json:"name"`
	Vicinity         string    `json:"vicinity,omitempty"`
	FormattedAddress string    `json:"formatted_address,omitempty"`
	Geometry         *Geometry `json:"geometry,omitempty"`
	Rating           *float64  `json:"rating,omitempty"`
	PriceLevel       *int      `json:"price_level,omitempty"`
}

// searchResponse - тело ответа nearbysearch и details.
type searchResponse struct {
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Results      []RawPlace `json:"results"`
	Result       *RawPlace  `json:"result,omitempty"`
}

// Статусы ответа Google Places.
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
	statusNotFound    = "NOT_FOUND"
)
