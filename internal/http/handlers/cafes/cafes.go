// Package cafes содержит общие для обработчиков поиска части: разбор
// параметров запроса и представление кафе в ответе.
package cafes

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/magabrotheeeer/cafe-finder/internal/models"
	"github.com/magabrotheeeer/cafe-finder/internal/services/recommend"
)

// Ограничения радиуса поиска в метрах.
const (
	DefaultRadius = 1000
	MaxRadius     = 50000
)

// CafeResponse - кафе в ответе API.
type CafeResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Rating         float64  `json:"rating"`
	PriceRange     string   `json:"price_range"`
	DistanceMeters *float64 `json:"distance_meters"`
}

// FromPlace переводит Place в CafeResponse.
func FromPlace(p models.Place) CafeResponse {
	return CafeResponse{
		ID:             p.ID,
		Name:           p.Name,
		Address:        p.Address,
		Latitude:       p.Location.Latitude(),
		Longitude:      p.Location.Longitude(),
		Rating:         p.Rating.Value(),
		PriceRange:     string(p.Price),
		DistanceMeters: p.DistanceMeters,
	}
}

// FromPlaces переводит список, сохраняя порядок.
func FromPlaces(places []models.Place) []CafeResponse {
	out := make([]CafeResponse, 0, len(places))
	for _, p := range places {
		out = append(out, FromPlace(p))
	}
	return out
}

// SearchResult - тело ответа поиска.
type SearchResult struct {
	Total int            `json:"total"`
	Cafes []CafeResponse `json:"cafes"`
}

// SearchQuery - параметры поиска вокруг точки.
type SearchQuery struct {
	Lat    float64 `validate:"gte=-90,lte=90"`
	Lng    float64 `validate:"gte=-180,lte=180"`
	Radius int     `validate:"gte=1,lte=50000"`
}

// Origin возвращает точку поиска. Вызывать после валидации.
func (q SearchQuery) Origin() (models.Coordinate, error) {
	return models.NewCoordinate(q.Lat, q.Lng)
}

// RecommendQuery - параметры рекомендаций.
type RecommendQuery struct {
	SearchQuery
	MinRating       float64 `validate:"gte=0,lte=5"`
	Limit           int     `validate:"gte=0,lte=100"`
	PriceCategories []models.PriceCategory
}

// Filter возвращает фильтр движка рекомендаций.
func (q RecommendQuery) Filter() recommend.Filter {
	return recommend.Filter{
		MinRating:       q.MinRating,
		PriceCategories: q.PriceCategories,
		Limit:           q.Limit,
	}
}

// ParseSearchQuery читает lat, lng и radius. Границы не проверяются,
// это делает валидатор.
func ParseSearchQuery(r *http.Request, defaultRadius int) (SearchQuery, error) {
	q := r.URL.Query()
	if defaultRadius <= 0 {
		defaultRadius = DefaultRadius
	}

	lat, err := requiredFloat(q, "lat")
	if err != nil {
		return SearchQuery{}, err
	}
	lng, err := requiredFloat(q, "lng")
	if err != nil {
		return SearchQuery{}, err
	}
	radius, err := optionalInt(q, "radius", defaultRadius)
	if err != nil {
		return SearchQuery{}, err
	}
	return SearchQuery{Lat: lat, Lng: lng, Radius: radius}, nil
}

// ParseRecommendQuery читает параметры поиска и фильтры рекомендаций.
func ParseRecommendQuery(r *http.Request, defaultRadius int) (RecommendQuery, error) {
	base, err := ParseSearchQuery(r, defaultRadius)
	if err != nil {
		return RecommendQuery{}, err
	}
	q := r.URL.Query()

	minRating, err := optionalFloat(q, "min_rating", 0)
	if err != nil {
		return RecommendQuery{}, err
	}
	limit, err := optionalInt(q, "limit", recommend.DefaultLimit)
	if err != nil {
		return RecommendQuery{}, err
	}
	prices, err := models.ParsePriceCategories(q.Get("price_range"))
	if err != nil {
		return RecommendQuery{}, fmt.Errorf("invalid price_range: %w", err)
	}

	return RecommendQuery{
		SearchQuery:     base,
		MinRating:       minRating,
		Limit:           limit,
		PriceCategories: prices,
	}, nil
}

func requiredFloat(q url.Values, name string) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("query parameter %s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be a number", name)
	}
	return v, nil
}

func optionalFloat(q url.Values, name string, def float64) (float64, error) {
	if q.Get(name) == "" {
		return def, nil
	}
	return requiredFloat(q, name)
}

func optionalInt(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be an integer", name)
	}
	return v, nil
}
