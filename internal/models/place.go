package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPlace возвращается, если у заведения пустой идентификатор или название.
var ErrInvalidPlace = errors.New("invalid place")

// Place - заведение, полученное из внешнего каталога мест.
// Создаётся заново на каждый поиск и после создания не изменяется.
type Place struct {
	ID       string        // Идентификатор провайдера (place_id), уникальный ключ
	Name     string        // Название
	Address  string        // Адрес
	Location Coordinate    // Координаты заведения
	Rating   RatingScore   // Рейтинг
	Price    PriceCategory // Ценовая категория
	// DistanceMeters заполняется только при поиске и считается от точки запроса.
	DistanceMeters *float64
}

// NewPlace проверяет обязательные поля и собирает Place.
func NewPlace(id, name, address string, loc Coordinate, rating RatingScore, price PriceCategory, distance *float64) (Place, error) {
	const op = "models.NewPlace"
	if id == "" {
		return Place{}, fmt.Errorf("%s: %w: id cannot be empty", op, ErrInvalidPlace)
	}
	if name == "" {
		return Place{}, fmt.Errorf("%s: %w: name cannot be empty", op, ErrInvalidPlace)
	}
	var d *float64
	if distance != nil {
		v := *distance
		d = &v
	}
	return Place{
		ID:             id,
		Name:           name,
		Address:        address,
		Location:       loc,
		Rating:         rating,
		Price:          price,
		DistanceMeters: d,
	}, nil
}

// Equal сравнивает заведения по идентификатору.
func (p Place) Equal(other Place) bool {
	return p.ID == other.ID
}

// HasDistance сообщает, что расстояние от точки запроса известно.
func (p Place) HasDistance() bool {
	return p.DistanceMeters != nil
}

// Distance возвращает расстояние в метрах или +Inf, если оно неизвестно.
func (p Place) Distance() float64 {
	if p.DistanceMeters == nil {
		return math.Inf(1)
	}
	return *p.DistanceMeters
}
