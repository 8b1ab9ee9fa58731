// Package models содержит доменные сущности и value-объекты сервиса:
// координаты, рейтинг, ценовую категорию, заведение (кафе) и учётную запись.
//
// Value-объекты создаются только через конструкторы New*, которые проверяют
// диапазоны и возвращают ошибку вместо невалидного значения.
package models

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// ErrInvalidCoordinate возвращается, если широта или долгота вне допустимого диапазона.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate - географическая точка. Поля неэкспортируемые, значение неизменяемо.
type Coordinate struct {
	lat float64
	lng float64
}

// NewCoordinate создаёт координату, проверяя latitude ∈ [-90, 90] и longitude ∈ [-180, 180].
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	const op = "models.NewCoordinate"
	if !(lat >= -90 && lat <= 90) {
		return Coordinate{}, fmt.Errorf("%s: %w: latitude %v", op, ErrInvalidCoordinate, lat)
	}
	if !(lng >= -180 && lng <= 180) {
		return Coordinate{}, fmt.Errorf("%s: %w: longitude %v", op, ErrInvalidCoordinate, lng)
	}
	return Coordinate{lat: lat, lng: lng}, nil
}

// Latitude возвращает широту в градусах.
func (c Coordinate) Latitude() float64 { return c.lat }

// Longitude возвращает долготу в градусах.
func (c Coordinate) Longitude() float64 { return c.lng }

// Point возвращает точку orb в порядке (lon, lat).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.lng, c.lat}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.lat, c.lng)
}
