package models

import (
	"errors"
	"fmt"
)

// ErrInvalidRating возвращается для рейтинга вне диапазона [0.0, 5.0].
var ErrInvalidRating = errors.New("invalid rating")

// MaxRating - верхняя граница шкалы рейтинга.
const MaxRating = 5.0

// RatingScore - оценка заведения в диапазоне [0.0, 5.0].
type RatingScore struct {
	value float64
}

// NewRatingScore создаёт рейтинг. NaN и значения вне диапазона отклоняются.
func NewRatingScore(v float64) (RatingScore, error) {
	const op = "models.NewRatingScore"
	// NaN не проходит ни одно сравнение, поэтому проверка записана через отрицание
	if !(v >= 0 && v <= MaxRating) {
		return RatingScore{}, fmt.Errorf("%s: %w: %v must be between 0.0 and 5.0", op, ErrInvalidRating, v)
	}
	return RatingScore{value: v}, nil
}

// Value возвращает числовое значение рейтинга.
func (r RatingScore) Value() float64 { return r.value }

// AtLeast сообщает, что рейтинг не ниже threshold.
func (r RatingScore) AtLeast(threshold float64) bool { return r.value >= threshold }

// Compare возвращает -1, 0 или 1.
func (r RatingScore) Compare(other RatingScore) int {
	switch {
	case r.value < other.value:
		return -1
	case r.value > other.value:
		return 1
	default:
		return 0
	}
}
