// Package recommend отбирает и ранжирует кафе: фильтр по рейтингу и ценовой
// категории, сортировка по рейтингу и расстоянию, ограничение количества.
package recommend

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/magabrotheeeer/cafe-finder/internal/models"
)

// Ограничения параметров рекомендаций.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidFilter - параметры фильтра вне допустимых границ.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter - параметры отбора.
type Filter struct {
	MinRating float64
	// PriceCategories пустой - без фильтра по цене.
	PriceCategories []models.PriceCategory
	Limit           int
}

// Validate проверяет границы: рейтинг 0..5, limit 0..MaxLimit.
func (f Filter) Validate() error {
	if !(f.MinRating >= 0 && f.MinRating <= models.MaxRating) {
		return fmt.Errorf("%w: min_rating must be between 0 and 5", ErrInvalidFilter)
	}
	if f.Limit < 0 || f.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 0 and %d", ErrInvalidFilter, MaxLimit)
	}
	return nil
}

// Applied - фактически применённые фильтры, возвращаются клиенту.
type Applied struct {
	MinRating   float64                `json:"min_rating"`
	PriceRanges []models.PriceCategory `json:"price_ranges"`
	Limit       int                    `json:"limit"`
}

// Applied возвращает описание фильтра для ответа. Без ценового фильтра
// price_ranges равно null.
func (f Filter) Applied() Applied {
	var prices []models.PriceCategory
	if len(f.PriceCategories) > 0 {
		prices = slices.Clone(f.PriceCategories)
	}
	return Applied{
		MinRating:   f.MinRating,
		PriceRanges: prices,
		Limit:       f.Limit,
	}
}

// Recommend фильтрует, сортирует и обрезает список мест. Входной срез не
// изменяется. Порядок: рейтинг по убыванию, затем расстояние по возрастанию,
// места без расстояния в конце. Равные места сохраняют исходный порядок.
func Recommend(places []models.Place, f Filter) []models.Place {
	if f.Limit <= 0 {
		return []models.Place{}
	}

	result := make([]models.Place, 0, len(places))
	for _, p := range places {
		if !p.Rating.AtLeast(f.MinRating) {
			continue
		}
		if len(f.PriceCategories) > 0 && !slices.Contains(f.PriceCategories, p.Price) {
			continue
		}
		result = append(result, p)
	}

	slices.SortStableFunc(result, compare)

	if len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result
}

func compare(a, b models.Place) int {
	if c := b.Rating.Compare(a.Rating); c != 0 {
		return c
	}
	return cmp.Compare(a.Distance(), b.Distance())
}
