package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidPriceCategory возвращается при разборе неизвестной ценовой категории.
var ErrInvalidPriceCategory = errors.New("invalid price category")

// PriceCategory - грубая ценовая категория заведения.
type PriceCategory string

// Закрытый набор категорий.
const (
	PriceCheap    PriceCategory = "CHEAP"
	PriceMedium   PriceCategory = "MEDIUM"
	PriceHigh     PriceCategory = "HIGH"
	PriceVeryHigh PriceCategory = "VERY_HIGH"
	PriceLuxury   PriceCategory = "LUXURY"
	PriceUnknown  PriceCategory = "UNKNOWN"
)

// AllPriceCategories возвращает все категории в порядке возрастания цены, UNKNOWN последней.
func AllPriceCategories() []PriceCategory {
	return []PriceCategory{PriceCheap, PriceMedium, PriceHigh, PriceVeryHigh, PriceLuxury, PriceUnknown}
}

// PriceCategoryFromLevel переводит price_level провайдера (0..4) в категорию.
// nil и любое другое число дают UNKNOWN.
func PriceCategoryFromLevel(level *int) PriceCategory {
	if level == nil {
		return PriceUnknown
	}
	switch *level {
	case 0:
		return PriceCheap
	case 1:
		return PriceMedium
	case 2:
		return PriceHigh
	case 3:
		return PriceVeryHigh
	case 4:
		return PriceLuxury
	default:
		return PriceUnknown
	}
}

// ParsePriceCategory разбирает название категории без учёта регистра.
func ParsePriceCategory(s string) (PriceCategory, error) {
	want := PriceCategory(strings.ToUpper(strings.TrimSpace(s)))
	if slices.Contains(AllPriceCategories(), want) {
		return want, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriceCategory, s)
}

// ParsePriceCategories разбирает список через запятую, например "CHEAP, medium".
// Пустая строка даёт nil - фильтр по цене не применяется. Пустые элементы пропускаются.
func ParsePriceCategories(s string) ([]PriceCategory, error) {
	const op = "models.ParsePriceCategories"
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var res []PriceCategory
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		pc, err := ParsePriceCategory(part)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, pc)
	}
	return res, nil
}
