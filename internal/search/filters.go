package search

import (
	"strconv"
	"strings"

	"chamaai_backend/internal/catalog"
)

const FilterAll = "all"

// Ключи фильтра местоположения -> название города
var locations = map[string]string{
	"sao-paulo":      "São Paulo",
	"rio-de-janeiro": "Rio de Janeiro",
	"belo-horizonte": "Belo Horizonte",
	"brasilia":       "Brasília",
	"salvador":       "Salvador",
	"curitiba":       "Curitiba",
	"porto-alegre":   "Porto Alegre",
	"recife":         "Recife",
	"fortaleza":      "Fortaleza",
	"campinas":       "Campinas",
}

// LocationCity возвращает город для ключа фильтра. ok=false для "all" и неизвестных ключей.
func LocationCity(key string) (string, bool) {
	city, ok := locations[strings.ToLower(strings.TrimSpace(key))]
	return city, ok
}

// Locations - ключи фильтра местоположения с названиями (для выпадающего списка)
func Locations() map[string]string {
	out := make(map[string]string, len(locations))
	for k, v := range locations {
		out[k] = v
	}
	return out
}

// ParseRating разбирает токен вида "4+" или "4.5+". ok=false означает "без фильтра".
func ParseRating(token string) (float64, bool) {
	token = strings.TrimSpace(token)
	if token == "" || token == FilterAll {
		return 0, false
	}
	token = strings.TrimSuffix(token, "+")
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || v < 0 || v > 5 {
		return 0, false
	}
	return v, true
}

type PriceRange string

const (
	PriceLow    PriceRange = "low"
	PriceMedium PriceRange = "medium"
	PriceHigh   PriceRange = "high"
)

const (
	priceLowUpper  = 40.0
	priceHighLower = 80.0
)

// ParsePriceRange - неизвестное значение означает "без фильтра"
func ParsePriceRange(s string) (PriceRange, bool) {
	switch PriceRange(strings.ToLower(strings.TrimSpace(s))) {
	case PriceLow:
		return PriceLow, true
	case PriceMedium:
		return PriceMedium, true
	case PriceHigh:
		return PriceHigh, true
	default:
		return "", false
	}
}

// Contains: low < 40, medium [40, 80], high > 80
func (p PriceRange) Contains(rate float64) bool {
	switch p {
	case PriceLow:
		return rate < priceLowUpper
	case PriceMedium:
		return rate >= priceLowUpper && rate <= priceHighLower
	case PriceHigh:
		return rate > priceHighLower
	default:
		return true
	}
}

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortRating    SortKey = "rating"
	SortRecent    SortKey = "recent"
)

func ParseSort(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortRating:
		return SortRating
	case SortRecent:
		return SortRecent
	default:
		return SortRelevance
	}
}

// textMatcher - подготовленный текстовый запрос
type textMatcher struct {
	needle     string
	categories map[string]bool
}

// newTextMatcher возвращает nil для пустого запроса: шаг фильтрации пропускается.
func newTextMatcher(query string) *textMatcher {
	needle := catalog.Fold(query)
	if needle == "" {
		return nil
	}
	m := &textMatcher{needle: needle, categories: map[string]bool{}}
	for _, key := range catalog.MatchSynonyms(needle) {
		m.categories[key] = true
	}
	return m
}

func (m *textMatcher) match(categoryKey string, fields ...string) bool {
	if m.categories[strings.ToLower(categoryKey)] {
		return true
	}
	if strings.Contains(catalog.Fold(categoryKey), m.needle) {
		return true
	}
	for _, f := range fields {
		if strings.Contains(catalog.Fold(f), m.needle) {
			return true
		}
	}
	return false
}
