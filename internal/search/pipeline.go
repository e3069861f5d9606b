// Package search - конвейер фильтрации, сортировки и пагинации списков.
// Все функции чистые: вход не изменяется, результат всегда новый срез.
package search

import (
	"sort"
	"strings"

	"chamaai_backend/internal/services/dto"
)

// Criteria - параметры поиска исполнителей. Пустые и неизвестные значения фильтров
// равносильны "all".
type Criteria struct {
	Query    string
	Location string
	Rating   string
	Price    string
	Sort     string
}

// Providers применяет фильтры по порядку: текст, место, рейтинг, цена; затем сортировку.
func Providers(items []dto.ProviderResponse, c Criteria) []dto.ProviderResponse {
	out := FilterByQuery(items, c.Query)
	out = FilterByLocation(out, c.Location)
	out = FilterByRating(out, c.Rating)
	out = FilterByPrice(out, c.Price)
	return SortProviders(out, ParseSort(c.Sort))
}

func FilterByQuery(items []dto.ProviderResponse, query string) []dto.ProviderResponse {
	m := newTextMatcher(query)
	if m == nil {
		return clone(items)
	}
	return filter(items, func(p dto.ProviderResponse) bool {
		return m.match(p.Category.Slug, p.Category.Name, p.Description, p.FullName)
	})
}

// FilterByLocation - подстрочное совпадение с городом, соответствующим ключу
func FilterByLocation(items []dto.ProviderResponse, location string) []dto.ProviderResponse {
	city, ok := LocationCity(location)
	if !ok {
		return clone(items)
	}
	return filter(items, func(p dto.ProviderResponse) bool {
		return strings.Contains(p.City, city)
	})
}

func FilterByRating(items []dto.ProviderResponse, token string) []dto.ProviderResponse {
	threshold, ok := ParseRating(token)
	if !ok {
		return clone(items)
	}
	return filter(items, func(p dto.ProviderResponse) bool {
		return p.Rating >= threshold
	})
}

func FilterByPrice(items []dto.ProviderResponse, price string) []dto.ProviderResponse {
	r, ok := ParsePriceRange(price)
	if !ok {
		return clone(items)
	}
	return filter(items, func(p dto.ProviderResponse) bool {
		return r.Contains(p.RatePerHour)
	})
}

// SortProviders - relevance сохраняет порядок входа (его задает upstream-запрос)
func SortProviders(items []dto.ProviderResponse, key SortKey) []dto.ProviderResponse {
	out := clone(items)
	switch key {
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortRecent:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

// RequestCriteria - параметры доски открытых заявок для исполнителей
type RequestCriteria struct {
	Query    string
	Category string
	City     string
	Sort     string
}

// Requests фильтрует заявки по тексту, категории и городу. Сортировка: recent или порядок входа.
func Requests(items []dto.ServiceRequestResponse, c RequestCriteria) []dto.ServiceRequestResponse {
	m := newTextMatcher(c.Query)
	category := strings.ToLower(strings.TrimSpace(c.Category))
	if category == FilterAll {
		category = ""
	}
	city := strings.TrimSpace(c.City)
	if strings.EqualFold(city, FilterAll) {
		city = ""
	}

	out := filter(items, func(r dto.ServiceRequestResponse) bool {
		if m != nil && !m.match(r.Category, r.CategoryName, r.Title, r.Description) {
			return false
		}
		if category != "" && r.Category != category && r.CategoryID != category {
			return false
		}
		if city != "" && !strings.Contains(strings.ToLower(r.City), strings.ToLower(city)) {
			return false
		}
		return true
	})

	if ParseSort(c.Sort) == SortRecent {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
