package search

// DefaultPageSize - размер страницы списка исполнителей по умолчанию
const DefaultPageSize = 6

// Page описывает одну страницу элементов.
type Page[T any] struct {
	Items      []T
	Page       int // номер страницы (с 1)
	PageSize   int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// Paginate возвращает срез items для указанной страницы и метаданные.
// page нумеруется с 1. При некорректных значениях используются дефолты.
// Страница за пределами списка пустая, но Total и TotalPages честные.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	total := len(items)

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	// сравнение до умножения: огромный page не переполняет int
	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	totalPages := 0
	if total > 0 {
		totalPages = (total-1)/pageSize + 1
	}

	return Page[T]{
		Items:      pageItems,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    end < total,
		HasPrev:    page > 1,
	}
}
