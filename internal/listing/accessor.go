// Package listing - единая обертка "загрузка со статусом" над запросами списков.
package listing

import (
	"context"
	"sync"
)

// Result - триада {data, isLoading, error}
type Result[T any] struct {
	Data      []T      `json:"data"`
	IsLoading bool     `json:"is_loading"`
	Error     *Failure `json:"error"`
}

// Fetcher загружает список по параметрам
type Fetcher[P comparable, T any] func(ctx context.Context, params P) ([]T, error)

// Accessor перезагружает данные, когда меняются параметры, и повторяет загрузку,
// если прошлая попытка с теми же параметрами закончилась ошибкой.
// Кэширования сверх этого нет.
type Accessor[P comparable, T any] struct {
	fetch Fetcher[P, T]

	mu       sync.Mutex
	loaded   bool
	params   P
	result   Result[T]
	lastErr  error
	inFlight int
}

func NewAccessor[P comparable, T any](fetch Fetcher[P, T]) *Accessor[P, T] {
	return &Accessor[P, T]{
		fetch:  fetch,
		result: Result[T]{Data: []T{}},
	}
}

// Load возвращает результат для params, загружая данные при необходимости.
func (a *Accessor[P, T]) Load(ctx context.Context, params P) Result[T] {
	a.mu.Lock()
	if a.loaded && a.params == params && a.result.Error == nil {
		res := a.result
		a.mu.Unlock()
		return res
	}
	a.inFlight++
	a.result.IsLoading = true
	a.mu.Unlock()

	data, err := a.fetch(ctx, params)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.inFlight--

	res := Result[T]{Data: data}
	if res.Data == nil {
		res.Data = []T{}
	}
	if err != nil {
		res.Data = []T{}
		res.Error = newFailure(err)
	}
	a.loaded = true
	a.params = params
	a.lastErr = err
	a.result = res
	a.result.IsLoading = a.inFlight > 0
	return res
}

// Snapshot - текущее состояние без загрузки
func (a *Accessor[P, T]) Snapshot() Result[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Err - исходная ошибка последней загрузки (для логов и ответа API)
func (a *Accessor[P, T]) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}
