package services

import (
	"context"

	"chamaai_backend/internal/listing"
	"chamaai_backend/internal/search"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/pkg/apperrors"
)

// loadList выполняет загрузку через Accessor и возвращает триаду вместе с ошибкой API.
// Ошибка не nil только если загрузка упала; тело ответа при этом все равно валидно.
func loadList[P comparable, T any](ctx context.Context, domain string, params P, fetch listing.Fetcher[P, T]) (listing.Result[T], error) {
	acc := listing.NewAccessor(fetch)
	res := acc.Load(ctx, params)
	if res.Error == nil {
		return res, nil
	}

	cause := acc.Err()
	if appErr, ok := apperrors.AsAppError(cause); ok &&
		(appErr.Code == apperrors.CodeNetworkError || appErr.Code == apperrors.CodeQueryError) {
		return res, appErr
	}
	return res, res.Error.AsAppError(cause, domain)
}

// paginate режет уже отфильтрованный результат на страницу
func paginate[T any](res listing.Result[T], page, pageSize int) *dto.ListResponse[T] {
	p := search.Paginate(res.Data, page, pageSize)
	res.Data = p.Items
	return dto.NewListResponse(res, &dto.Pagination{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
	})
}
