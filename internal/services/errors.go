package services

import (
	"errors"

	"chamaai_backend/internal/repositories"
	"chamaai_backend/internal/validator"
	"chamaai_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// validationError переводит ошибку валидатора в AppError с картой полей
func validationError(err error) error {
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		return apperrors.ValidationError(vErr.Errors)
	}
	return apperrors.InternalError(err)
}

// handleRepoError сопоставляет ошибки репозиториев с доменными ошибками
func handleRepoError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrProfileNotFound):
		return apperrors.ErrProfileNotFound
	case errors.Is(err, repositories.ErrProviderNotFound):
		return apperrors.ErrProviderNotFound
	case errors.Is(err, repositories.ErrCategoryNotFound):
		return apperrors.ErrCategoryNotFound
	case errors.Is(err, repositories.ErrRequestNotFound):
		return apperrors.ErrRequestNotFound
	case errors.Is(err, repositories.ErrProposalNotFound):
		return apperrors.ErrProposalNotFound
	case errors.Is(err, repositories.ErrSessionNotFound):
		return apperrors.ErrInvalidToken
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound("system", "Record not found")
	}
	return apperrors.InternalError(err)
}
