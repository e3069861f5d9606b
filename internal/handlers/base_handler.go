package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/middleware"
	"chamaai_backend/internal/services"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/internal/validator"
	"chamaai_backend/pkg/apperrors"
	"chamaai_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPage = 1
	maxPage     = 10000
	maxPageSize = 100
)

// BaseHandler - общие помощники для всех хэндлеров
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// ==========================
// БД запроса
// ==========================

// GetDB возвращает *gorm.DB, положенный DBMiddleware, привязанный к контексту запроса.
// Отсутствие БД в контексте - ошибка сборки роутера, поэтому panic (ловит Recovery).
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	db, err := requestDB(c)
	if err != nil {
		logger.CtxError(c.Request.Context(), "DB not available in request context", "error", err)
		panic(err)
	}
	return db.WithContext(c.Request.Context())
}

func requestDB(c *gin.Context) (*gorm.DB, error) {
	val, ok := c.Get(string(contextkeys.DBContextKey))
	if !ok {
		return nil, fmt.Errorf("DBMiddleware is not installed")
	}
	db, ok := val.(*gorm.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("unexpected db value %T in context", val)
	}
	return db, nil
}

// ==========================
// Привязка и валидация
// ==========================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	return h.bindAndValidate(c, obj, c.ShouldBindJSON, "request body")
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	return h.bindAndValidate(c, obj, c.ShouldBindQuery, "query parameters")
}

func (h *BaseHandler) bindAndValidate(c *gin.Context, obj interface{}, bind func(interface{}) error, source string) bool {
	ctx := c.Request.Context()

	if err := bind(obj); err != nil {
		logger.CtxWarn(ctx, "Bind failed", "source", source, "path", c.Request.URL.Path, "error", err)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid "+source+": "+err.Error()))
		return false
	}

	err := h.validator.Validate(obj)
	if err == nil {
		return true
	}
	if vErr, ok := err.(*validator.ValidationError); ok {
		logger.CtxDebug(ctx, "Validation failed", "source", source, "fields", vErr.Errors)
		apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		return false
	}
	logger.CtxWithError(ctx, "Validator failure", err, "path", c.Request.URL.Path)
	apperrors.HandleError(c, apperrors.InternalError(err))
	return false
}

// ==========================
// Ответы
// ==========================

// HandleServiceError: AppError отдается как есть, остальное становится 500
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		logger.CtxWithError(c.Request.Context(), "Unexpected service error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	if appErr.HTTPCode < http.StatusInternalServerError {
		logger.CtxDebug(c.Request.Context(), "Request rejected", "code", appErr.Code, "domain", appErr.Domain, "details", appErr.Details)
	}
	apperrors.HandleError(c, appErr)
}

// RespondList отдает конверт {data, is_loading, error}. При сбое загрузки
// статус берется из ошибки (503 сеть, 500 запрос), а тело остается конвертом.
func RespondList[T any](c *gin.Context, resp *dto.ListResponse[T], err error) {
	if resp == nil {
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		resp = &dto.ListResponse[T]{Data: []T{}}
	}
	if err == nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	appErr, ok := apperrors.AsAppError(err)
	if !ok || resp.Error == nil {
		apperrors.HandleError(c, err)
		return
	}
	logger.CtxWarn(c.Request.Context(), "List load failed",
		"code", appErr.Code,
		"kind", resp.Error.Kind,
		"error", appErr.Unwrap(),
	)
	c.JSON(appErr.HTTPCode, resp)
}

// ==========================
// Текущий пользователь
// ==========================

// GetAndAuthorizeUserID пишет 401 и возвращает false для анонимного запроса
func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	if userID := middleware.GetUserID(c); userID != "" {
		return userID, true
	}
	logger.CtxWarn(c.Request.Context(), "Anonymous request to protected handler", "path", c.Request.URL.Path)
	apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
	return "", false
}

func sessionMeta(c *gin.Context) services.SessionMeta {
	return services.SessionMeta{UserAgent: c.Request.UserAgent(), IP: c.ClientIP()}
}

// ==========================
// Query-параметры
// ==========================

// ParseQueryInt - нечисловое или пустое значение дает fallback
func ParseQueryInt(c *gin.Context, key string, fallback int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil {
		return n
	}
	return fallback
}

// ParsePagination: страницы с 1; page_size 0 означает размер по умолчанию сервиса
func ParsePagination(c *gin.Context) (page int, pageSize int) {
	page = min(max(ParseQueryInt(c, "page", defaultPage), defaultPage), maxPage)
	pageSize = min(max(ParseQueryInt(c, "page_size", 0), 0), maxPageSize)
	return page, pageSize
}
