package handlers

import (
	"net/http"

	"chamaai_backend/internal/middleware"
	"chamaai_backend/internal/services"
	"chamaai_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProviderHandler struct {
	*BaseHandler
	providerService services.ProviderService
	profileService  services.ProfileService
}

func NewProviderHandler(base *BaseHandler, providerService services.ProviderService, profileService services.ProfileService) *ProviderHandler {
	return &ProviderHandler{
		BaseHandler:     base,
		providerService: providerService,
		profileService:  profileService,
	}
}

func (h *ProviderHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/providers")
	{
		public.GET("", h.ListProviders)
		public.GET("/search", h.SearchProviders)
		public.GET("/:id", h.GetProvider)
		public.GET("/:id/reviews", h.ListReviews)
	}

	protected := r.Group("/providers")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", h.BecomeProvider)
		protected.PATCH("/me", h.UpdateMyProvider)
	}
}

// ListProviders godoc
// @Summary Каталог исполнителей
// @Description Фильтры применяются по порядку: текст (с синонимами категорий), место, рейтинг, цена; затем сортировка и страница. Неизвестное значение фильтра означает "все".
// @Tags providers
// @Produce json
// @Param query query string false "Текст"
// @Param category query string false "Ключ категории или all"
// @Param location query string false "Ключ города, например sao-paulo"
// @Param rating query string false "Минимальный рейтинг, например 4+"
// @Param price query string false "low, medium или high"
// @Param sort query string false "relevance, rating или recent"
// @Param page query int false "Страница (с 1)"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.ListResponse[dto.ProviderResponse]
// @Failure 503 {object} dto.ListResponse[dto.ProviderResponse] "Сеть недоступна"
// @Router /providers [get]
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	var req dto.ProviderSearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.providerService.ListProviders(c.Request.Context(), h.GetDB(c), &req)
	RespondList(c, resp, err)
}

// SearchProviders godoc
// @Summary Серверный поиск исполнителей по имени, описанию и категории
// @Tags providers
// @Produce json
// @Param term query string false "Строка поиска"
// @Success 200 {object} dto.ListResponse[dto.ProviderResponse]
// @Router /providers/search [get]
func (h *ProviderHandler) SearchProviders(c *gin.Context) {
	resp, err := h.providerService.SearchServiceProviders(c.Request.Context(), h.GetDB(c), c.Query("term"))
	RespondList(c, resp, err)
}

// GetProvider godoc
// @Summary Карточка исполнителя с последними отзывами
// @Tags providers
// @Produce json
// @Param id path string true "ID исполнителя"
// @Success 200 {object} dto.ProviderDetailResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /providers/{id} [get]
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	resp, err := h.providerService.GetProvider(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListReviews godoc
// @Summary Отзывы об исполнителе
// @Tags providers
// @Produce json
// @Param id path string true "ID исполнителя"
// @Param page query int false "Страница (с 1)"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.ListResponse[dto.ReviewResponse]
// @Router /providers/{id}/reviews [get]
func (h *ProviderHandler) ListReviews(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.providerService.ListReviews(c.Request.Context(), h.GetDB(c), c.Param("id"), page, pageSize)
	RespondList(c, resp, err)
}

// BecomeProvider godoc
// @Summary Стать исполнителем
// @Tags providers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ProviderDetails true "Данные исполнителя"
// @Success 201 {object} dto.ProviderResponse
// @Failure 409 {object} apperrors.ErrorResponse "Уже исполнитель"
// @Router /providers [post]
func (h *ProviderHandler) BecomeProvider(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ProviderDetails
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.profileService.BecomeProvider(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if state := middleware.GetSession(c); state != nil {
		state.SetProvider(true)
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateMyProvider godoc
// @Summary Обновить данные исполнителя
// @Tags providers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProviderRequest true "Изменяемые поля"
// @Success 200 {object} dto.ProviderResponse
// @Failure 403 {object} apperrors.ErrorResponse "Не исполнитель"
// @Router /providers/me [patch]
func (h *ProviderHandler) UpdateMyProvider(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProviderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.profileService.UpdateProviderDetails(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
