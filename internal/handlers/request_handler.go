package handlers

import (
	"net/http"

	"chamaai_backend/internal/middleware"
	"chamaai_backend/internal/services"
	"chamaai_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	*BaseHandler
	requestService services.RequestService
	reviewService  services.ReviewService
}

func NewRequestHandler(base *BaseHandler, requestService services.RequestService, reviewService services.ReviewService) *RequestHandler {
	return &RequestHandler{
		BaseHandler:    base,
		requestService: requestService,
		reviewService:  reviewService,
	}
}

// RegisterRoutes - доска заявок и карточка открыты и анонимам,
// приватные заявки при этом видны только участникам.
func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/requests")
	{
		public.GET("", h.ListOpen)
		public.GET("/:id", h.GetRequest)
	}

	protected := r.Group("/requests")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", h.CreateRequest)
		protected.GET("/my", h.ListMine)
		protected.POST("/:id/complete", h.CompleteRequest)
		protected.POST("/:id/cancel", h.CancelRequest)
		protected.POST("/:id/reviews", h.SubmitReview)
	}
}

// CreateRequest godoc
// @Summary Новая заявка на услугу
// @Description Категорию можно передать как category_id или как slug в category
// @Tags requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequest true "Заявка"
// @Success 201 {object} dto.ServiceRequestResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateServiceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.requestService.CreateRequest(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListOpen godoc
// @Summary Открытые заявки
// @Tags requests
// @Produce json
// @Param query query string false "Текст"
// @Param category query string false "Ключ категории"
// @Param city query string false "Город"
// @Param sort query string false "recent"
// @Param page query int false "Страница (с 1)"
// @Success 200 {object} dto.ListResponse[dto.ServiceRequestResponse]
// @Router /requests [get]
func (h *RequestHandler) ListOpen(c *gin.Context) {
	var req dto.RequestSearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.requestService.ListOpen(c.Request.Context(), h.GetDB(c), middleware.GetUserID(c), &req)
	RespondList(c, resp, err)
}

// ListMine godoc
// @Summary Мои заявки
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending, in_progress, completed или cancelled"
// @Success 200 {object} dto.ListResponse[dto.ServiceRequestResponse]
// @Router /requests/my [get]
func (h *RequestHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.requestService.ListMine(c.Request.Context(), h.GetDB(c), userID, c.Query("status"))
	RespondList(c, resp, err)
}

// GetRequest godoc
// @Summary Заявка по ID
// @Tags requests
// @Produce json
// @Param id path string true "ID заявки"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	resp, err := h.requestService.GetRequest(h.GetDB(c), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteRequest godoc
// @Summary Завершить заявку (in_progress -> completed)
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID заявки"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 409 {object} apperrors.ErrorResponse "Недопустимый переход"
// @Router /requests/{id}/complete [post]
func (h *RequestHandler) CompleteRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.requestService.CompleteRequest(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CancelRequest godoc
// @Summary Отменить заявку (pending -> cancelled)
// @Tags requests
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID заявки"
// @Success 200 {object} dto.ServiceRequestResponse
// @Failure 409 {object} apperrors.ErrorResponse "Недопустимый переход"
// @Router /requests/{id}/cancel [post]
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.requestService.CancelRequest(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitReview godoc
// @Summary Отзыв об исполнителе завершенной заявки
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID заявки"
// @Param request body dto.CreateReviewRequest true "Отзыв"
// @Success 201 {object} dto.ReviewResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /requests/{id}/reviews [post]
func (h *RequestHandler) SubmitReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.reviewService.SubmitReview(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
