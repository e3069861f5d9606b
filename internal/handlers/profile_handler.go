package handlers

import (
	"net/http"

	"chamaai_backend/internal/middleware"
	"chamaai_backend/internal/services"
	"chamaai_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	profile := r.Group("/profile")
	profile.Use(middleware.AuthMiddleware())
	{
		profile.GET("", h.GetProfile)
		profile.PATCH("", h.UpdateProfile)
		profile.GET("/is-provider", h.IsServiceProvider)
	}
}

// GetProfile godoc
// @Summary Профиль текущего пользователя
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MyProfileResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.profileService.GetProfile(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile godoc
// @Summary Частичное обновление профиля
// @Description Пустая строка в phone или avatar_url очищает поле
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Изменяемые поля"
// @Success 200 {object} dto.ProfileResponse
// @Failure 409 {object} apperrors.ErrorResponse "Телефон уже занят"
// @Router /profile [patch]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.profileService.UpdateProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// IsServiceProvider godoc
// @Summary Есть ли у пользователя запись исполнителя
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /profile/is-provider [get]
func (h *ProfileHandler) IsServiceProvider(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	isProvider, err := h.profileService.IsServiceProvider(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_service_provider": isProvider})
}
