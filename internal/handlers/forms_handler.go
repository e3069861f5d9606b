package handlers

import (
	"net/http"

	"chamaai_backend/internal/services/dto"
	"chamaai_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

// FormsHandler - подсказки для форм в реальном времени, без обращения к БД
type FormsHandler struct {
	*BaseHandler
}

func NewFormsHandler(base *BaseHandler) *FormsHandler {
	return &FormsHandler{BaseHandler: base}
}

func (h *FormsHandler) RegisterRoutes(r *gin.RouterGroup) {
	forms := r.Group("/forms")
	{
		forms.POST("/password-strength", h.PasswordStrength)
		forms.POST("/phone/format", h.FormatPhone)
	}
}

// PasswordStrength godoc
// @Summary Оценка надежности пароля
// @Tags forms
// @Accept json
// @Produce json
// @Param request body dto.PasswordStrengthRequest true "Пароль"
// @Success 200 {object} validator.Strength
// @Router /forms/password-strength [post]
func (h *FormsHandler) PasswordStrength(c *gin.Context) {
	var req dto.PasswordStrengthRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, validator.PasswordStrength(req.Password))
}

// FormatPhone godoc
// @Summary Маска телефона по мере ввода
// @Tags forms
// @Accept json
// @Produce json
// @Param request body dto.PhoneFormatRequest true "Телефон в любом виде"
// @Success 200 {object} dto.PhoneFormatResponse
// @Router /forms/phone/format [post]
func (h *FormsHandler) FormatPhone(c *gin.Context) {
	var req dto.PhoneFormatRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	formatted := validator.FormatPhone(req.Phone)
	c.JSON(http.StatusOK, dto.PhoneFormatResponse{
		Formatted: formatted,
		Valid:     validator.IsValidPhone(formatted),
	})
}
