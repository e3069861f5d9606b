package handlers

import (
	"context"
	"net/http"

	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/middleware"
	"chamaai_backend/internal/services"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/internal/session"
	"chamaai_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/signin", h.SignIn)
		auth.GET("/verify", h.VerifyEmail)
		auth.POST("/resend-verification", h.ResendVerification)
		auth.GET("/check-email", h.CheckEmail)
		auth.GET("/check-phone", h.CheckPhone)
	}

	protected := r.Group("/auth")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/signout", h.SignOut)
		protected.GET("/session", h.GetSession)
	}
}

// SignUp godoc
// @Summary Регистрация клиента или исполнителя
// @Description Создает аккаунт и профиль. Для user_type=prestador нужны category, description и rate_per_hour.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Форма регистрации"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Email или телефон уже заняты"
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	h.authenticate(c, http.StatusCreated, func() (*dto.AuthResponse, error) {
		return h.authService.SignUp(h.GetDB(c), &req, sessionMeta(c))
	})
}

// SignIn godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Учетные данные"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.ErrorResponse "Неверный email или пароль"
// @Failure 403 {object} apperrors.ErrorResponse "Email не подтвержден"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	h.authenticate(c, http.StatusOK, func() (*dto.AuthResponse, error) {
		return h.authService.SignIn(h.GetDB(c), &req, sessionMeta(c))
	})
}

// SignOut godoc
// @Summary Выход
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	state := middleware.GetSession(c)
	identity := state.Identity()

	if err := h.authService.SignOut(h.GetDB(c), identity.SessionID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if err := state.SignOut(); err != nil {
		logger.CtxDebug(c.Request.Context(), "Session state sign-out skipped", "error", err)
	}
	c.Status(http.StatusNoContent)
}

// authenticate проводит состояние сессии запроса через
// anonymous -> authenticating -> authenticated, а при ошибке обратно в anonymous.
// Ответ без токена (ждем подтверждения email) тоже возвращает в anonymous.
func (h *AuthHandler) authenticate(c *gin.Context, status int, call func() (*dto.AuthResponse, error)) {
	ctx := c.Request.Context()
	state := middleware.GetSession(c)
	if state == nil {
		state = session.New()
	}

	// вход поверх действующей сессии заменяет ее
	if state.IsAuthenticated() {
		if err := state.SignOut(); err != nil {
			logger.CtxDebug(ctx, "Session state reset failed", "error", err)
		}
	}
	if err := state.BeginAuth(); err != nil {
		logger.CtxDebug(ctx, "Session state begin auth failed", "error", err)
	}

	resp, err := call()
	if err != nil {
		failAuth(ctx, state)
		h.HandleServiceError(c, err)
		return
	}

	if resp.AccessToken == "" {
		failAuth(ctx, state)
	} else if err := state.CompleteAuth(identityFromAuth(resp)); err != nil {
		logger.CtxDebug(ctx, "Session state complete auth failed", "error", err)
	}
	c.JSON(status, resp)
}

func failAuth(ctx context.Context, state *session.State) {
	if err := state.FailAuth(); err != nil {
		logger.CtxDebug(ctx, "Session state fail auth skipped", "error", err)
	}
}

func identityFromAuth(resp *dto.AuthResponse) *session.Identity {
	identity := &session.Identity{
		UserID:     resp.User.ID,
		Email:      resp.User.Email,
		IsProvider: resp.IsServiceProvider,
		SessionID:  resp.SessionID,
	}
	if resp.Profile != nil {
		identity.ProfileID = resp.Profile.ID
		identity.Role = string(resp.Profile.UserType)
	}
	return identity
}

// GetSession godoc
// @Summary Текущая сессия
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /auth/session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	identity := middleware.GetSession(c).Identity()

	resp, err := h.authService.GetSession(h.GetDB(c), identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyEmail godoc
// @Summary Подтверждение email по токену из письма
// @Tags auth
// @Produce json
// @Param token query string true "Токен подтверждения"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.ErrorResponse "Токен недействителен или истек"
// @Router /auth/verify [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		apperrors.HandleError(c, apperrors.FieldError("token", "This field is required"))
		return
	}

	h.authenticate(c, http.StatusOK, func() (*dto.AuthResponse, error) {
		return h.authService.VerifyEmail(h.GetDB(c), token, sessionMeta(c))
	})
}

// ResendVerification godoc
// @Summary Повторная отправка письма подтверждения
// @Description Ответ одинаковый для любого адреса
// @Tags auth
// @Accept json
// @Param request body dto.ResendVerificationRequest true "Email"
// @Success 202
// @Router /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResendVerification(h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "If the address is registered, a new link was sent"})
}

// CheckEmail godoc
// @Summary Проверка email "на лету"
// @Tags auth
// @Produce json
// @Param email query string true "Email"
// @Success 200 {object} dto.AvailabilityResponse
// @Router /auth/check-email [get]
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	resp, err := h.authService.CheckEmailAvailability(h.GetDB(c), c.Query("email"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckPhone godoc
// @Summary Проверка телефона "на лету"
// @Tags auth
// @Produce json
// @Param phone query string true "Телефон"
// @Success 200 {object} dto.AvailabilityResponse
// @Router /auth/check-phone [get]
func (h *AuthHandler) CheckPhone(c *gin.Context) {
	resp, err := h.authService.CheckPhoneAvailability(h.GetDB(c), c.Query("phone"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
