package handlers

import (
	"net/http"

	"chamaai_backend/internal/middleware"
	"chamaai_backend/internal/services"
	"chamaai_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	*BaseHandler
	proposalService services.ProposalService
}

func NewProposalHandler(base *BaseHandler, proposalService services.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler:     base,
		proposalService: proposalService,
	}
}

func (h *ProposalHandler) RegisterRoutes(r *gin.RouterGroup) {
	byRequest := r.Group("/requests/:id/proposals")
	byRequest.Use(middleware.AuthMiddleware())
	{
		byRequest.POST("", middleware.RequireProvider(), h.SubmitProposal)
		byRequest.GET("", h.ListProposals)
	}

	proposals := r.Group("/proposals")
	proposals.Use(middleware.AuthMiddleware())
	{
		proposals.GET("/my", middleware.RequireProvider(), h.ListMyProposals)
		proposals.POST("/:id/accept", h.AcceptProposal)
		proposals.POST("/:id/reject", h.RejectProposal)
	}
}

// SubmitProposal godoc
// @Summary Отправить предложение по заявке
// @Tags proposals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID заявки"
// @Param request body dto.SubmitProposalRequest true "Цена и сообщение"
// @Success 201 {object} dto.ProposalResponse
// @Failure 403 {object} apperrors.ErrorResponse "Не исполнитель или своя заявка"
// @Failure 409 {object} apperrors.ErrorResponse "Уже отправлено или заявка не pending"
// @Router /requests/{id}/proposals [post]
func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitProposalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.proposalService.SubmitProposal(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListProposals godoc
// @Summary Предложения по моей заявке
// @Tags proposals
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID заявки"
// @Success 200 {object} dto.ListResponse[dto.ProposalResponse]
// @Failure 403 {object} apperrors.ErrorResponse "Не владелец заявки"
// @Router /requests/{id}/proposals [get]
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.ListProposals(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	RespondList(c, resp, err)
}

// ListMyProposals godoc
// @Summary Мои предложения (исполнитель)
// @Tags proposals
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ListResponse[dto.ProposalResponse]
// @Router /proposals/my [get]
func (h *ProposalHandler) ListMyProposals(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.ListMyProposals(c.Request.Context(), h.GetDB(c), userID)
	RespondList(c, resp, err)
}

// AcceptProposal godoc
// @Summary Принять предложение
// @Description Атомарно: заявка -> in_progress, предложение -> accepted, остальные pending -> rejected
// @Tags proposals
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID предложения"
// @Success 200 {object} dto.AcceptProposalResponse
// @Failure 409 {object} apperrors.ErrorResponse "Заявка или предложение уже не pending"
// @Router /proposals/{id}/accept [post]
func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.AcceptProposal(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RejectProposal godoc
// @Summary Отклонить предложение
// @Tags proposals
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID предложения"
// @Success 200 {object} dto.ProposalResponse
// @Router /proposals/{id}/reject [post]
func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.proposalService.RejectProposal(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
