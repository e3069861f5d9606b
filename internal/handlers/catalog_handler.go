package handlers

import (
	"chamaai_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// CatalogHandler - справочники: категории и FAQ
type CatalogHandler struct {
	*BaseHandler
	categoryService services.CategoryService
	faqService      services.FAQService
}

func NewCatalogHandler(base *BaseHandler, categoryService services.CategoryService, faqService services.FAQService) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:     base,
		categoryService: categoryService,
		faqService:      faqService,
	}
}

func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/categories", h.ListCategories)
	r.GET("/faq", h.ListFAQ)
}

// ListCategories godoc
// @Summary Категории услуг
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.ListResponse[dto.CategoryResponse]
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	resp, err := h.categoryService.ListCategories(c.Request.Context(), h.GetDB(c))
	RespondList(c, resp, err)
}

// ListFAQ godoc
// @Summary Частые вопросы
// @Tags catalog
// @Produce json
// @Param topic query string false "Тема"
// @Success 200 {object} dto.ListResponse[dto.FAQResponse]
// @Router /faq [get]
func (h *CatalogHandler) ListFAQ(c *gin.Context) {
	resp, err := h.faqService.ListFAQ(c.Request.Context(), h.GetDB(c), c.Query("topic"))
	RespondList(c, resp, err)
}
