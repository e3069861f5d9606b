package handlers

import (
	"chamaai_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type GeoHandler struct {
	*BaseHandler
	geoService services.GeoService
}

func NewGeoHandler(base *BaseHandler, geoService services.GeoService) *GeoHandler {
	return &GeoHandler{
		BaseHandler: base,
		geoService:  geoService,
	}
}

func (h *GeoHandler) RegisterRoutes(r *gin.RouterGroup) {
	geo := r.Group("/geo")
	{
		geo.GET("/states", h.ListStates)
		geo.GET("/states/:id/cities", h.ListCities)
	}
}

// ListStates godoc
// @Summary Штаты (IBGE), по названию
// @Tags geo
// @Produce json
// @Success 200 {object} dto.ListResponse[geo.State]
// @Failure 503 {object} dto.ListResponse[geo.State] "IBGE недоступен"
// @Router /geo/states [get]
func (h *GeoHandler) ListStates(c *gin.Context) {
	resp, err := h.geoService.ListStates(c.Request.Context())
	RespondList(c, resp, err)
}

// ListCities godoc
// @Summary Города штата (IBGE)
// @Tags geo
// @Produce json
// @Param id path int true "ID штата"
// @Success 200 {object} dto.ListResponse[geo.City]
// @Router /geo/states/{id}/cities [get]
func (h *GeoHandler) ListCities(c *gin.Context) {
	resp, err := h.geoService.ListCities(c.Request.Context(), c.Param("id"))
	RespondList(c, resp, err)
}
