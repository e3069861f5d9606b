package handlers

import (
	"chamaai_backend/internal/services"
	"chamaai_backend/internal/validator"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	ProfileHandler  *ProfileHandler
	ProviderHandler *ProviderHandler
	RequestHandler  *RequestHandler
	ProposalHandler *ProposalHandler
	CatalogHandler  *CatalogHandler
	GeoHandler      *GeoHandler
	FormsHandler    *FormsHandler
}

func NewAppHandlers(svc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		AuthHandler:     NewAuthHandler(base, svc.AuthService),
		ProfileHandler:  NewProfileHandler(base, svc.ProfileService),
		ProviderHandler: NewProviderHandler(base, svc.ProviderService, svc.ProfileService),
		RequestHandler:  NewRequestHandler(base, svc.RequestService, svc.ReviewService),
		ProposalHandler: NewProposalHandler(base, svc.ProposalService),
		CatalogHandler:  NewCatalogHandler(base, svc.CategoryService, svc.FAQService),
		GeoHandler:      NewGeoHandler(base, svc.GeoService),
		FormsHandler:    NewFormsHandler(base),
	}
}
