package services

import (
	"chamaai_backend/internal/config"
	"chamaai_backend/internal/email"
	"chamaai_backend/internal/geo"
	"chamaai_backend/internal/repositories"
	"chamaai_backend/internal/validator"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService     AuthService
	ProfileService  ProfileService
	ProviderService ProviderService
	CategoryService CategoryService
	RequestService  RequestService
	ProposalService ProposalService
	ReviewService   ReviewService
	FAQService      FAQService
	GeoService      GeoService
	EmailService    email.Provider
}

// NewServiceContainer собирает сервисы поверх stateless-репозиториев
func NewServiceContainer(cfg *config.Config, emailService email.Provider, geoClient geo.Client, v *validator.Validator) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	providerRepo := repositories.NewProviderRepository()
	categoryRepo := repositories.NewCategoryRepository()
	requestRepo := repositories.NewRequestRepository()
	proposalRepo := repositories.NewProposalRepository()
	reviewRepo := repositories.NewReviewRepository()
	sessionRepo := repositories.NewSessionRepository()
	faqRepo := repositories.NewFAQRepository()

	categoryService := NewCategoryService(categoryRepo)

	return &ServiceContainer{
		AuthService:     NewAuthService(userRepo, profileRepo, providerRepo, categoryRepo, sessionRepo, emailService, v, cfg),
		ProfileService:  NewProfileService(profileRepo, providerRepo, categoryRepo, v),
		ProviderService: NewProviderService(providerRepo, categoryRepo, reviewRepo, cfg.Search.PageSize),
		CategoryService: categoryService,
		RequestService:  NewRequestService(requestRepo, proposalRepo, providerRepo, categoryService, v, cfg.Search.PageSize),
		ProposalService: NewProposalService(proposalRepo, requestRepo, providerRepo, userRepo, emailService, v),
		ReviewService:   NewReviewService(reviewRepo, requestRepo, providerRepo, v),
		FAQService:      NewFAQService(faqRepo),
		GeoService:      NewGeoService(geoClient),
		EmailService:    emailService,
	}
}
