package services

import (
	"context"
	"errors"
	"strings"

	"chamaai_backend/internal/models"
	"chamaai_backend/internal/repositories"
	"chamaai_backend/internal/search"
	"chamaai_backend/internal/services/dto"

	"gorm.io/gorm"
)

const recentReviewsLimit = 5

type ProviderService interface {
	ListProviders(ctx context.Context, db *gorm.DB, req *dto.ProviderSearchRequest) (*dto.ListResponse[dto.ProviderResponse], error)
	SearchServiceProviders(ctx context.Context, db *gorm.DB, term string) (*dto.ListResponse[dto.ProviderResponse], error)
	GetProvider(db *gorm.DB, providerID string) (*dto.ProviderDetailResponse, error)
	ListReviews(ctx context.Context, db *gorm.DB, providerID string, page, pageSize int) (*dto.ListResponse[dto.ReviewResponse], error)
}

type providerService struct {
	providerRepo    repositories.ProviderRepository
	categoryRepo    repositories.CategoryRepository
	reviewRepo      repositories.ReviewRepository
	defaultPageSize int
}

func NewProviderService(
	providerRepo repositories.ProviderRepository,
	categoryRepo repositories.CategoryRepository,
	reviewRepo repositories.ReviewRepository,
	defaultPageSize int,
) ProviderService {
	if defaultPageSize <= 0 {
		defaultPageSize = search.DefaultPageSize
	}
	return &providerService{
		providerRepo:    providerRepo,
		categoryRepo:    categoryRepo,
		reviewRepo:      reviewRepo,
		defaultPageSize: defaultPageSize,
	}
}

// providerParams - ключ Accessor: смена любого поля вызывает новую загрузку
type providerParams struct {
	Category string
	Criteria search.Criteria
}

// ListProviders загружает исполнителей (категория фильтруется в БД),
// прогоняет их через поисковый конвейер и режет на страницы.
func (s *providerService) ListProviders(ctx context.Context, db *gorm.DB, req *dto.ProviderSearchRequest) (*dto.ListResponse[dto.ProviderResponse], error) {
	params := providerParams{
		Category: strings.ToLower(strings.TrimSpace(req.Category)),
		Criteria: search.Criteria{
			Query:    req.Query,
			Location: req.Location,
			Rating:   req.Rating,
			Price:    req.Price,
			Sort:     req.Sort,
		},
	}

	res, err := loadList(ctx, "provider", params, func(ctx context.Context, p providerParams) ([]dto.ProviderResponse, error) {
		tx := db.WithContext(ctx)

		filter := repositories.ProviderFilter{}
		if p.Category != "" && p.Category != search.FilterAll {
			category, err := s.categoryRepo.FindBySlug(tx, p.Category)
			switch {
			case err == nil:
				filter.CategoryID = category.ID
			case errors.Is(err, repositories.ErrCategoryNotFound):
				// неизвестная категория равносильна "all"
			default:
				return nil, err
			}
		}

		providers, err := s.providerRepo.List(tx, filter)
		if err != nil {
			return nil, err
		}
		return search.Providers(providerCards(providers), p.Criteria), nil
	})

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	return paginate(res, req.Page, pageSize), err
}

// SearchServiceProviders - серверный текстовый поиск по имени, описанию и категории
func (s *providerService) SearchServiceProviders(ctx context.Context, db *gorm.DB, term string) (*dto.ListResponse[dto.ProviderResponse], error) {
	res, err := loadList(ctx, "provider", strings.TrimSpace(term), func(ctx context.Context, term string) ([]dto.ProviderResponse, error) {
		providers, err := s.providerRepo.SearchServiceProviders(db.WithContext(ctx), term)
		if err != nil {
			return nil, err
		}
		return providerCards(providers), nil
	})
	return dto.NewListResponse(res, nil), err
}

func (s *providerService) GetProvider(db *gorm.DB, providerID string) (*dto.ProviderDetailResponse, error) {
	provider, err := s.providerRepo.FindByID(db, providerID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	reviews, _, err := s.reviewRepo.FindByProvider(db, providerID, recentReviewsLimit, 0)
	if err != nil {
		return nil, handleRepoError(err)
	}

	resp := &dto.ProviderDetailResponse{
		ProviderResponse: dto.NewProviderResponse(provider),
		Reviews:          make([]dto.ReviewResponse, 0, len(reviews)),
	}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, dto.NewReviewResponse(&reviews[i]))
	}
	return resp, nil
}

type reviewParams struct {
	ProviderID string
	Page       int
	PageSize   int
}

// ListReviews пагинирует отзывы в БД, поэтому total берется из COUNT
func (s *providerService) ListReviews(ctx context.Context, db *gorm.DB, providerID string, page, pageSize int) (*dto.ListResponse[dto.ReviewResponse], error) {
	if _, err := s.providerRepo.FindByID(db.WithContext(ctx), providerID); err != nil {
		return nil, handleRepoError(err)
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}

	var total int64
	params := reviewParams{ProviderID: providerID, Page: page, PageSize: pageSize}
	res, err := loadList(ctx, "review", params, func(ctx context.Context, p reviewParams) ([]dto.ReviewResponse, error) {
		reviews, count, err := s.reviewRepo.FindByProvider(db.WithContext(ctx), p.ProviderID, p.PageSize, (p.Page-1)*p.PageSize)
		if err != nil {
			return nil, err
		}
		total = count
		out := make([]dto.ReviewResponse, 0, len(reviews))
		for i := range reviews {
			out = append(out, dto.NewReviewResponse(&reviews[i]))
		}
		return out, nil
	})

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return dto.NewListResponse(res, &dto.Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: totalPages,
		HasNext:    int64(page*pageSize) < total,
		HasPrev:    page > 1,
	}), err
}

func providerCards(providers []models.ServiceProvider) []dto.ProviderResponse {
	out := make([]dto.ProviderResponse, 0, len(providers))
	for i := range providers {
		out = append(out, dto.NewProviderResponse(&providers[i]))
	}
	return out
}
