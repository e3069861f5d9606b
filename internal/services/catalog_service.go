package services

import (
	"context"
	"errors"
	"strings"

	"chamaai_backend/internal/catalog"
	"chamaai_backend/internal/models"
	"chamaai_backend/internal/repositories"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CategoryService interface {
	ListCategories(ctx context.Context, db *gorm.DB) (*dto.ListResponse[dto.CategoryResponse], error)
	// ResolveCategory ищет по category_id, иначе по slug (или названию, без учета диакритики)
	ResolveCategory(db *gorm.DB, categoryID, slug string) (*models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(ctx context.Context, db *gorm.DB) (*dto.ListResponse[dto.CategoryResponse], error) {
	res, err := loadList(ctx, "category", struct{}{}, func(ctx context.Context, _ struct{}) ([]dto.CategoryResponse, error) {
		categories, err := s.categoryRepo.FindAll(db.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		out := make([]dto.CategoryResponse, 0, len(categories))
		for i := range categories {
			out = append(out, dto.NewCategoryResponse(&categories[i]))
		}
		return out, nil
	})
	return dto.NewListResponse(res, nil), err
}

func (s *categoryService) ResolveCategory(db *gorm.DB, categoryID, slug string) (*models.Category, error) {
	var (
		category *models.Category
		err      error
	)
	switch {
	case strings.TrimSpace(categoryID) != "":
		category, err = s.categoryRepo.FindByID(db, strings.TrimSpace(categoryID))
	case strings.TrimSpace(slug) != "":
		category, err = s.categoryRepo.FindBySlug(db, catalog.Fold(slug))
	default:
		return nil, apperrors.FieldError("category_id", "This field is required")
	}
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return category, nil
}

type FAQService interface {
	ListFAQ(ctx context.Context, db *gorm.DB, topic string) (*dto.ListResponse[dto.FAQResponse], error)
}

type faqService struct {
	faqRepo repositories.FAQRepository
}

func NewFAQService(faqRepo repositories.FAQRepository) FAQService {
	return &faqService{faqRepo: faqRepo}
}

func (s *faqService) ListFAQ(ctx context.Context, db *gorm.DB, topic string) (*dto.ListResponse[dto.FAQResponse], error) {
	res, err := loadList(ctx, "faq", strings.TrimSpace(topic), func(ctx context.Context, topic string) ([]dto.FAQResponse, error) {
		questions, err := s.faqRepo.FindAll(db.WithContext(ctx), topic)
		if err != nil {
			return nil, err
		}
		out := make([]dto.FAQResponse, 0, len(questions))
		for i := range questions {
			out = append(out, dto.NewFAQResponse(&questions[i]))
		}
		return out, nil
	})
	return dto.NewListResponse(res, nil), err
}
