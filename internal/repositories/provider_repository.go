package repositories

import (
	"errors"
	"strings"

	"chamaai_backend/internal/models"

	"gorm.io/gorm"
)

type ProviderFilter struct {
	CategoryID string
	City       string
}

type ProviderRepository interface {
	Create(db *gorm.DB, provider *models.ServiceProvider) error
	FindByID(db *gorm.DB, id string) (*models.ServiceProvider, error)
	FindByProfileID(db *gorm.DB, profileID string) (*models.ServiceProvider, error)
	ExistsForProfile(db *gorm.DB, profileID string) (bool, error)
	Update(db *gorm.DB, id string, updates map[string]interface{}) error
	// List возвращает исполнителей в порядке регистрации (новые первыми)
	List(db *gorm.DB, filter ProviderFilter) ([]models.ServiceProvider, error)
	// SearchServiceProviders - поиск по имени, описанию и названию категории.
	// Сортировка: рейтинг, затем число отзывов.
	SearchServiceProviders(db *gorm.DB, term string) ([]models.ServiceProvider, error)
	IncrementServicesCompleted(db *gorm.DB, id string) error
	UpdateRatingStats(db *gorm.DB, id string, rating float64, totalReviews int64) error
}

type providerRepository struct{}

func NewProviderRepository() ProviderRepository {
	return &providerRepository{}
}

func (r *providerRepository) Create(db *gorm.DB, provider *models.ServiceProvider) error {
	if err := db.Omit("Profile", "Category").Create(provider).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *providerRepository) FindByID(db *gorm.DB, id string) (*models.ServiceProvider, error) {
	var provider models.ServiceProvider
	err := db.Preload("Profile").Preload("Category").First(&provider, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) FindByProfileID(db *gorm.DB, profileID string) (*models.ServiceProvider, error) {
	var provider models.ServiceProvider
	err := db.Preload("Profile").Preload("Category").Where("profile_id = ?", profileID).First(&provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) ExistsForProfile(db *gorm.DB, profileID string) (bool, error) {
	var count int64
	err := db.Model(&models.ServiceProvider{}).Where("profile_id = ?", profileID).Count(&count).Error
	return count > 0, err
}

func (r *providerRepository) Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := db.Model(&models.ServiceProvider{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProviderNotFound
	}
	return nil
}

func (r *providerRepository) List(db *gorm.DB, filter ProviderFilter) ([]models.ServiceProvider, error) {
	query := db.Model(&models.ServiceProvider{}).Preload("Profile").Preload("Category")
	if filter.CategoryID != "" {
		query = query.Where("service_providers.category_id = ?", filter.CategoryID)
	}
	if filter.City != "" {
		query = query.Joins("JOIN profiles ON profiles.id = service_providers.profile_id").
			Where("profiles.city = ?", filter.City)
	}

	var providers []models.ServiceProvider
	err := query.Order("service_providers.created_at DESC").Find(&providers).Error
	return providers, err
}

func (r *providerRepository) SearchServiceProviders(db *gorm.DB, term string) ([]models.ServiceProvider, error) {
	query := db.Model(&models.ServiceProvider{}).Preload("Profile").Preload("Category")

	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.
			Joins("JOIN profiles ON profiles.id = service_providers.profile_id").
			Joins("JOIN categories ON categories.id = service_providers.category_id").
			Where("LOWER(profiles.full_name) LIKE ? OR LOWER(service_providers.description) LIKE ? OR LOWER(categories.name) LIKE ?",
				like, like, like)
	}

	var providers []models.ServiceProvider
	err := query.
		Order("service_providers.rating DESC").
		Order("service_providers.total_reviews DESC").
		Find(&providers).Error
	return providers, err
}

func (r *providerRepository) IncrementServicesCompleted(db *gorm.DB, id string) error {
	result := db.Model(&models.ServiceProvider{}).Where("id = ?", id).
		UpdateColumn("services_completed", gorm.Expr("services_completed + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProviderNotFound
	}
	return nil
}

func (r *providerRepository) UpdateRatingStats(db *gorm.DB, id string, rating float64, totalReviews int64) error {
	result := db.Model(&models.ServiceProvider{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":        rating,
		"total_reviews": totalReviews,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProviderNotFound
	}
	return nil
}
