package repositories

import (
	"errors"

	"chamaai_backend/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.Profile) error
	// FindByID подгружает ServiceProvider с категорией, если он есть
	FindByID(db *gorm.DB, id string) (*models.Profile, error)
	Update(db *gorm.DB, id string, updates map[string]interface{}) error
	// PhoneTaken проверяет телефон у других профилей; excludeID может быть пустым
	PhoneTaken(db *gorm.DB, phone, excludeID string) (bool, error)
}

type profileRepository struct{}

func NewProfileRepository() ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) Create(db *gorm.DB, profile *models.Profile) error {
	if err := db.Create(profile).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *profileRepository) FindByID(db *gorm.DB, id string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Preload("ServiceProvider").Preload("ServiceProvider.Category").
		First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := db.Model(&models.Profile{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return ErrDuplicate
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) PhoneTaken(db *gorm.DB, phone, excludeID string) (bool, error) {
	query := db.Model(&models.Profile{}).Where("phone = ?", phone)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}
