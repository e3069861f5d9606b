package repositories

import (
	"chamaai_backend/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	ExistsForReviewerAndRequest(db *gorm.DB, reviewerID, requestID string) (bool, error)
	FindByProvider(db *gorm.DB, providerID string, limit, offset int) ([]models.Review, int64, error)
	// RatingStats - средняя оценка и количество отзывов исполнителя
	RatingStats(db *gorm.DB, providerID string) (float64, int64, error)
}

type reviewRepository struct{}

func NewReviewRepository() ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(db *gorm.DB, review *models.Review) error {
	if err := db.Omit("Reviewer").Create(review).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *reviewRepository) ExistsForReviewerAndRequest(db *gorm.DB, reviewerID, requestID string) (bool, error) {
	var count int64
	err := db.Model(&models.Review{}).
		Where("reviewer_id = ? AND request_id = ?", reviewerID, requestID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) FindByProvider(db *gorm.DB, providerID string, limit, offset int) ([]models.Review, int64, error) {
	var total int64
	base := db.Model(&models.Review{}).Where("service_provider_id = ?", providerID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	query := db.Preload("Reviewer").
		Where("service_provider_id = ?", providerID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) RatingStats(db *gorm.DB, providerID string) (float64, int64, error) {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("service_provider_id = ?", providerID).
		Scan(&stats).Error
	return stats.Avg, stats.Count, err
}
