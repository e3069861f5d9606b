package repositories

import (
	"chamaai_backend/internal/models"

	"gorm.io/gorm"
)

type FAQRepository interface {
	// FindAll - вопросы по sort_order; пустой topic означает все темы
	FindAll(db *gorm.DB, topic string) ([]models.FAQQuestion, error)
}

type faqRepository struct{}

func NewFAQRepository() FAQRepository {
	return &faqRepository{}
}

func (r *faqRepository) FindAll(db *gorm.DB, topic string) ([]models.FAQQuestion, error) {
	query := db.Model(&models.FAQQuestion{})
	if topic != "" {
		query = query.Where("topic = ?", topic)
	}
	var questions []models.FAQQuestion
	err := query.Order("sort_order ASC").Order("created_at ASC").Find(&questions).Error
	return questions, err
}
