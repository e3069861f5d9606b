package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID                string `gorm:"type:uuid;primaryKey"`
	ServiceProviderID string `gorm:"type:uuid;not null;index"`
	ReviewerID        string `gorm:"type:uuid;not null;uniqueIndex:idx_review_reviewer_request"`
	RequestID         string `gorm:"type:uuid;not null;uniqueIndex:idx_review_reviewer_request"`
	Rating            int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment           *string
	CreatedAt         time.Time `gorm:"autoCreateTime"`

	Reviewer Profile `gorm:"foreignKey:ReviewerID"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
