package dto

import (
	"time"

	"chamaai_backend/internal/models"
)

// CreateReviewRequest - отзыв клиента об исполнителе завершенной заявки
type CreateReviewRequest struct {
	ProviderID string  `json:"provider_id" validate:"required,uuid"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

type ReviewResponse struct {
	ID                string    `json:"id"`
	ServiceProviderID string    `json:"service_provider_id"`
	ReviewerID        string    `json:"reviewer_id"`
	ReviewerName      string    `json:"reviewer_name,omitempty"`
	RequestID         string    `json:"request_id"`
	Rating            int       `json:"rating"`
	Comment           *string   `json:"comment,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:                r.ID,
		ServiceProviderID: r.ServiceProviderID,
		ReviewerID:        r.ReviewerID,
		ReviewerName:      r.Reviewer.FullName,
		RequestID:         r.RequestID,
		Rating:            r.Rating,
		Comment:           r.Comment,
		CreatedAt:         r.CreatedAt,
	}
}
