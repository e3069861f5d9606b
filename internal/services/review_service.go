package services

import (
	"errors"
	"math"
	"strings"

	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/models"
	"chamaai_backend/internal/repositories"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/internal/validator"
	"chamaai_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	SubmitReview(db *gorm.DB, reviewerID, requestID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
}

type reviewService struct {
	reviewRepo   repositories.ReviewRepository
	requestRepo  repositories.RequestRepository
	providerRepo repositories.ProviderRepository
	validator    *validator.Validator
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	requestRepo repositories.RequestRepository,
	providerRepo repositories.ProviderRepository,
	v *validator.Validator,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		requestRepo:  requestRepo,
		providerRepo: providerRepo,
		validator:    v,
	}
}

// SubmitReview - отзыв клиента о назначенном исполнителе завершенной заявки.
// Рейтинг исполнителя пересчитывается в той же транзакции.
func (s *reviewService) SubmitReview(db *gorm.DB, reviewerID, requestID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	request, err := s.requestRepo.FindByID(tx, requestID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if request.ClientID != reviewerID {
		return nil, apperrors.ErrReviewNotAllowed
	}
	if request.Status != models.RequestStatusCompleted {
		return nil, invalidRequestState(request.Status, models.RequestStatusCompleted)
	}
	if !sameID(request.AssignedProviderID, req.ProviderID) {
		return nil, apperrors.ErrReviewNotAllowed
	}

	exists, err := s.reviewRepo.ExistsForReviewerAndRequest(tx, reviewerID, request.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateReview
	}

	var comment *string
	if req.Comment != nil {
		if trimmed := strings.TrimSpace(*req.Comment); trimmed != "" {
			comment = &trimmed
		}
	}

	review := &models.Review{
		ServiceProviderID: req.ProviderID,
		ReviewerID:        reviewerID,
		RequestID:         request.ID,
		Rating:            req.Rating,
		Comment:           comment,
	}
	if err := s.reviewRepo.Create(tx, review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateReview
		}
		return nil, apperrors.InternalError(err)
	}

	avg, total, err := s.reviewRepo.RatingStats(tx, req.ProviderID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	rating := math.Round(avg*10) / 10
	if err := s.providerRepo.UpdateRatingStats(tx, req.ProviderID, rating, total); err != nil {
		return nil, handleRepoError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("Review submitted", "provider_id", req.ProviderID, "request_id", request.ID, "rating", rating, "total_reviews", total)

	review.Reviewer = request.Client
	resp := dto.NewReviewResponse(review)
	return &resp, nil
}
