package repositories

import (
	"errors"

	"chamaai_backend/internal/models"

	"gorm.io/gorm"
)

type ProposalRepository interface {
	Create(db *gorm.DB, proposal *models.Proposal) error
	FindByID(db *gorm.DB, id string) (*models.Proposal, error)
	ListByRequest(db *gorm.DB, requestID string) ([]models.Proposal, error)
	ListByProvider(db *gorm.DB, providerID string) ([]models.Proposal, error)
	ExistsForProvider(db *gorm.DB, requestID, providerID string) (bool, error)
	// UpdateStatus - условный переход, см. RequestRepository.UpdateStatus
	UpdateStatus(db *gorm.DB, id string, from, to models.ProposalStatus) (int64, error)
	// RejectSiblings отклоняет остальные pending-предложения заявки и возвращает их ID
	RejectSiblings(db *gorm.DB, requestID, acceptedID string) ([]string, error)
	RejectPendingByRequest(db *gorm.DB, requestID string) (int64, error)
	// RejectPendingForCancelledRequests - pending-предложения у уже отмененных заявок
	RejectPendingForCancelledRequests(db *gorm.DB) (int64, error)
}

type proposalRepository struct{}

func NewProposalRepository() ProposalRepository {
	return &proposalRepository{}
}

func (r *proposalRepository) Create(db *gorm.DB, proposal *models.Proposal) error {
	if err := db.Omit("Request", "Provider").Create(proposal).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *proposalRepository) FindByID(db *gorm.DB, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := db.Preload("Request").Preload("Provider").Preload("Provider.Profile").
		First(&proposal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepository) ListByRequest(db *gorm.DB, requestID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := db.Preload("Provider").Preload("Provider.Profile").Preload("Provider.Category").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&proposals).Error
	return proposals, err
}

func (r *proposalRepository) ListByProvider(db *gorm.DB, providerID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := db.Preload("Request").Preload("Request.Category").
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

func (r *proposalRepository) ExistsForProvider(db *gorm.DB, requestID, providerID string) (bool, error) {
	var count int64
	err := db.Model(&models.Proposal{}).
		Where("request_id = ? AND provider_id = ?", requestID, providerID).
		Count(&count).Error
	return count > 0, err
}

func (r *proposalRepository) UpdateStatus(db *gorm.DB, id string, from, to models.ProposalStatus) (int64, error) {
	result := db.Model(&models.Proposal{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *proposalRepository) RejectSiblings(db *gorm.DB, requestID, acceptedID string) ([]string, error) {
	var ids []string
	err := db.Model(&models.Proposal{}).
		Where("request_id = ? AND id <> ? AND status = ?", requestID, acceptedID, models.ProposalStatusPending).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return ids, err
	}

	err = db.Model(&models.Proposal{}).
		Where("id IN ? AND status = ?", ids, models.ProposalStatusPending).
		Update("status", models.ProposalStatusRejected).Error
	return ids, err
}

func (r *proposalRepository) RejectPendingByRequest(db *gorm.DB, requestID string) (int64, error) {
	result := db.Model(&models.Proposal{}).
		Where("request_id = ? AND status = ?", requestID, models.ProposalStatusPending).
		Update("status", models.ProposalStatusRejected)
	return result.RowsAffected, result.Error
}

func (r *proposalRepository) RejectPendingForCancelledRequests(db *gorm.DB) (int64, error) {
	cancelled := db.Model(&models.ServiceRequest{}).
		Select("id").
		Where("status = ?", models.RequestStatusCancelled)
	result := db.Model(&models.Proposal{}).
		Where("status = ? AND request_id IN (?)", models.ProposalStatusPending, cancelled).
		Update("status", models.ProposalStatusRejected)
	return result.RowsAffected, result.Error
}
