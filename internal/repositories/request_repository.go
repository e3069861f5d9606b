package repositories

import (
	"errors"
	"time"

	"chamaai_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestFilter struct {
	CategoryID string
	// ViewerProviderID - исполнитель, которому дополнительно видны адресованные ему приватные заявки
	ViewerProviderID string
}

type RequestRepository interface {
	Create(db *gorm.DB, request *models.ServiceRequest) error
	FindByID(db *gorm.DB, id string) (*models.ServiceRequest, error)
	// FindByIDForUpdate блокирует строку заявки до конца транзакции (sqlite блокировку игнорирует)
	FindByIDForUpdate(tx *gorm.DB, id string) (*models.ServiceRequest, error)
	// ListOpen - доска заявок: только pending, публичные или адресованные исполнителю
	ListOpen(db *gorm.DB, filter RequestFilter) ([]models.ServiceRequest, error)
	ListByClient(db *gorm.DB, clientID string, status models.RequestStatus) ([]models.ServiceRequest, error)
	ListAssignedTo(db *gorm.DB, providerID string) ([]models.ServiceRequest, error)
	// UpdateStatus - условный переход: обновляет только если текущий статус равен from.
	// Возвращает число затронутых строк (0 - переход не состоялся).
	UpdateStatus(db *gorm.DB, id string, from, to models.RequestStatus, extra map[string]interface{}) (int64, error)
	// CancelStalePending отменяет pending-заявки с scheduled_date раньше before
	CancelStalePending(db *gorm.DB, before, now time.Time) (int64, error)
}

type requestRepository struct{}

func NewRequestRepository() RequestRepository {
	return &requestRepository{}
}

func (r *requestRepository) Create(db *gorm.DB, request *models.ServiceRequest) error {
	return db.Omit("Client", "Category", "Proposals").Create(request).Error
}

func (r *requestRepository) FindByID(db *gorm.DB, id string) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := db.Preload("Category").Preload("Client").Preload("Proposals").
		First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) FindByIDForUpdate(tx *gorm.DB, id string) (*models.ServiceRequest, error) {
	return r.FindByID(tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), id)
}

func (r *requestRepository) ListOpen(db *gorm.DB, filter RequestFilter) ([]models.ServiceRequest, error) {
	query := db.Model(&models.ServiceRequest{}).
		Preload("Category").Preload("Client").Preload("Proposals").
		Where("status = ?", models.RequestStatusPending)

	if filter.ViewerProviderID != "" {
		query = query.Where("(is_public = ? OR target_provider_id = ?)", true, filter.ViewerProviderID)
	} else {
		query = query.Where("is_public = ?", true)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	var requests []models.ServiceRequest
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *requestRepository) ListByClient(db *gorm.DB, clientID string, status models.RequestStatus) ([]models.ServiceRequest, error) {
	query := db.Model(&models.ServiceRequest{}).
		Preload("Category").Preload("Proposals").
		Where("client_id = ?", clientID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var requests []models.ServiceRequest
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *requestRepository) ListAssignedTo(db *gorm.DB, providerID string) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := db.Preload("Category").Preload("Client").
		Where("assigned_provider_id = ?", providerID).
		Order("scheduled_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *requestRepository) UpdateStatus(db *gorm.DB, id string, from, to models.RequestStatus, extra map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	result := db.Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *requestRepository) CancelStalePending(db *gorm.DB, before, now time.Time) (int64, error) {
	result := db.Model(&models.ServiceRequest{}).
		Where("status = ? AND scheduled_date < ?", models.RequestStatusPending, before).
		Updates(map[string]interface{}{
			"status":       models.RequestStatusCancelled,
			"cancelled_at": now,
		})
	return result.RowsAffected, result.Error
}
