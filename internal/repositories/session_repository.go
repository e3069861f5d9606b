package repositories

import (
	"errors"
	"time"

	"chamaai_backend/internal/models"

	"gorm.io/gorm"
)

// SessionRepository - серверные сессии, на которые ссылается claim "sid"
type SessionRepository interface {
	Create(db *gorm.DB, session *models.AuthSession) error
	FindByID(db *gorm.DB, id string) (*models.AuthSession, error)
	// Revoke помечает сессию отозванной; повторный отзыв - ErrSessionNotFound
	Revoke(db *gorm.DB, id string, at time.Time) error
	RevokeAllForUser(db *gorm.DB, userID string, at time.Time) (int64, error)
	// PurgeInactive удаляет истекшие сессии и отозванные раньше revokedBefore
	PurgeInactive(db *gorm.DB, now, revokedBefore time.Time) (int64, error)
}

type sessionRepository struct{}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) Create(db *gorm.DB, session *models.AuthSession) error {
	return db.Create(session).Error
}

func (r *sessionRepository) FindByID(db *gorm.DB, id string) (*models.AuthSession, error) {
	var session models.AuthSession
	if err := db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Revoke(db *gorm.DB, id string, at time.Time) error {
	result := db.Model(&models.AuthSession{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) RevokeAllForUser(db *gorm.DB, userID string, at time.Time) (int64, error) {
	result := db.Model(&models.AuthSession{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at)
	return result.RowsAffected, result.Error
}

func (r *sessionRepository) PurgeInactive(db *gorm.DB, now, revokedBefore time.Time) (int64, error) {
	result := db.Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", now, revokedBefore).
		Delete(&models.AuthSession{})
	return result.RowsAffected, result.Error
}
