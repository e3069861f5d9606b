package models

import "time"

// User - учетная запись. Профиль хранится отдельно (profiles.id = users.id).
type User struct {
	BaseModel
	Email              string  `gorm:"uniqueIndex;not null"`
	PasswordHash       string  `gorm:"not null"`
	EmailVerified      bool    `gorm:"default:false"`
	VerificationToken  *string `gorm:"index"`
	VerificationSentAt *time.Time
	LastSignInAt       *time.Time

	Profile *Profile `gorm:"foreignKey:ID;references:ID"`
}

// AuthSession - серверная сессия. JWT несет ее ID в claim "sid",
// поэтому после выхода токен сразу становится бесполезным.
type AuthSession struct {
	BaseModel
	UserID    string     `gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	RevokedAt *time.Time `gorm:"index"`
	UserAgent string
	IP        string
}

func (s *AuthSession) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
