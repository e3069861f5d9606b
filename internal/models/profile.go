package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile - публичные данные пользователя. ID совпадает с users.id.
type Profile struct {
	ID        string  `gorm:"type:uuid;primaryKey"`
	FullName  string  `gorm:"size:60;not null"`
	Phone     *string `gorm:"uniqueIndex"`
	City      string
	State     string
	AvatarURL *string
	UserType  UserType  `gorm:"not null;default:'cliente'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	ServiceProvider *ServiceProvider `gorm:"foreignKey:ProfileID"`
}

// ServiceProvider расширяет профиль данными исполнителя.
// Rating и TotalReviews пересчитываются при каждом новом отзыве.
type ServiceProvider struct {
	BaseModel
	ProfileID         string  `gorm:"type:uuid;uniqueIndex;not null"`
	CategoryID        string  `gorm:"type:uuid;not null;index"`
	Description       string  `gorm:"size:500;not null"`
	RatePerHour       float64 `gorm:"not null"`
	IsVerified        bool    `gorm:"default:false"`
	Rating            float64 `gorm:"default:0"`
	TotalReviews      int     `gorm:"default:0"`
	ServicesCompleted int     `gorm:"default:0"`
	ResponseTime      string
	Specialties       datatypes.JSON

	Profile  Profile  `gorm:"foreignKey:ProfileID"`
	Category Category `gorm:"foreignKey:CategoryID"`
}
