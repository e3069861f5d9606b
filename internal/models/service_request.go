package models

import "time"

type ServiceRequest struct {
	BaseModel
	ClientID           string        `gorm:"type:uuid;not null;index"`
	Title              string        `gorm:"not null"`
	Description        string        `gorm:"not null"`
	CategoryID         string        `gorm:"type:uuid;not null;index"`
	Status             RequestStatus `gorm:"not null;default:'pending';index"`
	IsPublic           bool          `gorm:"not null"`
	TargetProviderID   *string       `gorm:"type:uuid;index"`
	AssignedProviderID *string       `gorm:"type:uuid;index"`
	AcceptedProposalID *string       `gorm:"type:uuid"`
	ScheduledDate      time.Time     `gorm:"not null"`
	City               string
	State              string
	Address            string
	Budget             *float64
	CompletedAt        *time.Time
	CancelledAt        *time.Time

	Client    Profile    `gorm:"foreignKey:ClientID"`
	Category  Category   `gorm:"foreignKey:CategoryID"`
	Proposals []Proposal `gorm:"foreignKey:RequestID"`
}

// Proposal - предложение исполнителя. Один исполнитель - одно предложение на заявку.
type Proposal struct {
	BaseModel
	RequestID  string         `gorm:"type:uuid;not null;uniqueIndex:idx_proposal_request_provider"`
	ProviderID string         `gorm:"type:uuid;not null;uniqueIndex:idx_proposal_request_provider"`
	Price      float64        `gorm:"not null"`
	Status     ProposalStatus `gorm:"not null;default:'pending';index"`
	Message    string         `gorm:"not null"`

	Request  ServiceRequest  `gorm:"foreignKey:RequestID"`
	Provider ServiceProvider `gorm:"foreignKey:ProviderID"`
}
