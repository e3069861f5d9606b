package dto

import (
	"time"

	"chamaai_backend/internal/models"
)

// ======================
// Service requests
// ======================

// CreateServiceRequest - категорию можно передать как category_id (основной способ)
// или как текстовый slug в category (устаревший вариант, оставлен для старых клиентов).
type CreateServiceRequest struct {
	Title            string    `json:"title" validate:"required,max=120"`
	Description      string    `json:"description" validate:"required,max=2000"`
	CategoryID       string    `json:"category_id" validate:"omitempty,uuid"`
	Category         string    `json:"category"`
	ScheduledDate    time.Time `json:"scheduled_date" validate:"required"`
	IsPublic         *bool     `json:"is_public"`
	TargetProviderID *string   `json:"target_provider_id" validate:"omitempty,uuid"`
	City             string    `json:"city" validate:"omitempty,max=80"`
	State            string    `json:"state" validate:"omitempty,max=40"`
	Address          string    `json:"address" validate:"omitempty,max=200"`
	Budget           *float64  `json:"budget" validate:"omitempty,gt=0"`
}

type RequestSearchRequest struct {
	Query    string `form:"query"`
	Category string `form:"category"`
	City     string `form:"city"`
	Sort     string `form:"sort"`
	Page     int    `form:"page" validate:"omitempty,min=1,max=10000"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type ServiceRequestResponse struct {
	ID                 string               `json:"id"`
	ClientID           string               `json:"client_id"`
	ClientName         string               `json:"client_name,omitempty"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	CategoryID         string               `json:"category_id"`
	Category           string               `json:"category"`
	CategoryName       string               `json:"category_name"`
	Status             models.RequestStatus `json:"status"`
	IsPublic           bool                 `json:"is_public"`
	TargetProviderID   *string              `json:"target_provider_id,omitempty"`
	AssignedProviderID *string              `json:"assigned_provider_id,omitempty"`
	AcceptedProposalID *string              `json:"accepted_proposal_id,omitempty"`
	ScheduledDate      time.Time            `json:"scheduled_date"`
	City               string               `json:"city,omitempty"`
	State              string               `json:"state,omitempty"`
	Address            string               `json:"address,omitempty"`
	Budget             *float64             `json:"budget,omitempty"`
	ProposalCount      int                  `json:"proposal_count"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	CompletedAt        *time.Time           `json:"completed_at,omitempty"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
}

func NewServiceRequestResponse(r *models.ServiceRequest) ServiceRequestResponse {
	return ServiceRequestResponse{
		ID:                 r.ID,
		ClientID:           r.ClientID,
		ClientName:         r.Client.FullName,
		Title:              r.Title,
		Description:        r.Description,
		CategoryID:         r.CategoryID,
		Category:           r.Category.Slug,
		CategoryName:       r.Category.Name,
		Status:             r.Status,
		IsPublic:           r.IsPublic,
		TargetProviderID:   r.TargetProviderID,
		AssignedProviderID: r.AssignedProviderID,
		AcceptedProposalID: r.AcceptedProposalID,
		ScheduledDate:      r.ScheduledDate,
		City:               r.City,
		State:              r.State,
		Address:            r.Address,
		Budget:             r.Budget,
		ProposalCount:      len(r.Proposals),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		CompletedAt:        r.CompletedAt,
		CancelledAt:        r.CancelledAt,
	}
}

// ======================
// Proposals
// ======================

type SubmitProposalRequest struct {
	Price   float64 `json:"price" validate:"required,gt=0"`
	Message string  `json:"message" validate:"required,max=1000"`
}

type ProviderSummary struct {
	ID           string  `json:"id"`
	FullName     string  `json:"full_name"`
	Rating       float64 `json:"rating"`
	TotalReviews int     `json:"total_reviews"`
	IsVerified   bool    `json:"is_verified"`
}

// RequestSummary - заявка в списке "мои предложения" исполнителя
type RequestSummary struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Status        models.RequestStatus `json:"status"`
	Category      string               `json:"category"`
	ScheduledDate time.Time            `json:"scheduled_date"`
}

type ProposalResponse struct {
	ID         string                `json:"id"`
	RequestID  string                `json:"request_id"`
	Request    *RequestSummary       `json:"request,omitempty"`
	ProviderID string                `json:"provider_id"`
	Provider   *ProviderSummary      `json:"provider,omitempty"`
	Price      float64               `json:"price"`
	Status     models.ProposalStatus `json:"status"`
	Message    string                `json:"message"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// AcceptProposalResponse - итог составной операции принятия
type AcceptProposalResponse struct {
	Request     ServiceRequestResponse `json:"request"`
	Accepted    ProposalResponse       `json:"accepted"`
	RejectedIDs []string               `json:"rejected_ids"`
}

func NewProposalResponse(p *models.Proposal) ProposalResponse {
	resp := ProposalResponse{
		ID:         p.ID,
		RequestID:  p.RequestID,
		ProviderID: p.ProviderID,
		Price:      p.Price,
		Status:     p.Status,
		Message:    p.Message,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Request.ID != "" {
		resp.Request = &RequestSummary{
			ID:            p.Request.ID,
			Title:         p.Request.Title,
			Status:        p.Request.Status,
			Category:      p.Request.Category.Slug,
			ScheduledDate: p.Request.ScheduledDate,
		}
	}
	if p.Provider.ID != "" {
		resp.Provider = &ProviderSummary{
			ID:           p.Provider.ID,
			FullName:     p.Provider.Profile.FullName,
			Rating:       p.Provider.Rating,
			TotalReviews: p.Provider.TotalReviews,
			IsVerified:   p.Provider.IsVerified,
		}
	}
	return resp
}
