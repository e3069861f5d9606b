package dto

import (
	"encoding/json"
	"time"

	"chamaai_backend/internal/catalog"
	"chamaai_backend/internal/models"
)

type CategoryResponse struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Name     string   `json:"name"`
	Icon     string   `json:"icon"`
	Synonyms []string `json:"synonyms,omitempty"`
}

// ProviderResponse - карточка исполнителя, а также вход поискового конвейера
type ProviderResponse struct {
	ID                string           `json:"id"`
	ProfileID         string           `json:"profile_id"`
	FullName          string           `json:"full_name"`
	AvatarURL         *string          `json:"avatar_url,omitempty"`
	City              string           `json:"city"`
	State             string           `json:"state"`
	Category          CategoryResponse `json:"category"`
	Description       string           `json:"description"`
	RatePerHour       float64          `json:"rate_per_hour"`
	IsVerified        bool             `json:"is_verified"`
	Rating            float64          `json:"rating"`
	TotalReviews      int              `json:"total_reviews"`
	ServicesCompleted int              `json:"services_completed"`
	ResponseTime      string           `json:"response_time,omitempty"`
	Specialties       []string         `json:"specialties,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

type ProviderDetailResponse struct {
	ProviderResponse
	Reviews []ReviewResponse `json:"reviews"`
}

// ProviderSearchRequest - параметры списка исполнителей. Значения фильтров
// не валидируются: неизвестное значение означает "все".
type ProviderSearchRequest struct {
	Query    string `form:"query"`
	Category string `form:"category"`
	Location string `form:"location"`
	Rating   string `form:"rating"`
	Price    string `form:"price"`
	Sort     string `form:"sort"`
	Page     int    `form:"page" validate:"omitempty,min=1,max=10000"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

func NewCategoryResponse(c *models.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:   c.ID,
		Slug: c.Slug,
		Name: c.Name,
		Icon: c.Icon,
	}
	if entry, ok := catalog.Lookup(c.Slug); ok {
		resp.Synonyms = entry.Synonyms
	}
	return resp
}

// NewProviderResponse ожидает загруженные Profile и Category
func NewProviderResponse(p *models.ServiceProvider) ProviderResponse {
	var specialties []string
	if len(p.Specialties) > 0 {
		_ = json.Unmarshal(p.Specialties, &specialties)
	}
	return ProviderResponse{
		ID:                p.ID,
		ProfileID:         p.ProfileID,
		FullName:          p.Profile.FullName,
		AvatarURL:         p.Profile.AvatarURL,
		City:              p.Profile.City,
		State:             p.Profile.State,
		Category:          NewCategoryResponse(&p.Category),
		Description:       p.Description,
		RatePerHour:       p.RatePerHour,
		IsVerified:        p.IsVerified,
		Rating:            p.Rating,
		TotalReviews:      p.TotalReviews,
		ServicesCompleted: p.ServicesCompleted,
		ResponseTime:      p.ResponseTime,
		Specialties:       specialties,
		CreatedAt:         p.CreatedAt,
	}
}
