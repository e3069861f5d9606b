package dto

import (
	"time"

	"chamaai_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

// SignUpRequest - форма регистрации. Поля исполнителя (category, description,
// rate_per_hour) проверяются сервисом отдельно, только для user_type = prestador.
type SignUpRequest struct {
	Email           string          `json:"email" validate:"required,email,max=120"`
	Password        string          `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string          `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string          `json:"full_name" validate:"required,max=60"`
	Phone           string          `json:"phone" validate:"omitempty,br-phone"`
	City            string          `json:"city" validate:"omitempty,max=80"`
	State           string          `json:"state" validate:"omitempty,max=40"`
	UserType        models.UserType `json:"user_type" validate:"required,user-type"`
	AcceptTerms     bool            `json:"accept_terms" validate:"accepted"`

	Category     string   `json:"category,omitempty"`
	Description  string   `json:"description,omitempty"`
	RatePerHour  float64  `json:"rate_per_hour,omitempty"`
	Specialties  []string `json:"specialties,omitempty"`
	ResponseTime string   `json:"response_time,omitempty"`
}

// ProviderDetails - данные исполнителя (регистрация и "стать исполнителем")
type ProviderDetails struct {
	Category     string   `json:"category" validate:"required,category-key"`
	Description  string   `json:"description" validate:"required,min=30,max=500"`
	RatePerHour  float64  `json:"rate_per_hour" validate:"required,gte=30,lte=500"`
	Specialties  []string `json:"specialties" validate:"omitempty,max=10,dive,max=40,sanitized"`
	ResponseTime string   `json:"response_time" validate:"omitempty,max=40,sanitized"`
}

// ProviderPassword - исполнителю нужен пароль со всеми классами символов
type ProviderPassword struct {
	Password string `json:"password" validate:"strong-password"`
}

// ProviderDetails вытаскивает из формы регистрации поля исполнителя
func (r *SignUpRequest) ProviderDetails() *ProviderDetails {
	return &ProviderDetails{
		Category:     r.Category,
		Description:  r.Description,
		RatePerHour:  r.RatePerHour,
		Specialties:  r.Specialties,
		ResponseTime: r.ResponseTime,
	}
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdateProfileRequest - частичное обновление, nil означает "не менять"
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=60"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,br-phone"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=80"`
	State     *string `json:"state,omitempty" validate:"omitempty,max=40"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type UpdateProviderRequest struct {
	Category     *string   `json:"category,omitempty" validate:"omitempty,category-key"`
	Description  *string   `json:"description,omitempty" validate:"omitempty,min=30,max=500"`
	RatePerHour  *float64  `json:"rate_per_hour,omitempty" validate:"omitempty,gte=30,lte=500"`
	Specialties  *[]string `json:"specialties,omitempty" validate:"omitempty,max=10,dive,max=40"`
	ResponseTime *string   `json:"response_time,omitempty" validate:"omitempty,max=40"`
}

// ======================
// Response DTOs
// ======================

type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

type ProfileResponse struct {
	ID        string          `json:"id"`
	FullName  string          `json:"full_name"`
	Phone     *string         `json:"phone,omitempty"`
	City      string          `json:"city"`
	State     string          `json:"state"`
	AvatarURL *string         `json:"avatar_url,omitempty"`
	UserType  models.UserType `json:"user_type"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AuthResponse - ответ signUp/signIn. RedirectTo подсказывает клиенту, куда перейти.
type AuthResponse struct {
	AccessToken          string           `json:"access_token,omitempty"`
	TokenType            string           `json:"token_type,omitempty"`
	ExpiresAt            *time.Time       `json:"expires_at,omitempty"`
	SessionID            string           `json:"-"`
	User                 UserInfo         `json:"user"`
	Profile              *ProfileResponse `json:"profile"`
	IsServiceProvider    bool             `json:"is_service_provider"`
	VerificationRequired bool             `json:"verification_required"`
	RedirectTo           string           `json:"redirect_to"`
}

type SessionResponse struct {
	User              UserInfo         `json:"user"`
	Profile           *ProfileResponse `json:"profile"`
	IsServiceProvider bool             `json:"is_service_provider"`
	ExpiresAt         time.Time        `json:"expires_at"`
}

const (
	AvailabilityAvailable = "available"
	AvailabilityTaken     = "taken"
	AvailabilityInvalid   = "invalid"
)

// AvailabilityResponse - результат проверки уникальности email/телефона "на лету"
type AvailabilityResponse struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Status string `json:"status"`
}

func NewProfileResponse(p *models.Profile) *ProfileResponse {
	if p == nil {
		return nil
	}
	return &ProfileResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Phone:     p.Phone,
		City:      p.City,
		State:     p.State,
		AvatarURL: p.AvatarURL,
		UserType:  p.UserType,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// MyProfileResponse - профиль текущего пользователя вместе с данными исполнителя
type MyProfileResponse struct {
	Profile           *ProfileResponse  `json:"profile"`
	IsServiceProvider bool              `json:"is_service_provider"`
	Provider          *ProviderResponse `json:"provider,omitempty"`
}

// NewMyProfileResponse ожидает профиль с загруженными ServiceProvider и его Category
func NewMyProfileResponse(p *models.Profile) *MyProfileResponse {
	resp := &MyProfileResponse{Profile: NewProfileResponse(p)}
	if p.ServiceProvider != nil {
		provider := *p.ServiceProvider
		provider.Profile = *p
		provider.Profile.ServiceProvider = nil
		card := NewProviderResponse(&provider)
		resp.IsServiceProvider = true
		resp.Provider = &card
	}
	return resp
}
