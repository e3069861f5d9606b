package services

import (
	"errors"
	"strings"

	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/models"
	"chamaai_backend/internal/repositories"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/internal/validator"
	"chamaai_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProfileService interface {
	GetProfile(db *gorm.DB, userID string) (*dto.MyProfileResponse, error)
	UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)

	IsServiceProvider(db *gorm.DB, userID string) (bool, error)
	BecomeProvider(db *gorm.DB, userID string, req *dto.ProviderDetails) (*dto.ProviderResponse, error)
	UpdateProviderDetails(db *gorm.DB, userID string, req *dto.UpdateProviderRequest) (*dto.ProviderResponse, error)
}

type profileService struct {
	profileRepo  repositories.ProfileRepository
	providerRepo repositories.ProviderRepository
	categoryRepo repositories.CategoryRepository
	validator    *validator.Validator
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	providerRepo repositories.ProviderRepository,
	categoryRepo repositories.CategoryRepository,
	v *validator.Validator,
) ProfileService {
	return &profileService{
		profileRepo:  profileRepo,
		providerRepo: providerRepo,
		categoryRepo: categoryRepo,
		validator:    v,
	}
}

func (s *profileService) GetProfile(db *gorm.DB, userID string) (*dto.MyProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return dto.NewMyProfileResponse(profile), nil
}

// UpdateProfile - частичное обновление. Пустой phone очищает номер.
func (s *profileService) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	updates := make(map[string]interface{})
	if req.FullName != nil {
		name := strings.TrimSpace(validator.SanitizeTextInput(*req.FullName, 60))
		if name == "" {
			return nil, apperrors.FieldError("full_name", "This field is required")
		}
		updates["full_name"] = name
	}
	if req.City != nil {
		updates["city"] = strings.TrimSpace(validator.SanitizeTextInput(*req.City, 80))
	}
	if req.State != nil {
		updates["state"] = strings.TrimSpace(validator.SanitizeTextInput(*req.State, 40))
	}
	if req.AvatarURL != nil {
		if *req.AvatarURL == "" {
			updates["avatar_url"] = nil
		} else {
			updates["avatar_url"] = *req.AvatarURL
		}
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if req.Phone != nil {
		if *req.Phone == "" {
			updates["phone"] = nil
		} else {
			masked, ok := validator.NormalizePhone(*req.Phone)
			if !ok {
				return nil, apperrors.FieldError("phone", "Phone must look like (DD) DDDDD-DDDD or (DD) DDDD-DDDD")
			}
			taken, err := s.profileRepo.PhoneTaken(tx, masked, userID)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			if taken {
				return nil, apperrors.ErrDuplicateValue("phone", "Phone already registered")
			}
			updates["phone"] = masked
		}
	}

	if len(updates) > 0 {
		if err := s.profileRepo.Update(tx, userID, updates); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, apperrors.ErrDuplicateValue("phone", "Phone already registered")
			}
			return nil, handleRepoError(err)
		}
	}

	profile, err := s.profileRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("Profile updated", "user_id", userID, "fields", len(updates))
	return dto.NewProfileResponse(profile), nil
}

func (s *profileService) IsServiceProvider(db *gorm.DB, userID string) (bool, error) {
	exists, err := s.providerRepo.ExistsForProfile(db, userID)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	return exists, nil
}

// BecomeProvider превращает клиента в исполнителя: строка service_providers
// и смена user_type в одной транзакции.
func (s *profileService) BecomeProvider(db *gorm.DB, userID string, req *dto.ProviderDetails) (*dto.ProviderResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.profileRepo.FindByID(tx, userID); err != nil {
		return nil, handleRepoError(err)
	}
	exists, err := s.providerRepo.ExistsForProfile(tx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrAlreadyServiceProvider
	}

	provider, err := createProvider(tx, s.categoryRepo, s.providerRepo, userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Update(tx, userID, map[string]interface{}{"user_type": models.UserTypeProvider}); err != nil {
		return nil, handleRepoError(err)
	}

	created, err := s.providerRepo.FindByID(tx, provider.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("Profile became service provider", "user_id", userID, "provider_id", created.ID)
	resp := dto.NewProviderResponse(created)
	return &resp, nil
}

func (s *profileService) UpdateProviderDetails(db *gorm.DB, userID string, req *dto.UpdateProviderRequest) (*dto.ProviderResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	provider, err := s.providerRepo.FindByProfileID(tx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProviderNotFound) {
			return nil, apperrors.ErrNotServiceProvider
		}
		return nil, apperrors.InternalError(err)
	}

	updates := make(map[string]interface{})
	if req.Category != nil {
		category, err := s.categoryRepo.FindBySlug(tx, *req.Category)
		if err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return nil, apperrors.FieldError("category", "Unknown category")
			}
			return nil, apperrors.InternalError(err)
		}
		updates["category_id"] = category.ID
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.RatePerHour != nil {
		updates["rate_per_hour"] = *req.RatePerHour
	}
	if req.ResponseTime != nil {
		updates["response_time"] = strings.TrimSpace(*req.ResponseTime)
	}
	if req.Specialties != nil {
		specialties, err := encodeSpecialties(*req.Specialties)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		updates["specialties"] = specialties
	}

	if len(updates) > 0 {
		if err := s.providerRepo.Update(tx, provider.ID, updates); err != nil {
			return nil, handleRepoError(err)
		}
	}

	updated, err := s.providerRepo.FindByID(tx, provider.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewProviderResponse(updated)
	return &resp, nil
}
