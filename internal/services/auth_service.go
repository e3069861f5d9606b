package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"chamaai_backend/internal/auth"
	"chamaai_backend/internal/config"
	"chamaai_backend/internal/email"
	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/models"
	"chamaai_backend/internal/repositories"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/internal/session"
	"chamaai_backend/internal/validator"
	"chamaai_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const tokenTypeBearer = "Bearer"

// SessionMeta - данные клиента, которые сохраняются в строке сессии
type SessionMeta struct {
	UserAgent string
	IP        string
}

type AuthService interface {
	SignUp(db *gorm.DB, req *dto.SignUpRequest, meta SessionMeta) (*dto.AuthResponse, error)
	SignIn(db *gorm.DB, req *dto.SignInRequest, meta SessionMeta) (*dto.AuthResponse, error)
	SignOut(db *gorm.DB, sessionID string) error
	RestoreSession(ctx context.Context, db *gorm.DB, token string) (*session.Identity, error)
	GetSession(db *gorm.DB, identity *session.Identity) (*dto.SessionResponse, error)

	VerifyEmail(db *gorm.DB, token string, meta SessionMeta) (*dto.AuthResponse, error)
	ResendVerification(db *gorm.DB, email string) error

	CheckEmailAvailability(db *gorm.DB, email string) (*dto.AvailabilityResponse, error)
	CheckPhoneAvailability(db *gorm.DB, phone string) (*dto.AvailabilityResponse, error)
}

type authService struct {
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	providerRepo repositories.ProviderRepository
	categoryRepo repositories.CategoryRepository
	sessionRepo  repositories.SessionRepository
	emailService email.Provider
	validator    *validator.Validator
	cfg          *config.Config
	now          func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	providerRepo repositories.ProviderRepository,
	categoryRepo repositories.CategoryRepository,
	sessionRepo repositories.SessionRepository,
	emailService email.Provider,
	v *validator.Validator,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		providerRepo: providerRepo,
		categoryRepo: categoryRepo,
		sessionRepo:  sessionRepo,
		emailService: emailService,
		validator:    v,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ==========================
// Sign up / sign in
// ==========================

func (s *authService) SignUp(db *gorm.DB, req *dto.SignUpRequest, meta SessionMeta) (*dto.AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	fullName := strings.TrimSpace(validator.SanitizeTextInput(req.FullName, 60))
	if fullName == "" {
		return nil, apperrors.FieldError("full_name", "This field is required")
	}

	var details *dto.ProviderDetails
	if req.UserType == models.UserTypeProvider {
		details = req.ProviderDetails()
		if err := s.validator.Validate(details); err != nil {
			return nil, validationError(err)
		}
		if err := s.validator.Validate(&dto.ProviderPassword{Password: req.Password}); err != nil {
			return nil, validationError(err)
		}
	}

	var phone *string
	if req.Phone != "" {
		masked, ok := validator.NormalizePhone(req.Phone)
		if !ok {
			return nil, apperrors.FieldError("phone", "Phone must look like (DD) DDDDD-DDDD or (DD) DDDD-DDDD")
		}
		phone = &masked
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	requireVerification := s.cfg.Auth.RequireEmailVerification
	now := s.now()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	exists, err := s.userRepo.EmailExists(tx, req.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateAccount
	}
	if phone != nil {
		taken, err := s.profileRepo.PhoneTaken(tx, *phone, "")
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if taken {
			return nil, apperrors.ErrDuplicateValue("phone", "Phone already registered")
		}
	}

	user := &models.User{
		Email:         req.Email,
		PasswordHash:  hash,
		EmailVerified: !requireVerification,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateAccount
		}
		return nil, apperrors.InternalError(err)
	}

	profile := &models.Profile{
		ID:       user.ID,
		FullName: fullName,
		Phone:    phone,
		City:     strings.TrimSpace(validator.SanitizeTextInput(req.City, 80)),
		State:    strings.TrimSpace(validator.SanitizeTextInput(req.State, 40)),
		UserType: req.UserType,
	}
	if err := s.profileRepo.Create(tx, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateValue("phone", "Phone already registered")
		}
		return nil, apperrors.InternalError(err)
	}

	isProvider := false
	if details != nil {
		if _, err := createProvider(tx, s.categoryRepo, s.providerRepo, profile.ID, details); err != nil {
			return nil, err
		}
		isProvider = true
	}

	var verificationToken string
	if requireVerification {
		verificationToken = uuid.NewString()
		if err := s.userRepo.SetVerificationToken(tx, user.ID, verificationToken, now); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("User signed up", "user_id", user.ID, "user_type", profile.UserType)

	if requireVerification {
		if err := s.emailService.SendVerification(user.Email, profile.FullName, verificationToken); err != nil {
			logger.Error("Failed to send verification email", "user_id", user.ID, "error", err)
		}
		return &dto.AuthResponse{
			User:                 userInfo(user),
			Profile:              dto.NewProfileResponse(profile),
			IsServiceProvider:    isProvider,
			VerificationRequired: true,
			RedirectTo:           auth.VerificationRedirect,
		}, nil
	}

	return s.openSession(db, user, profile, isProvider, meta)
}

func (s *authService) SignIn(db *gorm.DB, req *dto.SignInRequest, meta SessionMeta) (*dto.AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if s.cfg.Auth.RequireEmailVerification && !user.EmailVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	profile, err := s.profileRepo.FindByID(db, user.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	return s.openSession(db, user, profile, profile.ServiceProvider != nil, meta)
}

// SignOut отзывает серверную сессию, после чего токен больше не принимается
func (s *authService) SignOut(db *gorm.DB, sessionID string) error {
	err := s.sessionRepo.Revoke(db, sessionID, s.now())
	if err != nil && !errors.Is(err, repositories.ErrSessionNotFound) {
		return apperrors.InternalError(err)
	}
	logger.Info("Session revoked", "session_id", sessionID)
	return nil
}

// RestoreSession проверяет токен и строку сессии и собирает Identity.
// Роль берется из профиля, а не из токена: она могла смениться.
func (s *authService) RestoreSession(ctx context.Context, db *gorm.DB, token string) (*session.Identity, error) {
	claims, err := auth.ParseToken(s.cfg.JWT.Secret, token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	db = db.WithContext(ctx)
	sess, err := s.sessionRepo.FindByID(db, claims.SessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !sess.IsActive(s.now()) || sess.UserID != claims.UserID {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Profile == nil {
		return nil, apperrors.ErrProfileNotFound
	}
	isProvider, err := s.providerRepo.ExistsForProfile(db, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &session.Identity{
		UserID:     user.ID,
		ProfileID:  user.Profile.ID,
		Email:      user.Email,
		Role:       string(user.Profile.UserType),
		IsProvider: isProvider,
		SessionID:  sess.ID,
	}, nil
}

func (s *authService) GetSession(db *gorm.DB, identity *session.Identity) (*dto.SessionResponse, error) {
	if identity == nil {
		return nil, apperrors.ErrInvalidToken
	}
	sess, err := s.sessionRepo.FindByID(db, identity.SessionID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	user, err := s.userRepo.FindByID(db, identity.UserID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return &dto.SessionResponse{
		User:              userInfo(user),
		Profile:           dto.NewProfileResponse(user.Profile),
		IsServiceProvider: identity.IsProvider,
		ExpiresAt:         sess.ExpiresAt,
	}, nil
}

// ==========================
// Email verification
// ==========================

func (s *authService) VerifyEmail(db *gorm.DB, token string, meta SessionMeta) (*dto.AuthResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.FieldError("token", "This field is required")
	}

	user, err := s.userRepo.FindByVerificationToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if user.VerificationSentAt == nil || s.now().After(user.VerificationSentAt.Add(s.cfg.VerificationTTL())) {
		return nil, apperrors.ErrInvalidToken.WithMessage("Verification link expired")
	}

	if err := s.userRepo.MarkEmailVerified(db, user.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	user.EmailVerified = true
	logger.Info("Email verified", "user_id", user.ID)

	profile, err := s.profileRepo.FindByID(db, user.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return s.openSession(db, user, profile, profile.ServiceProvider != nil, meta)
}

// ResendVerification молчит про неизвестные и уже подтвержденные адреса
func (s *authService) ResendVerification(db *gorm.DB, address string) error {
	if err := s.validator.Var("email", address, "required,email"); err != nil {
		return validationError(err)
	}

	user, err := s.userRepo.FindByEmail(db, address)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}
	if user.EmailVerified {
		return nil
	}

	token := uuid.NewString()
	if err := s.userRepo.SetVerificationToken(db, user.ID, token, s.now()); err != nil {
		return apperrors.InternalError(err)
	}

	name := ""
	if user.Profile != nil {
		name = user.Profile.FullName
	}
	if err := s.emailService.SendVerification(user.Email, name, token); err != nil {
		logger.Error("Failed to resend verification email", "user_id", user.ID, "error", err)
		return apperrors.InternalError(err)
	}
	return nil
}

// ==========================
// Availability checks
// ==========================

func (s *authService) CheckEmailAvailability(db *gorm.DB, address string) (*dto.AvailabilityResponse, error) {
	resp := &dto.AvailabilityResponse{Field: "email", Value: address}
	if err := s.validator.Var("email", address, "required,email,max=120"); err != nil {
		resp.Status = dto.AvailabilityInvalid
		return resp, nil
	}
	exists, err := s.userRepo.EmailExists(db, address)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp.Status = availability(exists)
	return resp, nil
}

func (s *authService) CheckPhoneAvailability(db *gorm.DB, phone string) (*dto.AvailabilityResponse, error) {
	resp := &dto.AvailabilityResponse{Field: "phone", Value: phone}
	masked, ok := validator.NormalizePhone(phone)
	if !ok {
		resp.Status = dto.AvailabilityInvalid
		return resp, nil
	}
	resp.Value = masked
	taken, err := s.profileRepo.PhoneTaken(db, masked, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp.Status = availability(taken)
	return resp, nil
}

// ==========================
// Helpers
// ==========================

// openSession создает строку auth_sessions и подписывает токен с ее ID
func (s *authService) openSession(db *gorm.DB, user *models.User, profile *models.Profile, isProvider bool, meta SessionMeta) (*dto.AuthResponse, error) {
	now := s.now()
	ttl := s.cfg.TokenTTL()

	sess := &models.AuthSession{
		UserID:    user.ID,
		ExpiresAt: now.Add(ttl),
		UserAgent: meta.UserAgent,
		IP:        meta.IP,
	}
	if err := s.sessionRepo.Create(db, sess); err != nil {
		return nil, apperrors.InternalError(err)
	}

	token, expiresAt, err := auth.GenerateToken(s.cfg.JWT.Secret, ttl, user.ID, string(profile.UserType), sess.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateLastSignIn(db, user.ID, now); err != nil {
		logger.Warn("Failed to update last sign in", "user_id", user.ID, "error", err)
	}

	return &dto.AuthResponse{
		AccessToken:       token,
		TokenType:         tokenTypeBearer,
		ExpiresAt:         &expiresAt,
		SessionID:         sess.ID,
		User:              userInfo(user),
		Profile:           dto.NewProfileResponse(profile),
		IsServiceProvider: isProvider,
		RedirectTo:        auth.RedirectFor(profile.UserType),
	}, nil
}

// createProvider создает строку исполнителя для профиля. Вызывается внутри транзакции.
func createProvider(
	tx *gorm.DB,
	categoryRepo repositories.CategoryRepository,
	providerRepo repositories.ProviderRepository,
	profileID string,
	details *dto.ProviderDetails,
) (*models.ServiceProvider, error) {
	category, err := categoryRepo.FindBySlug(tx, details.Category)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.FieldError("category", "Unknown category")
		}
		return nil, apperrors.InternalError(err)
	}

	specialties, err := encodeSpecialties(details.Specialties)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	provider := &models.ServiceProvider{
		ProfileID:    profileID,
		CategoryID:   category.ID,
		Description:  strings.TrimSpace(details.Description),
		RatePerHour:  details.RatePerHour,
		ResponseTime: strings.TrimSpace(details.ResponseTime),
		Specialties:  specialties,
	}
	if err := providerRepo.Create(tx, provider); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrAlreadyServiceProvider
		}
		return nil, apperrors.InternalError(err)
	}
	return provider, nil
}

func encodeSpecialties(items []string) (datatypes.JSON, error) {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			cleaned = append(cleaned, it)
		}
	}
	raw, err := json.Marshal(cleaned)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func userInfo(u *models.User) dto.UserInfo {
	return dto.UserInfo{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
	}
}

func availability(taken bool) string {
	if taken {
		return dto.AvailabilityTaken
	}
	return dto.AvailabilityAvailable
}
