// Package testdb - sqlite :memory: с миграциями и фикстурами для тестов.
package testdb

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"chamaai_backend/database"
	"chamaai_backend/internal/auth"
	"chamaai_backend/internal/config"
	"chamaai_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultPassword подходит и под строгие правила исполнителя
const DefaultPassword = "Segura#2024"

// Config - конфигурация приложения для тестов (sqlite, без подтверждения email)
func Config() *config.Config {
	cfg := config.Defaults()
	cfg.Server.Env = "test"
	cfg.Database.Driver = database.DriverSQLite
	cfg.Database.DSN = ":memory:"
	cfg.JWT.Secret = "test-secret"
	cfg.Geo.BaseURL = "http://127.0.0.1:0"
	return cfg
}

// New открывает чистую базу, мигрирует схему и заливает справочники
func New(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(Config())
	if err != nil {
		t.Fatalf("Не удалось открыть тестовую БД: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("Не удалось заполнить справочники: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Category возвращает категорию по slug из засеянного справочника
func Category(t testing.TB, db *gorm.DB, slug string) models.Category {
	t.Helper()
	var c models.Category
	if err := db.Where("slug = ?", slug).First(&c).Error; err != nil {
		t.Fatalf("Категория %s не найдена: %v", slug, err)
	}
	return c
}

// CreateUser создает подтвержденного пользователя с профилем клиента
func CreateUser(t testing.TB, db *gorm.DB, name, email string) (*models.User, *models.Profile) {
	t.Helper()
	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		t.Fatalf("Не удалось хешировать пароль: %v", err)
	}
	user := &models.User{
		Email:         strings.ToLower(email),
		PasswordHash:  hash,
		EmailVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Не удалось создать пользователя %s: %v", email, err)
	}
	profile := &models.Profile{
		ID:       user.ID,
		FullName: name,
		City:     "São Paulo",
		State:    "SP",
		UserType: models.UserTypeClient,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("Не удалось создать профиль %s: %v", email, err)
	}
	user.Profile = profile
	return user, profile
}

type ProviderOpts struct {
	Category    string
	City        string
	RatePerHour float64
	Rating      float64
	Description string
	Specialties []string
}

// CreateProvider создает пользователя-исполнителя
func CreateProvider(t testing.TB, db *gorm.DB, name, email string, opts ProviderOpts) (*models.User, *models.ServiceProvider) {
	t.Helper()
	if opts.Category == "" {
		opts.Category = "faxina"
	}
	if opts.RatePerHour == 0 {
		opts.RatePerHour = 50
	}
	if opts.Description == "" {
		opts.Description = "Profissional com experiência em atendimento residencial."
	}

	user, profile := CreateUser(t, db, name, email)
	updates := map[string]interface{}{"user_type": models.UserTypeProvider}
	if opts.City != "" {
		updates["city"] = opts.City
		profile.City = opts.City
	}
	if err := db.Model(profile).Updates(updates).Error; err != nil {
		t.Fatalf("Не удалось обновить профиль: %v", err)
	}
	profile.UserType = models.UserTypeProvider

	specialties, _ := json.Marshal(opts.Specialties)
	if opts.Specialties == nil {
		specialties = []byte("[]")
	}
	provider := &models.ServiceProvider{
		ProfileID:   profile.ID,
		CategoryID:  Category(t, db, opts.Category).ID,
		Description: opts.Description,
		RatePerHour: opts.RatePerHour,
		Rating:      opts.Rating,
		Specialties: datatypes.JSON(specialties),
	}
	if err := db.Omit("Profile", "Category").Create(provider).Error; err != nil {
		t.Fatalf("Не удалось создать исполнителя %s: %v", email, err)
	}
	return user, provider
}

type RequestOpts struct {
	Category         string
	Status           models.RequestStatus
	ScheduledDate    time.Time
	TargetProviderID string
	City             string
}

// CreateRequest создает заявку клиента
func CreateRequest(t testing.TB, db *gorm.DB, clientID, title string, opts RequestOpts) *models.ServiceRequest {
	t.Helper()
	if opts.Category == "" {
		opts.Category = "faxina"
	}
	if opts.Status == "" {
		opts.Status = models.RequestStatusPending
	}
	if opts.ScheduledDate.IsZero() {
		opts.ScheduledDate = time.Now().UTC().Add(72 * time.Hour)
	}
	if opts.City == "" {
		opts.City = "São Paulo"
	}
	request := &models.ServiceRequest{
		ClientID:      clientID,
		Title:         title,
		Description:   "Descrição detalhada do serviço: " + title,
		CategoryID:    Category(t, db, opts.Category).ID,
		Status:        opts.Status,
		IsPublic:      opts.TargetProviderID == "",
		ScheduledDate: opts.ScheduledDate,
		City:          opts.City,
		State:         "SP",
	}
	if opts.TargetProviderID != "" {
		target := opts.TargetProviderID
		request.TargetProviderID = &target
	}
	if err := db.Omit("Client", "Category", "Proposals").Create(request).Error; err != nil {
		t.Fatalf("Не удалось создать заявку %s: %v", title, err)
	}
	return request
}

// CreateProposal создает pending-предложение исполнителя
func CreateProposal(t testing.TB, db *gorm.DB, requestID, providerID string, price float64) *models.Proposal {
	t.Helper()
	proposal := &models.Proposal{
		RequestID:  requestID,
		ProviderID: providerID,
		Price:      price,
		Status:     models.ProposalStatusPending,
		Message:    "Posso fazer no horário combinado.",
	}
	if err := db.Omit("Request", "Provider").Create(proposal).Error; err != nil {
		t.Fatalf("Не удалось создать предложение: %v", err)
	}
	return proposal
}
