package services

import (
	"context"
	"testing"
	"time"

	"chamaai_backend/internal/cache"
	"chamaai_backend/internal/config"
	"chamaai_backend/internal/email"
	"chamaai_backend/internal/geo"
	"chamaai_backend/internal/validator"
	"chamaai_backend/pkg/apperrors"
	"chamaai_backend/test/testdb"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type testEnv struct {
	db     *gorm.DB
	cfg    *config.Config
	svc    *ServiceContainer
	mailer *email.MockProvider
}

func newTestEnv(t *testing.T, mutate ...func(cfg *config.Config)) *testEnv {
	t.Helper()
	cfg := testdb.Config()
	for _, m := range mutate {
		m(cfg)
	}
	db := testdb.New(t)
	mailer := email.NewMockProvider(email.SMTPConfig{FromEmail: cfg.Email.FromEmail, AppURL: cfg.Email.AppURL})
	geoClient := geo.NewClient(cfg.Geo.BaseURL, time.Second, cache.NewMemoryCache(), time.Minute)

	return &testEnv{
		db:     db,
		cfg:    cfg,
		svc:    NewServiceContainer(cfg, mailer, geoClient, validator.New()),
		mailer: mailer,
	}
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	if assert.Error(t, err) {
		appErr, ok := apperrors.AsAppError(err)
		if assert.True(t, ok, "ожидалась AppError, получено %v", err) {
			assert.Equal(t, code, appErr.Code, "неверный код ошибки: %v", err)
		}
	}
}

func ptr[T any](v T) *T { return &v }

func ctx() context.Context { return context.Background() }
