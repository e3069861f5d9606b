package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chamaai_backend/internal/middleware"
	"chamaai_backend/internal/models"
	"chamaai_backend/internal/services"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/internal/session"
	"chamaai_backend/internal/validator"
	"chamaai_backend/pkg/apperrors"
	"chamaai_backend/test/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubAuthService отвечает на SignIn заранее заданным результатом
type stubAuthService struct {
	services.AuthService
	resp *dto.AuthResponse
	err  error
}

func (s *stubAuthService) SignIn(db *gorm.DB, req *dto.SignInRequest, meta services.SessionMeta) (*dto.AuthResponse, error) {
	return s.resp, s.err
}

func noRestore(ctx context.Context, db *gorm.DB, token string) (*session.Identity, error) {
	return nil, apperrors.ErrInvalidToken
}

// signIn выполняет POST /auth/signin и возвращает итоговое состояние сессии запроса
func signIn(t *testing.T, svc services.AuthService) (*httptest.ResponseRecorder, *session.State) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var state *session.State
	r := gin.New()
	r.Use(middleware.DBMiddleware(testdb.New(t)))
	r.Use(middleware.SessionMiddleware(noRestore))
	r.Use(func(c *gin.Context) {
		c.Next()
		state = middleware.GetSession(c)
	})
	h := NewAuthHandler(NewBaseHandler(validator.New()), svc)
	h.RegisterRoutes(r.Group("/api/v1"))

	body, err := json.Marshal(dto.SignInRequest{Email: "maria@example.com", Password: testdb.DefaultPassword})
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.NotNil(t, state)
	return w, state
}

func TestSignIn_FailureLeavesSessionAnonymous(t *testing.T) {
	w, state := signIn(t, &stubAuthService{err: apperrors.ErrInvalidCredentials})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, session.PhaseAnonymous, state.Phase())
	assert.Equal(t, session.LifecycleReady, state.Lifecycle())
	assert.Nil(t, state.Identity())
}

func TestSignIn_SuccessAuthenticatesSession(t *testing.T) {
	resp := &dto.AuthResponse{
		AccessToken: "token",
		SessionID:   "s-1",
		User:        dto.UserInfo{ID: "u-1", Email: "maria@example.com", EmailVerified: true},
		Profile:     &dto.ProfileResponse{ID: "u-1", UserType: models.UserTypeClient},
	}
	w, state := signIn(t, &stubAuthService{resp: resp})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.PhaseAuthenticated, state.Phase())
	identity := state.Identity()
	require.NotNil(t, identity)
	assert.Equal(t, "u-1", identity.UserID)
	assert.Equal(t, "s-1", identity.SessionID)
	assert.Equal(t, "cliente", identity.Role)
}

func TestSignIn_PendingVerificationStaysAnonymous(t *testing.T) {
	resp := &dto.AuthResponse{
		User:                 dto.UserInfo{ID: "u-1", Email: "maria@example.com"},
		VerificationRequired: true,
	}
	w, state := signIn(t, &stubAuthService{resp: resp})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.PhaseAnonymous, state.Phase())
}
