package integration_test

import (
	"net/http"
	"testing"

	"chamaai_backend/internal/services/dto"
	"chamaai_backend/pkg/apperrors"
	"chamaai_backend/test/helpers"
	"chamaai_backend/test/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signUpBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"email":            email,
		"password":         "senha-forte-1",
		"confirm_password": "senha-forte-1",
		"full_name":        "Carla Mendes",
		"phone":            "(11) 98765-4321",
		"city":             "Campinas",
		"state":            "SP",
		"user_type":        "cliente",
		"accept_terms":     true,
	}
}

// TestAuthFlow - регистрация, сессия и выход
func TestAuthFlow(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signup", "", signUpBody("carla@example.com"))
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var signUp dto.AuthResponse
	helpers.DecodeJSON(t, body, &signUp)
	require.NotEmpty(t, signUp.AccessToken)
	assert.False(t, signUp.VerificationRequired)
	assert.False(t, signUp.IsServiceProvider)
	require.NotNil(t, signUp.Profile)
	assert.Equal(t, "(11) 98765-4321", *signUp.Profile.Phone)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/session", signUp.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "carla@example.com")

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/profile/is-provider", signUp.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.JSONEq(t, `{"is_service_provider":false}`, body)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signout", signUp.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	// отозванная сессия больше не принимается
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/session", signUp.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	token := helpers.Login(t, ts, "carla@example.com", "senha-forte-1")
	assert.NotEqual(t, signUp.AccessToken, token)
}

func TestSignUp_Rejections(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)
	testdb.CreateUser(t, ts.DB, "Maria Oliveira", "maria@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signup", "", signUpBody("MARIA@example.com"))
		assert.Equal(t, http.StatusConflict, res.StatusCode)
		assert.Contains(t, body, string(apperrors.CodeDuplicateAccount))
	})

	t.Run("password mismatch", func(t *testing.T) {
		req := signUpBody("nova@example.com")
		req["confirm_password"] = "outra-senha-1"
		res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signup", "", req)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Contains(t, body, "confirm_password")
	})

	t.Run("terms not accepted", func(t *testing.T) {
		req := signUpBody("nova@example.com")
		req["accept_terms"] = false
		res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signup", "", req)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]interface{}{
			"email":    "maria@example.com",
			"password": "errada",
		})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Contains(t, body, string(apperrors.CodeInvalidCredentials))
	})

	t.Run("no token", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/profile", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		assert.Contains(t, body, string(apperrors.CodeInvalidToken))
	})
}

func TestEmailVerificationFlow(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t, helpers.WithEmailVerification())

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signup", "", signUpBody("carla@example.com"))
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var signUp dto.AuthResponse
	helpers.DecodeJSON(t, body, &signUp)
	assert.True(t, signUp.VerificationRequired)
	assert.Empty(t, signUp.AccessToken)
	assert.NotEmpty(t, signUp.RedirectTo)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]interface{}{
		"email":    "carla@example.com",
		"password": "senha-forte-1",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, body, string(apperrors.CodeEmailNotVerified))

	token := ts.Email.LastVerificationToken("carla@example.com")
	require.NotEmpty(t, token)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/verify?token=nao-existe", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/verify?token="+token, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var verified dto.AuthResponse
	helpers.DecodeJSON(t, body, &verified)
	assert.NotEmpty(t, verified.AccessToken)
	assert.True(t, verified.User.EmailVerified)

	helpers.Login(t, ts, "carla@example.com", "senha-forte-1")

	// для неизвестного адреса ответ тот же
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/resend-verification", "", map[string]interface{}{
		"email": "ninguem@example.com",
	})
	assert.Equal(t, http.StatusAccepted, res.StatusCode)
}

func TestAvailabilityChecks(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)
	testdb.CreateUser(t, ts.DB, "Maria Oliveira", "maria@example.com")

	_, body := ts.SendRequest(t, http.MethodGet, "/api/v1/auth/check-email?email=maria@example.com", "", nil)
	var check dto.AvailabilityResponse
	helpers.DecodeJSON(t, body, &check)
	assert.Equal(t, dto.AvailabilityTaken, check.Status)

	_, body = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/check-email?email=livre@example.com", "", nil)
	helpers.DecodeJSON(t, body, &check)
	assert.Equal(t, dto.AvailabilityAvailable, check.Status)

	_, body = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/check-email?email=sem-arroba", "", nil)
	helpers.DecodeJSON(t, body, &check)
	assert.Equal(t, dto.AvailabilityInvalid, check.Status)
}
