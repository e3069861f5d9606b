package services

import (
	"context"
	"testing"
	"time"

	"chamaai_backend/internal/config"
	"chamaai_backend/internal/models"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/pkg/apperrors"
	"chamaai_backend/test/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func clientSignUp(emailAddr string) *dto.SignUpRequest {
	return &dto.SignUpRequest{
		Email:           emailAddr,
		Password:        "senha1234",
		ConfirmPassword: "senha1234",
		FullName:        "Maria Oliveira",
		Phone:           "(11) 98765-4321",
		City:            "São Paulo",
		State:           "SP",
		UserType:        models.UserTypeClient,
		AcceptTerms:     true,
	}
}

func providerSignUp(emailAddr string) *dto.SignUpRequest {
	req := clientSignUp(emailAddr)
	req.Password = testdb.DefaultPassword
	req.ConfirmPassword = testdb.DefaultPassword
	req.Phone = ""
	req.UserType = models.UserTypeProvider
	req.Category = "eletrica"
	req.Description = "Eletricista com dez anos de experiência em instalações residenciais."
	req.RatePerHour = 90
	req.Specialties = []string{"tomadas", " chuveiros "}
	return req
}

func TestAuthService_SignUpClient(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.AuthService.SignUp(env.db, clientSignUp("Maria@Example.com"), SessionMeta{UserAgent: "test"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "/dashboard", resp.RedirectTo)
	assert.False(t, resp.IsServiceProvider)
	assert.False(t, resp.VerificationRequired)
	assert.Equal(t, "maria@example.com", resp.User.Email)
	require.NotNil(t, resp.Profile.Phone)
	assert.Equal(t, "(11) 98765-4321", *resp.Profile.Phone)

	identity, err := env.svc.AuthService.RestoreSession(context.Background(), env.db, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.UserID)
	assert.Equal(t, string(models.UserTypeClient), identity.Role)
	assert.Equal(t, resp.SessionID, identity.SessionID)
}

func TestAuthService_SignUpDuplicates(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.AuthService.SignUp(env.db, clientSignUp("maria@example.com"), SessionMeta{})
	require.NoError(t, err)

	_, err = env.svc.AuthService.SignUp(env.db, clientSignUp("MARIA@example.com"), SessionMeta{})
	assertCode(t, err, apperrors.CodeDuplicateAccount)

	other := clientSignUp("outra@example.com")
	_, err = env.svc.AuthService.SignUp(env.db, other, SessionMeta{})
	assertCode(t, err, apperrors.CodeDuplicateValue)
}

func TestAuthService_SignUpProvider(t *testing.T) {
	env := newTestEnv(t)

	t.Run("details required", func(t *testing.T) {
		req := providerSignUp("joao@example.com")
		req.Description = ""
		_, err := env.svc.AuthService.SignUp(env.db, req, SessionMeta{})
		assertCode(t, err, apperrors.CodeValidationFailed)
	})

	t.Run("strict password", func(t *testing.T) {
		req := providerSignUp("joao@example.com")
		req.Password = "senhafraca1"
		req.ConfirmPassword = "senhafraca1"
		_, err := env.svc.AuthService.SignUp(env.db, req, SessionMeta{})
		assertCode(t, err, apperrors.CodeValidationFailed)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, map[string]string{
			"password": "Password must have upper and lower case letters, a digit and a symbol",
		}, appErr.Details)
	})

	t.Run("markup in specialties", func(t *testing.T) {
		req := providerSignUp("joao@example.com")
		req.Specialties = []string{"tomadas", "<script>"}
		_, err := env.svc.AuthService.SignUp(env.db, req, SessionMeta{})
		assertCode(t, err, apperrors.CodeValidationFailed)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Contains(t, appErr.Details, "specialties[1]")
	})

	t.Run("success", func(t *testing.T) {
		resp, err := env.svc.AuthService.SignUp(env.db, providerSignUp("joao@example.com"), SessionMeta{})
		require.NoError(t, err)
		assert.True(t, resp.IsServiceProvider)
		assert.Equal(t, "/painel-prestador", resp.RedirectTo)

		profile, err := env.svc.ProfileService.GetProfile(env.db, resp.User.ID)
		require.NoError(t, err)
		require.NotNil(t, profile.Provider)
		assert.Equal(t, "eletrica", profile.Provider.Category.Slug)
		assert.Equal(t, []string{"tomadas", "chuveiros"}, profile.Provider.Specialties)
	})
}

func TestAuthService_SignInAndSignOut(t *testing.T) {
	env := newTestEnv(t)
	testdb.CreateUser(t, env.db, "Ana Souza", "ana@example.com")

	_, err := env.svc.AuthService.SignIn(env.db, &dto.SignInRequest{Email: "ana@example.com", Password: "errada123"}, SessionMeta{})
	assertCode(t, err, apperrors.CodeInvalidCredentials)

	_, err = env.svc.AuthService.SignIn(env.db, &dto.SignInRequest{Email: "ninguem@example.com", Password: "errada123"}, SessionMeta{})
	assertCode(t, err, apperrors.CodeInvalidCredentials)

	resp, err := env.svc.AuthService.SignIn(env.db, &dto.SignInRequest{Email: "ANA@example.com", Password: testdb.DefaultPassword}, SessionMeta{IP: "127.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	identity, err := env.svc.AuthService.RestoreSession(context.Background(), env.db, resp.AccessToken)
	require.NoError(t, err)

	sess, err := env.svc.AuthService.GetSession(env.db, identity)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.WithinDuration(t, time.Now().Add(env.cfg.TokenTTL()), sess.ExpiresAt, time.Minute)

	require.NoError(t, env.svc.AuthService.SignOut(env.db, identity.SessionID))
	_, err = env.svc.AuthService.RestoreSession(context.Background(), env.db, resp.AccessToken)
	assertCode(t, err, apperrors.CodeInvalidToken)

	_, err = env.svc.AuthService.RestoreSession(context.Background(), env.db, "not-a-token")
	assertCode(t, err, apperrors.CodeInvalidToken)
}

func TestAuthService_EmailVerification(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) { cfg.Auth.RequireEmailVerification = true })

	resp, err := env.svc.AuthService.SignUp(env.db, clientSignUp("carla@example.com"), SessionMeta{})
	require.NoError(t, err)
	assert.True(t, resp.VerificationRequired)
	assert.Empty(t, resp.AccessToken)
	assert.Equal(t, "/verificar-email", resp.RedirectTo)

	token := env.mailer.LastVerificationToken("carla@example.com")
	require.NotEmpty(t, token)

	_, err = env.svc.AuthService.SignIn(env.db, &dto.SignInRequest{Email: "carla@example.com", Password: "senha1234"}, SessionMeta{})
	assertCode(t, err, apperrors.CodeEmailNotVerified)

	require.NoError(t, env.svc.AuthService.ResendVerification(env.db, "carla@example.com"))
	newToken := env.mailer.LastVerificationToken("carla@example.com")
	assert.NotEqual(t, token, newToken)

	_, err = env.svc.AuthService.VerifyEmail(env.db, token, SessionMeta{})
	assertCode(t, err, apperrors.CodeInvalidToken)

	verified, err := env.svc.AuthService.VerifyEmail(env.db, newToken, SessionMeta{})
	require.NoError(t, err)
	assert.True(t, verified.User.EmailVerified)
	assert.NotEmpty(t, verified.AccessToken)

	_, err = env.svc.AuthService.SignIn(env.db, &dto.SignInRequest{Email: "carla@example.com", Password: "senha1234"}, SessionMeta{})
	require.NoError(t, err)

	// неизвестный адрес не раскрывается
	assert.NoError(t, env.svc.AuthService.ResendVerification(env.db, "ninguem@example.com"))
}

func TestAuthService_Availability(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.AuthService.SignUp(env.db, clientSignUp("maria@example.com"), SessionMeta{})
	require.NoError(t, err)

	checkEmail := env.svc.AuthService.CheckEmailAvailability
	checkPhone := env.svc.AuthService.CheckPhoneAvailability

	cases := []struct {
		check  func(db *gorm.DB, value string) (*dto.AvailabilityResponse, error)
		value  string
		status string
	}{
		{checkEmail, "MARIA@example.com", dto.AvailabilityTaken},
		{checkEmail, "livre@example.com", dto.AvailabilityAvailable},
		{checkEmail, "sem-arroba", dto.AvailabilityInvalid},
		{checkPhone, "11987654321", dto.AvailabilityTaken},
		{checkPhone, "(21) 3456-7890", dto.AvailabilityAvailable},
		{checkPhone, "123", dto.AvailabilityInvalid},
	}
	for _, tc := range cases {
		resp, err := tc.check(env.db, tc.value)
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.Status, "%s=%s", resp.Field, tc.value)
	}
}
