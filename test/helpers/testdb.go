package helpers

import (
	"net/http"
	"testing"

	"chamaai_backend/internal/models"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/test/testdb"

	"github.com/stretchr/testify/require"
)

// Login входит через API и возвращает access token
func Login(t *testing.T, ts *TestServer, email, password string) string {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signin", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+body)

	var resp dto.AuthResponse
	DecodeJSON(t, body, &resp)
	require.NotEmpty(t, resp.AccessToken, "Токен не должен быть пустым")
	return resp.AccessToken
}

// CreateAndLoginUser создает подтвержденного клиента и логинит его
func CreateAndLoginUser(t *testing.T, ts *TestServer, name, email string) (string, *models.User) {
	t.Helper()
	user, _ := testdb.CreateUser(t, ts.DB, name, email)
	return Login(t, ts, email, testdb.DefaultPassword), user
}

// CreateAndLoginProvider создает исполнителя и логинит его
func CreateAndLoginProvider(t *testing.T, ts *TestServer, name, email string, opts testdb.ProviderOpts) (string, *models.ServiceProvider) {
	t.Helper()
	_, provider := testdb.CreateProvider(t, ts.DB, name, email, opts)
	return Login(t, ts, email, testdb.DefaultPassword), provider
}
