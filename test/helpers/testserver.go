package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"chamaai_backend/internal/app"
	"chamaai_backend/internal/cache"
	"chamaai_backend/internal/config"
	"chamaai_backend/internal/email"
	"chamaai_backend/test/testdb"

	"gorm.io/gorm"
)

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Config *config.Config
	Email  *email.MockProvider
}

// Option меняет конфигурацию до сборки роутера
type Option func(cfg *config.Config)

// WithEmailVerification включает обязательное подтверждение email
func WithEmailVerification() Option {
	return func(cfg *config.Config) { cfg.Auth.RequireEmailVerification = true }
}

// WithGeoBaseURL направляет клиент IBGE на тестовый сервер
func WithGeoBaseURL(url string) Option {
	return func(cfg *config.Config) { cfg.Geo.BaseURL = url }
}

// NewTestServer поднимает полный роутер поверх sqlite :memory: и mock-почты.
// Каждый тест получает свою базу, поэтому тесты можно запускать параллельно.
func NewTestServer(t *testing.T, opts ...Option) *TestServer {
	t.Helper()
	cfg := testdb.Config()
	for _, opt := range opts {
		opt(cfg)
	}

	db := testdb.New(t)
	mailer := email.NewMockProvider(email.SMTPConfig{
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		AppURL:    cfg.Email.AppURL,
	})
	router := app.SetupRouter(cfg, db, app.Dependencies{
		Email: mailer,
		Cache: cache.NewMemoryCache(),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server: server,
		DB:     db,
		Config: cfg,
		Email:  mailer,
	}
}

// SendRequest отправляет JSON-запрос и возвращает ответ вместе с телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()
	url := ts.Server.URL + path

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}

	return res, string(resBodyBytes)
}

// DecodeJSON разбирает тело ответа в out
func DecodeJSON(t *testing.T, body string, out interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), out); err != nil {
		t.Fatalf("Не удалось распарсить JSON %q: %v", body, err)
	}
}
