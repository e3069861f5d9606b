package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chamaai_backend/database"
	"chamaai_backend/internal/cache"
	"chamaai_backend/internal/config"
	"chamaai_backend/internal/email"
	"chamaai_backend/internal/geo"
	"chamaai_backend/internal/handlers"
	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/middleware"
	"chamaai_backend/internal/routes"
	"chamaai_backend/internal/services"
	"chamaai_backend/internal/validator"
	"chamaai_backend/internal/workers"
	"chamaai_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Dependencies - внешние зависимости роутера. Тесты подставляют mock-почту
// и кэш в памяти.
type Dependencies struct {
	Email email.Provider
	Cache cache.Cache
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	if cfg.Database.Seed {
		if err := database.Seed(gormDB); err != nil {
			logger.Fatal("Failed to seed reference data", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := Dependencies{
		Email: initializeEmail(cfg),
		Cache: initializeCache(ctx, cfg),
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := SetupRouter(cfg, gormDB, deps)

	workers.NewRequestWorker(gormDB, cfg.WorkerInterval(), cfg.StaleRequestAfter()).Start(ctx)
	workers.NewSessionWorker(gormDB, cfg.WorkerInterval()).Start(ctx)
	logger.Info("Background workers started", "interval", cfg.WorkerInterval())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}

// SetupRouter собирает сервисы, хэндлеры и middleware в готовый *gin.Engine
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, deps Dependencies) *gin.Engine {
	if deps.Cache == nil {
		deps.Cache = cache.NewMemoryCache()
	}
	if deps.Email == nil {
		deps.Email = email.NewMockProvider(smtpConfig(cfg))
	}

	customValidator := validator.New()
	geoClient := geo.NewClient(cfg.Geo.BaseURL, cfg.GeoTimeout(), deps.Cache, cfg.GeoCacheTTL())

	// 1. Сервисы
	serviceContainer := services.NewServiceContainer(cfg, deps.Email, geoClient, customValidator)

	// 2. Хэндлеры
	appHandlers := handlers.NewAppHandlers(serviceContainer, customValidator)

	// 3. Метрики: отдельный реестр на роутер
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewHTTPMetrics(registry)

	// 4. Gin
	ginRouter := initializeGinRouter(cfg, gormDB, metrics, serviceContainer.AuthService)

	// 5. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), gormDB)

	return ginRouter
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB, metrics *middleware.HTTPMetrics, authService services.AuthService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware(metrics))
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(db))
	router.Use(middleware.SessionMiddleware(authService.RestoreSession))
	return router
}

func smtpConfig(cfg *config.Config) email.SMTPConfig {
	return email.SMTPConfig{
		Host:                 cfg.Email.SMTPHost,
		Port:                 cfg.Email.SMTPPort,
		Username:             cfg.Email.SMTPUsername,
		Password:             cfg.Email.SMTPPassword,
		FromEmail:            cfg.Email.FromEmail,
		FromName:             cfg.Email.FromName,
		AppURL:               cfg.Email.AppURL,
		VerificationTTLHours: cfg.Auth.VerificationTTL,
	}
}

// initializeEmail - SMTP только если почта включена, иначе письма пишутся в лог
func initializeEmail(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("Email disabled, using mock provider")
		return email.NewMockProvider(smtpConfig(cfg))
	}
	provider, err := email.NewGomailProvider(smtpConfig(cfg))
	if err != nil {
		logger.Error("Failed to initialize SMTP provider, using mock", "error", err)
		return email.NewMockProvider(smtpConfig(cfg))
	}
	logger.Info("SMTP provider initialized", "host", cfg.Email.SMTPHost)
	return provider
}

// initializeCache - Redis при заданном адресе; недоступный Redis не мешает старту
func initializeCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if cfg.Redis.Addr == "" {
		logger.Info("Redis not configured, using in-memory cache")
		return cache.NewMemoryCache()
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Error("Redis unavailable, using in-memory cache", "addr", cfg.Redis.Addr, "error", err)
		return cache.NewMemoryCache()
	}
	logger.Info("Redis connected", "addr", cfg.Redis.Addr)
	return cache.NewRedisCache(client, "chamaai:")
}
