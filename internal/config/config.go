package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`

		// CORSOrigins - пусто означает "любой источник"
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // postgres, sqlite
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
		Seed         bool   `yaml:"seed"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Auth struct {
		RequireEmailVerification bool `yaml:"require_email_verification"`
		VerificationTTL          int  `yaml:"verification_ttl"` // часы
	} `yaml:"auth"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		AppURL       string `yaml:"app_url"`
	} `yaml:"email"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Geo struct {
		BaseURL  string `yaml:"base_url"`
		Timeout  int    `yaml:"timeout"`   // секунды
		CacheTTL int    `yaml:"cache_ttl"` // минуты
	} `yaml:"geo"`

	Workers struct {
		StaleRequestAfter int `yaml:"stale_request_after"` // часы
		Interval          int `yaml:"interval"`            // секунды
	} `yaml:"workers"`

	Search struct {
		PageSize int `yaml:"page_size"`
	} `yaml:"search"`
}

var AppConfig *Config

// LoadConfig читает .env, затем config.yaml (если есть), затем переменные окружения.
// Без DATABASE_URL и без файла конфигурации запуск невозможен.
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to read .env: %v", err)
	}

	cfg := Defaults()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if os.Getenv("DATABASE_URL") == "" {
		log.Println("Загрузка из config.yaml")
		if err := loadFile(configPath, cfg); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(configPath); err == nil {
		if err := loadFile(configPath, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults - значения, которые действуют, если в файле их нет
func Defaults() *Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5
	cfg.Database.Seed = true
	cfg.JWT.TTL = 60 * 24
	cfg.Auth.VerificationTTL = 48
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "nao-responda@chamaai.com.br"
	cfg.Email.FromName = "ChamaAí"
	cfg.Email.AppURL = "http://localhost:3000"
	cfg.Geo.BaseURL = "https://servicodados.ibge.gov.br/api/v1/localidades"
	cfg.Geo.Timeout = 10
	cfg.Geo.CacheTTL = 24 * 60
	cfg.Workers.StaleRequestAfter = 72
	cfg.Workers.Interval = 300
	cfg.Search.PageSize = 6
	return &cfg
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("parse config file at %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SERVER_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("GEO_BASE_URL"); v != "" {
		cfg.Geo.BaseURL = v
	}
	if v := os.Getenv("REQUIRE_EMAIL_VERIFICATION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Auth.RequireEmailVerification = b
		}
	}
}

// Validate сообщает обо всех незаполненных обязательных значениях сразу
func (c *Config) Validate() error {
	var missing []string
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		missing = append(missing, fmt.Sprintf("database.driver (unsupported %q)", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		missing = append(missing, "database.url")
	}
	if c.JWT.Secret == "" {
		missing = append(missing, "jwt.secret")
	}
	if c.JWT.TTL <= 0 {
		missing = append(missing, "jwt.ttl")
	}
	if c.Server.Port <= 0 {
		missing = append(missing, "server.port")
	}
	if c.Workers.Interval <= 0 {
		missing = append(missing, "workers.interval")
	}
	if c.Workers.StaleRequestAfter <= 0 {
		missing = append(missing, "workers.stale_request_after")
	}
	if c.Email.Enabled && c.Email.SMTPHost == "" {
		missing = append(missing, "email.smtp_host")
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.Server.Env == "development" }

func (c *Config) TokenTTL() time.Duration { return time.Duration(c.JWT.TTL) * time.Minute }

func (c *Config) VerificationTTL() time.Duration {
	return time.Duration(c.Auth.VerificationTTL) * time.Hour
}

func (c *Config) GeoTimeout() time.Duration { return time.Duration(c.Geo.Timeout) * time.Second }

func (c *Config) GeoCacheTTL() time.Duration { return time.Duration(c.Geo.CacheTTL) * time.Minute }

func (c *Config) StaleRequestAfter() time.Duration {
	return time.Duration(c.Workers.StaleRequestAfter) * time.Hour
}

func (c *Config) WorkerInterval() time.Duration {
	return time.Duration(c.Workers.Interval) * time.Second
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
