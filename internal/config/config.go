package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN             string `yaml:"url"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // minutes
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret"`
		Issuer     string `yaml:"issuer"`
		TTL        string `yaml:"ttl"`         // access token, time.ParseDuration ("24h")
		RefreshTTL string `yaml:"refresh_ttl"` // refresh token
	} `yaml:"jwt"`

	Auth struct {
		// StrictMobileCode - код из SMS обязан принадлежать владельцу телефона
		StrictMobileCode bool `yaml:"strict_mobile_code"`
		// RateLimit - запросов в минуту с одного IP на маршрутах, выпускающих коды
		RateLimit int `yaml:"rate_limit"`
	} `yaml:"auth"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	SMS struct {
		AccountSID string `yaml:"account_sid"`
		AuthToken  string `yaml:"auth_token"`
		From       string `yaml:"from"`
		BaseURL    string `yaml:"base_url"`
	} `yaml:"sms"`

	Storage struct {
		Type      string `yaml:"type"`       // local, s3, cloudflare_r2
		BasePath  string `yaml:"base_path"`  // For local storage
		BaseURL   string `yaml:"base_url"`   // Public URL base (BLOB_STORAGE_URL)
		Bucket    string `yaml:"bucket"`     // For S3/R2
		Region    string `yaml:"region"`     // For S3
		AccessKey string `yaml:"access_key"` // For S3/R2
		SecretKey string `yaml:"secret_key"` // For S3/R2
		Endpoint  string `yaml:"endpoint"`   // For R2 or custom S3
	} `yaml:"storage"`

	Redis struct {
		Addr     string `yaml:"addr"` // пустой адрес - кеш в памяти
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
		ImageQuality int      `yaml:"image_quality"` // JPEG quality (1-100)
	} `yaml:"upload"`

	Notifications struct {
		PollInterval string `yaml:"poll_interval"`
		BatchSize    int    `yaml:"batch_size"`
		MaxAttempts  int    `yaml:"max_attempts"`
	} `yaml:"notifications"`

	Frontend struct {
		URL string `yaml:"url"`
	} `yaml:"frontend"`
}

var AppConfig *Config

// LoadConfig загружает .env (если есть), затем YAML из CONFIG_PATH и
// переменные окружения поверх. Без файла конфигурация строится из окружения.
func LoadConfig() {
	if err := godotenv.Load(); err == nil {
		log.Println("Загружен .env")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load читает конфигурацию из файла path. Отсутствующий файл не ошибка.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		log.Printf("Загрузка конфигурации из %s", path)
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case os.IsNotExist(err):
		log.Println("Файл конфигурации не найден, используются переменные окружения")
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"

	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 10
	cfg.Database.ConnMaxLifetime = 30

	cfg.JWT.Issuer = "onversed"
	cfg.JWT.TTL = "24h"
	cfg.JWT.RefreshTTL = "720h"

	cfg.Auth.RateLimit = 10

	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "hello@onversed.com"
	cfg.Email.FromName = "Onversed"

	cfg.SMS.BaseURL = "https://api.twilio.com/2010-04-01"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/files"

	cfg.Upload.MaxSize = 20 * 1024 * 1024 // 20MB
	cfg.Upload.AllowedTypes = []string{
		"image/jpeg", "image/png", "image/gif", "image/webp",
		"application/pdf", "application/octet-stream",
	}
	cfg.Upload.ImageQuality = 85

	cfg.Notifications.PollInterval = "5s"
	cfg.Notifications.BatchSize = 20
	cfg.Notifications.MaxAttempts = 5

	cfg.Frontend.URL = "http://localhost:3000"
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.Server.Env, "SERVER_ENV")
	setInt(&cfg.Server.Port, "SERVER_PORT")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.JWT.TTL, "JWT_TTL")
	setBool(&cfg.Auth.StrictMobileCode, "AUTH_STRICT_MOBILE_CODE")

	setString(&cfg.Storage.BaseURL, "BLOB_STORAGE_URL")
	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")

	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")

	setString(&cfg.SMS.AccountSID, "SMS_ACCOUNT_SID")
	setString(&cfg.SMS.AuthToken, "SMS_AUTH_TOKEN")
	setString(&cfg.SMS.From, "SMS_FROM")

	setString(&cfg.Frontend.URL, "FRONTEND_URL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database url is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if _, err := time.ParseDuration(c.JWT.TTL); err != nil {
		return fmt.Errorf("invalid jwt ttl %q: %w", c.JWT.TTL, err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshTTL); err != nil {
		return fmt.Errorf("invalid jwt refresh_ttl %q: %w", c.JWT.RefreshTTL, err)
	}
	if _, err := time.ParseDuration(c.Notifications.PollInterval); err != nil {
		return fmt.Errorf("invalid notifications poll_interval %q: %w", c.Notifications.PollInterval, err)
	}
	return nil
}

// AccessTTL - срок жизни access-токена (значение проверено в Validate)
func (c *Config) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.TTL)
	return d
}

func (c *Config) RefreshTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.RefreshTTL)
	return d
}

func (c *Config) PollInterval() time.Duration {
	d, _ := time.ParseDuration(c.Notifications.PollInterval)
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
