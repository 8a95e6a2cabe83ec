package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	CatalogService CatalogServiceConfig `toml:"catalog_service"`
	PaymentGateway PaymentGatewayConfig `toml:"payment_gateway"`
	Redis          RedisConfig          `toml:"redis"`
	RabbitMQ       RabbitMQConfig       `toml:"rabbitmq"`
	Booking        BookingConfig        `toml:"booking"`
	OTP            OTPConfig            `toml:"otp"`
	Flow           FlowConfig           `toml:"flow"`
	Invoice        InvoiceConfig        `toml:"invoice"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type CatalogServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type PaymentGatewayConfig struct {
	URL       string `toml:"url"`
	KeyID     string `toml:"key_id"`
	KeySecret string `toml:"key_secret"`
	Currency  string `toml:"currency"`
	Timeout   int    `toml:"timeout"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

type BookingConfig struct {
	TaxRate               float64 `toml:"tax_rate"`
	DefaultAdvancePercent int     `toml:"default_advance_percent"`
}

type OTPConfig struct {
	CooldownSeconds int  `toml:"cooldown_seconds"`
	TTLSeconds      int  `toml:"ttl_seconds"`
	MaxAttempts     int  `toml:"max_attempts"`
	DevMode         bool `toml:"dev_mode"`
}

type FlowConfig struct {
	SessionTTLMinutes int `toml:"session_ttl_minutes"`
}

// InvoiceConfig реквизиты продавца в PDF счете
type InvoiceConfig struct {
	IssuerName    string `toml:"issuer_name"`
	IssuerAddress string `toml:"issuer_address"`
	TaxID         string `toml:"tax_id"`
}

// secrets значения, которые не должны лежать в config.toml
// Пустые переменные окружения не перетирают значения из файла
type secrets struct {
	DatabasePassword  string `envconfig:"DB_PASSWORD"`
	GatewayKeyID      string `envconfig:"PAYMENT_GATEWAY_KEY_ID"`
	GatewayKeySecret  string `envconfig:"PAYMENT_GATEWAY_KEY_SECRET"`
	RedisPassword     string `envconfig:"REDIS_PASSWORD"`
	RabbitMQURL       string `envconfig:"RABBIT_URL"`
	CatalogServiceURL string `envconfig:"CATALOG_SERVICE_URL"`
}

// Load читает config.toml, затем .env (если есть) и переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var s secrets
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.applySecrets(s)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:           LogsConfig{Level: "info"},
		Metrics:        MetricsConfig{Path: "/metrics", ServiceName: "venue_booking_service"},
		CatalogService: CatalogServiceConfig{Timeout: 5},
		PaymentGateway: PaymentGatewayConfig{Currency: "INR", Timeout: 10},
		Redis:          RedisConfig{Prefix: "vbs"},
		RabbitMQ:       RabbitMQConfig{Exchange: "venue_booking.events"},
		Booking:        BookingConfig{TaxRate: 0.18, DefaultAdvancePercent: 10},
		OTP:            OTPConfig{CooldownSeconds: 60, TTLSeconds: 300, MaxAttempts: 5},
		Flow:           FlowConfig{SessionTTLMinutes: 60},
		Invoice:        InvoiceConfig{IssuerName: "Venue Booking Service"},
	}
}

func (c *Config) applySecrets(s secrets) {
	if s.DatabasePassword != "" {
		c.Database.Password = s.DatabasePassword
	}
	if s.GatewayKeyID != "" {
		c.PaymentGateway.KeyID = s.GatewayKeyID
	}
	if s.GatewayKeySecret != "" {
		c.PaymentGateway.KeySecret = s.GatewayKeySecret
	}
	if s.RedisPassword != "" {
		c.Redis.Password = s.RedisPassword
	}
	if s.RabbitMQURL != "" {
		c.RabbitMQ.URL = s.RabbitMQURL
	}
	if s.CatalogServiceURL != "" {
		c.CatalogService.URL = s.CatalogServiceURL
	}
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port out of range", ErrInvalidConfig)
	case c.Database.Host == "" || c.Database.DBName == "":
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	case c.CatalogService.URL == "":
		return fmt.Errorf("%w: catalog_service.url is required", ErrInvalidConfig)
	case c.PaymentGateway.URL == "" || c.PaymentGateway.KeyID == "" || c.PaymentGateway.KeySecret == "":
		return fmt.Errorf("%w: payment_gateway url, key_id and key_secret are required", ErrInvalidConfig)
	case c.Redis.Enabled && c.Redis.Addr == "":
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	case c.RabbitMQ.Enabled && c.RabbitMQ.URL == "":
		return fmt.Errorf("%w: rabbitmq.url is required when rabbitmq is enabled", ErrInvalidConfig)
	case c.Booking.TaxRate < 0 || c.Booking.TaxRate > 1:
		return fmt.Errorf("%w: booking.tax_rate must be within [0, 1]", ErrInvalidConfig)
	case c.Booking.DefaultAdvancePercent < 0 || c.Booking.DefaultAdvancePercent > 100:
		return fmt.Errorf("%w: booking.default_advance_percent must be within [0, 100]", ErrInvalidConfig)
	case c.OTP.CooldownSeconds <= 0 || c.OTP.TTLSeconds <= 0 || c.OTP.MaxAttempts <= 0:
		return fmt.Errorf("%w: otp cooldown, ttl and max_attempts must be positive", ErrInvalidConfig)
	case c.Flow.SessionTTLMinutes <= 0:
		return fmt.Errorf("%w: flow.session_ttl_minutes must be positive", ErrInvalidConfig)
	}
	return nil
}
