package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Webpay   WebpayConfig   `toml:"webpay"`
	Redis    RedisConfig    `toml:"redis"`
	Kafka    KafkaConfig    `toml:"kafka"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
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

// DSN возвращает строку подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// WebpayConfig настройки интеграции с Webpay Plus
type WebpayConfig struct {
	BaseURL            string `toml:"base_url"`
	CommerceCode       string `toml:"commerce_code"`
	APIKey             string `toml:"api_key"`
	Timeout            int    `toml:"timeout"`
	ReturnURL          string `toml:"return_url"`
	SuccessRedirectURL string `toml:"success_redirect_url"`
	FailureRedirectURL string `toml:"failure_redirect_url"`
}

// RedisConfig настройки кэша списка кортов
type RedisConfig struct {
	Enabled   bool   `toml:"enabled"`
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	VenuesTTL int    `toml:"venues_ttl"`
}

// KafkaConfig настройки публикации событий бронирований
type KafkaConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// BookingConfig бизнес-параметры бронирования
type BookingConfig struct {
	// Время (в минутах), которое pending бронирование удерживает слот
	// до завершения оплаты
	HoldMinutes int `toml:"hold_minutes"`
	// Интервал запуска фонового сборщика просроченных бронирований (в секундах)
	SweepIntervalSeconds int `toml:"sweep_interval_seconds"`
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "court-rental-service"
	}
	if cfg.Webpay.Timeout == 0 {
		cfg.Webpay.Timeout = 30
	}
	if cfg.Redis.VenuesTTL == 0 {
		cfg.Redis.VenuesTTL = 300
	}
	if cfg.Booking.HoldMinutes == 0 {
		cfg.Booking.HoldMinutes = 10
	}
	if cfg.Booking.SweepIntervalSeconds == 0 {
		cfg.Booking.SweepIntervalSeconds = 60
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if cfg.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if cfg.Webpay.BaseURL == "" {
		return fmt.Errorf("config: webpay.base_url is required")
	}
	if cfg.Webpay.ReturnURL == "" {
		return fmt.Errorf("config: webpay.return_url is required")
	}
	if cfg.Webpay.SuccessRedirectURL == "" || cfg.Webpay.FailureRedirectURL == "" {
		return fmt.Errorf("config: webpay success/failure redirect urls are required")
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers is required when kafka is enabled")
	}
	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	return nil
}
