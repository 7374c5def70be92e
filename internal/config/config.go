package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server       ServerConfig    `toml:"server"`
	Database     DatabaseConfig  `toml:"database"`
	Logs         LogsConfig      `toml:"logs"`
	Metrics      MetricsConfig   `toml:"metrics"`
	SalonService ServiceClient   `toml:"salon_service"`
	UserService  ServiceClient   `toml:"user_service"`
	Cache        CacheConfig     `toml:"cache"`
	RateLimit    RateLimitConfig `toml:"rate_limit"`
	Booking      BookingConfig   `toml:"booking"`
	History      HistoryConfig   `toml:"history"`
	Jobs         JobsConfig      `toml:"jobs"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host                string `toml:"host"`
	Port                int    `toml:"port"`
	User                string `toml:"user"`
	Password            string `toml:"password"`
	DBName              string `toml:"dbname"`
	SSLMode             string `toml:"sslmode"`
	MaxOpenConns        int    `toml:"max_open_conns"`
	MaxIdleConns        int    `toml:"max_idle_conns"`
	ConnMaxLifetime     int    `toml:"conn_max_lifetime"`
	Migrate             bool   `toml:"migrate"`
	SerializableRetries int    `toml:"serializable_retries"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ServiceClient настройки HTTP-клиента внешнего сервиса
type ServiceClient struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	// IdleTimeout секунды, после которых забывается IP без запросов
	IdleTimeout int `toml:"idle_timeout"`
	// TrustedProxies адреса или CIDR прокси, которым можно верить в X-Forwarded-For
	TrustedProxies []string `toml:"trusted_proxies"`
}

type BookingConfig struct {
	// Timezone часовой пояс салонов, в котором считаются "сегодня" и "сейчас"
	Timezone string `toml:"timezone"`
}

type HistoryConfig struct {
	Capacity int `toml:"capacity"`
}

type JobsConfig struct {
	Enabled        bool   `toml:"enabled"`
	CompletionCron string `toml:"completion_cron"`
}

// Load читает TOML-файл, затем .env и переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	// .env необязателен
	_ = godotenv.Load(".env")
	cfg.applyEnv()

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
			Host:                "localhost",
			Port:                5432,
			SSLMode:             "disable",
			MaxOpenConns:        25,
			MaxIdleConns:        5,
			ConnMaxLifetime:     300,
			SerializableRetries: 3,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon-booking",
		},
		SalonService: ServiceClient{Timeout: 5},
		UserService:  ServiceClient{Timeout: 5},
		Cache: CacheConfig{
			Addr:       "localhost:6379",
			TTLSeconds: 300,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
			IdleTimeout:       600,
		},
		Booking: BookingConfig{
			Timezone: "UTC",
		},
		History: HistoryConfig{
			Capacity: 500,
		},
		Jobs: JobsConfig{
			CompletionCron: "@every 10m",
		},
	}
}

func (c *Config) applyEnv() {
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Cache.Addr, "REDIS_ADDR")
	setString(&c.Cache.Password, "REDIS_PASSWORD")
	setString(&c.SalonService.URL, "SALON_SERVICE_URL")
	setString(&c.UserService.URL, "USER_SERVICE_URL")
	setString(&c.Logs.Level, "LOG_LEVEL")
	setInt(&c.Server.HTTPPort, "HTTP_PORT")
}

// Validate проверяет, что конфигурация пригодна для запуска
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Database.SerializableRetries < 0 {
		return fmt.Errorf("%w: database.serializable_retries must be >= 0", ErrInvalidConfig)
	}
	if c.SalonService.URL == "" {
		return fmt.Errorf("%w: salon_service.url is required", ErrInvalidConfig)
	}
	if c.UserService.URL == "" {
		return fmt.Errorf("%w: user_service.url is required", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalidConfig, c.Booking.Timezone, err)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit requires positive requests_per_second and burst", ErrInvalidConfig)
	}
	if c.Jobs.Enabled && c.Jobs.CompletionCron == "" {
		return fmt.Errorf("%w: jobs.completion_cron is required when jobs are enabled", ErrInvalidConfig)
	}
	return nil
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Location часовой пояс бронирований; Validate гарантирует корректность
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
