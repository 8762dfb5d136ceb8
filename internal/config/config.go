package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Переменные окружения, которые перекрывают значения из файла
const (
	envDBPassword      = "DB_PASSWORD"
	envStripeSecretKey = "STRIPE_SECRET_KEY"
	envRedisPassword   = "REDIS_PASSWORD"
	envKafkaBrokers    = "KAFKA_BROKERS"
)

// Бэкенды блокировки слота
const (
	SlotLockLocal = "local"
	SlotLockRedis = "redis"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Scheduling    SchedulingConfig    `toml:"scheduling"`
	SlotLock      SlotLockConfig      `toml:"slot_lock"`
	Redis         RedisConfig         `toml:"redis"`
	Payments      PaymentsConfig      `toml:"payments"`
	Notifications NotificationsConfig `toml:"notifications"`
	Migrations    MigrationsConfig    `toml:"migrations"`
}

// ServerConfig таймауты в секундах
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
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

// SchedulingConfig бизнес-параметры расписания
type SchedulingConfig struct {
	Timezone                string `toml:"timezone"`
	MaxBookingDurationHours int    `toml:"max_booking_duration_hours"`
	TherapistDailySoftLimit int    `toml:"therapist_daily_soft_limit"`
}

// Location часовой пояс клиники; вызывать после Validate
func (s SchedulingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s SchedulingConfig) MaxBookingDuration() time.Duration {
	return time.Duration(s.MaxBookingDurationHours) * time.Hour
}

type SlotLockConfig struct {
	Backend       string `toml:"backend"`
	TTLMs         int    `toml:"ttl_ms"`
	WaitTimeoutMs int    `toml:"wait_timeout_ms"`
	KeyPrefix     string `toml:"key_prefix"`
}

func (s SlotLockConfig) TTL() time.Duration {
	return time.Duration(s.TTLMs) * time.Millisecond
}

func (s SlotLockConfig) WaitTimeout() time.Duration {
	return time.Duration(s.WaitTimeoutMs) * time.Millisecond
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type PaymentsConfig struct {
	Enabled   bool   `toml:"enabled"`
	SecretKey string `toml:"secret_key"`
	Currency  string `toml:"currency"`
	Timeout   int    `toml:"timeout"` // секунды
	BaseURL   string `toml:"base_url"`
}

type NotificationsConfig struct {
	Enabled        bool   `toml:"enabled"`
	Brokers        string `toml:"brokers"` // через запятую
	WriteTimeoutMs int    `toml:"write_timeout_ms"`
}

func (n NotificationsConfig) WriteTimeout() time.Duration {
	return time.Duration(n.WriteTimeoutMs) * time.Millisecond
}

type MigrationsConfig struct {
	RunOnStart bool `toml:"run_on_start"`
}

// Load читает TOML-файл, затем .env (если есть) и переменные окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	// Отсутствие .env не ошибка: в проде секреты приходят из окружения
	_ = godotenv.Load(".env")
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "scheduling_service"},
		Scheduling: SchedulingConfig{
			Timezone:                "UTC",
			MaxBookingDurationHours: 24,
		},
		SlotLock: SlotLockConfig{
			Backend:       SlotLockLocal,
			TTLMs:         10000,
			WaitTimeoutMs: 3000,
			KeyPrefix:     "slotlock",
		},
		Payments:      PaymentsConfig{Currency: "usd", Timeout: 10},
		Notifications: NotificationsConfig{WriteTimeoutMs: 5000},
	}
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(envDBPassword); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv(envStripeSecretKey); ok {
		c.Payments.SecretKey = v
	}
	if v, ok := os.LookupEnv(envRedisPassword); ok {
		c.Redis.Password = v
	}
	if v, ok := os.LookupEnv(envKafkaBrokers); ok {
		c.Notifications.Brokers = v
	}
}

// Validate проверяет значения, без которых сервис не может стартовать
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 {
		problems = append(problems, "server.http_port must be positive")
	}
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		problems = append(problems, "database.host, database.user and database.dbname are required")
	}
	if c.Database.MaxOpenConns <= 0 || c.Database.MaxIdleConns < 0 {
		problems = append(problems, "database pool sizes must be positive")
	}
	if _, err := time.LoadLocation(c.Scheduling.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("scheduling.timezone %q: %v", c.Scheduling.Timezone, err))
	}
	if c.Scheduling.MaxBookingDurationHours <= 0 {
		problems = append(problems, "scheduling.max_booking_duration_hours must be positive")
	}
	if c.Scheduling.TherapistDailySoftLimit < 0 {
		problems = append(problems, "scheduling.therapist_daily_soft_limit must not be negative")
	}

	switch c.SlotLock.Backend {
	case SlotLockLocal:
	case SlotLockRedis:
		if c.Redis.Addr == "" {
			problems = append(problems, "redis.addr is required for the redis slot lock")
		}
	default:
		problems = append(problems, fmt.Sprintf("slot_lock.backend %q must be %q or %q",
			c.SlotLock.Backend, SlotLockLocal, SlotLockRedis))
	}

	if c.Payments.Enabled && c.Payments.SecretKey == "" {
		problems = append(problems, "payments.secret_key (or "+envStripeSecretKey+") is required when payments are enabled")
	}
	if c.Notifications.Enabled && strings.TrimSpace(c.Notifications.Brokers) == "" {
		problems = append(problems, "notifications.brokers (or "+envKafkaBrokers+") is required when notifications are enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
