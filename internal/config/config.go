package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/Freeeeeet/slot_finder/internal/availability"
)

// Источники событий
const (
	EventsSourceFile     = "file"
	EventsSourcePostgres = "postgres"
	EventsSourceICS      = "ics"
)

type Config struct {
	Environment string
	LogLevel    string
	HTTPAddr    string

	TelegramToken string
	DBDSN         string

	EventsSource   string
	EventsFile     string
	ICSFile        string
	InputFile      string
	MigrationsPath string

	SlotInterval          time.Duration
	ConflictMode          availability.ConflictMode
	EventsRefreshInterval time.Duration
	StrictBatch           bool
	Workers               int
	MaxSlotsPerSchedule   int
	RateLimitRPS          float64

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	EventsCacheTTL time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения без .env
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:    getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		EventsSource:   getEnv("EVENTS_SOURCE", EventsSourceFile),
		EventsFile:     getEnv("EVENTS_FILE", "calendar/events.json"),
		ICSFile:        getEnv("ICS_FILE", "calendar/events.ics"),
		InputFile:      getEnv("INPUT_FILE", "calendar/input.json"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
	}

	var err error

	if cfg.SlotInterval, err = cast.ToDurationE(getEnv("SLOT_INTERVAL", "15m")); err != nil {
		return nil, fmt.Errorf("parse SLOT_INTERVAL: %w", err)
	}
	if cfg.SlotInterval <= 0 {
		return nil, fmt.Errorf("SLOT_INTERVAL must be positive, got %s", cfg.SlotInterval)
	}

	if cfg.ConflictMode, err = availability.ParseConflictMode(os.Getenv("CONFLICT_MODE")); err != nil {
		return nil, fmt.Errorf("parse CONFLICT_MODE: %w", err)
	}

	if cfg.EventsRefreshInterval, err = cast.ToDurationE(getEnv("EVENTS_REFRESH_INTERVAL", "1m")); err != nil {
		return nil, fmt.Errorf("parse EVENTS_REFRESH_INTERVAL: %w", err)
	}

	if cfg.StrictBatch, err = cast.ToBoolE(getEnv("STRICT_BATCH", "false")); err != nil {
		return nil, fmt.Errorf("parse STRICT_BATCH: %w", err)
	}

	if cfg.Workers, err = cast.ToIntE(getEnv("WORKERS", "8")); err != nil {
		return nil, fmt.Errorf("parse WORKERS: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	if cfg.MaxSlotsPerSchedule, err = cast.ToIntE(getEnv("MAX_SLOTS_PER_SCHEDULE", "10000")); err != nil {
		return nil, fmt.Errorf("parse MAX_SLOTS_PER_SCHEDULE: %w", err)
	}
	if cfg.MaxSlotsPerSchedule <= 0 {
		return nil, fmt.Errorf("MAX_SLOTS_PER_SCHEDULE must be positive, got %d", cfg.MaxSlotsPerSchedule)
	}

	if cfg.RateLimitRPS, err = cast.ToFloat64E(getEnv("RATE_LIMIT_RPS", "20")); err != nil {
		return nil, fmt.Errorf("parse RATE_LIMIT_RPS: %w", err)
	}

	if cfg.RedisDB, err = cast.ToIntE(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}

	if cfg.EventsCacheTTL, err = cast.ToDurationE(getEnv("EVENTS_CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("parse EVENTS_CACHE_TTL: %w", err)
	}

	// Проверяем обязательные поля
	switch cfg.EventsSource {
	case EventsSourceFile, EventsSourceICS:
	case EventsSourcePostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for EVENTS_SOURCE=%s", EventsSourcePostgres)
		}
	default:
		return nil, fmt.Errorf("unknown EVENTS_SOURCE %q", cfg.EventsSource)
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// AvailabilityOptions опции расчёта слотов, общие для всего запуска
func (c *Config) AvailabilityOptions() availability.Options {
	return availability.Options{
		Interval: c.SlotInterval,
		Mode:     c.ConflictMode,
		MaxSlots: c.MaxSlotsPerSchedule,
	}
}

func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
