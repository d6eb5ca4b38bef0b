package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Storage backend seçenekleri
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config ortam yapılandırmalarını tutar
type Config struct {
	AppEnv   string
	LogLevel string
	Port     string
	Storage  string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	DBMaxOpenConns int
	DBLockTimeout  time.Duration
	AutoMigrate    bool

	JWTSecret string
	JWTTTL    time.Duration

	TelegramBotToken string
	TelegramAPIURL   string
	WebhookSecret    string

	RateLimitRPS   float64
	RateLimitBurst int

	RuleCacheSize int
	RuleCacheTTL  time.Duration

	NotifyWorkers int
	NotifyBuffer  int
}

// yardımcı fonksiyon: ortam değişkeni yoksa default değeri döner
func getEnv(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvInt(key string, defaultVal int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Int("default", defaultVal).Msg("⚠️ Geçersiz sayı, varsayılan kullanılıyor")
		return defaultVal
	}
	return v
}

func getEnvFloat(key string, defaultVal float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Float64("default", defaultVal).Msg("⚠️ Geçersiz sayı, varsayılan kullanılıyor")
		return defaultVal
	}
	return v
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Dur("default", defaultVal).Msg("⚠️ Geçersiz süre, varsayılan kullanılıyor")
		return defaultVal
	}
	return v
}

// LoadConfig tüm yapılandırmayı yükler
func LoadConfig() *Config {
	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8080"),
		Storage:  getEnv("STORAGE", StoragePostgres),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "art"),
		DBPass:         getEnv("DB_PASS", "password"),
		DBName:         getEnv("DB_NAME", "artledger"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBLockTimeout:  getEnvDuration("DB_LOCK_TIMEOUT", 5*time.Second),
		AutoMigrate:    getEnv("AUTO_MIGRATE", "false") == "true",

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL:   getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		WebhookSecret:    getEnv("WEBHOOK_SECRET", ""),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		RuleCacheSize: getEnvInt("RULE_CACHE_SIZE", 256),
		RuleCacheTTL:  getEnvDuration("RULE_CACHE_TTL", 5*time.Minute),

		NotifyWorkers: getEnvInt("NOTIFY_WORKERS", 4),
		NotifyBuffer:  getEnvInt("NOTIFY_BUFFER", 100),
	}
}

// GetDSN veritabanı bağlantı URL'sini döner
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName,
	)
}

// IsProduction production ortamı mı
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate server'ın çalışması için zorunlu ayarları kontrol eder
func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("STORAGE %q olamaz, %q veya %q olmalı", c.Storage, StoragePostgres, StorageMemory)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET ayarlanmalı")
	}
	if c.IsProduction() && c.Storage == StorageMemory {
		return fmt.Errorf("production ortamında memory storage kullanılamaz")
	}
	if c.IsProduction() && c.WebhookSecret == "" {
		return fmt.Errorf("production ortamında WEBHOOK_SECRET ayarlanmalı")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS ve RATE_LIMIT_BURST pozitif olmalı")
	}
	return nil
}
