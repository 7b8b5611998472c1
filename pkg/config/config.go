package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Admin      AdminConfig
	Session    SessionConfig
	Directory  DirectoryConfig
	Pagination PaginationConfig
	Stats      StatsConfig
	Redis      RedisConfig
	Audit      AuditConfig
	Strava     StravaConfig
	Captcha    CaptchaConfig
	CORS       CORSConfig
	Log        LogConfig
}

// AdminConfig holds the static administrator allow-list. Membership is
// checked case-insensitively and never changes at runtime.
type AdminConfig struct {
	Emails []string
}

// SessionConfig configures verification of identity-provider session tokens.
type SessionConfig struct {
	Secret string
	Issuer string
}

// DirectoryConfig points at the external user directory API.
type DirectoryConfig struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
	// StatsFetchLimit bounds the bulk fetch used for statistics. Counts
	// derived from it are approximate once the population exceeds it.
	StatsFetchLimit int
}

// PaginationConfig bounds caller-supplied page sizes.
type PaginationConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// StatsConfig tunes the optional statistics cache.
type StatsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuditConfig controls the admin-action audit trail.
type AuditConfig struct {
	Enabled        bool
	Database       DatabaseConfig
	WorkerCount    int
	QueueSize      int
	WorkerRetries  int
	WorkerRetryGap time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// StravaConfig configures the fitness-API token exchange collaborator.
type StravaConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Timeout      time.Duration
}

// CaptchaConfig configures the CAPTCHA verification collaborator.
type CaptchaConfig struct {
	Secret    string
	VerifyURL string
	Timeout   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Admin = AdminConfig{Emails: splitAndTrim(v.GetString("ADMIN_EMAILS"))}

	cfg.Session = SessionConfig{
		Secret: v.GetString("SESSION_JWT_SECRET"),
		Issuer: v.GetString("SESSION_JWT_ISSUER"),
	}

	cfg.Directory = DirectoryConfig{
		BaseURL:         v.GetString("DIRECTORY_BASE_URL"),
		SecretKey:       v.GetString("DIRECTORY_SECRET_KEY"),
		Timeout:         parseDuration(v.GetString("DIRECTORY_TIMEOUT"), 10*time.Second),
		StatsFetchLimit: v.GetInt("DIRECTORY_STATS_FETCH_LIMIT"),
	}

	cfg.Pagination = PaginationConfig{
		DefaultLimit: v.GetInt("PAGINATION_DEFAULT_LIMIT"),
		MaxLimit:     v.GetInt("PAGINATION_MAX_LIMIT"),
	}

	cfg.Stats = StatsConfig{
		CacheEnabled: v.GetBool("ENABLE_STATS_CACHE"),
		CacheTTL:     parseDuration(v.GetString("STATS_CACHE_TTL"), time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Audit = AuditConfig{
		Enabled: v.GetBool("ENABLE_AUDIT"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		WorkerCount:    v.GetInt("AUDIT_WORKER_COUNT"),
		QueueSize:      v.GetInt("AUDIT_QUEUE_SIZE"),
		WorkerRetries:  v.GetInt("AUDIT_WORKER_RETRIES"),
		WorkerRetryGap: parseDuration(v.GetString("AUDIT_WORKER_RETRY_GAP"), 5*time.Second),
	}

	cfg.Strava = StravaConfig{
		ClientID:     v.GetString("STRAVA_CLIENT_ID"),
		ClientSecret: v.GetString("STRAVA_CLIENT_SECRET"),
		TokenURL:     v.GetString("STRAVA_TOKEN_URL"),
		Timeout:      parseDuration(v.GetString("STRAVA_TIMEOUT"), 10*time.Second),
	}

	cfg.Captcha = CaptchaConfig{
		Secret:    v.GetString("RECAPTCHA_SECRET_KEY"),
		VerifyURL: v.GetString("RECAPTCHA_VERIFY_URL"),
		Timeout:   parseDuration(v.GetString("RECAPTCHA_TIMEOUT"), 5*time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("ADMIN_EMAILS", "")

	v.SetDefault("SESSION_JWT_SECRET", "dev_secret")
	v.SetDefault("SESSION_JWT_ISSUER", "notioncoach")

	v.SetDefault("DIRECTORY_BASE_URL", "https://api.clerk.com/v1")
	v.SetDefault("DIRECTORY_SECRET_KEY", "")
	v.SetDefault("DIRECTORY_TIMEOUT", "10s")
	v.SetDefault("DIRECTORY_STATS_FETCH_LIMIT", 1000)

	v.SetDefault("PAGINATION_DEFAULT_LIMIT", 10)
	v.SetDefault("PAGINATION_MAX_LIMIT", 100)

	v.SetDefault("ENABLE_STATS_CACHE", false)
	v.SetDefault("STATS_CACHE_TTL", "1m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_AUDIT", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "notioncoach")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("AUDIT_WORKER_COUNT", 1)
	v.SetDefault("AUDIT_QUEUE_SIZE", 64)
	v.SetDefault("AUDIT_WORKER_RETRIES", 3)
	v.SetDefault("AUDIT_WORKER_RETRY_GAP", "5s")

	v.SetDefault("STRAVA_CLIENT_ID", "")
	v.SetDefault("STRAVA_CLIENT_SECRET", "")
	v.SetDefault("STRAVA_TOKEN_URL", "https://www.strava.com/oauth/token")
	v.SetDefault("STRAVA_TIMEOUT", "10s")

	v.SetDefault("RECAPTCHA_SECRET_KEY", "")
	v.SetDefault("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify")
	v.SetDefault("RECAPTCHA_TIMEOUT", "5s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
