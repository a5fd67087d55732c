package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	JWT       JWTConfig
	Chat      ChatConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type JWTConfig struct {
	// Secret verifies bearer tokens issued by the external identity
	// provider. Empty disables token-based requester resolution.
	Secret string
}

type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type SchedulerConfig struct {
	CronSpec string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "skill-bridge"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    opt("HTTP_PORT", "3000"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     req("DB_HOST"),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        durationEnv("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32Env("DB_POOL_MAX_CONNS", 0),
		PoolMinConns:          int32Env("DB_POOL_MIN_CONNS", 0),
		PoolMaxConnLifetime:   durationEnv("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   durationEnv("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: durationEnv("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(opt("CORS_ALLOWED_ORIGINS", "http://localhost:4173")),
	}

	cfg.JWT = JWTConfig{
		Secret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
	}

	cfg.Chat = ChatConfig{
		APIKey:  strings.TrimSpace(os.Getenv("CHAT_API_KEY")),
		BaseURL: strings.TrimSpace(os.Getenv("CHAT_BASE_URL")),
		Model:   opt("CHAT_MODEL", "gpt-4o-mini"),
	}

	cfg.Scheduler = SchedulerConfig{
		// 23:59 daily, matching the end-of-day reminder window.
		CronSpec: opt("REMINDER_CRON_SPEC", "59 23 * * *"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func int32Env(key string, fallback int32) int32 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return fallback
	}
	return int32(v)
}
