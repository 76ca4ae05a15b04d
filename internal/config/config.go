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
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Scrape   ScrapeConfig
	Notify   NotifyConfig
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

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type ScrapeConfig struct {
	IntervalHours   int
	ListingCacheTTL time.Duration

	// Optional company careers page crawl target. Enabled when both the
	// source name and list URL are set.
	CareersSourceName    string
	CareersListURL       string
	CareersLinkSelector  string
	CareersTitleSelector string
	CareersLocSelector   string
	CareersBodySelector  string
}

type NotifyConfig struct {
	ImmediateScoreThreshold int
	DigestHour              int
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
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optInt := func(key string, def int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        time.Duration(optInt("DB_CONNECT_TIMEOUT_SECONDS", 0)) * time.Second,
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   time.Duration(optInt("DB_POOL_MAX_CONN_LIFETIME_SECONDS", 0)) * time.Second,
		PoolMaxConnIdleTime:   time.Duration(optInt("DB_POOL_MAX_CONN_IDLE_SECONDS", 0)) * time.Second,
		PoolHealthCheckPeriod: time.Duration(optInt("DB_POOL_HEALTH_CHECK_SECONDS", 0)) * time.Second,
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
	}

	cfg.Scrape = ScrapeConfig{
		IntervalHours:   optInt("SCRAPE_INTERVAL_HOURS", 6),
		ListingCacheTTL: time.Duration(optInt("LISTING_CACHE_TTL_SECONDS", 60)) * time.Second,

		CareersSourceName:    opt("CAREERS_SOURCE_NAME"),
		CareersListURL:       opt("CAREERS_LIST_URL"),
		CareersLinkSelector:  opt("CAREERS_LINK_SELECTOR"),
		CareersTitleSelector: opt("CAREERS_TITLE_SELECTOR"),
		CareersLocSelector:   opt("CAREERS_LOCATION_SELECTOR"),
		CareersBodySelector:  opt("CAREERS_BODY_SELECTOR"),
	}

	cfg.Notify = NotifyConfig{
		ImmediateScoreThreshold: optInt("NOTIFICATION_SCORE_THRESHOLD", 90),
		DigestHour:              optInt("DIGEST_HOUR", 8),
	}

	if cfg.Scrape.IntervalHours <= 0 {
		cfg.Scrape.IntervalHours = 6
	}
	if cfg.Notify.DigestHour < 0 || cfg.Notify.DigestHour > 23 {
		cfg.Notify.DigestHour = 8
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
