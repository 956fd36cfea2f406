package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config captures all runtime configuration derived from an optional YAML
// file and environment variables. Environment variables take precedence.
type Config struct {
	Port              string  `yaml:"port"`
	DBURL             string  `yaml:"db_url"`
	ReadTimeoutSecs   int     `yaml:"server_read_timeout"`
	WriteTimeoutSecs  int     `yaml:"server_write_timeout"`
	IdleTimeoutSecs   int     `yaml:"server_idle_timeout"`
	DBMaxConns        int     `yaml:"db_max_conns"`
	DBMinConns        int     `yaml:"db_min_conns"`
	DBMaxIdleSecs     int     `yaml:"db_max_conn_idle_secs"`
	DBMaxLifeSecs     int     `yaml:"db_max_conn_lifetime_secs"`
	DBConnTimeoutSecs int     `yaml:"db_conn_timeout_secs"`
	DBStatementCache  int     `yaml:"db_statement_cache_capacity"`
	SessionTTLSecs    int     `yaml:"session_ttl_secs"`
	RateLimitPerSec   float64 `yaml:"rate_limit_per_sec"`
	RateBurst         int     `yaml:"rate_burst"`
	TracingEnabled    bool    `yaml:"tracing_enabled"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:              "8080",
		ReadTimeoutSecs:   15,
		WriteTimeoutSecs:  15,
		IdleTimeoutSecs:   60,
		DBMaxConns:        20,
		DBMinConns:        2,
		DBMaxIdleSecs:     300,
		DBMaxLifeSecs:     3600,
		DBConnTimeoutSecs: 10,
		DBStatementCache:  256,
		SessionTTLSecs:    3600,
		RateLimitPerSec:   10,
		RateBurst:         20,
	}
}

// Load reads configuration from CONFIG_FILE (when set) and environment
// variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBURL = getEnv("DB_URL", cfg.DBURL)
	cfg.ReadTimeoutSecs = getEnvInt("SERVER_READ_TIMEOUT", cfg.ReadTimeoutSecs)
	cfg.WriteTimeoutSecs = getEnvInt("SERVER_WRITE_TIMEOUT", cfg.WriteTimeoutSecs)
	cfg.IdleTimeoutSecs = getEnvInt("SERVER_IDLE_TIMEOUT", cfg.IdleTimeoutSecs)
	cfg.DBMaxConns = getEnvInt("DB_MAX_CONNS", cfg.DBMaxConns)
	cfg.DBMinConns = getEnvInt("DB_MIN_CONNS", cfg.DBMinConns)
	cfg.DBMaxIdleSecs = getEnvInt("DB_MAX_CONN_IDLE_SECS", cfg.DBMaxIdleSecs)
	cfg.DBMaxLifeSecs = getEnvInt("DB_MAX_CONN_LIFETIME_SECS", cfg.DBMaxLifeSecs)
	cfg.DBConnTimeoutSecs = getEnvInt("DB_CONN_TIMEOUT_SECS", cfg.DBConnTimeoutSecs)
	cfg.DBStatementCache = getEnvInt("DB_STATEMENT_CACHE_CAPACITY", cfg.DBStatementCache)
	cfg.SessionTTLSecs = getEnvInt("SESSION_TTL_SECS", cfg.SessionTTLSecs)
	cfg.RateLimitPerSec = getEnvFloat("RATE_LIMIT_PER_SEC", cfg.RateLimitPerSec)
	cfg.RateBurst = getEnvInt("RATE_BURST", cfg.RateBurst)
	cfg.TracingEnabled = getEnvBool("TRACING_ENABLED", cfg.TracingEnabled)

	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT must not be empty")
	}
	if cfg.SessionTTLSecs <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL_SECS must be positive")
	}
	if cfg.RateLimitPerSec <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_SEC must be positive")
	}
	if cfg.RateBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_BURST must be positive")
	}
	if cfg.DBURL != "" {
		if cfg.DBMaxConns <= 0 {
			return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
		}
		if cfg.DBMinConns < 0 {
			return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
		}
		if cfg.DBMinConns > cfg.DBMaxConns {
			return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
		}
		if cfg.DBStatementCache < 0 {
			return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
		}
	}

	return cfg, nil
}

// UsesDatabase reports whether sessions are persisted in Postgres.
func (c Config) UsesDatabase() bool {
	return c.DBURL != ""
}

func loadFile(path string, cfg *Config) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read CONFIG_FILE: %w", err)
	}
	if err := yaml.Unmarshal(payload, cfg); err != nil {
		return fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
