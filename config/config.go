// Package config loads process configuration from the environment.
//
// The configuration is read once in main and handed to each module's
// constructor; nothing in the module tree reads the environment itself.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the complete process configuration.
type Config struct {
	HTTPPort     int
	DBPath       string
	CORSOrigins  string
	ProxyHeader  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	JWT       JWTConfig
	Ledger    LedgerConfig
	RateLimit RateLimitConfig
	Embedding EmbeddingConfig
	OCR       OCRConfig
}

// JWTConfig holds token signing configuration.
type JWTConfig struct {
	SecretKey            string
	Algorithm            string
	Issuer               string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// LedgerConfig controls the revoked-token purger.
type LedgerConfig struct {
	PurgeInterval time.Duration
	PurgeGrace    time.Duration
}

// RateLimitConfig controls per-IP limiting of credential endpoints.
// An empty RedisAddr disables the limiter.
type RateLimitConfig struct {
	RedisAddr         string
	RequestsPerWindow int
	WindowSize        time.Duration
	KeyPrefix         string
}

// EmbeddingConfig selects the sentence-embedding backend.
// An empty URL selects the local hashing embedder.
type EmbeddingConfig struct {
	URL        string
	Model      string
	APIKey     string
	Dimensions int
	Timeout    time.Duration
}

// OCRConfig configures the passport recognizer. An empty URL disables OCR.
type OCRConfig struct {
	URL     string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Default returns the configuration used when no environment overrides are set.
// In production, JWT_SECRET_KEY must be set.
func Default() Config {
	return Config{
		HTTPPort:     3000,
		DBPath:       "grantmatch.db",
		CORSOrigins:  "*",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		JWT: JWTConfig{
			SecretKey:            "your-secret-key-change-in-production",
			Algorithm:            "HS256",
			Issuer:               "grantmatch",
			AccessTokenDuration:  30 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
		},
		Ledger: LedgerConfig{
			PurgeInterval: time.Hour,
			PurgeGrace:    time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: 20,
			WindowSize:        time.Minute,
			KeyPrefix:         "ratelimit:login:",
		},
		Embedding: EmbeddingConfig{
			Model:      "paraphrase-multilingual-mpnet-base-v2",
			Dimensions: 384,
			Timeout:    30 * time.Second,
		},
		OCR: OCRConfig{
			Model:   "gemini-1.5-pro-002",
			Timeout: 60 * time.Second,
		},
	}
}

// Load returns Default overridden by environment variables.
func Load() Config {
	cfg := Default()

	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.ProxyHeader = getEnv("PROXY_HEADER", cfg.ProxyHeader)
	cfg.ReadTimeout = getEnvDuration("HTTP_READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvDuration("HTTP_WRITE_TIMEOUT", cfg.WriteTimeout)

	cfg.JWT.SecretKey = getEnv("JWT_SECRET_KEY", cfg.JWT.SecretKey)
	cfg.JWT.Algorithm = strings.ToUpper(getEnv("JWT_ALGORITHM", cfg.JWT.Algorithm))
	cfg.JWT.Issuer = getEnv("JWT_ISSUER", cfg.JWT.Issuer)
	cfg.JWT.AccessTokenDuration = getEnvDuration("ACCESS_TOKEN_EXPIRE", cfg.JWT.AccessTokenDuration)
	cfg.JWT.RefreshTokenDuration = getEnvDuration("REFRESH_TOKEN_EXPIRE", cfg.JWT.RefreshTokenDuration)

	cfg.Ledger.PurgeInterval = getEnvDuration("BLACKLIST_PURGE_INTERVAL", cfg.Ledger.PurgeInterval)

	cfg.RateLimit.RedisAddr = getEnv("REDIS_ADDR", cfg.RateLimit.RedisAddr)
	cfg.RateLimit.RequestsPerWindow = getEnvInt("LOGIN_RATE_LIMIT", cfg.RateLimit.RequestsPerWindow)
	cfg.RateLimit.WindowSize = getEnvDuration("LOGIN_RATE_WINDOW", cfg.RateLimit.WindowSize)

	cfg.Embedding.URL = getEnv("EMBEDDING_URL", cfg.Embedding.URL)
	cfg.Embedding.Model = getEnv("EMBEDDING_MODEL", cfg.Embedding.Model)
	cfg.Embedding.APIKey = getEnv("EMBEDDING_API_KEY", cfg.Embedding.APIKey)
	cfg.Embedding.Dimensions = getEnvInt("EMBEDDING_DIMENSIONS", cfg.Embedding.Dimensions)

	cfg.OCR.URL = getEnv("OCR_URL", cfg.OCR.URL)
	cfg.OCR.Model = getEnv("OCR_MODEL", cfg.OCR.Model)
	cfg.OCR.APIKey = getEnv("OCR_API_KEY", cfg.OCR.APIKey)

	return cfg
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
