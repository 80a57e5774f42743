package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.HTTPPort != 3000 {
		t.Errorf("HTTPPort = %v, want %v", cfg.HTTPPort, 3000)
	}
	if cfg.JWT.Algorithm != "HS256" {
		t.Errorf("JWT.Algorithm = %v, want %v", cfg.JWT.Algorithm, "HS256")
	}
	if cfg.JWT.AccessTokenDuration != 30*time.Minute {
		t.Errorf("JWT.AccessTokenDuration = %v, want %v", cfg.JWT.AccessTokenDuration, 30*time.Minute)
	}
	if cfg.JWT.RefreshTokenDuration != 7*24*time.Hour {
		t.Errorf("JWT.RefreshTokenDuration = %v, want %v", cfg.JWT.RefreshTokenDuration, 7*24*time.Hour)
	}
	if cfg.RateLimit.RedisAddr != "" {
		t.Errorf("RateLimit.RedisAddr = %q, want empty", cfg.RateLimit.RedisAddr)
	}
	if cfg.Embedding.URL != "" {
		t.Errorf("Embedding.URL = %q, want empty", cfg.Embedding.URL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("JWT_SECRET_KEY", "from-env")
	t.Setenv("JWT_ALGORITHM", "hs512")
	t.Setenv("ACCESS_TOKEN_EXPIRE", "5m")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("EMBEDDING_URL", "http://tei:8080")
	t.Setenv("PROXY_HEADER", "X-Forwarded-For")
	t.Setenv("HTTP_WRITE_TIMEOUT", "2m")

	cfg := Load()

	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %v, want %v", cfg.HTTPPort, 8080)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/test.db")
	}
	if cfg.JWT.SecretKey != "from-env" {
		t.Errorf("JWT.SecretKey = %q, want %q", cfg.JWT.SecretKey, "from-env")
	}
	if cfg.JWT.Algorithm != "HS512" {
		t.Errorf("JWT.Algorithm = %q, want %q", cfg.JWT.Algorithm, "HS512")
	}
	if cfg.JWT.AccessTokenDuration != 5*time.Minute {
		t.Errorf("JWT.AccessTokenDuration = %v, want %v", cfg.JWT.AccessTokenDuration, 5*time.Minute)
	}
	if cfg.RateLimit.RedisAddr != "redis:6379" {
		t.Errorf("RateLimit.RedisAddr = %q, want %q", cfg.RateLimit.RedisAddr, "redis:6379")
	}
	if cfg.Embedding.URL != "http://tei:8080" {
		t.Errorf("Embedding.URL = %q, want %q", cfg.Embedding.URL, "http://tei:8080")
	}
	if cfg.ProxyHeader != "X-Forwarded-For" {
		t.Errorf("ProxyHeader = %q, want %q", cfg.ProxyHeader, "X-Forwarded-For")
	}
	if cfg.WriteTimeout != 2*time.Minute {
		t.Errorf("WriteTimeout = %v, want %v", cfg.WriteTimeout, 2*time.Minute)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("REFRESH_TOKEN_EXPIRE", "forever")

	cfg := Load()

	if cfg.HTTPPort != 3000 {
		t.Errorf("HTTPPort = %v, want %v", cfg.HTTPPort, 3000)
	}
	if cfg.JWT.RefreshTokenDuration != 7*24*time.Hour {
		t.Errorf("JWT.RefreshTokenDuration = %v, want %v", cfg.JWT.RefreshTokenDuration, 7*24*time.Hour)
	}
}
