package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/example/grantmatch/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Module owns the Redis connection behind the login rate limiter. With no
// Redis address configured it stays disabled and its handler lets every
// request through.
type Module struct {
	cfg    config.RateLimitConfig
	logger types.Logger
	client *redis.Client
	limit  atomic.Pointer[fiber.Handler]
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new rate limiting module.
func NewModule(cfg config.RateLimitConfig, logger types.Logger) *Module {
	return &Module{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "rate-limiter"
}

// Start connects to Redis.
func (m *Module) Start(ctx context.Context) error {
	if m.cfg.RedisAddr == "" {
		m.logger.Warn("REDIS_ADDR not set, login rate limiting disabled")
		return nil
	}

	m.client = redis.NewClient(&redis.Options{Addr: m.cfg.RedisAddr})
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	limiter := NewSlidingWindowLimiter(m.client, Config{
		RequestsPerWindow: m.cfg.RequestsPerWindow,
		WindowSize:        m.cfg.WindowSize,
	}, m.cfg.KeyPrefix)
	m.setLimiter(limiter)

	m.logger.Info("Rate limiter connected to Redis",
		"addr", m.cfg.RedisAddr,
		"limit", m.cfg.RequestsPerWindow,
		"window", m.cfg.WindowSize.String())
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			m.logger.Warn("Error closing Redis connection", "error", err)
		}
	}
	m.logger.Info("Rate limiter stopped")
	return nil
}

// Enabled reports whether requests are being limited.
func (m *Module) Enabled() bool {
	return m.limit.Load() != nil
}

func (m *Module) setLimiter(limiter Limiter) {
	handler := NewMiddleware(limiter, m.logger).IPRateLimit()
	m.limit.Store(&handler)
}

// Handler returns the per-IP limiting middleware. It may be mounted before
// Start; the limiter is looked up per request.
func (m *Module) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := m.limit.Load()
		if limit == nil {
			return c.Next()
		}
		return (*limit)(c)
	}
}

// Health reports Redis reachability.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.client == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "disabled",
		}
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"redis_addr": m.cfg.RedisAddr},
	}
}
