package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/grantmatch/config"
	"github.com/example/grantmatch/modules/auth"
	"github.com/example/grantmatch/modules/catalog"
	"github.com/example/grantmatch/modules/passport"
	"github.com/example/grantmatch/modules/recommend"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// bodyLimit admits two passport page photos in one multipart request.
const bodyLimit = 2*maxPageSize + 1<<20

// RateLimiter provides the middleware mounted on credential endpoints.
type RateLimiter interface {
	Handler() fiber.Handler
}

// APIModule is the HTTP API module.
type APIModule struct {
	cfg         config.Config
	logger      types.Logger
	scanner     *passport.Scanner
	rateLimiter RateLimiter
	app         *fiber.App

	authPort      auth.AuthPort
	catalogPort   catalog.CatalogPort
	recommendPort recommend.RecommendPort
	passportPort  passport.PassportPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule. scanner runs passport recognition
// in-process, since page photos are too large for service messages.
func NewModule(cfg config.Config, scanner *passport.Scanner, logger types.Logger) *APIModule {
	return &APIModule{
		cfg:     cfg,
		scanner: scanner,
		logger:  logger,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// SetRateLimitModule sets the limiter for credential endpoints.
func (m *APIModule) SetRateLimitModule(rl RateLimiter) {
	m.rateLimiter = rl
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "catalog", "recommend", "passport"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "catalog":
		m.catalogPort = catalog.NewAdapter(container)
	case "recommend":
		m.recommendPort = recommend.NewAdapter(container)
	case "passport":
		m.passportPort = passport.NewAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authPort == nil || m.catalogPort == nil || m.recommendPort == nil || m.passportPort == nil {
		return errors.New("api dependencies not set")
	}

	m.app = m.newApp()

	addr := fmt.Sprintf(":%d", m.cfg.HTTPPort)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.HTTPPort,
		},
	}
}

// newApp builds the Fiber application with middleware and routes.
func (m *APIModule) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
		ProxyHeader:           m.cfg.ProxyHeader,
		ReadTimeout:           m.cfg.ReadTimeout,
		WriteTimeout:          m.cfg.WriteTimeout,
		BodyLimit:             bodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: m.cfg.CORSOrigins,
	}))

	m.setupRoutes(app)
	return app
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	h := NewHandlers(m.authPort, m.catalogPort, m.recommendPort, m.passportPort, m.scanner, m.logger)
	guards := NewGuards(m.authPort, m.logger)
	session := guards.RequireSession()
	account := guards.RequireAccount()
	superuser := guards.RequireSuperuser()

	limit := func(c *fiber.Ctx) error { return c.Next() }
	if m.rateLimiter != nil {
		limit = m.rateLimiter.Handler()
	}

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	v1 := app.Group("/api/v1")

	// Sessions
	v1.Post("/user", limit, h.Register)
	v1.Post("/login", limit, h.Login)
	v1.Post("/refresh", h.Refresh)
	v1.Post("/anonymous-session", limit, h.AnonymousSession)
	v1.Post("/logout", session, h.Logout)

	// Users
	v1.Get("/users", h.ListUsers)
	v1.Get("/user/me", account, h.Me)
	v1.Get("/user/:username", h.GetUser)
	v1.Patch("/user/:id", account, h.UpdateUser)
	v1.Delete("/user/:username", account, h.DeleteUser)
	v1.Delete("/db_user/:username", superuser, h.EraseUser)

	// Startups
	startups := v1.Group("/startups", session)
	startups.Post("/", h.CreateStartup)
	startups.Get("/", h.ListStartups)
	startups.Get("/:id", h.GetStartup)
	startups.Put("/:id", h.UpdateStartup)
	startups.Delete("/:id", h.DeleteStartup)

	// Grant programs
	v1.Get("/programs", session, h.ListPrograms)
	v1.Get("/programs/:id", session, h.GetProgram)
	v1.Post("/programs", superuser, h.CreateProgram)
	v1.Put("/programs/:id", superuser, h.UpdateProgram)
	v1.Delete("/programs/:id", superuser, h.DeleteProgram)

	// Parsed grant listings
	v1.Get("/parsed_data/grants", h.ListGrants)
	v1.Get("/parsed_data/grants/:id", h.GetGrant)
	v1.Post("/parsed_data/grants", superuser, h.CreateGrant)

	// Questionnaires
	questions := v1.Group("/grant-questions", account)
	questions.Post("/", h.CreateQuestions)
	questions.Get("/user", h.ListUserQuestions)
	questions.Get("/:id", h.GetQuestions)
	questions.Put("/:id", h.UpdateQuestions)
	questions.Delete("/:id", h.DeleteQuestions)

	// Recommendations
	v1.Get("/rec_sys/:startup_id", session, h.RecommendForStartup)
	v1.Post("/rec_sys", session, h.RecommendForDescription)

	// Passport
	passports := v1.Group("/passport", account)
	passports.Post("/recognize", h.RecognizePassport)
	passports.Post("/", h.CreatePassport)
	passports.Get("/", h.GetPassport)
	passports.Put("/", h.UpdatePassport)

	v1.Get("/news", h.News)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
