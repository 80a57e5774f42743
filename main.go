package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/grantmatch/config"
	"github.com/example/grantmatch/modules/api"
	"github.com/example/grantmatch/modules/auth"
	"github.com/example/grantmatch/modules/catalog"
	"github.com/example/grantmatch/modules/passport"
	"github.com/example/grantmatch/modules/ratelimit"
	"github.com/example/grantmatch/modules/recommend"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Grant Matching Service ===")

	cfg := config.Load()

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	// Create modules
	rateLimitModule := ratelimit.NewModule(cfg.RateLimit, logger)
	scanner := passport.NewScanner(passport.NewRecognizer(cfg.OCR))
	apiModule := api.NewModule(cfg, scanner, logger)

	// Inject dependencies
	apiModule.SetRateLimitModule(rateLimitModule)

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule(cfg, logger))
	app.Register(catalog.NewModule(cfg.DBPath, logger))
	app.Register(passport.NewModule(cfg.DBPath, logger))
	app.Register(recommend.NewModule(cfg.Embedding, logger)) // Depends on catalog
	app.Register(rateLimitModule)
	app.Register(apiModule) // Depends on auth, catalog, recommend and passport

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("  Database:        %s", cfg.DBPath)
	log.Printf("  Embedding:       %s", describe(cfg.Embedding.URL, "local hashing embedder"))
	log.Printf("  Passport OCR:    %s", describe(cfg.OCR.URL, "disabled"))
	log.Printf("  Rate limiting:   %s", describe(cfg.RateLimit.RedisAddr, "disabled"))
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", cfg.HTTPPort)
	log.Println("")
	log.Println("  POST   /api/v1/user               - Register an account")
	log.Println("  POST   /api/v1/login              - Login and get tokens")
	log.Println("  POST   /api/v1/refresh            - Rotate the refresh token")
	log.Println("  POST   /api/v1/anonymous-session  - Get a device session token")
	log.Println("  POST   /api/v1/logout             - Revoke the current tokens")
	log.Println("  GET    /api/v1/startups           - Startups (session)")
	log.Println("  GET    /api/v1/programs           - Grant programs (session)")
	log.Println("  GET    /api/v1/rec_sys/:id        - Top grant programs for a startup")
	log.Println("  POST   /api/v1/passport/recognize - Recognize passport photos")
	log.Println("  GET    /api/v1/news               - News feed")
	log.Println("  GET    /health                    - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

func describe(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
