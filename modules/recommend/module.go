package recommend

import (
	"context"
	"fmt"

	"github.com/example/grantmatch/config"
	"github.com/example/grantmatch/modules/catalog"
	"github.com/example/grantmatch/reqrep"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module serves grant program recommendations.
type Module struct {
	cfg           config.EmbeddingConfig
	logger        types.Logger
	catalogReader CatalogReader
	embedder      Embedder
	service       *Service
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new recommend module.
func NewModule(cfg config.EmbeddingConfig, logger types.Logger) *Module {
	return &Module{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "recommend"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"catalog"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "catalog":
		m.catalogReader = catalog.NewAdapter(container)
	}
}

// Start builds the embedder. A remote embedder is warmed up once and a
// failure aborts startup.
func (m *Module) Start(ctx context.Context) error {
	if m.catalogReader == nil {
		return fmt.Errorf("catalog dependency not set")
	}

	if m.cfg.URL == "" {
		m.embedder = NewHashingEmbedder(m.cfg.Dimensions)
		m.logger.Warn("EMBEDDING_URL not set, using local hashing embedder")
	} else {
		embedder := NewHTTPEmbedder(m.cfg, nil)
		if _, err := embedder.Embed(ctx, []string{"warm-up"}); err != nil {
			return fmt.Errorf("embedding warm-up failed: %w", err)
		}
		m.embedder = embedder
	}

	m.service = NewService(m.catalogReader, NewRecommender(m.embedder))
	m.logger.Info("Recommend module started", "model", m.embedder.Model())
	return nil
}

// Stop is a no-op; the embedder holds no resources.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Recommend module stopped")
	return nil
}

// Health reports the embedding model in use.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.embedder == nil {
		return mono.HealthStatus{Healthy: false, Message: "embedder not initialized"}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"model": m.embedder.Model()},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := reqrep.RegisterAll(container,
		reqrep.Handle(ServiceForStartup, m.handleForStartup),
		reqrep.Handle(ServiceRank, m.handleRank),
	); err != nil {
		return err
	}
	m.logger.Info("Registered recommend services", "count", 2)
	return nil
}

func (m *Module) handleForStartup(ctx context.Context, req StartupRequest, _ *mono.Msg) (StartupRecommendations, error) {
	recs, err := m.service.ForStartup(ctx, req.StartupID)
	if err != nil {
		return StartupRecommendations{}, err
	}
	return *recs, nil
}

func (m *Module) handleRank(ctx context.Context, req RankRequest, _ *mono.Msg) (RankResponse, error) {
	recs, err := m.service.Rank(ctx, req.Description, req.Candidates)
	if err != nil {
		return RankResponse{}, err
	}
	return RankResponse{Recommendations: recs}, nil
}
