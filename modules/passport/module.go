package passport

import (
	"context"
	"fmt"

	"github.com/example/grantmatch/database"
	domain "github.com/example/grantmatch/domain/passport"
	"github.com/example/grantmatch/reqrep"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// Module stores passport data.
type Module struct {
	dbPath  string
	logger  types.Logger
	db      *gorm.DB
	service *Service
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new passport module.
func NewModule(dbPath string, logger types.Logger) *Module {
	return &Module{
		dbPath: dbPath,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "passport"
}

// Start opens and migrates the passport table.
func (m *Module) Start(_ context.Context) error {
	db, err := database.Open(m.dbPath, &domain.Passport{})
	if err != nil {
		return err
	}
	m.db = db
	m.service = NewService(NewRepository(db))

	m.logger.Info("Passport module started", "database", m.dbPath)
	return nil
}

// Stop closes the database.
func (m *Module) Stop(_ context.Context) error {
	if err := database.Close(m.db); err != nil {
		m.logger.Warn("Failed to close database", "error", err)
	}
	m.logger.Info("Passport module stopped")
	return nil
}

// Health reports database reachability.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if err := database.Ping(m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := reqrep.RegisterAll(container,
		reqrep.Handle(ServiceCreate, m.handleCreate),
		reqrep.Handle(ServiceGet, m.handleGet),
		reqrep.Handle(ServiceUpdate, m.handleUpdate),
	); err != nil {
		return err
	}
	m.logger.Info("Registered passport services", "count", 3)
	return nil
}

func (m *Module) handleCreate(ctx context.Context, req Request, _ *mono.Msg) (domain.Passport, error) {
	p, err := m.service.Create(ctx, req.UserID, req.Input)
	if err != nil {
		return domain.Passport{}, err
	}
	m.logger.Info("Passport stored", "user_id", req.UserID)
	return *p, nil
}

func (m *Module) handleGet(ctx context.Context, req Request, _ *mono.Msg) (domain.Passport, error) {
	p, err := m.service.Get(ctx, req.UserID)
	if err != nil {
		return domain.Passport{}, err
	}
	return *p, nil
}

func (m *Module) handleUpdate(ctx context.Context, req Request, _ *mono.Msg) (domain.Passport, error) {
	p, err := m.service.Update(ctx, req.UserID, req.Input)
	if err != nil {
		return domain.Passport{}, err
	}
	return *p, nil
}
