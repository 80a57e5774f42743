package catalog

import (
	"context"
	"fmt"

	"github.com/example/grantmatch/database"
	domain "github.com/example/grantmatch/domain/catalog"
	"github.com/example/grantmatch/reqrep"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// Module owns startups, grant programs, parsed grants and questionnaires.
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

// NewModule creates a new catalog module backed by the database at dbPath.
func NewModule(dbPath string, logger types.Logger) *Module {
	return &Module{
		dbPath: dbPath,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// Start opens and migrates the catalog tables.
func (m *Module) Start(_ context.Context) error {
	db, err := database.Open(m.dbPath,
		&domain.Startup{},
		&domain.Program{},
		&domain.Grant{},
		&domain.GrantQuestions{},
	)
	if err != nil {
		return err
	}
	m.db = db

	m.service = NewService(
		NewRepository[domain.Startup](db),
		NewRepository[domain.Program](db),
		NewRepository[domain.Grant](db),
		NewRepository[domain.GrantQuestions](db),
	)

	m.logger.Info("Catalog module started", "database", m.dbPath)
	return nil
}

// Stop closes the database.
func (m *Module) Stop(_ context.Context) error {
	if err := database.Close(m.db); err != nil {
		m.logger.Warn("Failed to close database", "error", err)
	}
	m.logger.Info("Catalog module stopped")
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
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"database": m.dbPath},
	}
}

// Service returns the catalog service.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := reqrep.RegisterAll(container,
		reqrep.Handle(ServiceCreateStartup, m.handleCreateStartup),
		reqrep.Handle(ServiceGetStartup, m.handleGetStartup),
		reqrep.Handle(ServiceListStartups, m.handleListStartups),
		reqrep.Handle(ServiceUpdateStartup, m.handleUpdateStartup),
		reqrep.Handle(ServiceDeleteStartup, m.handleDeleteStartup),
		reqrep.Handle(ServiceCreateProgram, m.handleCreateProgram),
		reqrep.Handle(ServiceGetProgram, m.handleGetProgram),
		reqrep.Handle(ServiceListPrograms, m.handleListPrograms),
		reqrep.Handle(ServiceAllPrograms, m.handleAllPrograms),
		reqrep.Handle(ServiceUpdateProgram, m.handleUpdateProgram),
		reqrep.Handle(ServiceDeleteProgram, m.handleDeleteProgram),
		reqrep.Handle(ServiceCreateGrant, m.handleCreateGrant),
		reqrep.Handle(ServiceGetGrant, m.handleGetGrant),
		reqrep.Handle(ServiceListGrants, m.handleListGrants),
		reqrep.Handle(ServiceCreateQuestions, m.handleCreateQuestions),
		reqrep.Handle(ServiceGetQuestions, m.handleGetQuestions),
		reqrep.Handle(ServiceListUserQuestions, m.handleListUserQuestions),
		reqrep.Handle(ServiceUpdateQuestions, m.handleUpdateQuestions),
		reqrep.Handle(ServiceDeleteQuestions, m.handleDeleteQuestions),
	); err != nil {
		return err
	}

	m.logger.Info("Registered catalog services", "count", 19)
	return nil
}

func (m *Module) handleCreateStartup(ctx context.Context, req StartupInput, _ *mono.Msg) (domain.Startup, error) {
	startup, err := m.service.CreateStartup(ctx, req)
	if err != nil {
		return domain.Startup{}, err
	}
	m.logger.Info("Startup created", "startup_id", *startup.StartupID)
	return *startup, nil
}

func (m *Module) handleGetStartup(ctx context.Context, req IDRequest, _ *mono.Msg) (domain.Startup, error) {
	startup, err := m.service.GetStartup(ctx, req.ID)
	if err != nil {
		return domain.Startup{}, err
	}
	return *startup, nil
}

func (m *Module) handleListStartups(ctx context.Context, req PageRequest, _ *mono.Msg) (database.Page[domain.Startup], error) {
	return m.service.ListStartups(ctx, req.Page, req.ItemsPerPage)
}

func (m *Module) handleUpdateStartup(ctx context.Context, req UpdateStartupRequest, _ *mono.Msg) (domain.Startup, error) {
	startup, err := m.service.UpdateStartup(ctx, req.ID, req.Changes)
	if err != nil {
		return domain.Startup{}, err
	}
	return *startup, nil
}

func (m *Module) handleDeleteStartup(ctx context.Context, req IDRequest, _ *mono.Msg) (DeletedResponse, error) {
	if err := m.service.DeleteStartup(ctx, req.ID); err != nil {
		return DeletedResponse{}, err
	}
	return DeletedResponse{Message: "Startup deleted"}, nil
}

func (m *Module) handleCreateProgram(ctx context.Context, req ProgramInput, _ *mono.Msg) (domain.Program, error) {
	program, err := m.service.CreateProgram(ctx, req)
	if err != nil {
		return domain.Program{}, err
	}
	return *program, nil
}

func (m *Module) handleGetProgram(ctx context.Context, req IDRequest, _ *mono.Msg) (domain.Program, error) {
	program, err := m.service.GetProgram(ctx, req.ID)
	if err != nil {
		return domain.Program{}, err
	}
	return *program, nil
}

func (m *Module) handleListPrograms(ctx context.Context, req PageRequest, _ *mono.Msg) (database.Page[domain.Program], error) {
	return m.service.ListPrograms(ctx, req.Page, req.ItemsPerPage)
}

func (m *Module) handleAllPrograms(ctx context.Context, _ struct{}, _ *mono.Msg) (ProgramsResponse, error) {
	programs, err := m.service.AllPrograms(ctx)
	if err != nil {
		return ProgramsResponse{}, err
	}
	return ProgramsResponse{Programs: programs}, nil
}

func (m *Module) handleUpdateProgram(ctx context.Context, req UpdateProgramRequest, _ *mono.Msg) (domain.Program, error) {
	program, err := m.service.UpdateProgram(ctx, req.ID, req.Changes)
	if err != nil {
		return domain.Program{}, err
	}
	return *program, nil
}

func (m *Module) handleDeleteProgram(ctx context.Context, req IDRequest, _ *mono.Msg) (DeletedResponse, error) {
	if err := m.service.DeleteProgram(ctx, req.ID); err != nil {
		return DeletedResponse{}, err
	}
	return DeletedResponse{Message: "Program deleted"}, nil
}

func (m *Module) handleCreateGrant(ctx context.Context, req domain.Grant, _ *mono.Msg) (domain.Grant, error) {
	grant, err := m.service.CreateGrant(ctx, req)
	if err != nil {
		return domain.Grant{}, err
	}
	return *grant, nil
}

func (m *Module) handleGetGrant(ctx context.Context, req IDRequest, _ *mono.Msg) (domain.Grant, error) {
	grant, err := m.service.GetGrant(ctx, req.ID)
	if err != nil {
		return domain.Grant{}, err
	}
	return *grant, nil
}

func (m *Module) handleListGrants(ctx context.Context, req PageRequest, _ *mono.Msg) (database.Page[domain.Grant], error) {
	return m.service.ListGrants(ctx, req.Page, req.ItemsPerPage)
}

func (m *Module) handleCreateQuestions(ctx context.Context, req QuestionsRequest, _ *mono.Msg) (domain.GrantQuestions, error) {
	q, err := m.service.CreateQuestions(ctx, req.UserID, req.Changes)
	if err != nil {
		return domain.GrantQuestions{}, err
	}
	return *q, nil
}

func (m *Module) handleGetQuestions(ctx context.Context, req IDRequest, _ *mono.Msg) (domain.GrantQuestions, error) {
	q, err := m.service.GetQuestions(ctx, req.ID)
	if err != nil {
		return domain.GrantQuestions{}, err
	}
	return *q, nil
}

func (m *Module) handleListUserQuestions(ctx context.Context, req QuestionsRequest, _ *mono.Msg) (QuestionsListResponse, error) {
	qs, err := m.service.ListUserQuestions(ctx, req.UserID)
	if err != nil {
		return QuestionsListResponse{}, err
	}
	return QuestionsListResponse{Questions: qs}, nil
}

func (m *Module) handleUpdateQuestions(ctx context.Context, req QuestionsRequest, _ *mono.Msg) (domain.GrantQuestions, error) {
	q, err := m.service.UpdateQuestions(ctx, req.UserID, req.ID, req.Changes)
	if err != nil {
		return domain.GrantQuestions{}, err
	}
	return *q, nil
}

func (m *Module) handleDeleteQuestions(ctx context.Context, req QuestionsRequest, _ *mono.Msg) (DeletedResponse, error) {
	if err := m.service.DeleteQuestions(ctx, req.UserID, req.ID); err != nil {
		return DeletedResponse{}, err
	}
	return DeletedResponse{Message: "Question deleted successfully"}, nil
}
