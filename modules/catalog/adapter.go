package catalog

import (
	"context"

	"github.com/example/grantmatch/database"
	domain "github.com/example/grantmatch/domain/catalog"
	"github.com/example/grantmatch/reqrep"
	"github.com/go-monolith/mono"
)

// CatalogPort is the interface other modules use to reach catalog data.
type CatalogPort interface {
	CreateStartup(ctx context.Context, in StartupInput) (*domain.Startup, error)
	GetStartup(ctx context.Context, id uint) (*domain.Startup, error)
	ListStartups(ctx context.Context, page, itemsPerPage int) (*database.Page[domain.Startup], error)
	UpdateStartup(ctx context.Context, id uint, in StartupInput) (*domain.Startup, error)
	DeleteStartup(ctx context.Context, id uint) error

	CreateProgram(ctx context.Context, in ProgramInput) (*domain.Program, error)
	GetProgram(ctx context.Context, id uint) (*domain.Program, error)
	ListPrograms(ctx context.Context, page, itemsPerPage int) (*database.Page[domain.Program], error)
	AllPrograms(ctx context.Context) ([]domain.Program, error)
	UpdateProgram(ctx context.Context, id uint, in ProgramInput) (*domain.Program, error)
	DeleteProgram(ctx context.Context, id uint) error

	CreateGrant(ctx context.Context, grant domain.Grant) (*domain.Grant, error)
	GetGrant(ctx context.Context, id uint) (*domain.Grant, error)
	ListGrants(ctx context.Context, page, itemsPerPage int) (*database.Page[domain.Grant], error)

	CreateQuestions(ctx context.Context, userID string, in QuestionsInput) (*domain.GrantQuestions, error)
	GetQuestions(ctx context.Context, id uint) (*domain.GrantQuestions, error)
	ListUserQuestions(ctx context.Context, userID string) ([]domain.GrantQuestions, error)
	UpdateQuestions(ctx context.Context, userID string, id uint, in QuestionsInput) (*domain.GrantQuestions, error)
	DeleteQuestions(ctx context.Context, userID string, id uint) error
}

// Adapter implements CatalogPort over the service container.
type Adapter struct {
	container mono.ServiceContainer
}

var _ CatalogPort = (*Adapter)(nil)

// NewAdapter creates a new catalog adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

func call[Resp any](ctx context.Context, a *Adapter, service string, req any) (*Resp, error) {
	var resp Resp
	if err := reqrep.Call(ctx, a.container, service, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateStartup creates a startup.
func (a *Adapter) CreateStartup(ctx context.Context, in StartupInput) (*domain.Startup, error) {
	return call[domain.Startup](ctx, a, ServiceCreateStartup, &in)
}

// GetStartup retrieves a startup.
func (a *Adapter) GetStartup(ctx context.Context, id uint) (*domain.Startup, error) {
	return call[domain.Startup](ctx, a, ServiceGetStartup, &IDRequest{ID: id})
}

// ListStartups lists startups.
func (a *Adapter) ListStartups(ctx context.Context, page, itemsPerPage int) (*database.Page[domain.Startup], error) {
	return call[database.Page[domain.Startup]](ctx, a, ServiceListStartups, &PageRequest{Page: page, ItemsPerPage: itemsPerPage})
}

// UpdateStartup updates a startup.
func (a *Adapter) UpdateStartup(ctx context.Context, id uint, in StartupInput) (*domain.Startup, error) {
	return call[domain.Startup](ctx, a, ServiceUpdateStartup, &UpdateStartupRequest{ID: id, Changes: in})
}

// DeleteStartup deletes a startup.
func (a *Adapter) DeleteStartup(ctx context.Context, id uint) error {
	_, err := call[DeletedResponse](ctx, a, ServiceDeleteStartup, &IDRequest{ID: id})
	return err
}

// CreateProgram creates a grant program.
func (a *Adapter) CreateProgram(ctx context.Context, in ProgramInput) (*domain.Program, error) {
	return call[domain.Program](ctx, a, ServiceCreateProgram, &in)
}

// GetProgram retrieves a grant program.
func (a *Adapter) GetProgram(ctx context.Context, id uint) (*domain.Program, error) {
	return call[domain.Program](ctx, a, ServiceGetProgram, &IDRequest{ID: id})
}

// ListPrograms lists grant programs.
func (a *Adapter) ListPrograms(ctx context.Context, page, itemsPerPage int) (*database.Page[domain.Program], error) {
	return call[database.Page[domain.Program]](ctx, a, ServiceListPrograms, &PageRequest{Page: page, ItemsPerPage: itemsPerPage})
}

// AllPrograms returns every grant program.
func (a *Adapter) AllPrograms(ctx context.Context) ([]domain.Program, error) {
	resp, err := call[ProgramsResponse](ctx, a, ServiceAllPrograms, &struct{}{})
	if err != nil {
		return nil, err
	}
	return resp.Programs, nil
}

// UpdateProgram updates a grant program.
func (a *Adapter) UpdateProgram(ctx context.Context, id uint, in ProgramInput) (*domain.Program, error) {
	return call[domain.Program](ctx, a, ServiceUpdateProgram, &UpdateProgramRequest{ID: id, Changes: in})
}

// DeleteProgram deletes a grant program.
func (a *Adapter) DeleteProgram(ctx context.Context, id uint) error {
	_, err := call[DeletedResponse](ctx, a, ServiceDeleteProgram, &IDRequest{ID: id})
	return err
}

// CreateGrant stores a parsed grant.
func (a *Adapter) CreateGrant(ctx context.Context, grant domain.Grant) (*domain.Grant, error) {
	return call[domain.Grant](ctx, a, ServiceCreateGrant, &grant)
}

// GetGrant retrieves a parsed grant.
func (a *Adapter) GetGrant(ctx context.Context, id uint) (*domain.Grant, error) {
	return call[domain.Grant](ctx, a, ServiceGetGrant, &IDRequest{ID: id})
}

// ListGrants lists parsed grants.
func (a *Adapter) ListGrants(ctx context.Context, page, itemsPerPage int) (*database.Page[domain.Grant], error) {
	return call[database.Page[domain.Grant]](ctx, a, ServiceListGrants, &PageRequest{Page: page, ItemsPerPage: itemsPerPage})
}

// CreateQuestions stores a questionnaire for userID.
func (a *Adapter) CreateQuestions(ctx context.Context, userID string, in QuestionsInput) (*domain.GrantQuestions, error) {
	return call[domain.GrantQuestions](ctx, a, ServiceCreateQuestions, &QuestionsRequest{UserID: userID, Changes: in})
}

// GetQuestions retrieves a questionnaire.
func (a *Adapter) GetQuestions(ctx context.Context, id uint) (*domain.GrantQuestions, error) {
	return call[domain.GrantQuestions](ctx, a, ServiceGetQuestions, &IDRequest{ID: id})
}

// ListUserQuestions lists the questionnaires of userID.
func (a *Adapter) ListUserQuestions(ctx context.Context, userID string) ([]domain.GrantQuestions, error) {
	resp, err := call[QuestionsListResponse](ctx, a, ServiceListUserQuestions, &QuestionsRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// UpdateQuestions updates a questionnaire owned by userID.
func (a *Adapter) UpdateQuestions(ctx context.Context, userID string, id uint, in QuestionsInput) (*domain.GrantQuestions, error) {
	return call[domain.GrantQuestions](ctx, a, ServiceUpdateQuestions, &QuestionsRequest{UserID: userID, ID: id, Changes: in})
}

// DeleteQuestions deletes a questionnaire owned by userID.
func (a *Adapter) DeleteQuestions(ctx context.Context, userID string, id uint) error {
	_, err := call[DeletedResponse](ctx, a, ServiceDeleteQuestions, &QuestionsRequest{UserID: userID, ID: id})
	return err
}
