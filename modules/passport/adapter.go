package passport

import (
	"context"

	domain "github.com/example/grantmatch/domain/passport"
	"github.com/example/grantmatch/reqrep"
	"github.com/go-monolith/mono"
)

// PassportPort is the interface other modules use to manage passports.
type PassportPort interface {
	Create(ctx context.Context, userID string, in Input) (*domain.Passport, error)
	Get(ctx context.Context, userID string) (*domain.Passport, error)
	Update(ctx context.Context, userID string, in Input) (*domain.Passport, error)
}

// Adapter implements PassportPort over the service container.
type Adapter struct {
	container mono.ServiceContainer
}

var _ PassportPort = (*Adapter)(nil)

// NewAdapter creates a new passport adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

func (a *Adapter) call(ctx context.Context, service string, req Request) (*domain.Passport, error) {
	var resp domain.Passport
	if err := reqrep.Call(ctx, a.container, service, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create stores the passport of userID.
func (a *Adapter) Create(ctx context.Context, userID string, in Input) (*domain.Passport, error) {
	return a.call(ctx, ServiceCreate, Request{UserID: userID, Input: in})
}

// Get returns the passport of userID.
func (a *Adapter) Get(ctx context.Context, userID string) (*domain.Passport, error) {
	return a.call(ctx, ServiceGet, Request{UserID: userID})
}

// Update changes the passport of userID.
func (a *Adapter) Update(ctx context.Context, userID string, in Input) (*domain.Passport, error) {
	return a.call(ctx, ServiceUpdate, Request{UserID: userID, Input: in})
}
