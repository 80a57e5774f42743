package recommend

import (
	"context"

	"github.com/example/grantmatch/reqrep"
	"github.com/go-monolith/mono"
)

// RecommendPort is the interface other modules use to request recommendations.
type RecommendPort interface {
	ForStartup(ctx context.Context, startupID uint) (*StartupRecommendations, error)
	Rank(ctx context.Context, description string, candidates []Candidate) ([]Recommendation, error)
}

// Adapter implements RecommendPort over the service container.
type Adapter struct {
	container mono.ServiceContainer
}

var _ RecommendPort = (*Adapter)(nil)

// NewAdapter creates a new recommend adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

// ForStartup returns the top programs for a stored startup.
func (a *Adapter) ForStartup(ctx context.Context, startupID uint) (*StartupRecommendations, error) {
	var resp StartupRecommendations
	if err := reqrep.Call(ctx, a.container, ServiceForStartup, &StartupRequest{StartupID: startupID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Rank ranks candidates against description.
func (a *Adapter) Rank(ctx context.Context, description string, candidates []Candidate) ([]Recommendation, error) {
	var resp RankResponse
	req := RankRequest{Description: description, Candidates: candidates}
	if err := reqrep.Call(ctx, a.container, ServiceRank, &req, &resp); err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}
