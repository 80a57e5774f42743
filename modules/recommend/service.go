package recommend

import (
	"context"

	domain "github.com/example/grantmatch/domain/catalog"
)

// CatalogReader is the part of the catalog the recommender reads.
type CatalogReader interface {
	GetStartup(ctx context.Context, id uint) (*domain.Startup, error)
	AllPrograms(ctx context.Context) ([]domain.Program, error)
}

// Service recommends grant programs for stored startups.
type Service struct {
	catalog     CatalogReader
	recommender *Recommender
}

// NewService creates a new recommendation service.
func NewService(catalog CatalogReader, recommender *Recommender) *Service {
	return &Service{
		catalog:     catalog,
		recommender: recommender,
	}
}

// ForStartup ranks every grant program against the description of startup id.
func (s *Service) ForStartup(ctx context.Context, id uint) (*StartupRecommendations, error) {
	startup, err := s.catalog.GetStartup(ctx, id)
	if err != nil {
		return nil, err
	}

	programs, err := s.catalog.AllPrograms(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(programs))
	for i, p := range programs {
		candidates[i] = Candidate{Title: p.Title, URL: p.URL, Description: p.Description}
	}

	description := ""
	if startup.Description != nil {
		description = *startup.Description
	}

	recs, err := s.recommender.Recommend(ctx, description, candidates)
	if err != nil {
		return nil, err
	}
	return &StartupRecommendations{
		Startup:           startup.StartupID,
		RecommendedGrants: recs,
	}, nil
}

// Rank ranks arbitrary candidates against description.
func (s *Service) Rank(ctx context.Context, description string, candidates []Candidate) ([]Recommendation, error) {
	return s.recommender.Recommend(ctx, description, candidates)
}
