package passport

import (
	"context"
	"errors"

	domain "github.com/example/grantmatch/domain/passport"
)

// ErrPassportExists is returned when a user already has a passport on file.
var ErrPassportExists = errors.New("passport already exists for this user")

// Input carries passport fields. Nil means unset or unchanged.
type Input struct {
	Series              *string `json:"series,omitempty"`
	Number              *string `json:"number,omitempty"`
	LastName            *string `json:"last_name,omitempty"`
	FirstName           *string `json:"first_name,omitempty"`
	MiddleName          *string `json:"middle_name,omitempty"`
	BirthDate           *string `json:"birth_date,omitempty"`
	BirthPlace          *string `json:"birth_place,omitempty"`
	IssueDate           *string `json:"issue_date,omitempty"`
	IssuingAuthority    *string `json:"issuing_authority,omitempty"`
	DepartmentCode      *string `json:"department_code,omitempty"`
	RegistrationAddress *string `json:"registration_address,omitempty"`
	RegistrationDate    *string `json:"registration_date,omitempty"`
}

func (in Input) changes() map[string]any {
	m := map[string]any{}
	for column, v := range map[string]*string{
		"series":               in.Series,
		"number":               in.Number,
		"last_name":            in.LastName,
		"first_name":           in.FirstName,
		"middle_name":          in.MiddleName,
		"birth_date":           in.BirthDate,
		"birth_place":          in.BirthPlace,
		"issue_date":           in.IssueDate,
		"issuing_authority":    in.IssuingAuthority,
		"department_code":      in.DepartmentCode,
		"registration_address": in.RegistrationAddress,
		"registration_date":    in.RegistrationDate,
	} {
		if v != nil {
			m[column] = *v
		}
	}
	return m
}

// Service manages one passport per user.
type Service struct {
	repo *Repository
}

// NewService creates a new passport service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create stores the passport of userID.
func (s *Service) Create(ctx context.Context, userID string, in Input) (*domain.Passport, error) {
	_, exists, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPassportExists
	}

	p := &domain.Passport{
		UserID:              userID,
		Series:              in.Series,
		Number:              in.Number,
		LastName:            in.LastName,
		FirstName:           in.FirstName,
		MiddleName:          in.MiddleName,
		BirthDate:           in.BirthDate,
		BirthPlace:          in.BirthPlace,
		IssueDate:           in.IssueDate,
		IssuingAuthority:    in.IssuingAuthority,
		DepartmentCode:      in.DepartmentCode,
		RegistrationAddress: in.RegistrationAddress,
		RegistrationDate:    in.RegistrationDate,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the passport of userID.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Passport, error) {
	p, ok, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPassportNotFound
	}
	return p, nil
}

// Update applies the set fields of in to the passport of userID.
func (s *Service) Update(ctx context.Context, userID string, in Input) (*domain.Passport, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p.ID, in.changes()); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}
