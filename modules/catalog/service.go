package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/grantmatch/database"
	domain "github.com/example/grantmatch/domain/catalog"
)

var (
	// Per-entity lookup misses, all wrapping ErrNotFound.
	ErrStartupNotFound   = fmt.Errorf("startup %w", ErrNotFound)
	ErrProgramNotFound   = fmt.Errorf("program %w", ErrNotFound)
	ErrGrantNotFound     = fmt.Errorf("grant %w", ErrNotFound)
	ErrQuestionsNotFound = fmt.Errorf("questions %w", ErrNotFound)

	// ErrEmptyRecord is returned when a create request sets no field at all.
	ErrEmptyRecord = errors.New("at least one field must be filled")
	// ErrTitleRequired is returned for grants without a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrNotOwner is returned when a user touches another user's questionnaire.
	ErrNotOwner = errors.New("questionnaire belongs to another user")
)

// StartupInput carries startup fields. Nil means unset or unchanged.
type StartupInput struct {
	Stage           *string `json:"stage,omitempty"`
	Industry        *string `json:"industry,omitempty"`
	Revenue         *int64  `json:"revenue,omitempty"`
	RequiredFunding *int64  `json:"required_funding,omitempty"`
	Location        *string `json:"location,omitempty"`
	WorkExperience  *int    `json:"work_experience,omitempty"`
	TeamSize        *int    `json:"team_size,omitempty"`
	InnovationFocus *string `json:"innovation_focus,omitempty"`
	Description     *string `json:"description,omitempty"`
}

func (in StartupInput) changes() map[string]any {
	m := map[string]any{}
	setIf(m, "stage", in.Stage)
	setIf(m, "industry", in.Industry)
	setIf(m, "revenue", in.Revenue)
	setIf(m, "required_funding", in.RequiredFunding)
	setIf(m, "location", in.Location)
	setIf(m, "work_experience", in.WorkExperience)
	setIf(m, "team_size", in.TeamSize)
	setIf(m, "innovation_focus", in.InnovationFocus)
	setIf(m, "description", in.Description)
	return m
}

// ProgramInput carries grant program fields. Nil means unset or unchanged.
type ProgramInput struct {
	Title       *string `json:"title,omitempty"`
	URL         *string `json:"url,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (in ProgramInput) changes() map[string]any {
	m := map[string]any{}
	setIf(m, "title", in.Title)
	setIf(m, "url", in.URL)
	setIf(m, "description", in.Description)
	return m
}

// QuestionsInput carries questionnaire answers. Nil means unset or unchanged.
type QuestionsInput struct {
	RequestedAmount      *string `json:"requested_amount,omitempty"`
	GrantPurpose         *string `json:"grant_purpose,omitempty"`
	PreparedDocuments    *string `json:"prepared_documents,omitempty"`
	PatentsOrInnovations *string `json:"patents_or_innovations,omitempty"`
	PreviousGrants       *string `json:"previous_grants,omitempty"`
	OperationalRegions   *string `json:"operational_regions,omitempty"`
	BusinessSize         *string `json:"business_size,omitempty"`
	ProjectIdea          *string `json:"project_idea,omitempty"`
	AnnualRevenue        *string `json:"annual_revenue,omitempty"`
	OKVEDCodes           *string `json:"okved_codes,omitempty"`
}

func (in QuestionsInput) changes() map[string]any {
	m := map[string]any{}
	setIf(m, "requested_amount", in.RequestedAmount)
	setIf(m, "grant_purpose", in.GrantPurpose)
	setIf(m, "prepared_documents", in.PreparedDocuments)
	setIf(m, "patents_or_innovations", in.PatentsOrInnovations)
	setIf(m, "previous_grants", in.PreviousGrants)
	setIf(m, "operational_regions", in.OperationalRegions)
	setIf(m, "business_size", in.BusinessSize)
	setIf(m, "project_idea", in.ProjectIdea)
	setIf(m, "annual_revenue", in.AnnualRevenue)
	setIf(m, "okved_codes", in.OKVEDCodes)
	return m
}

func setIf[V any](m map[string]any, column string, v *V) {
	if v != nil {
		m[column] = *v
	}
}

// Service implements startup, program, grant and questionnaire operations.
type Service struct {
	startups  *Repository[domain.Startup]
	programs  *Repository[domain.Program]
	grants    *Repository[domain.Grant]
	questions *Repository[domain.GrantQuestions]
}

// NewService creates a new catalog service.
func NewService(
	startups *Repository[domain.Startup],
	programs *Repository[domain.Program],
	grants *Repository[domain.Grant],
	questions *Repository[domain.GrantQuestions],
) *Service {
	return &Service{
		startups:  startups,
		programs:  programs,
		grants:    grants,
		questions: questions,
	}
}

func found[T any](record *T, ok bool, err error, notFound error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound
	}
	return record, nil
}

func notFoundAs(err, notFound error) error {
	if errors.Is(err, ErrNotFound) {
		return notFound
	}
	return err
}

// CreateStartup stores a startup and assigns its public "S-<id>" identifier.
func (s *Service) CreateStartup(ctx context.Context, in StartupInput) (*domain.Startup, error) {
	changes := in.changes()
	if len(changes) == 0 {
		return nil, ErrEmptyRecord
	}

	startup := &domain.Startup{
		Stage:           in.Stage,
		Industry:        in.Industry,
		Revenue:         in.Revenue,
		RequiredFunding: in.RequiredFunding,
		Location:        in.Location,
		WorkExperience:  in.WorkExperience,
		TeamSize:        in.TeamSize,
		InnovationFocus: in.InnovationFocus,
		Description:     in.Description,
	}
	err := s.startups.Transaction(ctx, func(tx *Repository[domain.Startup]) error {
		if err := tx.Create(ctx, startup); err != nil {
			return err
		}
		publicID := fmt.Sprintf("S-%d", startup.ID)
		if err := tx.Update(ctx, startup.ID, map[string]any{"startup_id": publicID}); err != nil {
			return err
		}
		startup.StartupID = &publicID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return startup, nil
}

// GetStartup retrieves a startup by ID.
func (s *Service) GetStartup(ctx context.Context, id uint) (*domain.Startup, error) {
	record, ok, err := s.startups.GetOne(ctx, id)
	return found(record, ok, err, ErrStartupNotFound)
}

// ListStartups returns a page of startups.
func (s *Service) ListStartups(ctx context.Context, page, perPage int) (database.Page[domain.Startup], error) {
	return listPage(ctx, s.startups, page, perPage)
}

// UpdateStartup applies the set fields of in.
func (s *Service) UpdateStartup(ctx context.Context, id uint, in StartupInput) (*domain.Startup, error) {
	if _, err := s.GetStartup(ctx, id); err != nil {
		return nil, err
	}
	if err := s.startups.Update(ctx, id, in.changes()); err != nil {
		return nil, notFoundAs(err, ErrStartupNotFound)
	}
	return s.GetStartup(ctx, id)
}

// DeleteStartup removes a startup.
func (s *Service) DeleteStartup(ctx context.Context, id uint) error {
	return notFoundAs(s.startups.Delete(ctx, id), ErrStartupNotFound)
}

// CreateProgram stores a grant program.
func (s *Service) CreateProgram(ctx context.Context, in ProgramInput) (*domain.Program, error) {
	if len(in.changes()) == 0 {
		return nil, ErrEmptyRecord
	}
	program := &domain.Program{
		Title:       deref(in.Title),
		URL:         deref(in.URL),
		Description: deref(in.Description),
	}
	if err := s.programs.Create(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// GetProgram retrieves a grant program by ID.
func (s *Service) GetProgram(ctx context.Context, id uint) (*domain.Program, error) {
	record, ok, err := s.programs.GetOne(ctx, id)
	return found(record, ok, err, ErrProgramNotFound)
}

// ListPrograms returns a page of grant programs.
func (s *Service) ListPrograms(ctx context.Context, page, perPage int) (database.Page[domain.Program], error) {
	return listPage(ctx, s.programs, page, perPage)
}

// AllPrograms returns every grant program in ID order. These are the
// recommender's candidates.
func (s *Service) AllPrograms(ctx context.Context) ([]domain.Program, error) {
	return s.programs.FindAll(ctx)
}

// UpdateProgram applies the set fields of in.
func (s *Service) UpdateProgram(ctx context.Context, id uint, in ProgramInput) (*domain.Program, error) {
	if _, err := s.GetProgram(ctx, id); err != nil {
		return nil, err
	}
	if err := s.programs.Update(ctx, id, in.changes()); err != nil {
		return nil, notFoundAs(err, ErrProgramNotFound)
	}
	return s.GetProgram(ctx, id)
}

// DeleteProgram removes a grant program.
func (s *Service) DeleteProgram(ctx context.Context, id uint) error {
	return notFoundAs(s.programs.Delete(ctx, id), ErrProgramNotFound)
}

// CreateGrant stores a parsed grant listing.
func (s *Service) CreateGrant(ctx context.Context, grant domain.Grant) (*domain.Grant, error) {
	if strings.TrimSpace(grant.Title) == "" {
		return nil, ErrTitleRequired
	}
	grant.ID = 0
	if err := s.grants.Create(ctx, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// GetGrant retrieves a parsed grant listing by ID.
func (s *Service) GetGrant(ctx context.Context, id uint) (*domain.Grant, error) {
	record, ok, err := s.grants.GetOne(ctx, id)
	return found(record, ok, err, ErrGrantNotFound)
}

// ListGrants returns a page of parsed grant listings.
func (s *Service) ListGrants(ctx context.Context, page, perPage int) (database.Page[domain.Grant], error) {
	return listPage(ctx, s.grants, page, perPage)
}

// CreateQuestions stores a questionnaire owned by userID.
func (s *Service) CreateQuestions(ctx context.Context, userID string, in QuestionsInput) (*domain.GrantQuestions, error) {
	if len(in.changes()) == 0 {
		return nil, ErrEmptyRecord
	}
	q := &domain.GrantQuestions{
		UserID:               userID,
		RequestedAmount:      in.RequestedAmount,
		GrantPurpose:         in.GrantPurpose,
		PreparedDocuments:    in.PreparedDocuments,
		PatentsOrInnovations: in.PatentsOrInnovations,
		PreviousGrants:       in.PreviousGrants,
		OperationalRegions:   in.OperationalRegions,
		BusinessSize:         in.BusinessSize,
		ProjectIdea:          in.ProjectIdea,
		AnnualRevenue:        in.AnnualRevenue,
		OKVEDCodes:           in.OKVEDCodes,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// GetQuestions retrieves a questionnaire by ID.
func (s *Service) GetQuestions(ctx context.Context, id uint) (*domain.GrantQuestions, error) {
	record, ok, err := s.questions.GetOne(ctx, id)
	return found(record, ok, err, ErrQuestionsNotFound)
}

// ListUserQuestions returns every questionnaire owned by userID.
func (s *Service) ListUserQuestions(ctx context.Context, userID string) ([]domain.GrantQuestions, error) {
	records, err := s.questions.FindAll(ctx, "user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrQuestionsNotFound
	}
	return records, nil
}

// UpdateQuestions applies the set fields of in to a questionnaire owned by userID.
func (s *Service) UpdateQuestions(ctx context.Context, userID string, id uint, in QuestionsInput) (*domain.GrantQuestions, error) {
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.questions.Update(ctx, id, in.changes()); err != nil {
		return nil, notFoundAs(err, ErrQuestionsNotFound)
	}
	return s.GetQuestions(ctx, id)
}

// DeleteQuestions removes a questionnaire owned by userID.
func (s *Service) DeleteQuestions(ctx context.Context, userID string, id uint) error {
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return err
	}
	return notFoundAs(s.questions.Delete(ctx, id), ErrQuestionsNotFound)
}

func (s *Service) checkOwner(ctx context.Context, userID string, id uint) error {
	q, err := s.GetQuestions(ctx, id)
	if err != nil {
		return err
	}
	if q.UserID != userID {
		return ErrNotOwner
	}
	return nil
}

func listPage[T any](ctx context.Context, repo *Repository[T], page, perPage int) (database.Page[T], error) {
	page, perPage = database.NormalizePaging(page, perPage)
	records, total, err := repo.List(ctx, database.Offset(page, perPage), perPage)
	if err != nil {
		return database.Page[T]{}, err
	}
	return database.NewPage(records, total, page, perPage), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
