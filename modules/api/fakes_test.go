package api

import (
	"context"
	"errors"
	"sync"

	"github.com/example/grantmatch/config"
	"github.com/example/grantmatch/database"
	catalogdomain "github.com/example/grantmatch/domain/catalog"
	passportdomain "github.com/example/grantmatch/domain/passport"
	domain "github.com/example/grantmatch/domain/user"
	"github.com/example/grantmatch/modules/auth"
	"github.com/example/grantmatch/modules/catalog"
	"github.com/example/grantmatch/modules/passport"
	"github.com/example/grantmatch/modules/recommend"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

var errNotImplemented = errors.New("not implemented")

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

func newMockLogger() types.Logger {
	return &mockLogger{}
}

// mockAuthPort implements auth.AuthPort for testing. Unset funcs fall back
// to a fixed set of tokens and users.
type mockAuthPort struct {
	registerFunc   func(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error)
	loginFunc      func(ctx context.Context, identifier, password string) (*domain.TokenPair, error)
	refreshFunc    func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	anonymousFunc  func(ctx context.Context, deviceUUID string) (*auth.AnonymousSessionResponse, error)
	verifyFunc     func(ctx context.Context, token string) (domain.Identity, error)
	logoutFunc     func(ctx context.Context, accessToken, refreshToken string) error
	getUserFunc    func(ctx context.Context, req auth.GetUserRequest) (*domain.User, error)
	listUsersFunc  func(ctx context.Context, page, itemsPerPage int) (*database.Page[domain.User], error)
	updateUserFunc func(ctx context.Context, req auth.UpdateUserRequest) (*domain.User, error)
	deleteUserFunc func(ctx context.Context, req auth.DeleteUserRequest) error
	eraseUserFunc  func(ctx context.Context, req auth.EraseUserRequest) error
}

var _ auth.AuthPort = (*mockAuthPort)(nil)

var testUsers = map[string]*domain.User{
	"alice": {ID: "u-alice", Name: "Alice", Username: domain.StrPtr("alice"), UserType: domain.TypeIndividual},
	"admin": {ID: "u-admin", Name: "Admin", Username: domain.StrPtr("admin"), UserType: domain.TypeIndividual, IsSuperuser: true},
}

func (m *mockAuthPort) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Login(ctx context.Context, identifier, password string) (*domain.TokenPair, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, identifier, password)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) AnonymousSession(ctx context.Context, deviceUUID string) (*auth.AnonymousSessionResponse, error) {
	if m.anonymousFunc != nil {
		return m.anonymousFunc(ctx, deviceUUID)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Verify(ctx context.Context, token string) (domain.Identity, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, token)
	}
	switch token {
	case "alice-token":
		return domain.Named("alice"), nil
	case "admin-token":
		return domain.Named("admin"), nil
	case "ghost-token":
		return domain.Named("ghost"), nil
	case "anon-token":
		return domain.Anonymous("8f14e45f-ceea-467f-a0e6-8b5c3b1d9a7e"), nil
	case "revoked-token":
		return domain.Identity{}, auth.ErrRevoked
	default:
		return domain.Identity{}, auth.ErrInvalidToken
	}
}

func (m *mockAuthPort) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, accessToken, refreshToken)
	}
	return errNotImplemented
}

func (m *mockAuthPort) GetUser(ctx context.Context, req auth.GetUserRequest) (*domain.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, req)
	}
	key := req.Subject
	if key == "" {
		key = req.Username
	}
	if u, ok := testUsers[key]; ok {
		return u, nil
	}
	return nil, errors.New("auth.get-user request failed: user not found")
}

func (m *mockAuthPort) ListUsers(ctx context.Context, page, itemsPerPage int) (*database.Page[domain.User], error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx, page, itemsPerPage)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) UpdateUser(ctx context.Context, req auth.UpdateUserRequest) (*domain.User, error) {
	if m.updateUserFunc != nil {
		return m.updateUserFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) DeleteUser(ctx context.Context, req auth.DeleteUserRequest) error {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(ctx, req)
	}
	return errNotImplemented
}

func (m *mockAuthPort) EraseUser(ctx context.Context, req auth.EraseUserRequest) error {
	if m.eraseUserFunc != nil {
		return m.eraseUserFunc(ctx, req)
	}
	return errNotImplemented
}

// fakeCatalog keeps startups, programs and questionnaires in memory.
// Methods the tests never reach panic through the nil embedded port.
type fakeCatalog struct {
	catalog.CatalogPort

	mu        sync.Mutex
	startups  map[uint]*catalogdomain.Startup
	programs  []catalogdomain.Program
	questions map[uint]*catalogdomain.GrantQuestions
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		startups:  map[uint]*catalogdomain.Startup{},
		questions: map[uint]*catalogdomain.GrantQuestions{},
	}
}

func (f *fakeCatalog) CreateStartup(_ context.Context, in catalog.StartupInput) (*catalogdomain.Startup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Description == nil && in.Stage == nil && in.Industry == nil {
		return nil, catalog.ErrEmptyRecord
	}
	id := uint(len(f.startups) + 1)
	s := &catalogdomain.Startup{ID: id, Stage: in.Stage, Industry: in.Industry, Description: in.Description}
	f.startups[id] = s
	return s, nil
}

func (f *fakeCatalog) GetStartup(_ context.Context, id uint) (*catalogdomain.Startup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.startups[id]; ok {
		return s, nil
	}
	return nil, catalog.ErrStartupNotFound
}

func (f *fakeCatalog) AllPrograms(_ context.Context) ([]catalogdomain.Program, error) {
	return f.programs, nil
}

func (f *fakeCatalog) CreateQuestions(_ context.Context, userID string, in catalog.QuestionsInput) (*catalogdomain.GrantQuestions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uint(len(f.questions) + 1)
	q := &catalogdomain.GrantQuestions{ID: id, UserID: userID, GrantPurpose: in.GrantPurpose}
	f.questions[id] = q
	return q, nil
}

func (f *fakeCatalog) GetQuestions(_ context.Context, id uint) (*catalogdomain.GrantQuestions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.questions[id]; ok {
		return q, nil
	}
	return nil, catalog.ErrQuestionsNotFound
}

// fakeRecommend ranks through a real Recommender over the hashing embedder.
type fakeRecommend struct {
	catalog     *fakeCatalog
	recommender *recommend.Recommender
}

func newFakeRecommend(c *fakeCatalog) *fakeRecommend {
	return &fakeRecommend{
		catalog:     c,
		recommender: recommend.NewRecommender(recommend.NewHashingEmbedder(recommend.DefaultHashingDimensions)),
	}
}

func (f *fakeRecommend) ForStartup(ctx context.Context, startupID uint) (*recommend.StartupRecommendations, error) {
	return recommend.NewService(f.catalog, f.recommender).ForStartup(ctx, startupID)
}

func (f *fakeRecommend) Rank(ctx context.Context, description string, candidates []recommend.Candidate) ([]recommend.Recommendation, error) {
	return f.recommender.Recommend(ctx, description, candidates)
}

// fakePassports keeps one passport per user in memory.
type fakePassports struct {
	mu     sync.Mutex
	byUser map[string]*passportdomain.Passport
}

func newFakePassports() *fakePassports {
	return &fakePassports{byUser: map[string]*passportdomain.Passport{}}
}

func (f *fakePassports) Create(_ context.Context, userID string, in passport.Input) (*passportdomain.Passport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byUser[userID]; ok {
		return nil, passport.ErrPassportExists
	}
	p := &passportdomain.Passport{UserID: userID, Series: in.Series, Number: in.Number}
	f.byUser[userID] = p
	return p, nil
}

func (f *fakePassports) Get(_ context.Context, userID string) (*passportdomain.Passport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byUser[userID]; ok {
		return p, nil
	}
	return nil, passport.ErrPassportNotFound
}

func (f *fakePassports) Update(_ context.Context, userID string, in passport.Input) (*passportdomain.Passport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUser[userID]
	if !ok {
		return nil, passport.ErrPassportNotFound
	}
	if in.Number != nil {
		p.Number = in.Number
	}
	return p, nil
}

// stubRecognizer returns fixed fields or a fixed error.
type stubRecognizer struct {
	fields *passportdomain.Fields
	err    error
}

func (s stubRecognizer) Recognize(context.Context, passport.Image, *passport.Image) (*passportdomain.Fields, error) {
	return s.fields, s.err
}

type testDeps struct {
	auth       *mockAuthPort
	catalog    *fakeCatalog
	passports  *fakePassports
	recognizer passport.Recognizer
}

func newTestDeps() *testDeps {
	return &testDeps{
		auth:       &mockAuthPort{},
		catalog:    newFakeCatalog(),
		passports:  newFakePassports(),
		recognizer: stubRecognizer{err: passport.ErrOCRUnavailable},
	}
}

func (d *testDeps) app() *fiber.App {
	m := NewModule(config.Default(), passport.NewScanner(d.recognizer), newMockLogger())
	m.authPort = d.auth
	m.catalogPort = d.catalog
	m.recommendPort = newFakeRecommend(d.catalog)
	m.passportPort = d.passports
	return m.newApp()
}
