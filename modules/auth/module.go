package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/grantmatch/config"
	"github.com/example/grantmatch/database"
	domain "github.com/example/grantmatch/domain/user"
	"github.com/example/grantmatch/reqrep"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// AuthModule provides authentication services.
type AuthModule struct {
	cfg     config.Config
	logger  types.Logger
	db      *gorm.DB
	ledger  *Ledger
	service *AuthService

	cancelPurge context.CancelFunc
	purgeDone   sync.WaitGroup
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule(cfg config.Config, logger types.Logger) *AuthModule {
	return &AuthModule{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start opens the user store and starts the ledger purger.
func (m *AuthModule) Start(_ context.Context) error {
	db, err := database.Open(m.cfg.DBPath, &domain.User{}, &BlacklistedToken{})
	if err != nil {
		return err
	}
	m.db = db

	codec, err := NewTokenCodec(m.cfg.JWT, nil)
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	m.ledger = NewLedger(db)
	m.service = NewAuthService(
		NewUserRepository(db),
		m.ledger,
		NewPasswordHasher(),
		codec,
		m.cfg.JWT.AccessTokenDuration,
		m.cfg.JWT.RefreshTokenDuration,
	)

	purgeCtx, cancel := context.WithCancel(context.Background())
	m.cancelPurge = cancel
	m.purgeDone.Add(1)
	go m.runPurger(purgeCtx)

	m.logger.Info("Auth module started",
		"database", m.cfg.DBPath,
		"algorithm", codec.Algorithm(),
		"purge_interval", m.cfg.Ledger.PurgeInterval.String())
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.cancelPurge != nil {
		m.cancelPurge()
		m.purgeDone.Wait()
	}
	if err := database.Close(m.db); err != nil {
		m.logger.Warn("Failed to close database", "error", err)
	}
	m.logger.Info("Auth module stopped")
	return nil
}

// runPurger drops ledger entries whose tokens expired more than the grace
// period ago.
func (m *AuthModule) runPurger(ctx context.Context) {
	defer m.purgeDone.Done()

	interval := m.cfg.Ledger.PurgeInterval
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.purgeOnce(ctx)
		}
	}
}

func (m *AuthModule) purgeOnce(ctx context.Context) {
	cutoff := time.Now().Add(-m.cfg.Ledger.PurgeGrace)
	removed, err := m.ledger.Purge(ctx, cutoff)
	if err != nil {
		m.logger.Error("Ledger purge failed", "error", err)
		return
	}
	if removed > 0 {
		m.logger.Info("Purged expired ledger entries", "removed", removed)
	}
}

// Service returns the authenticator.
func (m *AuthModule) Service() *AuthService {
	return m.service
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	if err := database.Ping(m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	revoked, err := m.ledger.Len(ctx)
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("ledger unavailable: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database":       m.cfg.DBPath,
			"revoked_tokens": revoked,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := reqrep.RegisterAll(container,
		reqrep.Handle(ServiceRegister, m.handleRegister),
		reqrep.Handle(ServiceLogin, m.handleLogin),
		reqrep.Handle(ServiceRefresh, m.handleRefresh),
		reqrep.Handle(ServiceAnonymousSession, m.handleAnonymousSession),
		reqrep.Handle(ServiceVerify, m.handleVerify),
		reqrep.Handle(ServiceLogout, m.handleLogout),
		reqrep.Handle(ServiceGetUser, m.handleGetUser),
		reqrep.Handle(ServiceListUsers, m.handleListUsers),
		reqrep.Handle(ServiceUpdateUser, m.handleUpdateUser),
		reqrep.Handle(ServiceDeleteUser, m.handleDeleteUser),
		reqrep.Handle(ServiceEraseUser, m.handleEraseUser),
	); err != nil {
		return err
	}

	m.logger.Info("Registered auth services", "count", 11)
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, RegisterInput{
		Name:             req.Name,
		Username:         req.Username,
		Email:            req.Email,
		Phone:            req.Phone,
		Password:         req.Password,
		UserType:         req.UserType,
		INN:              req.INN,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		return RegisterResponse{}, err
	}

	token, _, err := m.service.IssueAccessToken(user.Subject())
	if err != nil {
		return RegisterResponse{}, err
	}

	m.logger.Info("User registered", "user_id", user.ID, "user_type", string(user.UserType))
	return RegisterResponse{
		User:        *user,
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (domain.TokenPair, error) {
	tokens, err := m.service.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return *tokens, nil
}

func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (domain.TokenPair, error) {
	tokens, err := m.service.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return *tokens, nil
}

func (m *AuthModule) handleAnonymousSession(_ context.Context, req AnonymousSessionRequest, _ *mono.Msg) (AnonymousSessionResponse, error) {
	token, expiresAt, err := m.service.IssueAnonymousSession(req.DeviceUUID)
	if err != nil {
		return AnonymousSessionResponse{}, err
	}
	return AnonymousSessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (m *AuthModule) handleVerify(ctx context.Context, req VerifyRequest, _ *mono.Msg) (VerifyResponse, error) {
	identity, err := m.service.Verify(ctx, req.Token)
	switch {
	case err == nil:
		return VerifyResponse{Valid: true, Identity: identity}, nil
	case errors.Is(err, ErrRevoked):
		return VerifyResponse{Error: ErrRevoked.Error()}, nil
	case errors.Is(err, ErrInvalidToken):
		return VerifyResponse{Error: ErrInvalidToken.Error()}, nil
	default:
		m.logger.Error("Token verification failed", "error", err)
		return VerifyResponse{}, err
	}
}

func (m *AuthModule) handleLogout(ctx context.Context, req LogoutRequest, _ *mono.Msg) (MessageResponse, error) {
	if err := m.service.Logout(ctx, req.AccessToken, req.RefreshToken); err != nil {
		return MessageResponse{}, err
	}
	return MessageResponse{Message: "Logged out successfully"}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (domain.User, error) {
	var (
		user *domain.User
		err  error
	)
	switch {
	case req.ID != "":
		user, err = m.service.GetUser(ctx, req.ID)
	case req.Username != "":
		user, err = m.service.GetUserByUsername(ctx, req.Username)
	case req.Subject != "":
		user, err = m.service.GetUserBySubject(ctx, req.Subject)
	default:
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return *user, nil
}

func (m *AuthModule) handleListUsers(ctx context.Context, req ListUsersRequest, _ *mono.Msg) (database.Page[domain.User], error) {
	return m.service.ListUsers(ctx, req.Page, req.ItemsPerPage)
}

func (m *AuthModule) handleUpdateUser(ctx context.Context, req UpdateUserRequest, _ *mono.Msg) (domain.User, error) {
	user, err := m.service.UpdateUser(ctx, req.ActorSubject, req.UserID, UpdateInput{
		Name:            req.Name,
		Username:        req.Username,
		Email:           req.Email,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return domain.User{}, err
	}
	return *user, nil
}

func (m *AuthModule) handleDeleteUser(ctx context.Context, req DeleteUserRequest, _ *mono.Msg) (MessageResponse, error) {
	if err := m.service.DeleteUser(ctx, req.ActorSubject, req.Username, req.Token); err != nil {
		return MessageResponse{}, err
	}
	m.logger.Info("User deleted", "username", req.Username)
	return MessageResponse{Message: "User deleted"}, nil
}

func (m *AuthModule) handleEraseUser(ctx context.Context, req EraseUserRequest, _ *mono.Msg) (MessageResponse, error) {
	if err := m.service.EraseUser(ctx, req.Username, req.Token); err != nil {
		return MessageResponse{}, err
	}
	m.logger.Info("User erased", "username", req.Username)
	return MessageResponse{Message: "User deleted from the database"}, nil
}
