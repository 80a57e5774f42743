package auth

import (
	"context"

	"github.com/example/grantmatch/database"
	domain "github.com/example/grantmatch/domain/user"
	"github.com/example/grantmatch/reqrep"
	"github.com/go-monolith/mono"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, identifier, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	AnonymousSession(ctx context.Context, deviceUUID string) (*AnonymousSessionResponse, error)
	Verify(ctx context.Context, token string) (domain.Identity, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	GetUser(ctx context.Context, req GetUserRequest) (*domain.User, error)
	ListUsers(ctx context.Context, page, itemsPerPage int) (*database.Page[domain.User], error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, req DeleteUserRequest) error
	EraseUser(ctx context.Context, req EraseUserRequest) error
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

func (a *AuthAdapter) call(ctx context.Context, service string, req, resp any) error {
	return reqrep.Call(ctx, a.container, service, req, resp)
}

// Register creates an account and returns it with an access token.
func (a *AuthAdapter) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := a.call(ctx, ServiceRegister, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a token pair.
func (a *AuthAdapter) Login(ctx context.Context, identifier, password string) (*domain.TokenPair, error) {
	req := LoginRequest{Identifier: identifier, Password: password}
	var resp domain.TokenPair
	if err := a.call(ctx, ServiceLogin, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new pair.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp domain.TokenPair
	if err := a.call(ctx, ServiceRefresh, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnonymousSession mints a device session token.
func (a *AuthAdapter) AnonymousSession(ctx context.Context, deviceUUID string) (*AnonymousSessionResponse, error) {
	req := AnonymousSessionRequest{DeviceUUID: deviceUUID}
	var resp AnonymousSessionResponse
	if err := a.call(ctx, ServiceAnonymousSession, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify validates a bearer token. Rejections come back as ErrRevoked or
// ErrInvalidToken; any other error means verification could not run.
func (a *AuthAdapter) Verify(ctx context.Context, token string) (domain.Identity, error) {
	req := VerifyRequest{Token: token}
	var resp VerifyResponse
	if err := a.call(ctx, ServiceVerify, &req, &resp); err != nil {
		return domain.Identity{}, err
	}

	if !resp.Valid {
		if resp.Error == ErrRevoked.Error() {
			return domain.Identity{}, ErrRevoked
		}
		return domain.Identity{}, ErrInvalidToken
	}
	return resp.Identity, nil
}

// Logout revokes the given tokens.
func (a *AuthAdapter) Logout(ctx context.Context, accessToken, refreshToken string) error {
	req := LogoutRequest{AccessToken: accessToken, RefreshToken: refreshToken}
	var resp MessageResponse
	return a.call(ctx, ServiceLogout, &req, &resp)
}

// GetUser retrieves a user by ID, username or token subject.
func (a *AuthAdapter) GetUser(ctx context.Context, req GetUserRequest) (*domain.User, error) {
	var resp domain.User
	if err := a.call(ctx, ServiceGetUser, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListUsers returns a page of users.
func (a *AuthAdapter) ListUsers(ctx context.Context, page, itemsPerPage int) (*database.Page[domain.User], error) {
	req := ListUsersRequest{Page: page, ItemsPerPage: itemsPerPage}
	var resp database.Page[domain.User]
	if err := a.call(ctx, ServiceListUsers, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateUser applies a self-update.
func (a *AuthAdapter) UpdateUser(ctx context.Context, req UpdateUserRequest) (*domain.User, error) {
	var resp domain.User
	if err := a.call(ctx, ServiceUpdateUser, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteUser soft-deletes the caller's account.
func (a *AuthAdapter) DeleteUser(ctx context.Context, req DeleteUserRequest) error {
	var resp MessageResponse
	return a.call(ctx, ServiceDeleteUser, &req, &resp)
}

// EraseUser hard-deletes an account.
func (a *AuthAdapter) EraseUser(ctx context.Context, req EraseUserRequest) error {
	var resp MessageResponse
	return a.call(ctx, ServiceEraseUser, &req, &resp)
}
