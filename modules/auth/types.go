package auth

import (
	"time"

	domain "github.com/example/grantmatch/domain/user"
)

// Request-reply service names registered by the auth module.
const (
	ServiceRegister         = "auth.register"
	ServiceLogin            = "auth.login"
	ServiceRefresh          = "auth.refresh"
	ServiceAnonymousSession = "auth.anonymous-session"
	ServiceVerify           = "auth.verify"
	ServiceLogout           = "auth.logout"
	ServiceGetUser          = "auth.get-user"
	ServiceListUsers        = "auth.list-users"
	ServiceUpdateUser       = "auth.update-user"
	ServiceDeleteUser       = "auth.delete-user"
	ServiceEraseUser        = "auth.erase-user"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name             string      `json:"name"`
	Username         string      `json:"username,omitempty"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone,omitempty"`
	Password         string      `json:"password"`
	UserType         domain.Type `json:"user_type,omitempty"`
	INN              string      `json:"inn,omitempty"`
	OrganizationName string      `json:"organization_name,omitempty"`
}

// RegisterResponse carries the created user and an access token for it.
type RegisterResponse struct {
	User        domain.User `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
}

// LoginRequest represents a user login request. Identifier is a username,
// email or INN.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AnonymousSessionRequest asks for a device session token.
type AnonymousSessionRequest struct {
	DeviceUUID string `json:"device_uuid"`
}

// AnonymousSessionResponse carries a device session token.
type AnonymousSessionResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// VerifyRequest represents a token verification request.
type VerifyRequest struct {
	Token string `json:"token"`
}

// VerifyResponse represents a token verification result. Rejected tokens
// are reported in Error rather than as a service error.
type VerifyResponse struct {
	Valid    bool            `json:"valid"`
	Identity domain.Identity `json:"identity"`
	Error    string          `json:"error,omitempty"`
}

// LogoutRequest lists the tokens to revoke.
type LogoutRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// GetUserRequest selects a user by exactly one of its fields.
type GetUserRequest struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Subject  string `json:"subject,omitempty"`
}

// ListUsersRequest represents a paginated user listing request.
type ListUsersRequest struct {
	Page         int `json:"page"`
	ItemsPerPage int `json:"items_per_page"`
}

// UpdateUserRequest is a self-update of UserID by the account ActorSubject.
type UpdateUserRequest struct {
	ActorSubject    string  `json:"actor_subject"`
	UserID          string  `json:"user_id"`
	Name            *string `json:"name,omitempty"`
	Username        *string `json:"username,omitempty"`
	Email           *string `json:"email,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// DeleteUserRequest is a self soft-delete. Token is revoked afterwards.
type DeleteUserRequest struct {
	ActorSubject string `json:"actor_subject"`
	Username     string `json:"username"`
	Token        string `json:"token"`
}

// EraseUserRequest is a superuser hard delete. Token is revoked afterwards.
type EraseUserRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}
