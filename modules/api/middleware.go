package api

import (
	"strings"

	domain "github.com/example/grantmatch/domain/user"
	"github.com/example/grantmatch/modules/auth"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Keys used to store request identity in the Fiber context.
const (
	IdentityContextKey = "identity"
	TokenContextKey    = "token"
	UserContextKey     = "user"
)

// Guards authenticate bearer tokens and gate routes by caller kind.
type Guards struct {
	authPort auth.AuthPort
	logger   types.Logger
}

// NewGuards creates route guards backed by authPort.
func NewGuards(authPort auth.AuthPort, logger types.Logger) *Guards {
	return &Guards{authPort: authPort, logger: logger}
}

// RequireSession admits any valid token, named or anonymous.
func (g *Guards) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok, err := g.authenticate(c); !ok {
			return err
		}
		return c.Next()
	}
}

// RequireAccount admits named accounts only and stores the user in the
// context.
func (g *Guards) RequireAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok, err := g.account(c); !ok {
			return err
		}
		return c.Next()
	}
}

// RequireSuperuser admits superuser accounts only.
func (g *Guards) RequireSuperuser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok, err := g.account(c)
		if !ok {
			return err
		}
		if !user.IsSuperuser {
			return forbidden(c, "The user doesn't have enough privileges")
		}
		return c.Next()
	}
}

// authenticate verifies the bearer token. When ok is false the response has
// already been written.
func (g *Guards) authenticate(c *fiber.Ctx) (domain.Identity, bool, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return domain.Identity{}, false, unauthorized(c, "Authorization header is required")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return domain.Identity{}, false, unauthorized(c, "Invalid authorization header format. Use: Bearer <token>")
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return domain.Identity{}, false, unauthorized(c, "Token is required")
	}

	identity, err := g.authPort.Verify(c.UserContext(), token)
	if err != nil {
		return domain.Identity{}, false, respondError(c, g.logger, err)
	}

	c.Locals(IdentityContextKey, identity)
	c.Locals(TokenContextKey, token)
	return identity, true, nil
}

func (g *Guards) account(c *fiber.Ctx) (*domain.User, bool, error) {
	identity, ok, err := g.authenticate(c)
	if !ok {
		return nil, false, err
	}
	if identity.IsAnonymous() {
		return nil, false, forbidden(c, "An account is required for this action")
	}

	user, err := g.authPort.GetUser(c.UserContext(), auth.GetUserRequest{Subject: identity.Subject})
	if err != nil {
		if strings.Contains(err.Error(), auth.ErrUserNotFound.Error()) {
			return nil, false, unauthorized(c, "User not authenticated")
		}
		return nil, false, respondError(c, g.logger, err)
	}

	c.Locals(UserContextKey, user)
	return user, true, nil
}

func identityFrom(c *fiber.Ctx) domain.Identity {
	identity, _ := c.Locals(IdentityContextKey).(domain.Identity)
	return identity
}

func tokenFrom(c *fiber.Ctx) string {
	token, _ := c.Locals(TokenContextKey).(string)
	return token
}

func userFrom(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(UserContextKey).(*domain.User)
	return user
}
