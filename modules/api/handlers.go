package api

import (
	"github.com/example/grantmatch/modules/auth"
	"github.com/example/grantmatch/modules/catalog"
	"github.com/example/grantmatch/modules/passport"
	"github.com/example/grantmatch/modules/recommend"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

const refreshCookieName = "refresh_token"

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth      auth.AuthPort
	catalog   catalog.CatalogPort
	recommend recommend.RecommendPort
	passports passport.PassportPort
	scanner   *passport.Scanner
	logger    types.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	authPort auth.AuthPort,
	catalogPort catalog.CatalogPort,
	recommendPort recommend.RecommendPort,
	passportPort passport.PassportPort,
	scanner *passport.Scanner,
	logger types.Logger,
) *Handlers {
	return &Handlers{
		auth:      authPort,
		catalog:   catalogPort,
		recommend: recommendPort,
		passports: passportPort,
		scanner:   scanner,
		logger:    logger,
	}
}

// Register handles account registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Password == "" {
		return badRequest(c, "Password is required")
	}

	resp, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login exchanges credentials for an access and refresh token pair.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" || req.Password == "" {
		return badRequest(c, "Identifier and password are required")
	}

	tokens, err := h.auth.Login(c.UserContext(), identifier, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	return c.JSON(tokens)
}

// Refresh rotates a refresh token into a new token pair.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	refreshToken := h.refreshToken(c)
	if refreshToken == "" {
		return unauthorized(c, "Refresh token missing")
	}

	tokens, err := h.auth.Refresh(c.UserContext(), refreshToken)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	return c.JSON(tokens)
}

// AnonymousSession issues a device session token.
func (h *Handlers) AnonymousSession(c *fiber.Ctx) error {
	var req AnonymousSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.auth.AnonymousSession(c.UserContext(), req.DeviceUUID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(resp)
}

// Logout revokes the bearer token and, when present, the refresh token.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), tokenFrom(c), h.refreshToken(c)); err != nil {
		return respondError(c, h.logger, err)
	}

	c.ClearCookie(refreshCookieName)
	return c.JSON(MessageResponse{Message: "Logged out successfully"})
}

// ListUsers returns one page of users.
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	page, perPage := paging(c)
	users, err := h.auth.ListUsers(c.UserContext(), page, perPage)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(users)
}

// Me returns the authenticated account.
func (h *Handlers) Me(c *fiber.Ctx) error {
	return c.JSON(userFrom(c))
}

// GetUser returns a user by username.
func (h *Handlers) GetUser(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(c.UserContext(), auth.GetUserRequest{Username: c.Params("username")})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

// UpdateUser applies a self-update to the account in the path.
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.auth.UpdateUser(c.UserContext(), auth.UpdateUserRequest{
		ActorSubject:    identityFrom(c).Subject,
		UserID:          c.Params("id"),
		Name:            req.Name,
		Username:        req.Username,
		Email:           req.Email,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

// DeleteUser soft-deletes the caller's own account and revokes the token.
func (h *Handlers) DeleteUser(c *fiber.Ctx) error {
	err := h.auth.DeleteUser(c.UserContext(), auth.DeleteUserRequest{
		ActorSubject: identityFrom(c).Subject,
		Username:     c.Params("username"),
		Token:        tokenFrom(c),
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(MessageResponse{Message: "User deleted"})
}

// EraseUser permanently removes an account. Superuser only.
func (h *Handlers) EraseUser(c *fiber.Ctx) error {
	err := h.auth.EraseUser(c.UserContext(), auth.EraseUserRequest{
		Username: c.Params("username"),
		Token:    tokenFrom(c),
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(MessageResponse{Message: "User deleted from the database"})
}

func (h *Handlers) refreshToken(c *fiber.Ctx) string {
	var req RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err == nil && req.RefreshToken != "" {
			return req.RefreshToken
		}
	}
	return c.Cookies(refreshCookieName)
}

func (h *Handlers) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func paging(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("items_per_page", 10)
}

// paramID parses a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
