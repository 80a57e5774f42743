package api

import (
	"strings"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// errorRule maps a known error text to an HTTP response. Module errors
// cross the service boundary as strings, so they are matched by content.
// An empty message echoes the error text from the match onwards.
type errorRule struct {
	match   string
	status  int
	code    string
	message string
}

// errorRules is ordered: more specific texts precede the ones they contain.
var errorRules = []errorRule{
	{"invalid credentials", fiber.StatusUnauthorized, "unauthorized", "Incorrect username or password"},
	{"token has been revoked", fiber.StatusUnauthorized, "unauthorized", "Token has been revoked"},
	{"token has expired", fiber.StatusUnauthorized, "unauthorized", "Token has expired"},
	{"invalid token", fiber.StatusUnauthorized, "unauthorized", "Invalid or expired token"},

	{"forbidden", fiber.StatusForbidden, "forbidden", "You can only modify your own account"},
	{"questionnaire belongs to another user", fiber.StatusForbidden, "forbidden", ""},

	{"email is already registered", fiber.StatusConflict, "conflict", "Email is already registered"},
	{"username not available", fiber.StatusConflict, "conflict", "Username not available"},
	{"inn is already registered", fiber.StatusConflict, "conflict", "INN is already registered"},
	{"phone is already registered", fiber.StatusConflict, "conflict", "Phone is already registered"},
	{"passport already exists", fiber.StatusConflict, "conflict", "Passport already exists for this user"},
	{"user already exists", fiber.StatusConflict, "conflict", "User already exists"},

	{"user not found", fiber.StatusNotFound, "not_found", ""},
	{"startup not found", fiber.StatusNotFound, "not_found", ""},
	{"program not found", fiber.StatusNotFound, "not_found", ""},
	{"grant not found", fiber.StatusNotFound, "not_found", ""},
	{"questions not found", fiber.StatusNotFound, "not_found", ""},
	{"passport not found", fiber.StatusNotFound, "not_found", ""},
	{"no grants available", fiber.StatusNotFound, "not_found", ""},

	{"passport recognition failed", fiber.StatusBadRequest, "bad_request", ""},
	{"passport recognition is not configured", fiber.StatusServiceUnavailable, "service_unavailable", ""},

	{"invalid email format", fiber.StatusBadRequest, "bad_request", ""},
	{"invalid username", fiber.StatusBadRequest, "bad_request", ""},
	{"invalid profile image url", fiber.StatusBadRequest, "bad_request", ""},
	{"name must be", fiber.StatusBadRequest, "bad_request", ""},
	{"inn must be", fiber.StatusBadRequest, "bad_request", "INN must be 10 to 12 digits"},
	{"password must be at least", fiber.StatusBadRequest, "bad_request", ""},
	{"password must be at most", fiber.StatusBadRequest, "bad_request", ""},
	{"organization accounts require", fiber.StatusBadRequest, "bad_request", ""},
	{"organizations cannot have username", fiber.StatusBadRequest, "bad_request", ""},
	{"device uuid must be", fiber.StatusBadRequest, "bad_request", ""},
	{"at least one field must be filled", fiber.StatusBadRequest, "bad_request", ""},
	{"title is required", fiber.StatusBadRequest, "bad_request", ""},
}

// respondError writes err as a JSON error body. Unrecognised errors are
// logged and reported as a generic internal error.
func respondError(c *fiber.Ctx, logger types.Logger, err error) error {
	errStr := err.Error()
	for _, rule := range errorRules {
		idx := strings.Index(errStr, rule.match)
		if idx < 0 {
			continue
		}
		message := rule.message
		if message == "" {
			message = capitalize(errStr[idx:])
		}
		return c.Status(rule.status).JSON(ErrorResponse{
			Error:   rule.code,
			Message: message,
		})
	}

	// Log the actual error but don't expose it to the client
	logger.Error("Internal error", "error", err, "method", c.Method(), "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
		Error:   "forbidden",
		Message: message,
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
