// Package middleware provides authentication, logging, metrics, tracing and
// rate limiting middleware for the application.
package middleware

import (
	"context"
	"strings"

	"vc7day/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie carries the admin session token for browser clients.
const SessionCookie = "vc7_session"

const authLocalsKey = "auth"

// SessionVerifier validates an admin session token.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*models.AuthContext, error)
}

// AdminRequired enforces a valid admin session. The token is read from the
// session cookie or an "Authorization: Bearer" header.
func AdminRequired(verifier SessionVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := SessionToken(c)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Admin session required"))
		}

		auth, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}

		c.Locals(authLocalsKey, auth)
		c.SetUserContext(WithSessionID(c.UserContext(), auth.SessionID))
		return c.Next()
	}
}

// SessionToken extracts the raw session token from the request, if any.
func SessionToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Cookies(SessionCookie)
}

// AuthFromContext returns the AuthContext attached by AdminRequired.
func AuthFromContext(c *fiber.Ctx) (*models.AuthContext, bool) {
	auth, ok := c.Locals(authLocalsKey).(*models.AuthContext)
	return auth, ok && auth != nil
}
