package middleware

import (
	"context"
	"inventory/pkg/httperror"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderUserID    = "User-ID"
	HeaderUserEmail = "User-Email"
)

// Identity is the caller as asserted by the authenticating gateway.
type Identity struct {
	UserID    string
	UserEmail string
}

type identityKey struct{}

// NewIdentityMiddleware rejects requests that did not pass the gateway, which
// stamps every authenticated request with User-ID and User-Email.
func NewIdentityMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(HeaderUserID))
		userEmail := strings.TrimSpace(c.Get(HeaderUserEmail))

		if userID == "" || userEmail == "" {
			return httperror.Unauthorized(
				"identity.headers_missing",
				"Unauthenticated.",
				nil,
			)
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		c.SetUserContext(context.WithValue(userCtx, identityKey{}, Identity{
			UserID:    userID,
			UserEmail: userEmail,
		}))
		return c.Next()
	}
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
