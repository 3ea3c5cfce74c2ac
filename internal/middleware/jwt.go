package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helwan-dev/smart-campus-api/internal/security"
	"github.com/helwan-dev/smart-campus-api/internal/utils"
)

// JWTProtected returns a middleware that validates bearer tokens and binds
// the embedded identity to the request.
func JWTProtected(tokens security.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "bearer "
		if len(authorization) < len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		identity, err := tokens.Verify(tokenString)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", identity.UserID)
		c.Locals("user_role", identity.Role)
		c.Locals("user_name", identity.Name)

		return c.Next()
	}
}
