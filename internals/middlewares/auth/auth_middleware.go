package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"gigstage_backend/internals/configs"
	helper "gigstage_backend/internals/helpers"
)

// Claims carried by access tokens. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the actor id in
// Locals("user_id"). Controllers read it back via helper.GetUserIDFromToken.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return helper.JsonError(c, fiber.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(configs.JWTSecret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals("user_id", claims.Subject)
		return c.Next()
	}
}
