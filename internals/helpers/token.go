package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrNoUserInToken = errors.New("user id missing from token")

// GetUserIDFromToken returns the authenticated actor id placed in Locals by
// the auth middleware. Every mutation takes this as an opaque input; nothing
// below the controllers assumes a particular caller.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Locals("user_id")
	if raw == nil {
		return uuid.Nil, ErrNoUserInToken
	}

	switch v := raw.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, ErrNoUserInToken
		}
		return id, nil
	default:
		return uuid.Nil, ErrNoUserInToken
	}
}
