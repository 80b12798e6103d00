package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// ServiceTokenMiddleware guards service-to-service endpoints with a static
// bearer token. An empty configured token rejects every request.
func ServiceTokenMiddleware(token string) fiber.Handler {
	expected := []byte(token)
	return func(c *fiber.Ctx) error {
		got := extractBearerToken(c)
		if len(expected) == 0 || got == "" || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			log.Warnf("[ServiceToken] Rejected request to %s from %s", c.Path(), c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid service token"})
		}
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
