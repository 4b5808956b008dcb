package middleware

import (
	"khatabook/config"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// AuthRateLimit limits sign-in endpoints to AUTH_RATE_LIMIT requests per minute per IP.
func AuthRateLimit() fiber.Handler {
	max := config.AppConfig.AuthRateLimit
	if max <= 0 {
		max = 10
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many attempts, try again in a minute.", nil)
		},
	})
}
