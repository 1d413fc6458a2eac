package routes

import (
	"time"

	"dompet/internal/app/factory"
	"dompet/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func NewRoutes(app *fiber.App, container *factory.Container, rateLimit int) {
	routerApi := app.Group("/api")

	// Register healthz routes
	healthzRoutes := routerApi.Group("/healthz")
	NewHealthzRoutes(healthzRoutes, container.Health)

	// Ledger routes, semua butuh token
	routerLedger := routerApi.Group("",
		middleware.RequireAuth(container.Auth.JWTSecret, container.Auth.JWTIssuer),
		rateLimitPerUser(rateLimit),
	)
	NewLedgerRoutes(routerLedger, container.LedgerHandler)
}

// rateLimitPerUser limits requests per minute per authenticated user.
func rateLimitPerUser(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if uid := middleware.UserID(c); uid != "" {
				return uid
			}
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			return max <= 0
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests",
			})
		},
	})
}
