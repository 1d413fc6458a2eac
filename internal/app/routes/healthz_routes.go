package routes

import (
	"context"

	"dompet/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NewHealthzRoutes registers the unauthenticated health probe.
func NewHealthzRoutes(routerHealthz fiber.Router, health func(ctx context.Context) map[string]string) {
	routerHealthz.Get("/", func(c *fiber.Ctx) error {
		return response.WriteHealth(c, health(c.UserContext()))
	})
}
