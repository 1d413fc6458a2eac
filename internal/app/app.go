package app

import (
	"net"
	"time"

	"dompet/internal/app/factory"
	"dompet/internal/app/routes"
	"dompet/internal/config"
	"dompet/pkg/logger"
	"dompet/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type App struct {
	Fiber     *fiber.App
	Config    *config.Config
	Container *factory.Container
}

func NewApp(cfg *config.Config, container *factory.Container) *App {
	// Create a new Fiber app
	fiberApp := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: errorHandler,
	})
	fiberApp.Use(recover.New())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CorsOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app := &App{Fiber: fiberApp, Config: cfg, Container: container}

	// Register routes
	routes.NewRoutes(fiberApp, container, cfg.App.RateLimit)

	return app
}

// errorHandler keeps the JSON envelope for errors fiber raises itself
// (unknown route, bad method, recovered panic).
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	if code >= fiber.StatusInternalServerError {
		logger.Errorf("❌ %s %s: %v", c.Method(), c.Path(), err)
	}
	return response.WriteError(c, code, "Request failed", err.Error())
}

func (a *App) Start(listener net.Listener) {
	configApp := a.Config.App

	logger.Infof("✅ %s server started on port: %s", configApp.Name, configApp.Port)

	// Jalankan Fiber
	if err := a.Fiber.Listener(listener); err != nil {
		errDetail := err.Error()
		logger.WriteLogToFile("failed", "app.Start", map[string]any{
			"app_name": configApp.Name,
			"app_port": configApp.Port,
		}, &errDetail)
		logger.Fatal("❌ Failed to start server: " + err.Error())
	}
}

// Shutdown stops accepting connections and waits up to timeout for open
// requests. Live streams only finish once the context given to the
// handlers is cancelled, so cancel it first.
func (a *App) Shutdown(timeout time.Duration) error {
	return a.Fiber.ShutdownWithTimeout(timeout)
}
