// Package health serves the liveness endpoint polled by the hosting platform.
package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// LivenessText is the body of GET /.
const LivenessText = "Zona JP Bot OK"

// Server is a fiber app exposing GET / and nothing else.
type Server struct {
	app    *fiber.App
	logger *slog.Logger
}

func New(logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           30 * time.Second,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(LivenessText)
	})
	return &Server{app: app, logger: logger}
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("HTTP server listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
