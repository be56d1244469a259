// Package httpapi is the HTTP surface for the chat widget and the admin
// view.
package httpapi

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/garyyong/askgary/internal/config"
	"github.com/garyyong/askgary/internal/core"
	"github.com/garyyong/askgary/internal/service/session"
	"github.com/garyyong/askgary/pkg/log"
)

type Server struct {
	app  *fiber.App
	addr string
}

// NewServer wires routes and middleware. ctx carries the logger and becomes
// the user context of every request.
func NewServer(
	ctx context.Context,
	cfg *config.ServerConfig,
	chatSvc ChatRunner,
	sessions *session.Manager,
	agg ReportBuilder,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:               core.AppName,
		DisableStartupMessage: true,
	})

	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(ctx)
		return c.Next()
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	app.Post("/chat", NewChatHandler(chatSvc).Handle)
	app.Get("/health", NewHealthHandler(sessions).Handle)
	app.Get("/admin/analytics", NewAnalyticsHandler(agg, cfg.AdminKey).Handle)

	return &Server{
		app:  app,
		addr: cfg.ListenAddr,
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("starting http server")
	return s.app.Listen(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
