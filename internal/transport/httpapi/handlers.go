package httpapi

import (
	"context"
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/garyyong/askgary/internal/service/analytics"
	"github.com/garyyong/askgary/internal/service/chat"
	"github.com/garyyong/askgary/internal/service/session"
	"github.com/garyyong/askgary/pkg/log"
)

type ChatRunner interface {
	Handle(ctx context.Context, sessionID, message string) (chat.Result, error)
}

type ReportBuilder interface {
	Aggregate(ctx context.Context) (analytics.Report, error)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatHandler serves the widget's chat turns.
type ChatHandler struct {
	svc ChatRunner
}

func NewChatHandler(svc ChatRunner) *ChatHandler {
	return &ChatHandler{svc: svc}
}

func (h *ChatHandler) Handle(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.SessionID == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id and message are required"})
	}

	res, err := h.svc.Handle(c.UserContext(), req.SessionID, req.Message)
	if err != nil {
		log.FromCtx(c.UserContext()).Error().Err(err).Str("session", req.SessionID).Msg("chat turn failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "the assistant is unavailable right now"})
	}

	if res.Sources == nil {
		res.Sources = []string{}
	}
	return c.JSON(res)
}

// HealthHandler reports liveness and opportunistically sweeps idle sessions.
type HealthHandler struct {
	sessions *session.Manager
}

func NewHealthHandler(sessions *session.Manager) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	h.sessions.Sweep(c.UserContext())
	return c.JSON(fiber.Map{
		"status":          "ok",
		"active_sessions": h.sessions.ActiveCount(),
	})
}

// AnalyticsHandler serves the admin usage report behind a shared key.
type AnalyticsHandler struct {
	agg      ReportBuilder
	adminKey string
}

func NewAnalyticsHandler(agg ReportBuilder, adminKey string) *AnalyticsHandler {
	return &AnalyticsHandler{agg: agg, adminKey: adminKey}
}

func (h *AnalyticsHandler) Handle(c *fiber.Ctx) error {
	key := c.Query("key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.adminKey)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	report, err := h.agg.Aggregate(c.UserContext())
	if err != nil {
		log.FromCtx(c.UserContext()).Error().Err(err).Msg("analytics aggregation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build report"})
	}
	return c.JSON(report)
}
