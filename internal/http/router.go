package http

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"keywordscope/internal/aienhancer"
	"keywordscope/internal/config"
	"keywordscope/internal/jobstore"
	"keywordscope/internal/metrics"
	"keywordscope/internal/orchestrator"
	"keywordscope/internal/ratelimit"
)

// Server wires the job pipeline to an HTTP surface — spec.md §6.
type Server struct {
	app          *fiber.App
	cfg          *config.Config
	store        *jobstore.Store
	orchestrator *orchestrator.Orchestrator
	enhancer     *aienhancer.Enhancer
	limiter      ratelimit.Limiter
	logger       *slog.Logger
	startedAt    time.Time
}

// NewServer builds the fiber app and registers every route named in
// spec.md §6.
func NewServer(
	cfg *config.Config,
	st *jobstore.Store,
	orch *orchestrator.Orchestrator,
	enhancer *aienhancer.Enhancer,
	limiter ratelimit.Limiter,
	logger *slog.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 4 * 1024 * 1024,
	})

	s := &Server{
		app:          app,
		cfg:          cfg,
		store:        st,
		orchestrator: orch,
		enhancer:     enhancer,
		limiter:      limiter,
		logger:       logger,
		startedAt:    time.Now(),
	}

	app.Use(corsMiddleware())
	app.Use(requestLoggingMiddleware(logger))

	app.Get("/health", s.healthHandler)
	app.Get("/metrics", s.metricsHandler)

	research := app.Group("/api/research")
	research.Post("/", s.createResearchHandler)
	research.Get("/config/countries", s.countriesHandler)
	research.Get("/config/languages", s.languagesHandler)
	research.Get("/:id", s.getResearchHandler)
	research.Delete("/:id", s.deleteResearchHandler)
	research.Get("/:id/export", s.exportResearchHandler)

	return s
}

// Listen starts the HTTP server on the configured host:port.
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	return s.app.Listen(addr)
}

// requestLoggingMiddleware assigns/propagates X-Request-Id, logs every
// request, and records it in the package's Prometheus-style counters.
func requestLoggingMiddleware(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set("X-Request-Id", reqID)
		c.Locals("request_id", reqID)

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()
		method := c.Method()
		path := c.Path()

		metrics.RecordRequest(method, path, status, latency.Milliseconds())

		if logger != nil {
			logger.Info("request",
				"request_id", reqID,
				"method", method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		}

		return err
	}
}

// corsMiddleware allows browser-based clients to call the API from any
// origin; the research endpoints carry no cookies or credentials.
func corsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}
