package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"keywordscope/internal/metrics"
)

// healthHandler implements GET /health — spec.md §6's {status, uptime,
// services} shape, with the teacher's shallow/deep split kept as an
// additive ?deep=true query flag (SPEC_FULL §C).
func (s *Server) healthHandler(c *fiber.Ctx) error {
	uptime := time.Since(s.startedAt)

	if c.Query("deep") != "true" {
		return c.JSON(fiber.Map{
			"status": "ok",
			"uptime": uptime.String(),
		})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	metricsOK := s.probeMetrics(ctx)
	aiOK := s.enhancer.Enabled()

	status := "ok"
	if !metricsOK {
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status": status,
		"uptime": uptime.String(),
		"services": fiber.Map{
			"metrics": metricsOK,
			"ai":      aiOK,
		},
	})
}

// probeMetrics issues a lightweight reachability check against the
// configured metrics provider's base URL.
func (s *Server) probeMetrics(ctx context.Context) bool {
	if s.cfg.Metrics.BaseURL == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.cfg.Metrics.BaseURL, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}

// metricsHandler implements the Prometheus-style GET /metrics endpoint.
func (s *Server) metricsHandler(c *fiber.Ctx) error {
	c.Type("text/plain")
	return c.SendString(metrics.Export())
}
