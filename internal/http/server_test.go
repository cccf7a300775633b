package http

import (
	"context"
	"io"
	"log/slog"
	"time"

	"keywordscope/internal/aienhancer"
	"keywordscope/internal/config"
	"keywordscope/internal/fetcher"
	"keywordscope/internal/jobstore"
	"keywordscope/internal/model"
	"keywordscope/internal/orchestrator"
	"keywordscope/internal/ratelimit"
)

// stubScraper/stubProber/stubMetrics satisfy the orchestrator's
// unexported collaborator interfaces for tests that need a fully
// wired Server without a live network.

type stubScraper struct {
	result *model.ScrapeResult
	err    error
}

func (s stubScraper) Scrape(_ context.Context, _ string, _ int, _ fetcher.Strategy, _ int) (*model.ScrapeResult, error) {
	return s.result, s.err
}

type stubProber struct {
	result *fetcher.Result
	err    error
}

func (s stubProber) Fetch(_ context.Context, _ string, _ fetcher.Strategy, _ int) (*fetcher.Result, error) {
	return s.result, s.err
}

type stubMetrics struct {
	keywords []model.Keyword
	err      error
}

func (s stubMetrics) Fetch(_ context.Context, _ []string, _, _ string) ([]model.Keyword, error) {
	return s.keywords, s.err
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer() *Server {
	cfg := config.Config{}.WithDefaults()
	cfg.Metrics.BaseURL = "http://metrics.invalid"

	st := jobstore.New(time.Hour, time.Hour, silentLogger())
	enhancer := aienhancer.New(nil)
	orch := orchestrator.New(st, stubScraper{}, stubProber{}, stubMetrics{}, enhancer, silentLogger(), orchestrator.Options{})
	limiter := ratelimit.NewMemory(cfg.RateLimit.Window(), cfg.RateLimit.MaxRequests)

	return NewServer(&cfg, st, orch, enhancer, limiter, silentLogger())
}
