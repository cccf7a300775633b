// Command keywordscope-api runs the keyword-research HTTP service.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"keywordscope/internal/aienhancer"
	"keywordscope/internal/config"
	"keywordscope/internal/fetcher"
	server "keywordscope/internal/http"
	"keywordscope/internal/jobstore"
	"keywordscope/internal/keywordmetrics"
	"keywordscope/internal/llm"
	"keywordscope/internal/orchestrator"
	"keywordscope/internal/ratelimit"
	"keywordscope/internal/scraper"

	"github.com/redis/go-redis/v9"
)

var rootCmd = &cobra.Command{
	Use:   "keywordscope-api",
	Short: "Runs the keyword research pipeline as an HTTP service",
	RunE:  run,
}

func init() {
	config.BindFlags(rootCmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	f := fetcher.New(fetcher.Config{
		Timeout:   cfg.Scraper.Timeout(),
		UserAgent: cfg.Scraper.UserAgent,
	})

	robots := scraper.NewRobotsChecker(&http.Client{Timeout: 10 * time.Second}, cfg.Scraper.UserAgent)
	scr := scraper.New(f, robots, cfg.Scraper.RespectRobots)

	metricsClient := keywordmetrics.New(keywordmetrics.Config{
		BaseURL:     cfg.Metrics.BaseURL,
		Timeout:     cfg.Metrics.Timeout(),
		BatchSize:   cfg.Metrics.BatchSize,
		MinVolume:   cfg.Metrics.MinVolume,
		MaxKeywords: cfg.Metrics.MaxKeywords,
	})

	var llmClient llm.Client
	if cfg.AI.DefaultProvider != "" {
		c, provider, model, err := llm.NewClientFromConfig(&cfg.AI, "", "")
		if err != nil {
			logger.Warn("ai client disabled", "error", err)
		} else {
			llmClient = c
			logger.Info("ai client configured", "provider", provider, "model", model)
		}
	}
	enhancer := aienhancer.New(llmClient)

	store := jobstore.New(cfg.Retention.TTL(), cfg.Retention.SweepInterval(), logger)
	store.StartSweeper()
	defer store.Stop()

	orch := orchestrator.New(store, scr, f, metricsClient, enhancer, logger, orchestrator.Options{
		DefaultAlgorithm: cfg.Cluster.DefaultAlgorithm,
	})

	limiter, err := buildLimiter(cfg)
	if err != nil {
		return fmt.Errorf("ratelimit: %w", err)
	}

	srv := server.NewServer(cfg, store, orch, enhancer, limiter, logger)

	logger.Info("listening", "addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	return srv.Listen()
}

func buildLimiter(cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.RateLimit.Redis.URL == "" {
		return ratelimit.NewMemory(cfg.RateLimit.Window(), cfg.RateLimit.MaxRequests), nil
	}
	opt, err := redis.ParseURL(cfg.RateLimit.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	return ratelimit.NewRedis(client, cfg.RateLimit.Window(), cfg.RateLimit.MaxRequests), nil
}
