// Package config loads and validates keywordscope's YAML configuration,
// with CLI flags and KEYWORDSCOPE_-prefixed environment variables able
// to override individual fields at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type ScraperConfig struct {
	UserAgent       string `yaml:"userAgent"`
	TimeoutMs       int    `yaml:"timeoutMs"`
	MaxPagesDefault int    `yaml:"maxPagesDefault"`
	RespectRobots   bool   `yaml:"respectRobots"`
}

// MetricsProviderConfig configures the remote search-volume provider
// that internal/keywordmetrics batches seed keywords to.
type MetricsProviderConfig struct {
	BaseURL     string `yaml:"baseURL"`
	TimeoutMs   int    `yaml:"timeoutMs"`
	BatchSize   int    `yaml:"batchSize"`
	MinVolume   int    `yaml:"minVolume"`
	MaxKeywords int    `yaml:"maxKeywords"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
	Model   string `yaml:"model"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

type GoogleConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// AIConfig is the shape internal/llm.NewClientFromConfig expects.
type AIConfig struct {
	DefaultProvider string          `yaml:"defaultProvider"`
	OpenAI          OpenAIConfig    `yaml:"openai"`
	Anthropic       AnthropicConfig `yaml:"anthropic"`
	Google          GoogleConfig    `yaml:"google"`
}

// ClusterConfig holds defaults for internal/cluster.Run when a job
// request doesn't override them.
type ClusterConfig struct {
	DefaultAlgorithm string `yaml:"defaultAlgorithm"`
	MinClusterSize   int    `yaml:"minClusterSize"`
}

// RedisConfig, when URL is non-empty, switches internal/ratelimit from
// the in-memory limiter to the Redis-backed one.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// RateLimitConfig configures the per-IP sliding-window limiter guarding
// POST /api/research.
type RateLimitConfig struct {
	WindowMinutes int         `yaml:"windowMinutes"`
	MaxRequests   int         `yaml:"maxRequests"`
	Redis         RedisConfig `yaml:"redis"`
}

// RetentionConfig controls how long completed/failed jobs stay in the
// in-memory job store before the sweeper removes them.
type RetentionConfig struct {
	TTLHours            int `yaml:"ttlHours"`
	SweepIntervalMinutes int `yaml:"sweepIntervalMinutes"`
}

type Config struct {
	Server    ServerConfig          `yaml:"server"`
	Scraper   ScraperConfig         `yaml:"scraper"`
	Metrics   MetricsProviderConfig `yaml:"metrics"`
	AI        AIConfig              `yaml:"ai"`
	Cluster   ClusterConfig         `yaml:"cluster"`
	RateLimit RateLimitConfig       `yaml:"ratelimit"`
	Retention RetentionConfig       `yaml:"retention"`
}

// WithDefaults fills in zero-valued fields with keywordscope's
// production defaults, mirroring the package defaults used by
// internal/keywordmetrics, internal/cluster, and internal/jobstore so
// that a minimal config file (or none at all, in tests) still produces
// a runnable configuration.
func (cfg Config) WithDefaults() Config {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Scraper.UserAgent == "" {
		cfg.Scraper.UserAgent = "keywordscope/1.0"
	}
	if cfg.Scraper.TimeoutMs == 0 {
		cfg.Scraper.TimeoutMs = 15000
	}
	if cfg.Scraper.MaxPagesDefault == 0 {
		cfg.Scraper.MaxPagesDefault = 25
	}
	if cfg.Metrics.TimeoutMs == 0 {
		cfg.Metrics.TimeoutMs = 120000
	}
	if cfg.Metrics.BatchSize == 0 {
		cfg.Metrics.BatchSize = 50
	}
	if cfg.Metrics.MinVolume == 0 {
		cfg.Metrics.MinVolume = 10
	}
	if cfg.Metrics.MaxKeywords == 0 {
		cfg.Metrics.MaxKeywords = 500
	}
	if cfg.Cluster.DefaultAlgorithm == "" {
		cfg.Cluster.DefaultAlgorithm = "hybrid"
	}
	if cfg.Cluster.MinClusterSize == 0 {
		cfg.Cluster.MinClusterSize = 3
	}
	if cfg.RateLimit.WindowMinutes == 0 {
		cfg.RateLimit.WindowMinutes = 60
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = 10
	}
	if cfg.Retention.TTLHours == 0 {
		cfg.Retention.TTLHours = 24
	}
	if cfg.Retention.SweepIntervalMinutes == 0 {
		cfg.Retention.SweepIntervalMinutes = 60
	}
	return cfg
}

func (c ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c MetricsProviderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}

func (c RetentionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

func (c RetentionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// Load reads and decodes a YAML config file, applying defaults to any
// field the file leaves unset.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg = cfg.WithDefaults()
	return &cfg, nil
}

// Validate performs fail-fast sanity checks so a misconfigured AI
// provider or metrics endpoint is caught at startup, not mid-job.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	// AI enhancement is optional (spec.md §7's AIUnavailable is a
	// non-fatal warning, not a startup failure): only validate provider
	// completeness when a provider has actually been configured.
	provider := strings.TrimSpace(cfg.AI.DefaultProvider)
	switch provider {
	case "":
	case "openai":
		if cfg.AI.OpenAI.APIKey == "" || cfg.AI.OpenAI.Model == "" {
			return errors.New("openai ai provider is not fully configured")
		}
	case "anthropic":
		if cfg.AI.Anthropic.APIKey == "" || cfg.AI.Anthropic.Model == "" {
			return errors.New("anthropic ai provider is not fully configured")
		}
	case "google":
		if cfg.AI.Google.APIKey == "" || cfg.AI.Google.Model == "" {
			return errors.New("google ai provider is not fully configured")
		}
	default:
		return fmt.Errorf("unsupported ai.defaultProvider: %s", provider)
	}

	if strings.TrimSpace(cfg.Metrics.BaseURL) == "" {
		return errors.New("metrics.baseURL must be set")
	}

	switch cfg.Cluster.DefaultAlgorithm {
	case "kmeans", "dbscan", "semantic", "hybrid":
	default:
		return fmt.Errorf("unsupported cluster.defaultAlgorithm: %s", cfg.Cluster.DefaultAlgorithm)
	}

	return nil
}
