// Package keywordmetrics batches seed keywords to a remote search-
// metrics provider and normalizes the response into model.Keyword.
// Named keywordmetrics (not metrics) to stay distinct from the
// Prometheus-style internal/metrics package.
package keywordmetrics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"keywordscope/internal/model"
)

const (
	defaultBatchSize   = 50
	defaultTimeout     = 120 * time.Second
	defaultMinVolume   = 10
	defaultMaxKeywords = 500
	cpcMicrosPerUnit   = 1_000_000.0
)

// Config controls batching and filtering thresholds. Zero values fall
// back to the package defaults.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	BatchSize   int
	MinVolume   int
	MaxKeywords int
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.MinVolume <= 0 {
		c.MinVolume = defaultMinVolume
	}
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = defaultMaxKeywords
	}
	return c
}

// Client calls the remote search-metrics provider.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type metricsBatchRequest struct {
	Keywords    []string `json:"keywords"`
	CountryCode string   `json:"countryCode"`
	LanguageCode string  `json:"languageCode"`
}

type metricsBatchResponseEntry struct {
	Keyword      string  `json:"keyword"`
	SearchVolume int     `json:"searchVolume"`
	Competition  string  `json:"competition"`
	CPCLowMicros int64   `json:"cpcLowMicros"`
	CPCHighMicros int64  `json:"cpcHighMicros"`
}

type metricsBatchResponse struct {
	Results []metricsBatchResponseEntry `json:"results"`
}

// Fetch batches seeds in groups of cfg.BatchSize, calls the remote
// metrics service per batch, concatenates the results, drops
// low-volume entries, and caps the total returned at cfg.MaxKeywords.
func (c *Client) Fetch(ctx context.Context, seeds []string, countryCode, languageCode string) ([]model.Keyword, error) {
	if len(seeds) == 0 {
		return nil, nil
	}

	batchSize := c.cfg.BatchSize
	var out []model.Keyword
	for start := 0; start < len(seeds); start += batchSize {
		end := start + batchSize
		if end > len(seeds) {
			end = len(seeds)
		}

		batchCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		entries, err := c.fetchBatch(batchCtx, seeds[start:end], countryCode, languageCode)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("keywordmetrics: batch %d-%d: %w", start, end, err)
		}

		for _, e := range entries {
			if e.SearchVolume < c.cfg.MinVolume {
				continue
			}
			out = append(out, model.Keyword{
				Text:         e.Keyword,
				SearchVolume: e.SearchVolume,
				Competition:  normalizeCompetition(e.Competition),
				CPCLow:       float64(e.CPCLowMicros) / cpcMicrosPerUnit,
				CPCHigh:      float64(e.CPCHighMicros) / cpcMicrosPerUnit,
			})
			if len(out) >= c.cfg.MaxKeywords {
				return out, nil
			}
		}
	}
	return out, nil
}

func (c *Client) fetchBatch(ctx context.Context, keywords []string, countryCode, languageCode string) ([]metricsBatchResponseEntry, error) {
	payload, err := json.Marshal(metricsBatchRequest{
		Keywords:     keywords,
		CountryCode:  countryCode,
		LanguageCode: languageCode,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("metrics provider returned status %d", resp.StatusCode)
	}

	var parsed metricsBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed.Results, nil
}

func normalizeCompetition(raw string) model.Competition {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return model.CompetitionLow
	case "medium", "med", "moderate":
		return model.CompetitionMedium
	case "high":
		return model.CompetitionHigh
	default:
		return model.CompetitionUnknown
	}
}
