// Package llm provides a small, provider-agnostic chat-completion
// client used by the AIEnhancer to get free-form or JSON-shaped text
// back from OpenAI, Anthropic or Google.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"keywordscope/internal/config"
)

// Provider identifies which upstream API a Client talks to.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
)

// CompletionRequest is one prompt-completion call.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Timeout      time.Duration
}

// Client is the abstraction the AIEnhancer depends on: send a prompt,
// get back the model's raw text response.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewClientFromConfig builds a Client for the configured (or
// overridden) provider/model.
func NewClientFromConfig(cfg *config.AIConfig, providerOverride, modelOverride string) (Client, Provider, string, error) {
	providerName := cfg.DefaultProvider
	if providerOverride != "" {
		providerName = providerOverride
	}
	prov := Provider(providerName)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	switch prov {
	case ProviderOpenAI:
		model := firstNonEmpty(modelOverride, cfg.OpenAI.Model)
		if cfg.OpenAI.APIKey == "" || model == "" {
			return nil, prov, model, errors.New("llm: openai provider is not fully configured")
		}
		return &openAIClient{apiKey: cfg.OpenAI.APIKey, baseURL: cfg.OpenAI.BaseURL, model: model, http: httpClient}, prov, model, nil

	case ProviderAnthropic:
		model := firstNonEmpty(modelOverride, cfg.Anthropic.Model)
		if cfg.Anthropic.APIKey == "" || model == "" {
			return nil, prov, model, errors.New("llm: anthropic provider is not fully configured")
		}
		return &anthropicClient{apiKey: cfg.Anthropic.APIKey, model: model, http: httpClient}, prov, model, nil

	case ProviderGoogle:
		model := firstNonEmpty(modelOverride, cfg.Google.Model)
		if cfg.Google.APIKey == "" || model == "" {
			return nil, prov, model, errors.New("llm: google provider is not fully configured")
		}
		return &googleClient{apiKey: cfg.Google.APIKey, model: model, http: httpClient}, prov, model, nil

	default:
		return nil, prov, "", fmt.Errorf("llm: unsupported provider %q", providerName)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ExtractJSONSnippet pulls the JSON payload out of a model's raw text
// response. It strips a surrounding ``` or ```json code fence, returns
// the whole response if that is valid JSON, and otherwise tries the
// span from the first '[' to the last ']', then from the first '{' to
// the last '}', returning the first span gjson.Valid accepts.
func ExtractJSONSnippet(content string) (string, bool) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	if gjson.Valid(content) {
		return content, true
	}

	for _, pair := range [][2]byte{{'[', ']'}, {'{', '}'}} {
		start := strings.IndexByte(content, pair[0])
		end := strings.LastIndexByte(content, pair[1])
		if start == -1 || end <= start {
			continue
		}
		snippet := content[start : end+1]
		if gjson.Valid(snippet) {
			return snippet, true
		}
	}
	return "", false
}
