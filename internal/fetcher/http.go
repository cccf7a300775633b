package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/rehttp"
)

const maxRedirects = 5

// HTTPFetcher is a plain-HTTP strategy: no JavaScript execution, a
// retrying transport, and a hard cap on redirect following.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher builds an HTTPFetcher whose transport retries
// temporary errors with jittered exponential backoff.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	transport := rehttp.NewTransport(
		http.DefaultTransport,
		rehttp.RetryAll(rehttp.RetryMaxRetries(2), rehttp.RetryTemporaryErr()),
		rehttp.ExpJitterDelay(200*time.Millisecond, 2*time.Second),
	)

	client := &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("fetcher: stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return &HTTPFetcher{client: client, userAgent: userAgent}
}

func (f *HTTPFetcher) name() string { return "http" }

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	// Accept-Encoding is left unset so net/http negotiates and
	// transparently decompresses gzip itself.

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetcher: http GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrHTTPStatus, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetcher: reading body of %s: %w", url, err)
	}

	return &Result{
		HTML:     string(body),
		FinalURL: resp.Request.URL.String(),
		Status:   resp.StatusCode,
		Strategy: f.name(),
	}, nil
}
