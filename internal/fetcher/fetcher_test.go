package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStrategy struct {
	n        string
	fail     int // number of leading calls that fail
	calls    int
	lastCall string
}

func (f *fakeStrategy) name() string { return f.n }

func (f *fakeStrategy) fetchOnce(_ context.Context, url string) (*Result, error) {
	f.calls++
	f.lastCall = url
	if f.calls <= f.fail {
		return nil, errors.New("simulated failure")
	}
	return &Result{HTML: "<html></html>", FinalURL: url, Status: 200, Strategy: f.n}, nil
}

func newTestFetcher(browser, http strategyFetcher) *Fetcher {
	return &Fetcher{browser: browser, http: http, sleep: func(time.Duration) {}}
}

func TestFetchBrowserStrategySucceedsFirstTry(t *testing.T) {
	b := &fakeStrategy{n: "browser"}
	h := &fakeStrategy{n: "http"}
	f := newTestFetcher(b, h)

	res, err := f.Fetch(context.Background(), "https://example.com", StrategyBrowser, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Strategy != "browser" {
		t.Fatalf("expected browser strategy result, got %q", res.Strategy)
	}
	if b.calls != 1 {
		t.Fatalf("expected exactly 1 browser call, got %d", b.calls)
	}
	if h.calls != 0 {
		t.Fatalf("http strategy should not have been called, got %d calls", h.calls)
	}
}

func TestFetchRetriesBeforeSucceeding(t *testing.T) {
	b := &fakeStrategy{n: "browser", fail: 2}
	h := &fakeStrategy{n: "http"}
	f := newTestFetcher(b, h)

	res, err := f.Fetch(context.Background(), "https://example.com", StrategyBrowser, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.calls != 3 {
		t.Fatalf("expected 3 browser attempts, got %d", b.calls)
	}
	if res.Status != 200 {
		t.Fatalf("expected status 200, got %d", res.Status)
	}
}

func TestFetchAutoFallsBackToHTTP(t *testing.T) {
	b := &fakeStrategy{n: "browser", fail: 99}
	h := &fakeStrategy{n: "http"}
	f := newTestFetcher(b, h)

	res, err := f.Fetch(context.Background(), "https://example.com", StrategyAuto, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Strategy != "http" {
		t.Fatalf("expected fallback to http strategy, got %q", res.Strategy)
	}
	if b.calls != 2 || h.calls != 1 {
		t.Fatalf("expected 2 browser attempts + 1 http attempt, got browser=%d http=%d", b.calls, h.calls)
	}
}

func TestFetchExhaustsAllAttempts(t *testing.T) {
	b := &fakeStrategy{n: "browser", fail: 99}
	h := &fakeStrategy{n: "http", fail: 99}
	f := newTestFetcher(b, h)

	_, err := f.Fetch(context.Background(), "https://example.com", StrategyAuto, 2)
	if err == nil {
		t.Fatalf("expected error when both strategies are exhausted")
	}
}

func TestFetchUnknownStrategy(t *testing.T) {
	f := newTestFetcher(&fakeStrategy{n: "browser"}, &fakeStrategy{n: "http"})
	if _, err := f.Fetch(context.Background(), "https://example.com", Strategy("bogus"), 1); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestFetchDefaultsAttemptsToOne(t *testing.T) {
	b := &fakeStrategy{n: "browser", fail: 99}
	h := &fakeStrategy{n: "http", fail: 99}
	f := newTestFetcher(b, h)

	_, _ = f.Fetch(context.Background(), "https://example.com", StrategyAuto, 0)
	if b.calls != 1 || h.calls != 1 {
		t.Fatalf("expected attempts to default to 1 each, got browser=%d http=%d", b.calls, h.calls)
	}
}
