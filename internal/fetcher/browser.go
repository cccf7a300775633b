package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const desktopChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// bodyWaitTimeout bounds the extra wait for the body selector after
// DOM content has settled.
const bodyWaitTimeout = 5 * time.Second

var blockedResourceTypes = map[proto.NetworkResourceType]struct{}{
	proto.NetworkResourceTypeImage:      {},
	proto.NetworkResourceTypeStylesheet: {},
	proto.NetworkResourceTypeFont:       {},
}

// BrowserFetcher drives a local headless Chromium instance through
// rod. Each fetch launches its own browser process, injects stealth
// JS before navigation to blunt naive bot detection, and blocks
// images/fonts/stylesheets so the fetch only pays for markup.
type BrowserFetcher struct {
	timeout   time.Duration
	userAgent string
}

// NewBrowserFetcher builds a BrowserFetcher.
func NewBrowserFetcher(timeout time.Duration, userAgent string) *BrowserFetcher {
	if userAgent == "" {
		userAgent = desktopChromeUA
	}
	return &BrowserFetcher{timeout: timeout, userAgent: userAgent}
}

func (f *BrowserFetcher) name() string { return "browser" }

func (f *BrowserFetcher) fetchOnce(ctx context.Context, url string) (*Result, error) {
	browser, err := f.launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetcher: launching browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("fetcher: opening page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		return nil, fmt.Errorf("fetcher: injecting stealth script: %w", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
		return nil, fmt.Errorf("fetcher: setting user agent: %w", err)
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(h *rod.Hijack) {
		if _, blocked := blockedResourceTypes[h.Request.Type()]; blocked {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
	defer func() { _ = router.Stop() }()

	navCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	p := page.Context(navCtx)

	if err := p.Navigate(url); err != nil {
		return nil, fmt.Errorf("fetcher: navigating to %s: %w", url, err)
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		// Non-fatal: fall through with whatever DOM state we have.
		_ = err
	}

	bodyCtx, bodyCancel := context.WithTimeout(navCtx, bodyWaitTimeout)
	defer bodyCancel()
	if _, err := p.Context(bodyCtx).Element("body"); err != nil {
		return nil, fmt.Errorf("fetcher: waiting for body on %s: %w", url, err)
	}

	status := 0
	if res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch (e) {}
		return 0;
	}`); err == nil {
		status = res.Value.Int()
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrHTTPStatus, url, status)
	}

	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("fetcher: reading HTML for %s: %w", url, err)
	}

	finalURL := url
	if res, err := p.Eval(`() => window.location.href`); err == nil {
		if s := res.Value.Str(); s != "" {
			finalURL = s
		}
	}

	return &Result{
		HTML:     html,
		FinalURL: finalURL,
		Status:   status,
		Strategy: f.name(),
	}, nil
}

func (f *BrowserFetcher) launch(ctx context.Context) (*rod.Browser, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled")

	if path, has := launcher.LookPath(); has {
		l = l.Bin(path)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx).Timeout(f.timeout)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, err
	}
	return browser, nil
}
