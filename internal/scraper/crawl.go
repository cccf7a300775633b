// Package scraper performs a same-origin breadth-first crawl of a
// site starting from one URL, turning each successfully fetched page
// into a model.PageContent via the fetcher and extractor packages.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"keywordscope/internal/extractor"
	"keywordscope/internal/fetcher"
	"keywordscope/internal/model"
)

// ErrAllStrategiesFailed is returned when zero pages were successfully
// scraped — there is no fabricated fallback content.
var ErrAllStrategiesFailed = errors.New("all scraping strategies failed")

// Fetcher is the subset of fetcher.Fetcher the scraper depends on.
type Fetcher interface {
	Fetch(ctx context.Context, url string, strategy fetcher.Strategy, attempts int) (*fetcher.Result, error)
}

// Scraper crawls same-origin pages starting from a seed URL.
type Scraper struct {
	fetcher       Fetcher
	robots        *RobotsChecker
	respectRobots bool
}

// New builds a Scraper. robots may be nil if respectRobots is false.
func New(f Fetcher, robots *RobotsChecker, respectRobots bool) *Scraper {
	return &Scraper{fetcher: f, robots: robots, respectRobots: respectRobots}
}

// Scrape crawls up to maxPages same-origin pages starting at startURL.
func (s *Scraper) Scrape(ctx context.Context, startURL string, maxPages int, strategy fetcher.Strategy, attempts int) (*model.ScrapeResult, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	start, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("scraper: invalid start URL %q: %w", startURL, err)
	}

	visited := make(map[string]bool)
	frontier := []string{canonicalize(startURL)}

	var pages []model.PageContent
	var resultStrategy string
	firstPageDone := false

	for len(visited) < maxPages && len(frontier) > 0 {
		u := frontier[0]
		frontier = frontier[1:]

		if visited[u] {
			continue
		}
		visited[u] = true

		if s.respectRobots && s.robots != nil && !s.robots.Allowed(ctx, u) {
			continue
		}

		res, err := s.fetcher.Fetch(ctx, u, strategy, attempts)
		if err != nil {
			continue
		}

		page := extractor.Extract(res.HTML, res.FinalURL)
		if page.WordCount == 0 {
			continue
		}

		pages = append(pages, page)
		if !firstPageDone {
			resultStrategy = res.Strategy
			firstPageDone = true

			newLinks := discoverSameOriginLinks(res.HTML, u, start.Hostname())
			room := maxPages - 1
			for _, link := range newLinks {
				if room <= 0 {
					break
				}
				c := canonicalize(link)
				if visited[c] || containsStr(frontier, c) {
					continue
				}
				frontier = append(frontier, c)
				room--
			}
		}
	}

	if len(pages) == 0 {
		return nil, ErrAllStrategiesFailed
	}

	total := 0
	for _, p := range pages {
		total += p.WordCount
	}

	return &model.ScrapeResult{
		Pages:      pages,
		TotalWords: total,
		Strategy:   resultStrategy,
		ScrapedAt:  time.Now(),
	}, nil
}

// canonicalize strips the fragment and a single trailing slash so the
// visited/frontier sets dedupe equivalent URLs.
func canonicalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.TrimSuffix(raw, "/")
	}
	u.Fragment = ""
	s := u.String()
	if len(s) > 1 {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}

func discoverSameOriginLinks(rawHTML, pageURL, startHostname string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		link, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(link)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if !strings.EqualFold(resolved.Hostname(), startHostname) {
			return
		}
		resolved.Fragment = ""
		final := resolved.String()
		if seen[final] {
			return
		}
		seen[final] = true
		out = append(out, final)
	})
	return out
}

func containsStr(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
