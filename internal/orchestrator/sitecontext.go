package orchestrator

import (
	"strings"

	"keywordscope/internal/cluster"
	"keywordscope/internal/model"
)

// maxSiteContextPages caps how many pages' titles/descriptions feed
// the relevance site context, keeping it cheap for large sites.
const maxSiteContextPages = 10

// buildSiteContext assembles the relevance-filtering context from a
// scrape's first few pages' titles and meta descriptions.
func buildSiteContext(scrape *model.ScrapeResult) cluster.SiteContext {
	if scrape == nil {
		return cluster.SiteContext{}
	}
	pages := scrape.Pages
	if len(pages) > maxSiteContextPages {
		pages = pages[:maxSiteContextPages]
	}

	var parts []string
	for _, p := range pages {
		if p.Title != "" {
			parts = append(parts, p.Title)
		}
		if p.MetaDescription != "" {
			parts = append(parts, p.MetaDescription)
		}
	}
	return cluster.BuildSiteContext(strings.Join(parts, " "))
}
