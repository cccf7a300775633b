package seedgen

import (
	"context"
	"testing"

	"keywordscope/internal/aienhancer"
	"keywordscope/internal/model"
)

func samplePages() []model.PageContent {
	return []model.PageContent{
		{
			URL:             "https://example.com",
			Title:           "Best Running Shoes for Marathon Training",
			MetaDescription: "Shop running shoes built for marathon training and daily mileage.",
			Headings: map[int][]string{
				1: {"Running Shoes Built for Marathon Training"},
				2: {"Trail Running Shoes", "Road Running Shoes"},
			},
		},
		{
			URL:             "https://example.com/blog",
			Title:           "Marathon Training Tips for Running Shoes",
			MetaDescription: "Learn how to pick running shoes for marathon training.",
			Headings: map[int][]string{
				1: {"Marathon Training Guide"},
				2: {"Choosing Running Shoes"},
			},
		},
	}
}

func TestFallbackProducesRepeatedPhrases(t *testing.T) {
	scrape := &model.ScrapeResult{Pages: samplePages()}
	seeds := Fallback(scrape, 50)
	if len(seeds) == 0 {
		t.Fatalf("expected at least one seed candidate")
	}

	found := false
	for _, s := range seeds {
		if s == "running shoes" || s == "marathon training" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a recurring phrase like 'running shoes' among seeds, got %v", seeds)
	}
}

func TestFallbackDropsGenericNavWords(t *testing.T) {
	scrape := &model.ScrapeResult{Pages: []model.PageContent{
		{Title: "Click here to learn more", MetaDescription: "Click here to learn more about our click here page"},
	}}
	seeds := Fallback(scrape, 50)
	for _, s := range seeds {
		if s == "click" || s == "here" || s == "learn" || s == "more" || s == "page" {
			t.Fatalf("expected generic nav word %q to be dropped", s)
		}
	}
}

func TestFallbackRequiresMinimumFrequency(t *testing.T) {
	scrape := &model.ScrapeResult{Pages: []model.PageContent{
		{Title: "Unique Widget Assembly Instructions"},
	}}
	seeds := Fallback(scrape, 50)
	for _, s := range seeds {
		if s == "widget" || s == "assembly" {
			t.Fatalf("expected single-occurrence candidate %q to be filtered out", s)
		}
	}
}

func TestFallbackCapsAtRequestedMax(t *testing.T) {
	scrape := &model.ScrapeResult{Pages: samplePages()}
	seeds := Fallback(scrape, 3)
	if len(seeds) > 3 {
		t.Fatalf("expected at most 3 seeds, got %d", len(seeds))
	}
}

func TestFallbackEmptyScrapeReturnsNoSeeds(t *testing.T) {
	if seeds := Fallback(&model.ScrapeResult{}, 50); len(seeds) != 0 {
		t.Fatalf("expected no seeds for an empty scrape, got %v", seeds)
	}
}

func TestGenerateFallsBackWhenAIDisabled(t *testing.T) {
	scrape := &model.ScrapeResult{Pages: samplePages()}
	seeds, usedFallback, err := Generate(context.Background(), &aienhancer.Enhancer{}, scrape, "en", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !usedFallback {
		t.Fatalf("expected fallback to be used when AI is disabled")
	}
	if len(seeds) == 0 {
		t.Fatalf("expected fallback seeds")
	}
}
