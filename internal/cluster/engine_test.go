package cluster

import (
	"testing"

	"keywordscope/internal/model"
)

func sampleKeywords() []model.Keyword {
	texts := []struct {
		text   string
		volume int
		comp   model.Competition
	}{
		{"running shoes", 5000, model.CompetitionMedium},
		{"best running shoes", 3000, model.CompetitionMedium},
		{"running shoes for men", 2000, model.CompetitionLow},
		{"running shoes for women", 1800, model.CompetitionLow},
		{"trail running shoes", 1500, model.CompetitionMedium},
		{"hiking boots", 4000, model.CompetitionHigh},
		{"best hiking boots", 2500, model.CompetitionHigh},
		{"waterproof hiking boots", 1200, model.CompetitionMedium},
		{"camping tents", 3500, model.CompetitionLow},
		{"best camping tents", 1700, model.CompetitionLow},
		{"family camping tents", 900, model.CompetitionLow},
		{"backpacking tents", 800, model.CompetitionMedium},
	}
	out := make([]model.Keyword, len(texts))
	for i, tc := range texts {
		out[i] = model.Keyword{Text: tc.text, SearchVolume: tc.volume, Competition: tc.comp, CPCLow: 0.5, CPCHigh: 1.5}
	}
	return out
}

func TestRunHybridProducesRankedClusters(t *testing.T) {
	clusters, err := Run(sampleKeywords(), AlgorithmHybrid, 2, SiteContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) == 0 {
		t.Fatalf("expected at least one cluster")
	}
	for i, c := range clusters {
		if c.Rank != i+1 {
			t.Fatalf("expected contiguous ranks starting at 1, got rank %d at index %d", c.Rank, i)
		}
	}
}

func TestRunEachKeywordAppearsExactlyOnce(t *testing.T) {
	keywords := sampleKeywords()
	for _, algo := range []string{AlgorithmKMeans, AlgorithmDBSCAN, AlgorithmSemantic, AlgorithmHybrid} {
		clusters, err := Run(keywords, algo, 2, SiteContext{})
		if err != nil {
			t.Fatalf("algorithm %s: unexpected error: %v", algo, err)
		}
		seen := make(map[string]int)
		for _, c := range clusters {
			for _, kw := range c.Keywords {
				seen[kw.Text]++
			}
		}
		for _, kw := range keywords {
			if seen[kw.Text] > 1 {
				t.Fatalf("algorithm %s: keyword %q appeared in %d clusters", algo, kw.Text, seen[kw.Text])
			}
		}
	}
}

func TestRunUnsupportedAlgorithmErrors(t *testing.T) {
	if _, err := Run(sampleKeywords(), "not-an-algorithm", 2, SiteContext{}); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
}

func TestRunKeywordsSortedByVolumeDescending(t *testing.T) {
	clusters, err := Run(sampleKeywords(), AlgorithmHybrid, 2, SiteContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range clusters {
		for i := 1; i < len(c.Keywords); i++ {
			if c.Keywords[i].SearchVolume > c.Keywords[i-1].SearchVolume {
				t.Fatalf("cluster %q: keywords not sorted by volume desc: %v", c.PillarTopic, c.Keywords)
			}
		}
	}
}

func TestRunUndersizedInputProducesSingleCluster(t *testing.T) {
	keywords := []model.Keyword{
		{Text: "running shoes", SearchVolume: 5000, Competition: model.CompetitionMedium},
		{Text: "hiking boots", SearchVolume: 4000, Competition: model.CompetitionHigh},
	}
	clusters, err := Run(keywords, AlgorithmHybrid, 3, SiteContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("expected exactly one cluster for an input smaller than minClusterSize, got %d", len(clusters))
	}
	if len(clusters[0].Keywords) != len(keywords) {
		t.Fatalf("expected all %d keywords in the single cluster, got %d", len(keywords), len(clusters[0].Keywords))
	}
}

func TestRunNoKeywordsReturnsEmptyList(t *testing.T) {
	clusters, err := Run(nil, AlgorithmHybrid, 2, SiteContext{})
	if err != nil {
		t.Fatalf("expected no error for empty keyword set, got: %v", err)
	}
	if len(clusters) != 0 {
		t.Fatalf("expected empty cluster list, got %d clusters", len(clusters))
	}
}

func TestRunWithSiteContextAppliesRelevance(t *testing.T) {
	ctx := BuildSiteContext("Outdoor gear retailer", "running shoes hiking boots camping tents")
	clusters, err := Run(sampleKeywords(), AlgorithmHybrid, 2, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range clusters {
		if c.RelevanceScore <= 0 {
			t.Fatalf("expected positive relevance score when context matches cluster content, got %v for %q", c.RelevanceScore, c.PillarTopic)
		}
	}
}
