package cluster

import (
	"testing"

	"keywordscope/internal/model"
)

func TestEnforceUniquenessResolvesDuplicateByPillarSimilarity(t *testing.T) {
	clusters := []model.Cluster{
		newCluster([]model.Keyword{
			{Text: "running shoes", SearchVolume: 5000},
			{Text: "best running shoes", SearchVolume: 3000},
			{Text: "hiking boots", SearchVolume: 10},
		}, AlgorithmKMeans),
		newCluster([]model.Keyword{
			{Text: "hiking boots", SearchVolume: 10},
			{Text: "waterproof hiking boots", SearchVolume: 2000},
			{Text: "best hiking boots", SearchVolume: 1800},
		}, AlgorithmKMeans),
	}
	clusters[0].PillarTopic = "running shoes"
	clusters[1].PillarTopic = "hiking boots"

	out := EnforceUniqueness(clusters, 2)

	occurrences := 0
	for _, c := range out {
		for _, kw := range c.Keywords {
			if kw.Text == "hiking boots" {
				occurrences++
			}
		}
	}
	if occurrences != 1 {
		t.Fatalf("expected the duplicated keyword to survive in exactly one cluster, got %d", occurrences)
	}
}

func TestEnforceUniquenessDropsAndReassignsUndersizedClusters(t *testing.T) {
	clusters := []model.Cluster{
		newCluster([]model.Keyword{
			{Text: "running shoes", SearchVolume: 5000},
			{Text: "best running shoes", SearchVolume: 3000},
			{Text: "running shoes for men", SearchVolume: 2000},
		}, AlgorithmKMeans),
		newCluster([]model.Keyword{
			{Text: "running shoe laces", SearchVolume: 100},
		}, AlgorithmKMeans),
	}
	clusters[0].PillarTopic = "running shoes"
	clusters[1].PillarTopic = "running shoe laces"

	out := EnforceUniqueness(clusters, 2)
	if len(out) != 1 {
		t.Fatalf("expected the undersized cluster to be dropped, got %d clusters", len(out))
	}

	found := false
	for _, kw := range out[0].Keywords {
		if kw.Text == "running shoe laces" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected orphaned keyword from the dropped cluster to be reassigned")
	}
}

func TestEnforceUniquenessKeepsUndersizedInputAsSingleCluster(t *testing.T) {
	clusters := []model.Cluster{
		newCluster([]model.Keyword{{Text: "lonely keyword", SearchVolume: 10}}, AlgorithmKMeans),
	}
	out := EnforceUniqueness(clusters, 2)
	if len(out) != 1 {
		t.Fatalf("expected the whole input set kept as one cluster, got %d clusters", len(out))
	}
	if len(out[0].Keywords) != 1 || out[0].Keywords[0].Text != "lonely keyword" {
		t.Fatalf("expected the single cluster to contain the lone keyword, got %v", out[0].Keywords)
	}
}

func TestContainsKeywordMatchesByText(t *testing.T) {
	keywords := []model.Keyword{{Text: "running shoes"}, {Text: "hiking boots"}}
	if !containsKeyword(keywords, "hiking boots") {
		t.Fatalf("expected containsKeyword to find an existing text")
	}
	if containsKeyword(keywords, "camping tents") {
		t.Fatalf("expected containsKeyword to return false for absent text")
	}
}
