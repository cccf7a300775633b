package cluster

import (
	"keywordscope/internal/model"
	"keywordscope/internal/textkit"
)

// EnforceUniqueness ensures each keyword belongs to exactly one
// cluster. When a keyword (by text) appears in multiple clusters, it
// survives only in the cluster whose pillar topic it is most similar
// to (ties go to the earlier cluster). Clusters that fall below
// minClusterSize afterwards have their remaining keywords merged into
// the best remaining cluster by the same rule and are then dropped.
// Called after initial clustering and again after AI enhancement.
func EnforceUniqueness(clusters []model.Cluster, minClusterSize int) []model.Cluster {
	clusters = resolveDuplicates(clusters)
	return resolveUndersized(clusters, minClusterSize)
}

func resolveDuplicates(clusters []model.Cluster) []model.Cluster {
	locations := make(map[string][]int)
	for i, c := range clusters {
		for _, kw := range c.Keywords {
			locations[kw.Text] = append(locations[kw.Text], i)
		}
	}

	winner := make(map[string]int)
	for text, idxs := range locations {
		if len(idxs) <= 1 {
			continue
		}
		best, bestSim := idxs[0], -1.0
		for _, idx := range idxs {
			sim := textkit.Similarity(text, clusters[idx].PillarTopic)
			if sim > bestSim {
				bestSim, best = sim, idx
			}
		}
		winner[text] = best
	}

	for i := range clusters {
		var filtered []model.Keyword
		for _, kw := range clusters[i].Keywords {
			if w, dup := winner[kw.Text]; dup && w != i {
				continue
			}
			filtered = append(filtered, kw)
		}
		clusters[i].Keywords = filtered
		clusters[i] = RecomputeMetrics(clusters[i])
	}
	return clusters
}

func resolveUndersized(clusters []model.Cluster, minClusterSize int) []model.Cluster {
	totalKeywords := 0
	for _, c := range clusters {
		totalKeywords += len(c.Keywords)
	}
	// The input set itself is smaller than minClusterSize: keep
	// everything in one cluster rather than dropping it as undersized.
	if totalKeywords > 0 && totalKeywords < minClusterSize {
		return []model.Cluster{mergeAll(clusters)}
	}

	var survivors []model.Cluster
	var orphaned []model.Keyword
	for _, c := range clusters {
		if len(c.Keywords) < minClusterSize {
			orphaned = append(orphaned, c.Keywords...)
			continue
		}
		survivors = append(survivors, c)
	}

	for _, kw := range orphaned {
		if len(survivors) == 0 {
			break
		}
		best, bestSim := -1, -1.0
		for i, c := range survivors {
			if containsKeyword(c.Keywords, kw.Text) {
				continue
			}
			sim := textkit.Similarity(kw.Text, c.PillarTopic)
			if sim > bestSim {
				bestSim, best = sim, i
			}
		}
		if best == -1 {
			continue
		}
		survivors[best].Keywords = append(survivors[best].Keywords, kw)
	}

	for i := range survivors {
		survivors[i] = RecomputeMetrics(survivors[i])
	}
	return survivors
}

// mergeAll collapses every cluster's keywords into a single cluster,
// used when the whole input set is smaller than minClusterSize.
func mergeAll(clusters []model.Cluster) model.Cluster {
	var merged []model.Keyword
	algorithm := ""
	for _, c := range clusters {
		merged = append(merged, c.Keywords...)
		if algorithm == "" {
			algorithm = c.Algorithm
		}
	}
	merged = dedupeKeywords(merged)
	c := model.Cluster{
		ID:             clusters[0].ID,
		PillarTopic:    SelectPillar(merged),
		Keywords:       merged,
		Algorithm:      algorithm,
		RelevanceScore: 1,
	}
	return RecomputeMetrics(c)
}

func containsKeyword(keywords []model.Keyword, text string) bool {
	for _, k := range keywords {
		if k.Text == text {
			return true
		}
	}
	return false
}
