package cluster

import (
	"sort"

	"keywordscope/internal/model"
	"keywordscope/internal/textkit"
)

const (
	semanticAbsorbThreshold   = 0.4
	semanticReassignThreshold = 0.3
)

// Semantic greedily builds clusters center-first: walking keywords in
// descending search volume, each not-yet-assigned keyword starts a
// new cluster that absorbs any unassigned keyword with similarity
// above semanticAbsorbThreshold. Clusters below minClusterSize are
// discarded and their keywords redistributed to the best surviving
// cluster (similarity >= semanticReassignThreshold), or collected
// into a trailing misc cluster.
func Semantic(keywords []model.Keyword, minClusterSize int) [][]int {
	n := len(keywords)
	if n == 0 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return keywords[order[a]].SearchVolume > keywords[order[b]].SearchVolume
	})

	assigned := make([]bool, n)
	var groups [][]int
	for _, i := range order {
		if assigned[i] {
			continue
		}
		cluster := []int{i}
		assigned[i] = true
		for _, j := range order {
			if assigned[j] {
				continue
			}
			if textkit.Similarity(keywords[i].Text, keywords[j].Text) > semanticAbsorbThreshold {
				cluster = append(cluster, j)
				assigned[j] = true
			}
		}
		groups = append(groups, cluster)
	}

	var kept [][]int
	var released []int
	for _, g := range groups {
		if len(g) < minClusterSize {
			released = append(released, g...)
		} else {
			kept = append(kept, g)
		}
	}

	var misc []int
	for _, idx := range released {
		bestGroup, bestScore := -1, 0.0
		for gi, g := range kept {
			avg := avgSimilarityTo(keywords[idx].Text, g, keywords)
			if avg > bestScore {
				bestScore, bestGroup = avg, gi
			}
		}
		if bestGroup != -1 && bestScore >= semanticReassignThreshold {
			kept[bestGroup] = append(kept[bestGroup], idx)
		} else {
			misc = append(misc, idx)
		}
	}
	if len(misc) >= minClusterSize {
		kept = append(kept, misc)
	}

	return kept
}
