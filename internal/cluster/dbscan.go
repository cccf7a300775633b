package cluster

import (
	"math"
	"sort"

	"keywordscope/internal/model"
	"keywordscope/internal/textkit"
)

const (
	dbscanEpsilon = 0.3
	dbscanMinPts  = 2
	// miscClusterID is a sentinel group key distinct from any
	// DBSCAN-assigned cluster id (which start at 1).
	miscClusterID = -1
)

// DBSCAN density-clusters keywords using the text+volume distance
// metric. Noise points are reassigned to the cluster whose top-5
// (by volume) keywords have the highest average similarity above
// 0.3; remaining noise forms a single "misc" group when it has at
// least minClusterSize members. Returns groups of keyword indices.
func DBSCAN(keywords []model.Keyword, minClusterSize int) [][]int {
	n := len(keywords)
	if n == 0 {
		return nil
	}

	dist := buildDistanceMatrix(keywords)
	neighbors := func(i int) []int {
		var out []int
		for j := 0; j < n; j++ {
			if j != i && dist[i][j] <= dbscanEpsilon {
				out = append(out, j)
			}
		}
		return out
	}

	labels := make([]int, n) // 0 = unvisited, -1 = noise, >0 = cluster id
	visited := make([]bool, n)
	clusterID := 0

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true
		nbrs := neighbors(i)
		if len(nbrs)+1 < dbscanMinPts {
			labels[i] = -1
			continue
		}

		clusterID++
		labels[i] = clusterID
		seeds := append([]int{}, nbrs...)
		for idx := 0; idx < len(seeds); idx++ {
			j := seeds[idx]
			if !visited[j] {
				visited[j] = true
				jn := neighbors(j)
				if len(jn)+1 >= dbscanMinPts {
					seeds = append(seeds, jn...)
				}
			}
			if labels[j] <= 0 {
				labels[j] = clusterID
			}
		}
	}

	groups := make(map[int][]int)
	var noise []int
	for i, l := range labels {
		if l == -1 {
			noise = append(noise, i)
			continue
		}
		groups[l] = append(groups[l], i)
	}

	reassignNoise(keywords, groups, noise, minClusterSize)

	out := make([][]int, 0, len(groups))
	for _, members := range groups {
		out = append(out, members)
	}
	return out
}

func buildDistanceMatrix(keywords []model.Keyword) [][]float64 {
	n := len(keywords)
	logVol := make([]float64, n)
	for i, k := range keywords {
		logVol[i] = math.Log(float64(k.SearchVolume) + 1)
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := textkit.Similarity(keywords[i].Text, keywords[j].Text)
			d := (1 - sim) + 0.2*math.Abs(logVol[i]-logVol[j])/10
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

func reassignNoise(keywords []model.Keyword, groups map[int][]int, noise []int, minClusterSize int) {
	if len(noise) == 0 {
		return
	}

	var misc []int
	for _, i := range noise {
		bestGroup, bestScore := 0, 0.0
		for gid, members := range groups {
			top := topNByVolume(members, keywords, 5)
			avg := avgSimilarityTo(keywords[i].Text, top, keywords)
			if avg > bestScore {
				bestScore, bestGroup = avg, gid
			}
		}
		if bestGroup != 0 && bestScore > 0.3 {
			groups[bestGroup] = append(groups[bestGroup], i)
		} else {
			misc = append(misc, i)
		}
	}

	if len(misc) >= minClusterSize {
		groups[miscClusterID] = misc
	}
}

func topNByVolume(members []int, keywords []model.Keyword, n int) []int {
	sorted := append([]int{}, members...)
	sort.Slice(sorted, func(a, b int) bool {
		return keywords[sorted[a]].SearchVolume > keywords[sorted[b]].SearchVolume
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func avgSimilarityTo(text string, memberIdxs []int, keywords []model.Keyword) float64 {
	if len(memberIdxs) == 0 {
		return 0
	}
	sum := 0.0
	for _, idx := range memberIdxs {
		sum += textkit.Similarity(text, keywords[idx].Text)
	}
	return sum / float64(len(memberIdxs))
}
