package cluster

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"keywordscope/internal/model"
	"keywordscope/internal/textkit"
)

const (
	refineCoherenceThreshold = 0.3
	refineSizeThreshold      = 10
	mergeSimilarityThreshold = 0.6
	splitMixedSizeThreshold  = 30
	coherenceSampleSize      = 10
)

// Coherence is the average pairwise similarity over up to the first
// 10 keywords in a cluster (C(10,2) <= 45 pairs).
func Coherence(keywords []model.Keyword) float64 {
	sample := keywords
	if len(sample) > coherenceSampleSize {
		sample = sample[:coherenceSampleSize]
	}
	if len(sample) < 2 {
		return 1
	}

	sum, pairs := 0.0, 0
	for i := 0; i < len(sample); i++ {
		for j := i + 1; j < len(sample); j++ {
			sum += textkit.Similarity(sample[i].Text, sample[j].Text)
			pairs++
		}
	}
	if pairs == 0 {
		return 1
	}
	return sum / float64(pairs)
}

// RefineWithSemantics splits any cluster with coherence below
// refineCoherenceThreshold and size over refineSizeThreshold.
func RefineWithSemantics(clusters []model.Cluster, minClusterSize int) []model.Cluster {
	out := make([]model.Cluster, 0, len(clusters))
	for _, c := range clusters {
		if Coherence(c.Keywords) < refineCoherenceThreshold && len(c.Keywords) > refineSizeThreshold {
			out = append(out, SplitCluster(c, minClusterSize)...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

// SplitCluster re-runs k-means with k = min(3, floor(size/5)) over
// c's own keywords. If any resulting sub-cluster would fall below
// minClusterSize, the split is abandoned and c is returned unchanged.
func SplitCluster(c model.Cluster, minClusterSize int) []model.Cluster {
	size := len(c.Keywords)
	k := size / 5
	if k > 3 {
		k = 3
	}
	if k < 2 {
		return []model.Cluster{c}
	}

	vec := NewVectorizer(c.Keywords)
	vectors := vec.VectorizeAll(c.Keywords)
	assignments := KMeans(vectors, k)

	groups := make(map[int][]model.Keyword)
	for i, a := range assignments {
		groups[a] = append(groups[a], c.Keywords[i])
	}

	subclusters := make([]model.Cluster, 0, len(groups))
	for _, members := range groups {
		if len(members) < minClusterSize {
			return []model.Cluster{c}
		}
		subclusters = append(subclusters, newCluster(members, c.Algorithm))
	}
	return subclusters
}

// MergeSimilarClusters repeatedly merges the first pair whose
// clusterSimilarity exceeds mergeSimilarityThreshold into the earlier
// cluster, until no further merge applies.
func MergeSimilarClusters(clusters []model.Cluster) []model.Cluster {
	for {
		mergedAny := false
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if clusterSimilarity(clusters[i], clusters[j]) > mergeSimilarityThreshold {
					clusters[i] = mergeClusters(clusters[i], clusters[j])
					clusters = append(clusters[:j], clusters[j+1:]...)
					mergedAny = true
					break
				}
			}
			if mergedAny {
				break
			}
		}
		if !mergedAny {
			return clusters
		}
	}
}

func clusterSimilarity(a, b model.Cluster) float64 {
	pillarSim := textkit.Similarity(a.PillarTopic, b.PillarTopic)
	avgTop5 := avgPairSimilarity(topNKeywords(a.Keywords, 5), topNKeywords(b.Keywords, 5))
	return 0.4*pillarSim + 0.6*avgTop5
}

func topNKeywords(keywords []model.Keyword, n int) []model.Keyword {
	sorted := append([]model.Keyword{}, keywords...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SearchVolume > sorted[j].SearchVolume })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func avgPairSimilarity(a, b []model.Keyword) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	sum, pairs := 0.0, 0
	for _, x := range a {
		for _, y := range b {
			sum += textkit.Similarity(x.Text, y.Text)
			pairs++
		}
	}
	return sum / float64(pairs)
}

func mergeClusters(a, b model.Cluster) model.Cluster {
	merged := dedupeKeywords(append(append([]model.Keyword{}, a.Keywords...), b.Keywords...))
	c := model.Cluster{
		ID:             a.ID,
		PillarTopic:    SelectPillar(merged),
		Keywords:       merged,
		Algorithm:      a.Algorithm,
		RelevanceScore: math.Max(a.RelevanceScore, b.RelevanceScore),
	}
	return RecomputeMetrics(c)
}

func dedupeKeywords(keywords []model.Keyword) []model.Keyword {
	seen := make(map[string]bool, len(keywords))
	out := make([]model.Keyword, 0, len(keywords))
	for _, k := range keywords {
		if seen[k.Text] {
			continue
		}
		seen[k.Text] = true
		out = append(out, k)
	}
	return out
}

// SplitMixedClusters re-splits any cluster larger than
// splitMixedSizeThreshold.
func SplitMixedClusters(clusters []model.Cluster, minClusterSize int) []model.Cluster {
	out := make([]model.Cluster, 0, len(clusters))
	for _, c := range clusters {
		if len(c.Keywords) > splitMixedSizeThreshold {
			out = append(out, SplitCluster(c, minClusterSize)...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

func newCluster(members []model.Keyword, algorithm string) model.Cluster {
	c := model.Cluster{
		ID:             uuid.NewString(),
		Keywords:       members,
		PillarTopic:    SelectPillar(members),
		Algorithm:      algorithm,
		RelevanceScore: 1,
	}
	return RecomputeMetrics(c)
}
