package cluster

import "keywordscope/internal/model"

// Hybrid runs KMeans, then RefineWithSemantics, MergeSimilarClusters
// and SplitMixedClusters — the default algorithm per spec.md §4.7.2.
func Hybrid(keywords []model.Keyword, minClusterSize int) []model.Cluster {
	k := ClampK(len(keywords))
	vec := NewVectorizer(keywords)
	assignments := KMeans(vec.VectorizeAll(keywords), k)

	clusters := clustersFromAssignments(keywords, assignments, "hybrid")
	clusters = RefineWithSemantics(clusters, minClusterSize)
	clusters = MergeSimilarClusters(clusters)
	clusters = SplitMixedClusters(clusters, minClusterSize)
	return clusters
}

func clustersFromAssignments(keywords []model.Keyword, assignments []int, algorithm string) []model.Cluster {
	groups := make(map[int][]model.Keyword)
	for i, a := range assignments {
		groups[a] = append(groups[a], keywords[i])
	}
	out := make([]model.Cluster, 0, len(groups))
	for _, members := range groups {
		if len(members) == 0 {
			continue
		}
		out = append(out, newCluster(members, algorithm))
	}
	return out
}

func clustersFromGroups(keywords []model.Keyword, groups [][]int, algorithm string) []model.Cluster {
	out := make([]model.Cluster, 0, len(groups))
	for _, idxs := range groups {
		if len(idxs) == 0 {
			continue
		}
		members := make([]model.Keyword, len(idxs))
		for i, idx := range idxs {
			members[i] = keywords[idx]
		}
		out = append(out, newCluster(members, algorithm))
	}
	return out
}
