package cluster

import (
	"fmt"

	"keywordscope/internal/model"
)

// Algorithm names accepted by Run and job options.
const (
	AlgorithmKMeans   = "kmeans"
	AlgorithmDBSCAN   = "dbscan"
	AlgorithmSemantic = "semantic"
	AlgorithmHybrid   = "hybrid"

	DefaultMinClusterSize = 3
)

// Run is the ClusterEngine's single entry point: it clusters keywords
// with the requested algorithm, enforces keyword uniqueness, filters
// by relevance against ctx (a no-op when ctx is empty), recomputes
// metrics and ranks the result — spec.md §4.7.
func Run(keywords []model.Keyword, algorithm string, minClusterSize int, ctx SiteContext) ([]model.Cluster, error) {
	if minClusterSize < 1 {
		minClusterSize = DefaultMinClusterSize
	}
	if len(keywords) == 0 {
		return []model.Cluster{}, nil
	}

	var clusters []model.Cluster
	switch algorithm {
	case AlgorithmKMeans:
		k := ClampK(len(keywords))
		vec := NewVectorizer(keywords)
		assignments := KMeans(vec.VectorizeAll(keywords), k)
		clusters = clustersFromAssignments(keywords, assignments, AlgorithmKMeans)
	case AlgorithmDBSCAN:
		clusters = clustersFromGroups(keywords, DBSCAN(keywords, minClusterSize), AlgorithmDBSCAN)
	case AlgorithmSemantic:
		clusters = clustersFromGroups(keywords, Semantic(keywords, minClusterSize), AlgorithmSemantic)
	case AlgorithmHybrid, "":
		clusters = Hybrid(keywords, minClusterSize)
	default:
		return nil, fmt.Errorf("cluster: unsupported algorithm %q", algorithm)
	}

	if len(clusters) == 0 {
		return nil, fmt.Errorf("cluster: algorithm %q produced zero clusters", algorithm)
	}

	clusters = EnforceUniqueness(clusters, minClusterSize)

	clusters = FilterClusterRelevance(clusters, ctx, minClusterSize)
	for i := range clusters {
		clusters[i] = RecomputeMetrics(clusters[i])
	}

	clusters = RankClusters(clusters)
	return clusters, nil
}
