package cluster

import (
	"math"
	"sort"

	"keywordscope/internal/model"
)

// RecomputeMetrics fills TotalSearchVolume, AvgSearchVolume,
// AvgCompetition and ClusterValueScore from c.Keywords and the
// cluster's current RelevanceScore — spec.md §4.7.7. Callers must set
// RelevanceScore first (via FilterClusterRelevance, or 1.0 when no
// site context is available).
func RecomputeMetrics(c model.Cluster) model.Cluster {
	n := len(c.Keywords)
	if n == 0 {
		c.TotalSearchVolume = 0
		c.AvgSearchVolume = 0
		c.AvgCompetition = model.CompetitionUnknown
		c.ClusterValueScore = 0
		return c
	}

	sort.SliceStable(c.Keywords, func(i, j int) bool {
		return c.Keywords[i].SearchVolume > c.Keywords[j].SearchVolume
	})

	total := 0
	competitionSum := 0.0
	for _, kw := range c.Keywords {
		total += kw.SearchVolume
		competitionSum += competitionBucketValue(kw.Competition)
	}
	avgVolume := float64(total) / float64(n)
	avgCompetitionValue := competitionSum / float64(n)

	c.TotalSearchVolume = total
	c.AvgSearchVolume = avgVolume
	c.AvgCompetition = competitionBucket(avgCompetitionValue)
	c.ClusterValueScore = computeValueScore(float64(total), avgVolume, avgCompetitionValue, n, c.RelevanceScore)
	return c
}

func competitionBucketValue(c model.Competition) float64 {
	switch c {
	case model.CompetitionLow:
		return 1
	case model.CompetitionMedium:
		return 2
	case model.CompetitionHigh:
		return 3
	default:
		return 2
	}
}

func competitionBucket(avg float64) model.Competition {
	switch {
	case avg < 1.5:
		return model.CompetitionLow
	case avg < 2.5:
		return model.CompetitionMedium
	default:
		return model.CompetitionHigh
	}
}

func computeValueScore(total, avgVolume, avgCompetitionValue float64, count int, relevance float64) float64 {
	totalVolumeScore := math.Min(40, math.Log10(total+1)*20)
	avgVolumeScore := math.Min(25, math.Log(avgVolume+1)*10)

	competitionClamp := clamp((avgCompetitionValue-1)/2, 0, 1)
	competitionScore := math.Max(0, math.Min(20, (1-competitionClamp)*20))

	sizeScore := math.Min(10, math.Log(1+float64(count))*4)
	relevanceComponent := relevance * 25

	sum := totalVolumeScore + avgVolumeScore + competitionScore + sizeScore + relevanceComponent
	return math.Round(clamp(sum, 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RankClusters sorts clusters by clusterValueScore desc, then
// relevance desc, then totalVolume desc, then keywordCount desc, and
// assigns Rank 1..K in place.
func RankClusters(clusters []model.Cluster) []model.Cluster {
	sort.SliceStable(clusters, func(i, j int) bool {
		a, b := clusters[i], clusters[j]
		if a.ClusterValueScore != b.ClusterValueScore {
			return a.ClusterValueScore > b.ClusterValueScore
		}
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		if a.TotalSearchVolume != b.TotalSearchVolume {
			return a.TotalSearchVolume > b.TotalSearchVolume
		}
		return len(a.Keywords) > len(b.Keywords)
	})
	for i := range clusters {
		clusters[i].Rank = i + 1
	}
	return clusters
}
