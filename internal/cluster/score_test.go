package cluster

import (
	"testing"

	"keywordscope/internal/model"
)

func TestRecomputeMetricsSumsVolumeAndBucketsCompetition(t *testing.T) {
	c := model.Cluster{
		RelevanceScore: 1,
		Keywords: []model.Keyword{
			{Text: "a", SearchVolume: 1000, Competition: model.CompetitionLow},
			{Text: "b", SearchVolume: 500, Competition: model.CompetitionHigh},
		},
	}
	out := RecomputeMetrics(c)
	if out.TotalSearchVolume != 1500 {
		t.Fatalf("expected total volume 1500, got %d", out.TotalSearchVolume)
	}
	if out.AvgSearchVolume != 750 {
		t.Fatalf("expected avg volume 750, got %v", out.AvgSearchVolume)
	}
	// avg competition value = (1+3)/2 = 2 -> medium bucket
	if out.AvgCompetition != model.CompetitionMedium {
		t.Fatalf("expected medium competition bucket, got %v", out.AvgCompetition)
	}
	if out.ClusterValueScore < 0 || out.ClusterValueScore > 100 {
		t.Fatalf("expected clamped value score, got %v", out.ClusterValueScore)
	}
}

func TestRecomputeMetricsSortsKeywordsByVolumeDescending(t *testing.T) {
	c := model.Cluster{
		RelevanceScore: 1,
		Keywords: []model.Keyword{
			{Text: "a", SearchVolume: 100},
			{Text: "b", SearchVolume: 900},
			{Text: "c", SearchVolume: 500},
		},
	}
	out := RecomputeMetrics(c)
	if out.Keywords[0].Text != "b" || out.Keywords[1].Text != "c" || out.Keywords[2].Text != "a" {
		t.Fatalf("expected keywords sorted by search volume desc, got %v", out.Keywords)
	}
}

func TestRecomputeMetricsEmptyClusterIsZero(t *testing.T) {
	out := RecomputeMetrics(model.Cluster{})
	if out.TotalSearchVolume != 0 || out.ClusterValueScore != 0 {
		t.Fatalf("expected zeroed metrics for empty cluster, got %+v", out)
	}
}

func TestRecomputeMetricsHigherVolumeScoresHigher(t *testing.T) {
	low := RecomputeMetrics(model.Cluster{RelevanceScore: 0.5, Keywords: []model.Keyword{
		{Text: "a", SearchVolume: 10, Competition: model.CompetitionHigh},
	}})
	high := RecomputeMetrics(model.Cluster{RelevanceScore: 0.5, Keywords: []model.Keyword{
		{Text: "a", SearchVolume: 100000, Competition: model.CompetitionLow},
	}})
	if high.ClusterValueScore <= low.ClusterValueScore {
		t.Fatalf("expected higher volume/lower competition to score higher: low=%v high=%v", low.ClusterValueScore, high.ClusterValueScore)
	}
}

func TestRankClustersAssignsRanksByValueScoreDesc(t *testing.T) {
	clusters := []model.Cluster{
		{ID: "a", ClusterValueScore: 40},
		{ID: "b", ClusterValueScore: 90},
		{ID: "c", ClusterValueScore: 60},
	}
	out := RankClusters(clusters)
	if out[0].ID != "b" || out[0].Rank != 1 {
		t.Fatalf("expected cluster b ranked first, got %+v", out[0])
	}
	if out[1].ID != "c" || out[2].ID != "a" {
		t.Fatalf("expected descending value-score order, got %v %v", out[1].ID, out[2].ID)
	}
	if out[2].Rank != 3 {
		t.Fatalf("expected last cluster rank 3, got %d", out[2].Rank)
	}
}

func TestRankClustersTiebreaksOnRelevanceThenVolumeThenCount(t *testing.T) {
	clusters := []model.Cluster{
		{ID: "a", ClusterValueScore: 50, RelevanceScore: 0.5, TotalSearchVolume: 100, Keywords: make([]model.Keyword, 2)},
		{ID: "b", ClusterValueScore: 50, RelevanceScore: 0.9, TotalSearchVolume: 50, Keywords: make([]model.Keyword, 1)},
	}
	out := RankClusters(clusters)
	if out[0].ID != "b" {
		t.Fatalf("expected higher-relevance cluster to rank first on tie, got %q", out[0].ID)
	}
}
