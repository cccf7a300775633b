package cluster

import (
	"testing"

	"keywordscope/internal/model"
)

func densePhraseSet() []model.Keyword {
	return []model.Keyword{
		{Text: "running shoes", SearchVolume: 5000},
		{Text: "running shoe", SearchVolume: 4800},
		{Text: "best running shoes", SearchVolume: 4000},
		{Text: "running shoes for men", SearchVolume: 3000},
		{Text: "quantum physics textbook", SearchVolume: 50},
	}
}

func TestDBSCANGroupsNearDuplicates(t *testing.T) {
	groups := DBSCAN(densePhraseSet(), 2)
	if len(groups) == 0 {
		t.Fatalf("expected at least one group")
	}

	var runningGroup []int
	for _, g := range groups {
		for _, idx := range g {
			if densePhraseSet()[idx].Text == "running shoes" {
				runningGroup = g
			}
		}
	}
	if runningGroup == nil {
		t.Fatalf("expected to find the group containing 'running shoes'")
	}
	if len(runningGroup) < 3 {
		t.Fatalf("expected the dense running-shoe phrases to cluster together, got group of size %d", len(runningGroup))
	}
}

func TestDBSCANEmptyInputReturnsNil(t *testing.T) {
	if groups := DBSCAN(nil, 2); groups != nil {
		t.Fatalf("expected nil groups for empty input, got %v", groups)
	}
}

func TestDBSCANEveryKeywordAssignedAtMostOnce(t *testing.T) {
	keywords := densePhraseSet()
	groups := DBSCAN(keywords, 2)
	seen := make(map[int]int)
	for _, g := range groups {
		for _, idx := range g {
			seen[idx]++
		}
	}
	for idx, count := range seen {
		if count > 1 {
			t.Fatalf("keyword index %d assigned to %d groups", idx, count)
		}
	}
}

func TestBuildDistanceMatrixIsSymmetric(t *testing.T) {
	keywords := densePhraseSet()
	dist := buildDistanceMatrix(keywords)
	for i := range keywords {
		for j := range keywords {
			if dist[i][j] != dist[j][i] {
				t.Fatalf("expected symmetric distance matrix, dist[%d][%d]=%v dist[%d][%d]=%v", i, j, dist[i][j], j, i, dist[j][i])
			}
		}
		if dist[i][i] != 0 {
			t.Fatalf("expected zero self-distance, got %v", dist[i][i])
		}
	}
}
