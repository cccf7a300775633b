package aienhancer

import (
	"context"
	"errors"
	"testing"

	"keywordscope/internal/llm"
	"keywordscope/internal/model"
)

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestEnabledReflectsClientPresence(t *testing.T) {
	if (&Enhancer{}).Enabled() {
		t.Fatalf("expected disabled enhancer with nil client")
	}
	if !New(&fakeClient{}).Enabled() {
		t.Fatalf("expected enabled enhancer with a client")
	}
}

func TestGenerateSeedKeywordsParsesJSONArray(t *testing.T) {
	e := New(&fakeClient{response: `["running shoes", "trail running", "running shoes"]`})
	scrape := &model.ScrapeResult{Pages: []model.PageContent{{URL: "https://example.com", Title: "Running Shoes"}}}

	seeds, err := e.GenerateSeedKeywords(context.Background(), scrape, "en", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("expected deduped seeds, got %v", seeds)
	}
}

func TestGenerateSeedKeywordsCapsAtMax(t *testing.T) {
	e := New(&fakeClient{response: `["a", "b", "c", "d"]`})
	seeds, err := e.GenerateSeedKeywords(context.Background(), &model.ScrapeResult{}, "en", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("expected 2 seeds, got %d", len(seeds))
	}
}

func TestGenerateSeedKeywordsFailsOnClientError(t *testing.T) {
	e := New(&fakeClient{err: errors.New("boom")})
	if _, err := e.GenerateSeedKeywords(context.Background(), &model.ScrapeResult{}, "en", 10); err == nil {
		t.Fatalf("expected error to propagate")
	}
}

func TestGenerateSeedKeywordsFailsWithoutClient(t *testing.T) {
	e := &Enhancer{}
	if _, err := e.GenerateSeedKeywords(context.Background(), &model.ScrapeResult{}, "en", 10); err == nil {
		t.Fatalf("expected error for disabled enhancer")
	}
}

func TestGenerateSeedKeywordsFailsOnNonJSON(t *testing.T) {
	e := New(&fakeClient{response: "I cannot help with that."})
	if _, err := e.GenerateSeedKeywords(context.Background(), &model.ScrapeResult{}, "en", 10); err == nil {
		t.Fatalf("expected error for non-JSON response")
	}
}

func TestApplyRegroupAppliesRenamesAndPriority(t *testing.T) {
	clusters := []model.Cluster{{ID: "c1", PillarTopic: "old"}, {ID: "c2", PillarTopic: "keep"}}
	res := RegroupResult{
		Renames:            map[string]string{"c1": "new pillar"},
		PriorityClusterIDs: []string{"c2"},
	}

	out := ApplyRegroup(clusters, res)
	if out[0].PillarTopic != "new pillar" {
		t.Fatalf("expected rename applied, got %q", out[0].PillarTopic)
	}
	if out[0].AIPriority {
		t.Fatalf("did not expect c1 to be flagged priority")
	}
	if !out[1].AIPriority {
		t.Fatalf("expected c2 to be flagged priority")
	}
}

func TestApplyScrutinizeMergesAndDropsEmptyClusters(t *testing.T) {
	clusters := []model.Cluster{
		{ID: "a", PillarTopic: "pillar a", Keywords: []model.Keyword{{Text: "alpha"}, {Text: "shared"}}},
		{ID: "b", PillarTopic: "pillar b", Keywords: []model.Keyword{{Text: "beta"}, {Text: "shared"}}},
	}

	res := ScrutinizeResult{
		Merges: [][2]string{{"a", "b"}},
	}

	out := ApplyScrutinize(clusters, res)
	if len(out) != 1 {
		t.Fatalf("expected the emptied cluster to be dropped, got %d clusters", len(out))
	}
	if out[0].ID != "b" {
		t.Fatalf("expected merge target to survive, got %q", out[0].ID)
	}

	texts := map[string]bool{}
	for _, kw := range out[0].Keywords {
		texts[kw.Text] = true
	}
	if !texts["alpha"] || !texts["beta"] || !texts["shared"] {
		t.Fatalf("expected merged keywords present without duplicates, got %v", out[0].Keywords)
	}
	if len(out[0].Keywords) != 3 {
		t.Fatalf("expected duplicate 'shared' keyword collapsed, got %d keywords", len(out[0].Keywords))
	}
}

func TestApplyScrutinizeAppliesReassignment(t *testing.T) {
	clusters := []model.Cluster{
		{ID: "a", Keywords: []model.Keyword{{Text: "misplaced"}, {Text: "stays"}}},
		{ID: "b", Keywords: []model.Keyword{{Text: "other"}}},
	}

	res := ScrutinizeResult{
		Reassignments: []KeywordReassignment{
			{Keyword: "misplaced", FromClusterID: "a", ToClusterID: "b"},
		},
	}

	out := ApplyScrutinize(clusters, res)
	byID := map[string]model.Cluster{}
	for _, c := range out {
		byID[c.ID] = c
	}

	if len(byID["a"].Keywords) != 1 || byID["a"].Keywords[0].Text != "stays" {
		t.Fatalf("expected 'misplaced' removed from cluster a, got %v", byID["a"].Keywords)
	}
	if len(byID["b"].Keywords) != 2 {
		t.Fatalf("expected 'misplaced' added to cluster b, got %v", byID["b"].Keywords)
	}
}

func TestFallbackDescriptionAndStrategyAreNonEmpty(t *testing.T) {
	cluster := model.Cluster{
		PillarTopic: "running shoes",
		Keywords: []model.Keyword{
			{Text: "best running shoes"},
			{Text: "running shoes for flat feet"},
		},
	}

	desc := FallbackDescription(cluster, "an online running gear retailer")
	if desc == "" {
		t.Fatalf("expected non-empty fallback description")
	}

	strategy := FallbackContentStrategy(cluster, "an online running gear retailer")
	if strategy == "" {
		t.Fatalf("expected non-empty fallback content strategy")
	}
}
