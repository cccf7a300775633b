package cluster

import (
	"math"
	"testing"

	"keywordscope/internal/model"
)

func TestVectorizerDimsIsVocabPlusFour(t *testing.T) {
	keywords := []model.Keyword{
		{Text: "running shoes", SearchVolume: 100},
		{Text: "hiking boots", SearchVolume: 50},
	}
	v := NewVectorizer(keywords)
	if v.Dims() != len(v.vocab)+4 {
		t.Fatalf("expected Dims() = vocab+4, got %d for vocab size %d", v.Dims(), len(v.vocab))
	}
	if v.Dims() <= 4 {
		t.Fatalf("expected non-empty vocabulary for distinct keyword texts")
	}
}

func TestVectorizeDenseFeatureTail(t *testing.T) {
	keywords := []model.Keyword{
		{Text: "running shoes", SearchVolume: 999, Competition: model.CompetitionLow, CPCLow: 1.0},
	}
	v := NewVectorizer(keywords)
	vec := v.Vectorize(0, keywords[0])
	base := len(v.vocab)

	wantVolume := math.Log(1000) / 10
	if math.Abs(vec[base+0]-wantVolume) > 1e-9 {
		t.Fatalf("expected volume feature %v, got %v", wantVolume, vec[base+0])
	}
	if vec[base+1] != 1 {
		t.Fatalf("expected low competition to map to 1, got %v", vec[base+1])
	}
	wantWordCount := 2.0 / 5
	if math.Abs(vec[base+2]-wantWordCount) > 1e-9 {
		t.Fatalf("expected word-count feature %v, got %v", wantWordCount, vec[base+2])
	}
	wantCPC := math.Log(2) / 5
	if math.Abs(vec[base+3]-wantCPC) > 1e-9 {
		t.Fatalf("expected cpc feature %v, got %v", wantCPC, vec[base+3])
	}
}

func TestVectorizeDistinctKeywordsOccupyDifferentColumns(t *testing.T) {
	keywords := []model.Keyword{
		{Text: "running shoes"},
		{Text: "camping tents"},
	}
	v := NewVectorizer(keywords)
	vecs := v.VectorizeAll(keywords)
	if euclideanDistance(vecs[0], vecs[1]) == 0 {
		t.Fatalf("expected unrelated keywords to produce distinct vectors")
	}
}

func TestCompetitionValueMapping(t *testing.T) {
	cases := map[model.Competition]float64{
		model.CompetitionLow:     1,
		model.CompetitionMedium:  0.5,
		model.CompetitionHigh:    0,
		model.CompetitionUnknown: 0.5,
	}
	for comp, want := range cases {
		if got := competitionValue(comp); got != want {
			t.Fatalf("competitionValue(%v) = %v, want %v", comp, got, want)
		}
	}
}
