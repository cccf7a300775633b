package cluster

import (
	"math"
	"strings"

	"keywordscope/internal/model"
	"keywordscope/internal/textkit"
)

// SiteContext is the stemmed-token universe (plus raw normalized
// text) a cluster's keywords are scored for relevance against.
type SiteContext struct {
	Tokens  map[string]bool
	RawText string
}

// BuildSiteContext derives a SiteContext from URL/title/description/
// page titles/meta descriptions/focus-list fragments per spec.md
// §4.7.6. Empty fragments are ignored.
func BuildSiteContext(parts ...string) SiteContext {
	var sb strings.Builder
	tokens := make(map[string]bool)
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		sb.WriteString(strings.ToLower(p))
		sb.WriteString(" ")
		for _, tok := range textkit.Tokenize(p) {
			if textkit.IsStopWord(tok) {
				continue
			}
			tokens[textkit.Stem(tok)] = true
		}
	}
	return SiteContext{Tokens: tokens, RawText: sb.String()}
}

// Empty reports whether the context carries no usable tokens.
func (sc SiteContext) Empty() bool {
	return len(sc.Tokens) == 0
}

// KeywordRelevance computes relevance(k) per spec.md §4.7.6. matchRatio
// is the fraction of the keyword's own stemmed tokens that also
// appear in the context (|T_k ∩ T| / |T_k|); ok is false only when ctx
// carries no tokens, in which case callers should skip filtering.
func KeywordRelevance(keyword string, ctx SiteContext) (float64, bool) {
	if ctx.Empty() {
		return 0, false
	}

	tokens := stemmedTokenSet(keyword)
	if len(tokens) == 0 {
		return 1, true
	}

	matchRatio := overlapRatio(tokens, ctx.Tokens)
	jac := jaccardSets(tokens, ctx.Tokens)
	score := math.Min(1, 0.7*matchRatio+0.3*jac)

	if strings.Contains(ctx.RawText, strings.ToLower(strings.TrimSpace(keyword))) {
		score = math.Max(score, 0.9)
	}
	if matchRatio >= 0.6 && len(tokens) <= 3 {
		score = math.Max(score, 0.75)
	}
	return score, true
}

func stemmedTokenSet(text string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range textkit.Tokenize(text) {
		if textkit.IsStopWord(tok) {
			continue
		}
		out[textkit.Stem(tok)] = true
	}
	return out
}

func overlapRatio(a, b map[string]bool) float64 {
	if len(a) == 0 {
		return 0
	}
	hit := 0
	for t := range a {
		if b[t] {
			hit++
		}
	}
	return float64(hit) / float64(len(a))
}

func jaccardSets(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	union := make(map[string]bool, len(a)+len(b))
	inter := 0
	for t := range a {
		union[t] = true
	}
	for t := range b {
		if a[t] {
			inter++
		}
		union[t] = true
	}
	if len(union) == 0 {
		return 0
	}
	return float64(inter) / float64(len(union))
}

type keywordRelevance struct {
	volume int
	score  float64
}

// FilterClusterRelevance drops keywords with relevance <= 0.01
// (keeping those whose token set is empty after stop-word stripping),
// recomputes each surviving cluster's RelevanceScore, and drops any
// cluster that falls below minClusterSize as a result. A no-op when
// ctx is empty.
func FilterClusterRelevance(clusters []model.Cluster, ctx SiteContext, minClusterSize int) []model.Cluster {
	if ctx.Empty() {
		return clusters
	}

	out := make([]model.Cluster, 0, len(clusters))
	for _, c := range clusters {
		kept := make([]model.Keyword, 0, len(c.Keywords))
		scores := make([]keywordRelevance, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			rel, ok := KeywordRelevance(kw.Text, ctx)
			if ok && rel <= 0.01 {
				continue
			}
			kept = append(kept, kw)
			scores = append(scores, keywordRelevance{volume: kw.SearchVolume, score: rel})
		}
		c.Keywords = kept
		if len(c.Keywords) < minClusterSize {
			continue
		}
		c.RelevanceScore = weightedClusterRelevance(scores)
		out = append(out, c)
	}
	return out
}

func weightedClusterRelevance(scores []keywordRelevance) float64 {
	if len(scores) == 0 {
		return 0
	}

	weightSum, weightedSum, max := 0.0, 0.0, 0.0
	for _, s := range scores {
		weight := math.Max(1, math.Log10(float64(s.volume)+10))
		weightSum += weight
		weightedSum += weight * s.score
		if s.score > max {
			max = s.score
		}
	}

	weightedAvg := 0.0
	if weightSum > 0 {
		weightedAvg = weightedSum / weightSum
	}
	return 0.7*weightedAvg + 0.3*max
}
