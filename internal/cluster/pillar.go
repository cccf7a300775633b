package cluster

import (
	"math"
	"strings"

	"keywordscope/internal/model"
	"keywordscope/internal/textkit"
)

// SelectPillar picks the keyword within keywords that best represents
// the cluster: highest log(volume+1)*lengthMultiplier + 0.5 times the
// number of other keywords in the cluster containing it as a
// substring — spec.md §4.7.5.
func SelectPillar(keywords []model.Keyword) string {
	if len(keywords) == 0 {
		return ""
	}

	bestIdx, bestScore := 0, math.Inf(-1)
	for i, k := range keywords {
		score := pillarScore(k, keywords)
		if score > bestScore {
			bestScore, bestIdx = score, i
		}
	}
	return keywords[bestIdx].Text
}

func pillarScore(k model.Keyword, all []model.Keyword) float64 {
	words := len(textkit.Tokenize(k.Text))
	mult := pillarLengthMultiplier(words)

	normalized := textkit.Canonicalize(k.Text)
	containment := 0
	for _, other := range all {
		if other.Text == k.Text {
			continue
		}
		if strings.Contains(textkit.Canonicalize(other.Text), normalized) {
			containment++
		}
	}

	return math.Log(float64(k.SearchVolume)+1)*mult + 0.5*float64(containment)
}

// pillarLengthMultiplier implements the spec's 1/2-3/>4 word buckets.
// The spec is silent on exactly 4 words; treated as a neutral 1.0
// since it falls between the "short phrase" bonus and the "long tail"
// penalty (see DESIGN.md).
func pillarLengthMultiplier(words int) float64 {
	switch {
	case words <= 1:
		return 0.8
	case words <= 3:
		return 1.2
	case words == 4:
		return 1.0
	default:
		return 0.7
	}
}
