package textkit

import "strings"

// Similarity scores two keyword-like strings in [0,1]: a Jaccard
// index over stemmed tokens, plus bonuses for substring containment
// and shared first/last tokens, capped at 1.
func Similarity(a, b string) float64 {
	ca, cb := Canonicalize(a), Canonicalize(b)
	if ca == cb {
		return 1
	}

	score := jaccardStemmed(ca, cb)

	if ca != "" && cb != "" && (strings.Contains(ca, cb) || strings.Contains(cb, ca)) {
		score += 0.3
	} else {
		ta, tb := strings.Fields(ca), strings.Fields(cb)
		multiWord := len(ta) > 1 && len(tb) > 1
		switch {
		case multiWord && ta[len(ta)-1] == tb[len(tb)-1]:
			score += 0.2
		case len(ta) > 0 && len(tb) > 0 && ta[0] == tb[0]:
			score += 0.15
		}
	}

	if score > 1 {
		score = 1
	}
	return score
}

func jaccardStemmed(a, b string) float64 {
	sa := stemSet(a)
	sb := stemSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 0
	}

	intersection := 0
	for t := range sa {
		if sb[t] {
			intersection++
		}
	}
	union := len(sa) + len(sb) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func stemSet(text string) map[string]bool {
	toks := TokenizeStemmed(text)
	set := make(map[string]bool, len(toks))
	for _, t := range toks {
		set[t] = true
	}
	return set
}
