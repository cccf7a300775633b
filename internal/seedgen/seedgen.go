// Package seedgen turns a ScrapeResult into candidate seed keywords.
// The primary path delegates to the AIEnhancer; this package owns the
// deterministic fallback used when AI is disabled or fails.
package seedgen

import (
	"context"
	"math"
	"sort"
	"strings"

	"keywordscope/internal/aienhancer"
	"keywordscope/internal/model"
	"keywordscope/internal/textkit"
)

const (
	maxFallbackPages   = 5
	maxTokensPerPage   = 120
	minCandidateFreq   = 2
	maxCandidateLength = 150
)

// genericNavWords are dropped outright regardless of frequency or
// score; they show up constantly on marketing sites but never make
// useful keywords.
var genericNavWords = map[string]bool{
	"click": true, "page": true, "here": true, "more": true,
	"learn": true, "read": true, "view": true, "see": true,
}

// Generate produces up to maxKeywords seed strings for scrape. It
// tries the AIEnhancer first (when enabled) and falls back to the
// deterministic candidate-extraction path on any failure.
func Generate(ctx context.Context, enhancer *aienhancer.Enhancer, scrape *model.ScrapeResult, language string, maxKeywords int) ([]string, bool, error) {
	if enhancer.Enabled() {
		seeds, err := enhancer.GenerateSeedKeywords(ctx, scrape, language, maxKeywords)
		if err == nil && len(seeds) > 0 {
			return seeds, false, nil
		}
	}

	seeds := Fallback(scrape, maxKeywords)
	return seeds, true, nil
}

// candidate tracks a single seed candidate across the corpus.
type candidate struct {
	text     string
	freq     int
	wordLen  int
	maxScore float64
}

// Fallback deterministically extracts candidate keyword phrases from
// the first five pages' titles, meta descriptions and H1-H3 headings,
// scores them, and returns the top maxKeywords (capped at 150).
func Fallback(scrape *model.ScrapeResult, maxKeywords int) []string {
	if maxKeywords > maxCandidateLength {
		maxKeywords = maxCandidateLength
	}
	if scrape == nil || len(scrape.Pages) == 0 {
		return nil
	}

	pages := scrape.Pages
	if len(pages) > maxFallbackPages {
		pages = pages[:maxFallbackPages]
	}

	pageTokens := make([][]string, len(pages))
	pageStemmed := make([][]string, len(pages))
	for i, p := range pages {
		tokens := pageTextTokens(p)
		if len(tokens) > maxTokensPerPage {
			tokens = tokens[:maxTokensPerPage]
		}
		pageTokens[i] = tokens
		stemmed := make([]string, len(tokens))
		for j, t := range tokens {
			stemmed[j] = textkit.Stem(t)
		}
		pageStemmed[i] = stemmed
	}

	idx := textkit.NewTfIdf(pageStemmed)

	candidates := make(map[string]*candidate)
	for pageIdx, tokens := range pageTokens {
		for _, tok := range tokens {
			if isContentWord(tok) && len(tok) >= 3 && !genericNavWords[tok] {
				addOccurrence(candidates, tok, 1, scoreOfTerm(idx, pageIdx, textkit.Stem(tok)))
			}
		}
		for n := 2; n <= 3; n++ {
			for start := 0; start+n <= len(tokens); start++ {
				window := tokens[start : start+n]
				if genericNavWords[strings.Join(window, " ")] {
					continue
				}
				if contentWordRatio(window) < 0.5 {
					continue
				}
				phrase := strings.Join(window, " ")
				addOccurrence(candidates, phrase, n, phraseScore(idx, pageIdx, window))
			}
		}
	}

	out := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.freq < minCandidateFreq {
			continue
		}
		out = append(out, *c)
	}

	sort.Slice(out, func(i, j int) bool {
		si, sj := finalScore(out[i]), finalScore(out[j])
		if si != sj {
			return si > sj
		}
		return out[i].text < out[j].text
	})

	if len(out) > maxKeywords {
		out = out[:maxKeywords]
	}

	seeds := make([]string, len(out))
	for i, c := range out {
		seeds[i] = c.text
	}
	return seeds
}

func finalScore(c candidate) float64 {
	lengthBonus := 1.0
	if c.wordLen > 1 {
		lengthBonus = 1.2
	}
	return 0.3*math.Log(float64(c.freq)+1)/10 + 0.5*c.maxScore + lengthBonus
}

func addOccurrence(candidates map[string]*candidate, text string, wordLen int, score float64) {
	c, ok := candidates[text]
	if !ok {
		c = &candidate{text: text, wordLen: wordLen}
		candidates[text] = c
	}
	c.freq++
	if score > c.maxScore {
		c.maxScore = score
	}
}

func scoreOfTerm(idx *textkit.TfIdf, pageIdx int, stemmed string) float64 {
	return idx.ScoreOf(pageIdx, stemmed)
}

func phraseScore(idx *textkit.TfIdf, pageIdx int, window []string) float64 {
	sum := 0.0
	for _, tok := range window {
		sum += idx.ScoreOf(pageIdx, textkit.Stem(tok))
	}
	return sum / float64(len(window))
}

func contentWordRatio(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	content := 0
	for _, t := range tokens {
		if isContentWord(t) {
			content++
		}
	}
	return float64(content) / float64(len(tokens))
}

// isContentWord approximates a noun/verb/adjective filter: anything
// that is not a stop word and not purely numeric.
func isContentWord(token string) bool {
	if token == "" || textkit.IsStopWord(token) {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}

func pageTextTokens(p model.PageContent) []string {
	var sb strings.Builder
	sb.WriteString(p.Title)
	sb.WriteString(" ")
	sb.WriteString(p.MetaDescription)
	sb.WriteString(" ")
	for level := 1; level <= 3; level++ {
		for _, h := range p.Headings[level] {
			sb.WriteString(h)
			sb.WriteString(" ")
		}
	}
	return textkit.Tokenize(sb.String())
}
