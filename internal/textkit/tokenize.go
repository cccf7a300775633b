// Package textkit provides the deterministic, dependency-free text
// primitives the clustering and relevance stages build on:
// tokenization, light stemming, a stop-word set, TF-IDF scoring and a
// keyword-granularity similarity function. None of it depends on an
// external NLP service; it only needs to be consistent run over run.
package textkit

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases the input and splits it into runs of Unicode
// letters and digits. Empty input yields an empty (non-nil) slice.
func Tokenize(text string) []string {
	tokens := make([]string, 0, 8)
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// TokenizeStemmed tokenizes and stems every token.
func TokenizeStemmed(text string) []string {
	toks := Tokenize(text)
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = Stem(t)
	}
	return out
}

// Canonicalize lower-cases and trims a keyword string for equality
// comparisons (spec: "Text is canonicalized to lowercase-trimmed form
// for equality").
func Canonicalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
