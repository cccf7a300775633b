package textkit

import "strings"

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}

func containsVowel(s string) bool {
	for i := 0; i < len(s); i++ {
		if isVowel(s[i]) {
			return true
		}
	}
	return false
}

// collapseDoubleConsonant turns a trailing doubled consonant ("pp",
// "nn", "tt", ...) into a single letter, e.g. "stopp" -> "stop".
func collapseDoubleConsonant(s string) string {
	n := len(s)
	if n < 2 {
		return s
	}
	last := s[n-1]
	if last == s[n-2] && !isVowel(last) {
		return s[:n-1]
	}
	return s
}

// Stem applies a small, deterministic set of suffix rules: at most one
// rule fires per token, and tokens shorter than 4 characters are
// returned unchanged. This intentionally mirrors a Porter-style
// reduction without pulling in a full stemming library — the
// clustering/relevance stages only need stable, repeatable equality
// between inflected forms, not linguistic accuracy.
func Stem(token string) string {
	if len(token) < 4 {
		return token
	}

	switch {
	case strings.HasSuffix(token, "ies"):
		return token[:len(token)-3] + "y"

	case strings.HasSuffix(token, "sses"), strings.HasSuffix(token, "shes"),
		strings.HasSuffix(token, "ches"), strings.HasSuffix(token, "xes"):
		return token[:len(token)-2]

	case strings.HasSuffix(token, "ed") && len(token) > 2 && containsVowel(token[:len(token)-2]):
		return collapseDoubleConsonant(token[:len(token)-2])

	case strings.HasSuffix(token, "ing") && len(token) > 3 && containsVowel(token[:len(token)-3]):
		return collapseDoubleConsonant(token[:len(token)-3])

	case strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss"):
		return token[:len(token)-1]

	default:
		return token
	}
}
