package textkit

import "math"

// TermScore is one (term, tfidf) pair as returned by TfIdf.ListTerms.
type TermScore struct {
	Term  string
	Score float64
}

// TfIdf computes term-frequency/inverse-document-frequency scores over
// a fixed corpus of already-tokenized documents. It holds no external
// state beyond the corpus it was built from and is safe for concurrent
// read-only use once constructed.
type TfIdf struct {
	docs [][]string
	// docFreq[term] is the number of documents the term appears in.
	docFreq map[string]int
}

// NewTfIdf builds a TfIdf index over docs, where each entry is one
// document's token stream (typically stemmed).
func NewTfIdf(docs [][]string) *TfIdf {
	t := &TfIdf{
		docs:    docs,
		docFreq: make(map[string]int),
	}
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, term := range doc {
			if seen[term] {
				continue
			}
			seen[term] = true
			t.docFreq[term]++
		}
	}
	return t
}

// ListTerms returns every distinct term in docs[docIndex] with its
// tf-idf score: tf = termCount/docLen, idf = ln((N+1)/(df+1))+1.
func (t *TfIdf) ListTerms(docIndex int) []TermScore {
	if docIndex < 0 || docIndex >= len(t.docs) {
		return nil
	}
	doc := t.docs[docIndex]
	if len(doc) == 0 {
		return nil
	}

	count := make(map[string]int, len(doc))
	for _, term := range doc {
		count[term]++
	}

	n := float64(len(t.docs))
	docLen := float64(len(doc))
	out := make([]TermScore, 0, len(count))
	for term, c := range count {
		tf := float64(c) / docLen
		idf := math.Log((n+1)/(float64(t.docFreq[term])+1)) + 1
		out = append(out, TermScore{Term: term, Score: tf * idf})
	}
	return out
}

// MaxTermScore returns the highest tf-idf score among terms in
// docs[docIndex], 0 if the document is empty.
func (t *TfIdf) MaxTermScore(docIndex int) float64 {
	max := 0.0
	for _, ts := range t.ListTerms(docIndex) {
		if ts.Score > max {
			max = ts.Score
		}
	}
	return max
}

// ScoreOf returns the tf-idf score of a specific term within
// docs[docIndex], 0 if the term does not occur there.
func (t *TfIdf) ScoreOf(docIndex int, term string) float64 {
	for _, ts := range t.ListTerms(docIndex) {
		if ts.Term == term {
			return ts.Score
		}
	}
	return 0
}
