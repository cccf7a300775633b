// Package cluster implements the keyword clustering algorithms
// (k-means, DBSCAN, semantic, hybrid) along with the refinement,
// uniqueness, pillar-selection, relevance-filtering and scoring steps
// that turn a flat keyword list into ranked Cluster records.
package cluster

import (
	"math"
	"sort"

	"keywordscope/internal/model"
	"keywordscope/internal/textkit"
)

// Vector is a keyword's feature vector: one dimension per vocabulary
// term (TF-IDF), followed by four dense features.
type Vector []float64

// Vectorizer builds feature vectors for a fixed keyword set. Each
// clustering pass builds its own: SplitCluster builds a fresh one over
// the sub-cluster's keywords.
type Vectorizer struct {
	vocab    []string
	vocabIdx map[string]int
	idf      *textkit.TfIdf
}

// NewVectorizer builds a TF-IDF vocabulary over keywords' stemmed
// tokens.
func NewVectorizer(keywords []model.Keyword) *Vectorizer {
	docs := make([][]string, len(keywords))
	vocabSet := make(map[string]bool)
	for i, k := range keywords {
		docs[i] = textkit.TokenizeStemmed(k.Text)
		for _, term := range docs[i] {
			vocabSet[term] = true
		}
	}

	vocab := make([]string, 0, len(vocabSet))
	for term := range vocabSet {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	vocabIdx := make(map[string]int, len(vocab))
	for i, term := range vocab {
		vocabIdx[term] = i
	}

	return &Vectorizer{vocab: vocab, vocabIdx: vocabIdx, idf: textkit.NewTfIdf(docs)}
}

// Dims returns the total vector width (vocabulary size + 4 dense
// features).
func (v *Vectorizer) Dims() int {
	return len(v.vocab) + 4
}

// Vectorize builds the feature vector for keywords[index].
func (v *Vectorizer) Vectorize(index int, k model.Keyword) Vector {
	vec := make(Vector, v.Dims())
	for _, ts := range v.idf.ListTerms(index) {
		if col, ok := v.vocabIdx[ts.Term]; ok {
			vec[col] = ts.Score
		}
	}

	base := len(v.vocab)
	vec[base+0] = math.Log(float64(k.SearchVolume)+1) / 10
	vec[base+1] = competitionValue(k.Competition)
	vec[base+2] = float64(len(textkit.Tokenize(k.Text))) / 5
	vec[base+3] = math.Log(k.CPCLow+1) / 5
	return vec
}

// VectorizeAll vectorizes every keyword in order.
func (v *Vectorizer) VectorizeAll(keywords []model.Keyword) []Vector {
	vecs := make([]Vector, len(keywords))
	for i, k := range keywords {
		vecs[i] = v.Vectorize(i, k)
	}
	return vecs
}

func competitionValue(c model.Competition) float64 {
	switch c {
	case model.CompetitionLow:
		return 1
	case model.CompetitionHigh:
		return 0
	case model.CompetitionMedium:
		return 0.5
	default:
		return 0.5
	}
}

func euclideanDistance(a, b Vector) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
