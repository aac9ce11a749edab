// Package tfidf implements the term-weighted vector space over the
// movie content profiles: a bounded unigram+bigram vocabulary weighted
// by term frequency times inverse document frequency, with cosine
// similarity between the resulting sparse vectors.
package tfidf

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Fitting defaults, matching the catalog-sized corpus this serves.
const (
	DefaultMaxFeatures = 5000
	DefaultMinDocFreq  = 2
	DefaultMaxDocRatio = 0.8
)

// tokenRegex matches word tokens of two or more characters; single
// characters carry no weightable signal.
var tokenRegex = regexp.MustCompile(`\w\w+`)

// Options configure vocabulary construction.
type Options struct {
	// MaxFeatures caps the vocabulary at the most frequent terms.
	MaxFeatures int
	// MinDocFreq drops terms appearing in fewer documents.
	MinDocFreq int
	// MaxDocRatio drops terms appearing in more than this fraction of
	// documents; near-ubiquitous terms rank nothing.
	MaxDocRatio float64
}

// DefaultOptions returns the standard fitting options.
func DefaultOptions() Options {
	return Options{
		MaxFeatures: DefaultMaxFeatures,
		MinDocFreq:  DefaultMinDocFreq,
		MaxDocRatio: DefaultMaxDocRatio,
	}
}

// Vector is a sparse term-weighted document vector, keyed by vocabulary
// term id. Vectors produced by this package are L2-normalized.
type Vector map[int]float64

// Norm returns the Euclidean magnitude of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Index is a fitted term-weighting model plus the resulting corpus
// matrix: one weighted sparse vector per document. Row i corresponds
// exactly to document i of the fitted corpus; the two are never
// reordered independently.
type Index struct {
	vocab map[string]int
	terms []string // id → term, for introspection
	idf   []float64
	rows  []Vector
}

// Fit builds the vocabulary and corpus matrix from the given documents.
func Fit(docs []string, opts Options) (*Index, error) {
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = DefaultMaxFeatures
	}
	if opts.MinDocFreq <= 0 {
		opts.MinDocFreq = DefaultMinDocFreq
	}
	if opts.MaxDocRatio <= 0 || opts.MaxDocRatio > 1 {
		opts.MaxDocRatio = DefaultMaxDocRatio
	}

	n := len(docs)
	docTerms := make([]map[string]int, n)
	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)

	for i, doc := range docs {
		counts := termCounts(doc)
		docTerms[i] = counts
		for term, count := range counts {
			docFreq[term]++
			totalFreq[term] += count
		}
	}

	// Document-frequency pruning. With a single-document corpus the
	// min-df bound would empty the vocabulary, so it is relaxed there.
	minDF := opts.MinDocFreq
	if n < minDF {
		minDF = n
	}
	maxDF := int(opts.MaxDocRatio * float64(n))
	if maxDF < minDF {
		maxDF = minDF
	}

	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= minDF && df <= maxDF {
			kept = append(kept, term)
		}
	}

	// Vocabulary cap keeps the corpus-wide most frequent terms; ties
	// break alphabetically for determinism.
	if len(kept) > opts.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if totalFreq[kept[i]] != totalFreq[kept[j]] {
				return totalFreq[kept[i]] > totalFreq[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:opts.MaxFeatures]
	}
	sort.Strings(kept)

	idx := &Index{
		vocab: make(map[string]int, len(kept)),
		terms: kept,
		idf:   make([]float64, len(kept)),
	}
	for id, term := range kept {
		idx.vocab[term] = id
		// Smooth idf: every term behaves as if seen in one extra
		// document, keeping weights finite and positive.
		idx.idf[id] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	idx.rows = make([]Vector, n)
	for i, counts := range docTerms {
		idx.rows[i] = idx.weigh(counts)
	}

	if len(idx.rows) != n {
		return nil, fmt.Errorf("corpus matrix has %d rows for %d documents", len(idx.rows), n)
	}

	slog.Info("tfidf_fitted",
		slog.Int("documents", n),
		slog.Int("vocabulary", len(kept)))
	return idx, nil
}

// Transform vectorizes live (non-corpus) text against the fitted
// vocabulary. Unknown terms are dropped; text with no known terms
// yields an empty (all-zero) vector.
func (idx *Index) Transform(text string) Vector {
	return idx.weigh(termCounts(text))
}

// weigh converts raw term counts into an L2-normalized tf-idf vector.
func (idx *Index) weigh(counts map[string]int) Vector {
	vec := make(Vector)
	for term, count := range counts {
		id, ok := idx.vocab[term]
		if !ok {
			continue
		}
		vec[id] = float64(count) * idx.idf[id]
	}

	norm := vec.Norm()
	if norm > 0 {
		for id := range vec {
			vec[id] /= norm
		}
	}
	return vec
}

// Row returns the corpus vector for document i.
func (idx *Index) Row(i int) Vector {
	return idx.rows[i]
}

// Rows returns the number of corpus documents.
func (idx *Index) Rows() int {
	return len(idx.rows)
}

// VocabSize returns the fitted vocabulary size.
func (idx *Index) VocabSize() int {
	return len(idx.vocab)
}

// Terms returns the vocabulary terms ordered by term id.
func (idx *Index) Terms() []string {
	return idx.terms
}

// termCounts tokenizes text into unigram and bigram counts, excluding
// stop words. Bigrams are formed over the stop-word-filtered stream.
func termCounts(text string) map[string]int {
	raw := tokenRegex.FindAllString(strings.ToLower(text), -1)

	tokens := raw[:0:0]
	for _, tok := range raw {
		if !isStopWord(tok) {
			tokens = append(tokens, tok)
		}
	}

	counts := make(map[string]int, len(tokens)*2)
	for i, tok := range tokens {
		counts[tok]++
		if i+1 < len(tokens) {
			counts[tok+" "+tokens[i+1]]++
		}
	}
	return counts
}
