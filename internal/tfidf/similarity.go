package tfidf

// Cosine returns the cosine similarity of two sparse vectors: the dot
// product over the product of magnitudes, in [0, 1] for non-negative
// weights. Defined as 0 (not NaN) when either vector is all-zero so
// that ranking stays well-defined.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller vector.
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for id, w := range a {
		if bw, ok := b[id]; ok {
			dot += w * bw
		}
	}
	if dot == 0 {
		return 0
	}

	normProduct := a.Norm() * b.Norm()
	if normProduct == 0 {
		return 0
	}
	return dot / normProduct
}

// Similarities scores a query vector against every corpus row,
// returning one score per document aligned with row order.
func (idx *Index) Similarities(query Vector) []float64 {
	scores := make([]float64, len(idx.rows))
	if len(query) == 0 {
		return scores
	}
	for i, row := range idx.rows {
		scores[i] = Cosine(query, row)
	}
	return scores
}

// SimilarityMatrix precomputes the full document-by-document cosine
// matrix. Valid only while the corpus and vectorization are unchanged;
// live query text must go through Transform instead.
type SimilarityMatrix struct {
	scores [][]float64
}

// NewSimilarityMatrix computes the matrix from the fitted index.
// The matrix is symmetric with a unit diagonal (for non-empty rows).
func NewSimilarityMatrix(idx *Index) *SimilarityMatrix {
	n := len(idx.rows)
	scores := make([][]float64, n)
	for i := range scores {
		scores[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		scores[i][i] = Cosine(idx.rows[i], idx.rows[i])
		for j := i + 1; j < n; j++ {
			s := Cosine(idx.rows[i], idx.rows[j])
			scores[i][j] = s
			scores[j][i] = s
		}
	}

	return &SimilarityMatrix{scores: scores}
}

// RowScores returns the similarity of document i to every document.
// The returned slice is shared; callers must not mutate it.
func (m *SimilarityMatrix) RowScores(i int) []float64 {
	return m.scores[i]
}

// Len returns the matrix dimension.
func (m *SimilarityMatrix) Len() int {
	return len(m.scores)
}
