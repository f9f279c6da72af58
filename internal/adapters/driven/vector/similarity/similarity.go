// Package similarity scores embeddings for the brute-force vector stores.
package similarity

import (
	"math"
	"sort"

	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

// Cosine returns the cosine similarity of a and b. Vectors of different
// length or with zero magnitude score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// TopK sorts hits by descending similarity and keeps the first k.
// Ties keep insertion order.
func TopK(hits []driven.VectorHit, k int) []driven.VectorHit {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if k >= 0 && k < len(hits) {
		hits = hits[:k]
	}
	return hits
}
