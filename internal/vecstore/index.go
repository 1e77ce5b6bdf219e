package vecstore

import "sort"

// Hit is a single nearest-neighbor match with its inner-product score.
type Hit struct {
	InternalID int
	Score      float32
}

// flatIndex is a brute-force inner-product index over a dense vector array.
// It holds its own copy of the vectors so that readers never observe a
// half-applied mutation; Rebuild swaps in a fresh snapshot after every write.
type flatIndex struct {
	dim     int
	vectors [][]float32
}

func newFlatIndex(dim int) *flatIndex {
	return &flatIndex{dim: dim}
}

// Rebuild discards all prior index state and indexes the given vectors.
// Slot positions are preserved: vectors[i] is internal ID i.
func (ix *flatIndex) Rebuild(vectors [][]float32) {
	snapshot := make([][]float32, len(vectors))
	for i, v := range vectors {
		c := make([]float32, len(v))
		copy(c, v)
		snapshot[i] = c
	}
	ix.vectors = snapshot
}

// Len reports the number of indexed slots, including retired ones.
func (ix *flatIndex) Len() int {
	return len(ix.vectors)
}

// Search returns up to k hits ordered by descending inner product.
// Slots for which live reports false are skipped.
func (ix *flatIndex) Search(query []float32, k int, live func(internalID int) bool) []Hit {
	if k <= 0 {
		return nil
	}
	hits := make([]Hit, 0, len(ix.vectors))
	for i, v := range ix.vectors {
		if live != nil && !live(i) {
			continue
		}
		hits = append(hits, Hit{InternalID: i, Score: dot(query, v)})
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
