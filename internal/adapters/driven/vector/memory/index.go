// Package memory provides a brute-force in-process VectorIndex.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex stores vectors in memory and ranks them by cosine similarity.
// Zero vectors score 0 against everything.
type VectorIndex struct {
	mu         sync.RWMutex
	dimensions int
	ids        []string
	vectors    [][]float32
	norms      []float64
	positions  map[string]int
}

// NewVectorIndex creates an empty index for vectors of the given size.
// A dimensions value of 0 accepts the size of the first added vector.
func NewVectorIndex(dimensions int) *VectorIndex {
	return &VectorIndex{
		dimensions: dimensions,
		positions:  make(map[string]int),
	}
}

// Add inserts or replaces the vector for chunkID.
func (v *VectorIndex) Add(_ context.Context, chunkID string, embedding []float32) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dimensions == 0 {
		v.dimensions = len(embedding)
	}
	if len(embedding) != v.dimensions {
		return fmt.Errorf("memory index: vector has %d dimensions, want %d", len(embedding), v.dimensions)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	if i, ok := v.positions[chunkID]; ok {
		v.vectors[i] = vec
		v.norms[i] = l2(vec)
		return nil
	}

	v.positions[chunkID] = len(v.ids)
	v.ids = append(v.ids, chunkID)
	v.vectors = append(v.vectors, vec)
	v.norms = append(v.norms, l2(vec))
	return nil
}

// Search returns up to k hits, most similar first. Ties keep insertion order.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.ids) == 0 {
		return nil, nil
	}
	if len(query) != v.dimensions {
		return nil, fmt.Errorf("memory index: query has %d dimensions, want %d", len(query), v.dimensions)
	}

	qNorm := l2(query)
	hits := make([]driven.VectorHit, len(v.ids))
	for i, vec := range v.vectors {
		hits[i] = driven.VectorHit{ChunkID: v.ids[i], Similarity: cosine(query, vec, qNorm, v.norms[i])}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.ids)
}

// Close drops all vectors.
func (v *VectorIndex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ids = nil
	v.vectors = nil
	v.norms = nil
	v.positions = make(map[string]int)
	return nil
}

func l2(vec []float32) float64 {
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}
