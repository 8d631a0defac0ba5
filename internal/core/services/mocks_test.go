package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var errBackend = errors.New("backend down")

// mockEmbedder maps text onto letter counts for a-z, so texts sharing
// letters land close together.
type mockEmbedder struct {
	mu        sync.Mutex
	model     string
	embedErr  error
	batchErr  error
	shortBy   int
	calls     int
	batches   [][]string
	fitCorpus []string
	fitErr    error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return letterVector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.batches = append(m.batches, append([]string(nil), texts...))
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts[:len(texts)-m.shortBy] {
		out = append(out, letterVector(t))
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return 26 }

func (m *mockEmbedder) ModelName() string {
	if m.model == "" {
		return "mock-embed"
	}
	return m.model
}

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fittingEmbedder adds CorpusAware to mockEmbedder.
type fittingEmbedder struct {
	mockEmbedder
}

func (f *fittingEmbedder) Fit(_ context.Context, corpus []string) error {
	f.fitCorpus = corpus
	return f.fitErr
}

func letterVector(text string) []float32 {
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec
}

// mockVectorIndex scores stored vectors by dot product.
type mockVectorIndex struct {
	ids       []string
	vecs      [][]float32
	hits      []driven.VectorHit
	addErr    error
	searchErr error
	closed    bool
	searches  int
}

func (m *mockVectorIndex) Add(_ context.Context, id string, vec []float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.ids = append(m.ids, id)
	m.vecs = append(m.vecs, vec)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	m.searches++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if m.hits != nil {
		return m.hits, nil
	}
	hits := make([]driven.VectorHit, len(m.ids))
	for i, id := range m.ids {
		var dot float64
		for j := range query {
			dot += float64(query[j] * m.vecs[i][j])
		}
		hits[i] = driven.VectorHit{ChunkID: id, Similarity: dot}
	}
	// Every stored vector comes back unsorted; the Index orders and truncates.
	_ = k
	return hits, nil
}

func (m *mockVectorIndex) Len() int { return len(m.ids) }

func (m *mockVectorIndex) Close() error {
	m.closed = true
	return nil
}

// spyLLM records every prompt it is asked to complete.
type spyLLM struct {
	reply    string
	err      error
	prompts  []string
	deadline bool
}

func (s *spyLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	s.prompts = append(s.prompts, prompt)
	_, s.deadline = ctx.Deadline()
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *spyLLM) ModelName() string           { return "spy-llm" }
func (s *spyLLM) Ping(_ context.Context) error { return nil }
func (s *spyLLM) Close() error                 { return nil }

// mockPromptStore serves a fixed template.
type mockPromptStore struct {
	template string
	err      error
}

func (m *mockPromptStore) Load(_ string) (string, error) { return m.template, m.err }
func (m *mockPromptStore) Reload()                       {}

// makeChunks builds chunks with sequential positions for the given texts.
func makeChunks(texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	offset := 0
	for i, t := range texts {
		chunks[i] = domain.Chunk{
			ID:         fmt.Sprintf("doc:%d", i),
			DocumentID: "doc",
			Content:    t,
			Position:   i,
			Start:      offset,
			End:        offset + len([]rune(t)),
		}
		offset += len([]rune(t))
	}
	return chunks
}

// staticIndexFactory returns a factory that always hands out idx.
func staticIndexFactory(idx *mockVectorIndex) VectorIndexFactory {
	return func(_ context.Context, _ int) (driven.VectorIndex, error) {
		return idx, nil
	}
}
