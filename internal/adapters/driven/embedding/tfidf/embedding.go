// Package tfidf provides an in-process embedding service that needs no
// model server. Its vector space is the vocabulary of the indexed corpus,
// so it must be fitted before it can embed.
package tfidf

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interfaces.
var (
	_ driven.EmbeddingService = (*EmbeddingService)(nil)
	_ driven.CorpusAware      = (*EmbeddingService)(nil)
)

// ModelName is the model identifier reported for TF-IDF vectors.
const ModelName = "tfidf"

// ErrNotFitted is returned when embedding before Fit.
var ErrNotFitted = errors.New("tfidf: embedder not fitted")

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// EmbeddingService computes L2-normalised TF-IDF vectors.
type EmbeddingService struct {
	mu         sync.RWMutex
	vocabulary map[string]int
	idf        []float64
	stopwords  map[string]struct{}
}

// NewEmbeddingService creates an unfitted TF-IDF embedder.
func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{stopwords: defaultStopwords()}
}

// Fit builds the vocabulary and smoothed IDF weights from corpus.
// Calling Fit again replaces the previous vocabulary.
func (s *EmbeddingService) Fit(ctx context.Context, corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("tfidf: empty corpus")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range s.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return errors.New("tfidf: no indexable terms in corpus")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	s.mu.Lock()
	s.vocabulary = vocabulary
	s.idf = idf
	s.mu.Unlock()
	return nil
}

// Embed returns the TF-IDF vector for text. Text with no known terms
// yields the zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vocabulary == nil {
		return nil, ErrNotFitted
	}
	return s.vectorise(text), nil
}

// EmbedBatch embeds each text in order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vocabulary == nil {
		return nil, ErrNotFitted
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = s.vectorise(text)
	}
	return out, nil
}

// Dimensions returns the vocabulary size, or 0 before Fit.
func (s *EmbeddingService) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.idf)
}

// ModelName returns "tfidf".
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// vectorise must be called with the read lock held.
func (s *EmbeddingService) vectorise(text string) []float32 {
	tf := make(map[int]int)
	total := 0
	for _, tok := range s.tokenize(text) {
		if idx, ok := s.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}

	vec := make([]float32, len(s.idf))
	if total == 0 {
		return vec
	}

	weights := make(map[int]float64, len(tf))
	var norm float64
	for idx, count := range tf {
		w := float64(count) / float64(total) * s.idf[idx]
		weights[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for idx, w := range weights {
		vec[idx] = float32(w / norm)
	}
	return vec
}

func (s *EmbeddingService) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := s.stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of",
		"in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been",
		"being", "it", "its", "this", "that", "these", "those", "from", "into", "about",
		"than", "so", "such", "can", "will", "just", "should", "now", "what", "which",
		"who", "how", "does", "do", "did", "i", "you", "he", "she", "we", "they",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
