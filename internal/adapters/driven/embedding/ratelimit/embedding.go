// Package ratelimit wraps an embedding service with a token bucket so
// bulk indexing stays under a hosted provider's request quota.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Config holds token bucket settings.
type Config struct {
	// RequestsPerSecond is the sustained rate. Zero or less disables limiting.
	RequestsPerSecond float64

	// BurstSize is the maximum burst (default: 1).
	BurstSize int
}

// EmbeddingService throttles Embed and EmbedBatch calls on the wrapped service.
type EmbeddingService struct {
	next    driven.EmbeddingService
	limiter *rate.Limiter
}

// Wrap returns next unchanged when cfg disables limiting.
func Wrap(next driven.EmbeddingService, cfg Config) driven.EmbeddingService {
	if cfg.RequestsPerSecond <= 0 {
		return next
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 1
	}
	return &EmbeddingService{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Embed waits for a token and delegates.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return s.next.Embed(ctx, text)
}

// EmbedBatch waits for a single token per batch and delegates.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return s.next.EmbedBatch(ctx, texts)
}

// Fit forwards to the wrapped service when it is corpus aware.
func (s *EmbeddingService) Fit(ctx context.Context, corpus []string) error {
	if ca, ok := s.next.(driven.CorpusAware); ok {
		return ca.Fit(ctx, corpus)
	}
	return nil
}

func (s *EmbeddingService) Dimensions() int                { return s.next.Dimensions() }
func (s *EmbeddingService) ModelName() string              { return s.next.ModelName() }
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.next.Ping(ctx) }
func (s *EmbeddingService) Close() error                   { return s.next.Close() }
