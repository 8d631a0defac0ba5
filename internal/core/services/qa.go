package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure QAService implements the interface.
var _ driving.QAService = (*QAService)(nil)

// QAService answers questions about one indexed document.
type QAService struct {
	index           *Index
	retriever       *Retriever
	prompts         *PromptBuilder
	llm             driven.LLMService
	maxK            int
	generateOpts    driven.GenerateOptions
	generateTimeout time.Duration
}

// QAOption configures a QAService.
type QAOption func(*QAService)

// WithGenerateTimeout bounds each LLM call. Zero means no extra bound.
func WithGenerateTimeout(d time.Duration) QAOption {
	return func(s *QAService) {
		s.generateTimeout = d
	}
}

// WithGenerateOptions sets the options passed to every Generate call.
func WithGenerateOptions(opts driven.GenerateOptions) QAOption {
	return func(s *QAService) {
		s.generateOpts = opts
	}
}

// WithPromptBuilder replaces the default prompt builder.
func WithPromptBuilder(b *PromptBuilder) QAOption {
	return func(s *QAService) {
		if b != nil {
			s.prompts = b
		}
	}
}

// NewQAService creates a QA service over a built index.
func NewQAService(
	index *Index,
	retriever *Retriever,
	llm driven.LLMService,
	maxK int,
	opts ...QAOption,
) *QAService {
	s := &QAService{
		index:     index,
		retriever: retriever,
		prompts:   NewPromptBuilder(nil),
		llm:       llm,
		maxK:      maxK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retrieve returns the chunks that would ground an answer to query.
// The query is passed on exactly as given; only a blank one is rejected.
func (s *QAService) Retrieve(ctx context.Context, query string) (domain.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return domain.RetrievalResult{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	return s.retriever.Retrieve(ctx, query, s.index, s.maxK)
}

// Ask runs retrieval, prompt construction and generation for one question.
//
// The language model is never called when retrieval yields no usable text;
// domain.ErrEmptyContext is returned instead.
func (s *QAService) Ask(ctx context.Context, query string) (*domain.Answer, error) {
	logger.Section("Question")
	logger.Debug("Query: %q", query)

	result, err := s.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	prompt, err := s.prompts.Build(result.Query, result)
	if err != nil {
		logger.Debug("Prompt not built: %v", err)
		return nil, err
	}
	logger.Debug("Prompt: %d chars, context: %d chars", len(prompt.Text), len(prompt.Context))

	genCtx := ctx
	if s.generateTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.generateTimeout)
		defer cancel()
	}

	text, err := s.llm.Generate(genCtx, prompt.Text, s.generateOpts)
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return nil, fmt.Errorf("%w: generate: %w", domain.ErrCollaborator, err)
	}

	return &domain.Answer{
		Query:  result.Query,
		Text:   strings.TrimSpace(text),
		Chunks: result.Chunks,
		Model:  s.llm.ModelName(),
	}, nil
}

// Index returns the index the service answers from.
func (s *QAService) Index() *Index {
	return s.index
}
