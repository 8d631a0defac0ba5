package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// PromptBuilder assembles the grounded prompt sent to the language model.
type PromptBuilder struct {
	store driven.PromptStore
}

// NewPromptBuilder creates a prompt builder.
// The store is optional; without it the built-in template is used.
func NewPromptBuilder(store driven.PromptStore) *PromptBuilder {
	return &PromptBuilder{store: store}
}

// Build places the retrieved context and the literal query into the answer
// template. It returns domain.ErrEmptyContext when no chunk carries text.
func (b *PromptBuilder) Build(query string, r domain.RetrievalResult) (domain.Prompt, error) {
	if r.IsEmpty() {
		return domain.Prompt{}, domain.ErrEmptyContext
	}

	excerpt := r.QueryContext()
	return domain.Prompt{
		Text:    fmt.Sprintf(b.template(), excerpt, query),
		Context: excerpt,
		Query:   query,
	}, nil
}

func (b *PromptBuilder) template() string {
	if b.store == nil {
		return driven.DefaultAnswerPrompt
	}

	tpl, err := b.store.Load(driven.PromptAnswer)
	if err != nil {
		logger.Warn("Failed to load %s prompt, using default: %v", driven.PromptAnswer, err)
		return driven.DefaultAnswerPrompt
	}
	if !validTemplate(tpl) {
		logger.Warn("Prompt %s must contain exactly two %%s placeholders and no other verbs, using default",
			driven.PromptAnswer)
		return driven.DefaultAnswerPrompt
	}
	return tpl
}

// validTemplate reports whether tpl has exactly two %s verbs and nothing
// else fmt would interpret.
func validTemplate(tpl string) bool {
	stripped := strings.ReplaceAll(tpl, "%%", "")
	return strings.Count(stripped, "%s") == 2 && strings.Count(stripped, "%") == 2
}
