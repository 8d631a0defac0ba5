package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrConfig", ErrConfig},
		{"ErrEmptyCorpus", ErrEmptyCorpus},
		{"ErrEmptyContext", ErrEmptyContext},
		{"ErrCollaborator", ErrCollaborator},
		{"ErrDocumentNotFound", ErrDocumentNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorIndexUnavailable", ErrVectorIndexUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"empty context", ErrEmptyContext, true},
		{"wrapped collaborator", fmt.Errorf("ollama: %w", ErrCollaborator), true},
		{"config", ErrConfig, false},
		{"empty corpus", ErrEmptyCorpus, false},
		{"unrelated", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRecoverable(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(fmt.Errorf("chunker: %w", ErrConfig)))
	assert.True(t, IsFatal(ErrEmptyCorpus))
	assert.False(t, IsFatal(ErrEmptyContext))
	assert.False(t, IsFatal(ErrCollaborator))
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrEmptyContext, ErrEmptyCorpus))
	assert.False(t, errors.Is(ErrConfig, ErrCollaborator))
}
