package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

type capturedRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  *bool          `json:"stream"`
	Options map[string]any `json:"options"`
}

func newGenerateServer(t *testing.T, reply string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    captured.Model,
			"response": reply,
			"done":     true,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(LLMConfig{})
	require.NoError(t, err)
	assert.Equal(t, "llama3.2:1b", svc.ModelName())
}

func TestLLMService_Generate(t *testing.T) {
	var captured capturedRequest
	srv := newGenerateServer(t, "Caste is a division of labourers.", &captured)

	svc, err := NewLLMService(LLMConfig{BaseURL: srv.URL, Model: "llama3.2:1b"})
	require.NoError(t, err)

	text, err := svc.Generate(context.Background(), "What is caste?", driven.GenerateOptions{
		MaxTokens:   128,
		Temperature: 0.2,
		StopWords:   []string{"Question:"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Caste is a division of labourers.", text)
	assert.Equal(t, "llama3.2:1b", captured.Model)
	assert.Equal(t, "What is caste?", captured.Prompt)
	require.NotNil(t, captured.Stream)
	assert.False(t, *captured.Stream)
	assert.Equal(t, float64(128), captured.Options["num_predict"])
	assert.Equal(t, 0.2, captured.Options["temperature"])
}

func TestLLMService_Generate_NoOptions(t *testing.T) {
	var captured capturedRequest
	srv := newGenerateServer(t, "ok", &captured)

	svc, err := NewLLMService(LLMConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "p", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Empty(t, captured.Options)
}

func TestLLMService_Generate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'llama3.2:1b' not found"}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "p", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama generate")
	assert.Contains(t, err.Error(), "not found")
}

func TestLLMService_Ping(t *testing.T) {
	var captured capturedRequest
	srv := newGenerateServer(t, "", &captured)

	svc, err := NewLLMService(LLMConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}

func TestGenerateOptions(t *testing.T) {
	assert.Nil(t, generateOptions(driven.GenerateOptions{}))
	assert.Equal(t, map[string]any{"stop": []string{"x"}}, generateOptions(driven.GenerateOptions{StopWords: []string{"x"}}))
}
