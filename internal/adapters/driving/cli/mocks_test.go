package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.AppSettings
	getErr      error
	setErr      error
	validateErr error
	sets        map[string]string
	saved       *domain.AppSettings
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), sets: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"llm.model", "chunking.size", "document.path"}
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// mockQA implements driving.QAService for testing.
type mockQA struct {
	answer string
	err    error
	asked  []string
}

func (m *mockQA) Ask(_ context.Context, query string) (*domain.Answer, error) {
	m.asked = append(m.asked, query)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Answer{
		Query: query,
		Text:  m.answer,
		Model: "llama3.2:1b",
		Chunks: []domain.ScoredChunk{
			{Chunk: domain.Chunk{ID: "doc:2", Position: 2, Start: 900, End: 1400, Content: "The real remedy is to destroy the belief"}, Score: 0.81},
			{Chunk: domain.Chunk{ID: "doc:0", Position: 0, Start: 0, End: 500, Content: "in the sanctity of the shastras."}, Score: 0.42},
		},
	}, nil
}

func (m *mockQA) Retrieve(_ context.Context, query string) (domain.RetrievalResult, error) {
	return domain.RetrievalResult{Query: query}, m.err
}

// fakePipelines implements PipelineFactory, printing the startup markers
// the real builder prints.
type fakePipelines struct {
	qa       *mockQA
	doc      *domain.Document
	chunks   []domain.Chunk
	buildErr error
	chunkErr error
	settings []domain.AppSettings
	closed   atomic.Int32
}

func newFakePipelines() *fakePipelines {
	content := "Caste is a notion. It is a state of the mind."
	return &fakePipelines{
		qa:  &mockQA{answer: "Destroy the belief in the shastras."},
		doc: &domain.Document{ID: "doc", URI: "speech.txt", Title: "speech.txt", Content: content},
		chunks: []domain.Chunk{
			{ID: "doc:0", DocumentID: "doc", Position: 0, Start: 0, End: 19, Content: content[:19]},
			{ID: "doc:1", DocumentID: "doc", Position: 1, Start: 14, End: 45, Content: content[14:]},
		},
	}
}

func (f *fakePipelines) Chunk(_ context.Context, settings domain.AppSettings) (*domain.Document, []domain.Chunk, error) {
	f.settings = append(f.settings, settings)
	if f.chunkErr != nil {
		return nil, nil, f.chunkErr
	}
	return f.doc, f.chunks, nil
}

func (f *fakePipelines) Build(_ context.Context, settings domain.AppSettings, progress io.Writer) (*Pipeline, error) {
	f.settings = append(f.settings, settings)
	fmt.Fprintln(progress, "1. Loading text...")
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	fmt.Fprintln(progress, "2. Splitting text...")
	fmt.Fprintf(progress, "   Split into %d chunks.\n", len(f.chunks))
	fmt.Fprintln(progress, "3. Initializing Embeddings (all-minilm)...")
	fmt.Fprintln(progress, "4. Creating Vector Store (memory)...")
	fmt.Fprintln(progress, "5. Connecting to Ollama (local) (llama3.2:1b)...")
	return &Pipeline{
		QA:       f.qa,
		Document: f.doc,
		Chunks:   f.chunks,
		Close: func() error {
			f.closed.Add(1)
			return nil
		},
	}, nil
}

// fakeValidator implements ConfigValidator for testing.
type fakeValidator struct {
	results map[string]error
	calls   int
}

func (f *fakeValidator) ValidateAll(context.Context, domain.AppSettings) map[string]error {
	f.calls++
	return f.results
}

// resetFlags restores every flag in the tree to its default value so
// tests do not leak state through package-level flag variables.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command with cfg and args, feeding stdin.
func execute(t *testing.T, cfg *Config, stdin string, args ...string) result {
	t.Helper()

	SetConfig(cfg)
	resetFlags(rootCmd)
	t.Cleanup(func() {
		SetConfig(nil)
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}
