package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestInteractive_FullSession(t *testing.T) {
	pl := newFakePipelines()

	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: pl}, "What is the remedy?\nexit\n")

	require.NoError(t, res.err)
	out := res.stdout
	markers := []string{
		"1. Loading text...",
		"2. Splitting text...",
		"   Split into 2 chunks.",
		"3. Initializing Embeddings",
		"4. Creating Vector Store",
		"5. Connecting to Ollama (local)",
		"--- System Ready! Ask questions about the speech. (Type 'exit' to quit) ---",
		"Your Question: ",
		"   Thinking...",
		"Answer: Destroy the belief in the shastras.",
		"Exiting...",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(out, m)
		require.GreaterOrEqual(t, idx, 0, "missing %q in:\n%s", m, out)
		assert.Greater(t, idx, last, "%q out of order", m)
		last = idx
	}
	assert.Equal(t, []string{"What is the remedy?"}, pl.qa.asked)
	assert.Equal(t, int32(1), pl.closed.Load())
}

func TestInteractive_FileFlag(t *testing.T) {
	pl := newFakePipelines()

	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: pl}, "exit\n", "--file", "notes.txt")

	require.NoError(t, res.err)
	require.Len(t, pl.settings, 1)
	assert.Equal(t, "notes.txt", pl.settings[0].Document.Path)
}

func TestInteractive_MissingDocument(t *testing.T) {
	pl := newFakePipelines()
	pl.buildErr = fmt.Errorf("load speech.txt: %w", domain.ErrDocumentNotFound)

	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: pl}, "")

	require.NoError(t, res.err)
	assert.Equal(t, "1. Loading text...\nError: Could not find speech.txt.\n", res.stdout)
	assert.Zero(t, pl.closed.Load())
}

func TestInteractive_BuildFailure(t *testing.T) {
	pl := newFakePipelines()
	pl.buildErr = fmt.Errorf("%w: ollama unreachable", domain.ErrLLMUnavailable)

	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: pl}, "")

	assert.ErrorIs(t, res.err, domain.ErrLLMUnavailable)
	assert.NotContains(t, res.stdout, "System Ready")
}

func TestInteractive_PerQueryErrorsKeepGoing(t *testing.T) {
	pl := newFakePipelines()
	pl.qa.err = domain.ErrEmptyContext

	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: pl}, "one\ntwo\nquit\n")

	require.NoError(t, res.err)
	assert.Equal(t, 2, strings.Count(res.stdout, "Error: No context found. Is speech.txt empty?"))
	assert.Equal(t, []string{"one", "two"}, pl.qa.asked)
}

func TestInteractive_EOFEndsSession(t *testing.T) {
	pl := newFakePipelines()

	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: pl}, "question")

	require.NoError(t, res.err)
	assert.Equal(t, []string{"question"}, pl.qa.asked)
	assert.Equal(t, int32(1), pl.closed.Load())
}

func TestInteractive_NoPipelineFactory(t *testing.T) {
	res := execute(t, &Config{Settings: newMockSettings()}, "")

	assert.EqualError(t, res.err, "pipeline factory not configured")
}

func TestInteractive_NoSettings(t *testing.T) {
	res := execute(t, &Config{Pipelines: newFakePipelines()}, "")

	assert.EqualError(t, res.err, "settings service not configured")
}

// promptWatcher is a goroutine-safe output buffer that signals the first
// time the question prompt is written.
type promptWatcher struct {
	mu       sync.Mutex
	buf      strings.Builder
	prompted chan struct{}
	once     sync.Once
}

func (w *promptWatcher) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	if strings.Contains(w.buf.String(), "Your Question: ") {
		w.once.Do(func() { close(w.prompted) })
	}
	return len(p), nil
}

func TestInteractive_CancelWaitsForSessionBeforeClosing(t *testing.T) {
	pl := newFakePipelines()
	SetConfig(&Config{Settings: newMockSettings(), Pipelines: pl})
	resetFlags(rootCmd)

	stdin, stdinW := io.Pipe()
	out := &promptWatcher{prompted: make(chan struct{})}
	t.Cleanup(func() {
		stdinW.Close()
		SetConfig(nil)
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs([]string{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- rootCmd.ExecuteContext(ctx) }()

	select {
	case <-out.prompted:
	case <-time.After(5 * time.Second):
		t.Fatal("session never prompted")
	}
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("command did not return after cancel")
	}
	assert.Zero(t, pl.closed.Load(), "pipeline closed while the session was still reading")

	require.NoError(t, stdinW.Close())
	assert.Eventually(t, func() bool { return pl.closed.Load() == 1 },
		5*time.Second, 10*time.Millisecond)
}
