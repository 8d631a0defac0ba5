package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestChunksCmd_Table(t *testing.T) {
	pl := newFakePipelines()

	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: pl}, "", "chunks")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Document: speech.txt (45 runes)\n")
	assert.Contains(t, res.stdout, "Chunks: 2 (size 500, overlap 50, boundary semantic)\n")
	assert.Contains(t, res.stdout, "  [0] 0-19 (19 runes)\n      Caste is a notion.\n")
	assert.Contains(t, res.stdout, "  [1] 14-45 (31 runes)\n")
}

func TestChunksCmd_Overrides(t *testing.T) {
	pl := newFakePipelines()

	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: pl}, "",
		"chunks", "--size", "100", "--overlap", "10", "--boundary", "none")

	require.NoError(t, res.err)
	require.Len(t, pl.settings, 1)
	c := pl.settings[0].Chunking
	assert.Equal(t, 100, c.Size)
	assert.Equal(t, 10, c.Overlap)
	assert.Equal(t, domain.ChunkBoundaryNone, c.Boundary)
}

func TestChunksCmd_UnchangedFlagsKeepSettings(t *testing.T) {
	pl := newFakePipelines()

	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: pl}, "", "chunks", "--overlap", "0")

	require.NoError(t, res.err)
	c := pl.settings[0].Chunking
	assert.Equal(t, 500, c.Size)
	assert.Equal(t, 0, c.Overlap)
}

func TestChunksCmd_InvalidOverride(t *testing.T) {
	pl := newFakePipelines()

	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: pl}, "", "chunks", "--overlap", "500")

	assert.ErrorIs(t, res.err, domain.ErrConfig)
	assert.Empty(t, pl.settings)
}

func TestChunksCmd_MissingDocument(t *testing.T) {
	pl := newFakePipelines()
	pl.chunkErr = domain.ErrDocumentNotFound

	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: pl}, "", "chunks")

	assert.ErrorIs(t, res.err, domain.ErrDocumentNotFound)
	assert.ErrorContains(t, res.err, "could not find speech.txt")
}

func TestChunksCmd_JSON(t *testing.T) {
	res := execute(t, &Config{Settings: newMockSettings(), Pipelines: newFakePipelines()}, "", "chunks", "--json")

	require.NoError(t, res.err)
	var out []chunkOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[1].Position)
	assert.Equal(t, 31, out[1].Length)
	assert.Equal(t, "ion. It is a state of the mind.", out[1].Text)
}
