package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func testChunks() []domain.ScoredChunk {
	return []domain.ScoredChunk{
		{Chunk: domain.Chunk{ID: "d:0", Position: 0, Start: 0, End: 40, Content: "The real remedy is to destroy the belief."}, Score: 0.91},
		{Chunk: domain.Chunk{ID: "d:3", Position: 3, Start: 90, End: 130, Content: "in the sanctity of the shastras."}, Score: 0.72},
		{Chunk: domain.Chunk{ID: "d:1", Position: 1, Start: 30, End: 70, Content: "Caste is a notion,\na state of the mind."}, Score: 0.40},
	}
}

func TestNewChunkList(t *testing.T) {
	l := NewChunkList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedChunk())
	assert.Nil(t, l.Init())
}

func TestChunkList_View_Empty(t *testing.T) {
	assert.Contains(t, NewChunkList(nil).View(), "No context retrieved")
}

func TestChunkList_View(t *testing.T) {
	l := NewChunkList(nil)
	l.SetChunks(testChunks())

	view := l.View()

	assert.Contains(t, view, "Context (3 chunks)")
	assert.Contains(t, view, "#0 [0:40] 0.910")
	assert.Contains(t, view, "#3 [90:130] 0.720")
	assert.Contains(t, view, "Caste is a notion, a state of the mind.")
}

func TestChunkList_Navigation(t *testing.T) {
	l := NewChunkList(nil)
	l.SetChunks(testChunks())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())
	assert.Equal(t, "d:3", l.SelectedChunk().Chunk.ID)

	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, l.Selected())
}

func TestChunkList_SetChunksResetsSelection(t *testing.T) {
	l := NewChunkList(nil)
	l.SetChunks(testChunks())
	l.MoveDown()

	l.SetChunks(testChunks()[:1])

	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, 1, l.Count())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "ábcdéfg...", truncate("ábcdéfghijklmnop", 10))
	assert.Len(t, []rune(truncate(strings.Repeat("x", 100), 5)), 10)
}

func TestClampLines(t *testing.T) {
	assert.Equal(t, "a\nb", clampLines("a\nb", 3))
	assert.Equal(t, "a\nb\n...", clampLines("a\nb\nc\nd", 2))
}
