// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ChunkList displays the chunks an answer was grounded on. The selected
// chunk is shown in full below the list.
type ChunkList struct {
	chunks   []domain.ScoredChunk
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewChunkList creates a new chunk list component.
func NewChunkList(s *styles.Styles) *ChunkList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ChunkList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the chunk list.
func (c *ChunkList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (c *ChunkList) Update(msg tea.Msg) (*ChunkList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			c.MoveUp()
		case tea.KeyDown:
			c.MoveDown()
		default:
		}
	}
	return c, nil
}

// View renders the chunk list.
func (c *ChunkList) View() string {
	if len(c.chunks) == 0 {
		return c.styles.Muted.Render("No context retrieved")
	}

	lines := make([]string, 0, len(c.chunks)+4)
	lines = append(lines, c.styles.Subtitle.Render(fmt.Sprintf("Context (%d chunks)", len(c.chunks))), "")

	for i := range c.chunks {
		lines = append(lines, c.renderRow(i, &c.chunks[i]))
	}

	if sc := c.SelectedChunk(); sc != nil {
		body := lipgloss.NewStyle().Width(c.textWidth()).Render(sc.Chunk.Content)
		lines = append(lines, "", c.styles.Muted.Render(clampLines(body, c.bodyLines())))
	}

	return strings.Join(lines, "\n")
}

// renderRow formats one chunk as "#pos [start:end] score  preview".
func (c *ChunkList) renderRow(index int, sc *domain.ScoredChunk) string {
	indicator := "  "
	if index == c.selected {
		indicator = "> "
	}

	head := fmt.Sprintf("%s#%d [%d:%d] %.3f  ", indicator, sc.Chunk.Position, sc.Chunk.Start, sc.Chunk.End, sc.Score)
	preview := truncate(oneLine(sc.Chunk.Content), c.width-len([]rune(head))-2)

	if index == c.selected {
		return c.styles.Selected.Render(head + preview)
	}
	return c.styles.Normal.Render(head) + c.styles.Muted.Render(preview)
}

func (c *ChunkList) textWidth() int {
	w := c.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// bodyLines is the room left for the selected chunk after the rows.
func (c *ChunkList) bodyLines() int {
	n := c.height - len(c.chunks) - 3
	if n < 3 {
		n = 3
	}
	return n
}

// SetChunks replaces the list contents and resets the selection.
func (c *ChunkList) SetChunks(chunks []domain.ScoredChunk) {
	c.chunks = chunks
	c.selected = 0
}

// Chunks returns the current chunks.
func (c *ChunkList) Chunks() []domain.ScoredChunk {
	return c.chunks
}

// Selected returns the index of the selected chunk.
func (c *ChunkList) Selected() int {
	return c.selected
}

// SelectedChunk returns the selected chunk, or nil if the list is empty.
func (c *ChunkList) SelectedChunk() *domain.ScoredChunk {
	if c.selected < 0 || c.selected >= len(c.chunks) {
		return nil
	}
	return &c.chunks[c.selected]
}

// MoveUp moves selection up.
func (c *ChunkList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *ChunkList) MoveDown() {
	if c.selected < len(c.chunks)-1 {
		c.selected++
	}
}

// SetDimensions sets the component dimensions.
func (c *ChunkList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Count returns the number of chunks.
func (c *ChunkList) Count() int {
	return len(c.chunks)
}

// IsEmpty returns whether the list is empty.
func (c *ChunkList) IsEmpty() bool {
	return len(c.chunks) == 0
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if n < 10 {
		n = 10
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func clampLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n..."
}
