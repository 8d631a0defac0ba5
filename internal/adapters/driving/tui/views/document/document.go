// Package document provides a scrollable view of the loaded document.
package document

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Rows reserved for title, separator and help.
const reservedRows = 6

// View is the document content view.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	viewport viewport.Model

	document *domain.Document
	chunks   int
	width    int
	height   int
	ready    bool
}

// NewView creates a new document view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:   s,
		keymap:   km,
		viewport: viewport.New(80, 24-reservedRows),
		width:    80,
		height:   24,
	}
}

// SetDocument sets the document to display. chunks is the number of
// chunks it was split into, shown in the header.
func (v *View) SetDocument(doc *domain.Document, chunks int) {
	v.document = doc
	v.chunks = chunks
	v.render()
	v.viewport.GotoTop()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the document view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		if keymap.Matches(keyStr, v.keymap.Back) || keymap.Matches(keyStr, v.keymap.Document) {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewAsk}
			}
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// render wraps the document content to the viewport width.
func (v *View) render() {
	if v.document == nil {
		v.viewport.SetContent("")
		return
	}
	wrapped := lipgloss.NewStyle().Width(v.viewport.Width).Render(v.document.Content)
	v.viewport.SetContent(wrapped)
}

// View renders the document view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.title()))
	if v.document != nil {
		b.WriteString("  ")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d runes, %d chunks",
			len([]rune(v.document.Content)), v.chunks)))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n\n")

	if v.document == nil || v.document.Content == "" {
		b.WriteString(v.styles.Muted.Render("(No content)"))
	} else {
		b.WriteString(v.viewport.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%3.0f%%]", v.viewport.ScrollPercent()*100)))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [tab/esc] back to questions"))
	return b.String()
}

func (v *View) title() string {
	if v.document == nil {
		return "Document"
	}
	if v.document.Title != "" {
		return v.document.Title
	}
	return v.document.URI
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.viewport.Width = max(width-4, 20)
	v.viewport.Height = max(height-reservedRows, 1)
	v.render()
}

// Document returns the current document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Ready returns whether the view has been sized.
func (v *View) Ready() bool {
	return v.ready
}

// AtTop reports whether the viewport is scrolled to the start.
func (v *View) AtTop() bool {
	return v.viewport.AtTop()
}
