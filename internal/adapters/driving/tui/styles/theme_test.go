package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.Border))
	assert.NotEmpty(t, string(theme.Bar))
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	accents := []lipgloss.Color{
		theme.Primary,
		theme.Secondary,
		theme.Success,
		theme.Warning,
		theme.Error,
	}

	seen := make(map[string]bool)
	for _, c := range accents {
		s := string(c)
		assert.False(t, seen[s], "duplicate accent: %s", s)
		seen[s] = true
	}
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	styles := NewStyles(theme)

	require.NotNil(t, styles)
	assert.Equal(t, theme, styles.Theme())
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_AllStylesInitialised(t *testing.T) {
	styles := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"Title":       styles.Title,
		"Subtitle":    styles.Subtitle,
		"Normal":      styles.Normal,
		"Muted":       styles.Muted,
		"Selected":    styles.Selected,
		"Error":       styles.Error,
		"Success":     styles.Success,
		"Warning":     styles.Warning,
		"Prompt":      styles.Prompt,
		"InputField":  styles.InputField,
		"AnswerLabel": styles.AnswerLabel,
		"AnswerBox":   styles.AnswerBox,
		"Spinner":     styles.Spinner,
		"StatusBar":   styles.StatusBar,
		"Help":        styles.Help,
		"Border":      styles.Border,
	} {
		assert.NotEqual(t, lipgloss.Style{}, style, name)
	}
}

func TestStyles_RenderKeepsText(t *testing.T) {
	styles := DefaultStyles()

	assert.Contains(t, styles.Prompt.Render("Your Question:"), "Your Question:")
	assert.Contains(t, styles.AnswerLabel.Render("Answer:"), "Answer:")
	assert.Contains(t, styles.AnswerBox.Render("text"), "text")
}
