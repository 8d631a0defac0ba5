// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Rows taken by the header, input, labels and status bar.
const chromeHeight = 10

// View is the question and answer view: an input, the last answer in a
// scrollable viewport, an optional panel with the retrieved context and a
// status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	chunks    *list.ChunkList
	statusbar *status.Bar
	spinner   spinner.Model
	answer    viewport.Model

	qa      driving.QAService
	ctx     context.Context
	docName string

	width       int
	height      int
	ready       bool
	thinking    bool
	showContext bool

	query string
	last  *domain.Answer
	state domain.SessionState
	err   error
}

// NewView creates a new ask view. docName is used in the empty context
// message.
func NewView(s *styles.Styles, km *keymap.KeyMap, qa driving.QAService, docName string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if docName == "" {
		docName = "the document"
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Spinner

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQuestionInput(s),
		chunks:    list.NewChunkList(s),
		statusbar: status.NewBar(s, km),
		spinner:   sp,
		answer:    viewport.New(80, 24-chromeHeight),
		qa:        qa,
		ctx:       context.Background(),
		docName:   docName,
		width:     80,
		height:    24,
		state:     domain.SessionAwaitingInput,
	}
}

// WithContext sets the context passed to the QA service.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// One question at a time.
	if v.thinking {
		return v, nil
	}

	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Submit):
		return v.submit()

	case keymap.Matches(keyStr, v.keymap.Context):
		v.showContext = !v.showContext
		v.layout()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.PageUp), keymap.Matches(keyStr, v.keymap.PageDown):
		var cmd tea.Cmd
		v.answer, cmd = v.answer.Update(msg)
		return v, cmd

	case v.showContext && keymap.Matches(keyStr, v.keymap.Up):
		v.chunks.MoveUp()
		return v, nil

	case v.showContext && keymap.Matches(keyStr, v.keymap.Down):
		v.chunks.MoveDown()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit takes the typed question and starts answering it. Exit tokens end
// the program; blank input is ignored.
func (v *View) submit() (*View, tea.Cmd) {
	query := v.input.Take()
	if query == "" {
		return v, nil
	}
	if domain.IsExitToken(query) {
		v.state = domain.SessionTerminated
		return v, func() tea.Msg { return messages.Quit{} }
	}

	v.query = query
	v.thinking = true
	v.state = domain.SessionProcessing
	v.err = nil
	v.statusbar.SetState(status.StateThinking)
	return v, tea.Batch(v.spinner.Tick, v.ask(query))
}

// ask calls the QA service off the update loop.
func (v *View) ask(query string) tea.Cmd {
	return func() tea.Msg {
		if v.qa == nil {
			return messages.AnswerReceived{Query: query, Err: ErrNoQAService}
		}
		answer, err := v.qa.Ask(v.ctx, query)
		return messages.AnswerReceived{Query: query, Answer: answer, Err: err}
	}
}

// handleAnswer shows the answer or the per-query error. Either way the
// view goes back to awaiting input.
func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.thinking = false
	defer func() { v.state = domain.SessionAwaitingInput }()

	if msg.Err != nil {
		v.err = msg.Err
		v.last = nil
		v.chunks.SetChunks(nil)
		v.state = domain.SessionErrored
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(v.errorText(msg.Err))
		v.answer.SetContent("")
		return
	}

	if msg.Answer == nil {
		msg.Answer = &domain.Answer{Query: msg.Query}
	}
	v.err = nil
	v.last = msg.Answer
	v.state = domain.SessionAnswered
	v.chunks.SetChunks(msg.Answer.Chunks)
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetAnswer(msg.Answer.Model, len(msg.Answer.Chunks))
	v.setAnswerContent()
}

func (v *View) errorText(err error) string {
	if errors.Is(err, domain.ErrEmptyContext) {
		return fmt.Sprintf("No context found. Is %s empty?", v.docName)
	}
	return fmt.Sprintf("An error occurred: %v", err)
}

func (v *View) setAnswerContent() {
	if v.last == nil {
		v.answer.SetContent("")
		return
	}
	wrapped := lipgloss.NewStyle().Width(v.answer.Width).Render(v.last.Text)
	v.answer.SetContent(wrapped)
	v.answer.GotoTop()
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections,
		v.styles.Title.Render("docqa")+"  "+v.styles.Muted.Render(v.docName),
		"",
		v.input.View(),
		"",
	)

	switch {
	case v.thinking:
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("Thinking..."))
	case v.err != nil:
		sections = append(sections, v.errorStyle().Render(v.errorText(v.err)))
	case v.last != nil:
		sections = append(sections,
			v.styles.AnswerLabel.Render("Answer:")+" "+v.styles.Muted.Render(v.last.Query),
			v.styles.AnswerBox.Render(v.answer.View()),
		)
		if v.showContext {
			sections = append(sections, "", v.chunks.View())
		}
	default:
		sections = append(sections, v.styles.Muted.Render("Type a question and press enter. Type 'exit' to quit."))
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) errorStyle() lipgloss.Style {
	if errors.Is(v.err, domain.ErrEmptyContext) {
		return v.styles.Warning
	}
	return v.styles.Error
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.layout()
}

// layout splits the free rows between the answer and the context panel.
func (v *View) layout() {
	free := v.height - chromeHeight
	if free < 3 {
		free = 3
	}

	answerHeight := free
	if v.showContext {
		answerHeight = free / 2
		v.chunks.SetDimensions(v.width, free-answerHeight)
	}

	v.answer.Width = max(v.width-2, 20)
	v.answer.Height = max(answerHeight, 1)
	v.setAnswerContent()
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Thinking reports whether a question is in flight.
func (v *View) Thinking() bool {
	return v.thinking
}

// ShowContext reports whether the context panel is visible.
func (v *View) ShowContext() bool {
	return v.showContext
}

// Query returns the last submitted question.
func (v *View) Query() string {
	return v.query
}

// Answer returns the last successful answer.
func (v *View) Answer() *domain.Answer {
	return v.last
}

// State returns the session state of the view.
func (v *View) State() domain.SessionState {
	return v.state
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Input returns the question input component.
func (v *View) Input() *input.QuestionInput {
	return v.input
}

// Reset clears the input and the last answer.
func (v *View) Reset() {
	v.input.Reset()
	v.query = ""
	v.last = nil
	v.err = nil
	v.thinking = false
	v.showContext = false
	v.state = domain.SessionAwaitingInput
	v.chunks.SetChunks(nil)
	v.statusbar.Clear()
	v.answer.SetContent("")
}
