// Package console provides the interactive question loop over stdin/stdout.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Session reads one question per line and prints grounded answers until an
// exit token or end of input.
type Session struct {
	qa      driving.QAService
	in      *bufio.Scanner
	out     io.Writer
	docName string
	state   domain.SessionState
	hook    func(from, to domain.SessionState)

	promptColor *color.Color
	answerColor *color.Color
	errorColor  *color.Color
}

// Option configures a Session.
type Option func(*Session)

// WithStateHook registers fn to observe every state transition.
func WithStateHook(fn func(from, to domain.SessionState)) Option {
	return func(s *Session) {
		s.hook = fn
	}
}

// WithDocumentName sets the name used in the empty-context message.
func WithDocumentName(name string) Option {
	return func(s *Session) {
		if name != "" {
			s.docName = name
		}
	}
}

// NewSession creates a session reading from in and writing to out.
// Colours are enabled only when out is a terminal.
func NewSession(qa driving.QAService, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		qa:          qa,
		in:          bufio.NewScanner(in),
		out:         out,
		docName:     "the document",
		state:       domain.SessionAwaitingInput,
		promptColor: color.New(color.FgCyan, color.Bold),
		answerColor: color.New(color.FgGreen, color.Bold),
		errorColor:  color.New(color.FgRed),
	}
	s.in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for _, opt := range opts {
		opt(s)
	}

	for _, c := range []*color.Color{s.promptColor, s.answerColor, s.errorColor} {
		if isTerminal(out) {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// State returns the current state.
func (s *Session) State() domain.SessionState {
	return s.state
}

// Run loops until an exit token, end of input or cancellation.
// Per-question failures are printed and never end the loop.
func (s *Session) Run(ctx context.Context) error {
	for !s.state.IsTerminal() {
		s.promptColor.Fprint(s.out, "\nYour Question: ")

		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			s.transition(domain.SessionTerminated)
			if err := s.in.Err(); err != nil {
				return fmt.Errorf("read question: %w", err)
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			s.transition(domain.SessionTerminated)
			return err
		}

		line := strings.TrimSpace(s.in.Text())
		if domain.IsExitToken(line) {
			fmt.Fprintln(s.out, "Exiting...")
			s.transition(domain.SessionTerminated)
			return nil
		}
		if line == "" {
			continue
		}

		s.handle(ctx, line)
	}
	return nil
}

func (s *Session) handle(ctx context.Context, query string) {
	s.transition(domain.SessionProcessing)
	fmt.Fprintln(s.out, "   Thinking...")

	answer, err := s.qa.Ask(ctx, query)
	switch {
	case err == nil:
		fmt.Fprintln(s.out)
		s.answerColor.Fprint(s.out, "Answer:")
		fmt.Fprintf(s.out, " %s\n", answer.Text)
		s.transition(domain.SessionAnswered)

	case errors.Is(err, domain.ErrEmptyContext):
		s.errorColor.Fprintf(s.out, "Error: No context found. Is %s empty?\n", s.docName)
		s.transition(domain.SessionErrored)

	default:
		logger.Debug("Question failed: %v", err)
		s.errorColor.Fprintf(s.out, "An error occurred: %v\n", err)
		s.transition(domain.SessionErrored)
	}

	s.transition(domain.SessionAwaitingInput)
}

func (s *Session) transition(to domain.SessionState) {
	from := s.state
	s.state = to
	if s.hook != nil {
		s.hook(from, to)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
