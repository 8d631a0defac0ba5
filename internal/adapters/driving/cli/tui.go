package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch a terminal interface for asking questions about the document.

Startup progress is printed before the interface opens.

Controls:
  Enter    - Ask the typed question
  Ctrl+T   - Show or hide the retrieved context
  PgUp/Dn  - Scroll the answer
  Tab      - View the document
  F1       - Help
  Ctrl+C   - Quit (or ask "exit")`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	p, err := buildPipeline(cmd, settings, cmd.ErrOrStderr(), cmd.ErrOrStderr())
	if err != nil || p == nil {
		return err
	}
	defer closePipeline(p)

	app, err := tui.NewApp(tui.NewPorts(p.QA, p.Document, p.Chunks))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
