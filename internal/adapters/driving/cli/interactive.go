package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/console"
)

const readyBanner = "\n--- System Ready! Ask questions about the speech. (Type 'exit' to quit) ---"

// runInteractive builds the pipeline, printing each startup step, then runs
// the console question loop on stdin.
func runInteractive(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p, err := buildPipeline(cmd, settings, out, out)
	if err != nil || p == nil {
		return err
	}

	fmt.Fprintln(out, readyBanner)

	session := console.NewSession(p.QA, cmd.InOrStdin(), out,
		console.WithDocumentName(filepath.Base(settings.Document.Path)),
	)

	// Reading stdin does not observe cancellation, so a signal ends the
	// command without waiting for the next line.
	ctx := cmd.Context()
	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	select {
	case err := <-done:
		closePipeline(p)
		if ctx.Err() != nil {
			return nil
		}
		return err
	case <-ctx.Done():
		// The session may be inside an Ask; release the pipeline only
		// once it has returned.
		go func() {
			<-done
			closePipeline(p)
		}()
		fmt.Fprintln(out)
		return nil
	}
}
