package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

var (
	askJSON        bool
	askShowContext bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question and exit",
	Long: `Builds the pipeline, answers one question and exits.

All arguments are joined into the question, so quoting is optional.
Startup progress is printed to stderr with --verbose.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askShowContext, "show-context", false, "print the retrieved chunks after the answer")
	rootCmd.AddCommand(askCmd)
}

type askOutput struct {
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Model    string          `json:"model,omitempty"`
	Context  []contextOutput `json:"context"`
}

type contextOutput struct {
	Position int     `json:"position"`
	Start    int     `json:"start"`
	End      int     `json:"end"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	progress := io.Discard
	if logger.IsVerbose() {
		progress = cmd.ErrOrStderr()
	}
	p, err := buildPipeline(cmd, settings, progress, cmd.ErrOrStderr())
	if err != nil || p == nil {
		return err
	}
	defer closePipeline(p)

	answer, err := p.QA.Ask(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, answer)
	}
	return outputAskText(cmd, answer)
}

func toContextOutput(chunks []domain.ScoredChunk) []contextOutput {
	out := make([]contextOutput, len(chunks))
	for i, sc := range chunks {
		out[i] = contextOutput{
			Position: sc.Chunk.Position,
			Start:    sc.Chunk.Start,
			End:      sc.Chunk.End,
			Score:    sc.Score,
			Text:     sc.Chunk.Content,
		}
	}
	return out
}

func outputAskJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(askOutput{
		Question: answer.Query,
		Answer:   answer.Text,
		Model:    answer.Model,
		Context:  toContextOutput(answer.Chunks),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, answer *domain.Answer) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, answer.Text)

	if !askShowContext {
		return nil
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Context:")
	for _, sc := range answer.Chunks {
		fmt.Fprintf(out, "  [%d] (%.3f) %s\n", sc.Chunk.Position, sc.Score, preview(sc.Chunk.Content, 100))
	}
	return nil
}

// preview collapses whitespace and cuts s to at most n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
