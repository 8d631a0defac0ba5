package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var (
	chunksJSON     bool
	chunksSize     int
	chunksOverlap  int
	chunksBoundary string
)

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "Show how the document is split",
	Long: `Loads and splits the document and prints every chunk with its rune
offsets. No embedding or language model is contacted.

Use --size, --overlap and --boundary to try chunking parameters without
changing the stored settings.`,
	Args: cobra.NoArgs,
	RunE: runChunks,
}

func init() {
	chunksCmd.Flags().BoolVar(&chunksJSON, "json", false, "output chunks as JSON")
	chunksCmd.Flags().IntVar(&chunksSize, "size", 0, "override chunking.size")
	chunksCmd.Flags().IntVar(&chunksOverlap, "overlap", 0, "override chunking.overlap")
	chunksCmd.Flags().StringVar(&chunksBoundary, "boundary", "", "override chunking.boundary (none, semantic)")
	rootCmd.AddCommand(chunksCmd)
}

type chunkOutput struct {
	Position int    `json:"position"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Length   int    `json:"length"`
	Text     string `json:"text"`
}

func runChunks(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		settings.Chunking.Size = chunksSize
	}
	if flags.Changed("overlap") {
		settings.Chunking.Overlap = chunksOverlap
	}
	if flags.Changed("boundary") {
		settings.Chunking.Boundary = domain.ChunkBoundary(chunksBoundary)
	}
	if err := settings.Chunking.Validate(); err != nil {
		return err
	}

	if pipelines == nil {
		return errors.New("pipeline factory not configured")
	}
	doc, chunks, err := pipelines.Chunk(cmd.Context(), settings)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return fmt.Errorf("could not find %s: %w", settings.Document.Path, err)
	}
	if err != nil {
		return err
	}

	if chunksJSON {
		return outputChunksJSON(cmd, chunks)
	}

	out := cmd.OutOrStdout()
	c := settings.Chunking
	fmt.Fprintf(out, "Document: %s (%d runes)\n", doc.URI, len([]rune(doc.Content)))
	fmt.Fprintf(out, "Chunks: %d (size %d, overlap %d, boundary %s)\n\n", len(chunks), c.Size, c.Overlap, c.Boundary)
	for _, ch := range chunks {
		fmt.Fprintf(out, "  [%d] %d-%d (%d runes)\n", ch.Position, ch.Start, ch.End, ch.End-ch.Start)
		fmt.Fprintf(out, "      %s\n", preview(ch.Content, 72))
	}
	return nil
}

func outputChunksJSON(cmd *cobra.Command, chunks []domain.Chunk) error {
	out := make([]chunkOutput, len(chunks))
	for i, ch := range chunks {
		out[i] = chunkOutput{
			Position: ch.Position,
			Start:    ch.Start,
			End:      ch.End,
			Length:   ch.End - ch.Start,
			Text:     ch.Content,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chunks: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
