// Package cli provides the cobra command tree for docqa.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// version is overridden at build time via SetVersion.
var version = "dev"

// Pipeline is a ready question answering stack over one document.
type Pipeline struct {
	QA       driving.QAService
	Document *domain.Document
	Chunks   []domain.Chunk

	// Close releases the adapters behind QA. May be nil.
	Close func() error
}

// PipelineFactory runs the startup steps for a set of settings.
type PipelineFactory interface {
	// Chunk loads and splits the document without touching any model.
	Chunk(ctx context.Context, settings domain.AppSettings) (*domain.Document, []domain.Chunk, error)

	// Build runs every startup step, writing progress lines to progress.
	Build(ctx context.Context, settings domain.AppSettings, progress io.Writer) (*Pipeline, error)
}

// ConfigValidator checks that the configured providers are reachable.
type ConfigValidator interface {
	ValidateAll(ctx context.Context, settings domain.AppSettings) map[string]error
}

// Config holds the services the commands run against.
type Config struct {
	Settings  driving.SettingsService
	Pipelines PipelineFactory
	Validator ConfigValidator
}

var (
	settingsService driving.SettingsService
	pipelines       PipelineFactory
	validator       ConfigValidator
)

// Persistent flags.
var (
	documentPath string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about a text document",
	Long: `docqa answers questions about a single plain-text document.

It splits the document into overlapping chunks, embeds them, and for every
question retrieves the closest chunks and asks a language model to answer
using only that context.

Without a subcommand docqa starts an interactive question loop. Type 'exit'
to quit.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&documentPath, "file", "f", "",
		"document to answer questions about (default: document.path setting)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetConfig sets the services used by every command.
func SetConfig(cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	settingsService = cfg.Settings
	pipelines = cfg.Pipelines
	validator = cfg.Validator
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup loads .env from the working directory and applies --verbose.
func setup(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}
	logger.SetVerbose(verbose)
	return nil
}

// loadSettings returns the stored settings with --file applied.
func loadSettings() (domain.AppSettings, error) {
	if settingsService == nil {
		return domain.AppSettings{}, errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	if documentPath != "" {
		settings.Document.Path = documentPath
	}
	return *settings, nil
}

// buildPipeline runs the startup steps. A missing document is reported on
// w with the friendly message and returns (nil, nil).
func buildPipeline(cmd *cobra.Command, settings domain.AppSettings, progress, w io.Writer) (*Pipeline, error) {
	if pipelines == nil {
		return nil, errors.New("pipeline factory not configured")
	}
	p, err := pipelines.Build(cmd.Context(), settings, progress)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		fmt.Fprintf(w, "Error: Could not find %s.\n", settings.Document.Path)
		return nil, nil
	}
	return p, err
}

func closePipeline(p *Pipeline) {
	if p == nil || p.Close == nil {
		return
	}
	if err := p.Close(); err != nil {
		logger.Warn("closing pipeline: %v", err)
	}
}
