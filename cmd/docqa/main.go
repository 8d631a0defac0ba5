// Command docqa answers questions about a plain-text document.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/bootstrap"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	err := run(ctx)
	_ = logger.Sync()
	if err != nil {
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var store driven.ConfigStore
	store, err := file.NewConfigStore("")
	if err != nil {
		// Without a home directory settings still work for this run.
		fmt.Fprintf(os.Stderr, "Warning: settings will not be saved: %v\n", err)
		store = memory.NewConfigStore()
	}
	// A nil prompt store means the built-in template.
	var prompts driven.PromptStore
	if ps, err := file.NewPromptStore(""); err == nil {
		prompts = ps
	}

	cli.SetVersion(version)
	cli.SetConfig(&cli.Config{
		Settings:  services.NewSettingsService(store).WithEnv(os.Getenv),
		Pipelines: pipelineFactory{prompts: prompts},
		Validator: ai.NewConfigValidator(),
	})
	return cli.Execute(ctx)
}

// pipelineFactory builds pipelines with bootstrap for the cli commands.
type pipelineFactory struct {
	prompts driven.PromptStore
}

func (f pipelineFactory) Chunk(ctx context.Context, settings domain.AppSettings) (*domain.Document, []domain.Chunk, error) {
	return bootstrap.New(settings, bootstrap.WithPromptStore(f.prompts)).Chunk(ctx)
}

func (f pipelineFactory) Build(ctx context.Context, settings domain.AppSettings, progress io.Writer) (*cli.Pipeline, error) {
	p, err := bootstrap.New(settings,
		bootstrap.WithPromptStore(f.prompts),
		bootstrap.WithProgress(progress),
	).Build(ctx)
	if err != nil {
		return nil, err
	}
	return &cli.Pipeline{
		QA:       p.QA,
		Document: p.Document,
		Chunks:   p.Chunks,
		Close:    p.Close,
	}, nil
}
