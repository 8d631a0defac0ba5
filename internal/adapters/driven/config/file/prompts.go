package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// builtinPrompts are served when no file overrides them and seed the
// prompt directory on first use.
var builtinPrompts = map[string]string{
	driven.PromptAnswer: driven.DefaultAnswerPrompt,
}

const promptReadme = "# docqa Prompts\n\n" +
	"This directory holds the prompt templates docqa sends to the language model.\n\n" +
	"- `answer.txt` frames the grounded answer to a question.\n\n" +
	"`answer.txt` must contain exactly two `%s` placeholders: the retrieved\n" +
	"document excerpt first, then the question. Write `%%` for a literal percent\n" +
	"sign. A template that breaks this rule is ignored and the built-in one is used.\n\n" +
	"Edits take effect the next time docqa starts.\n"

// PromptStore serves prompt templates from <dir>/<name>.txt, falling back
// to the built-in templates. The directory is seeded lazily on the first
// Load, never in the constructor.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore creates a store rooted at dir, or ~/.docqa/prompts when
// dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the template called name. Edited files win over the
// built-in template; results are cached until Reload.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(func() { s.seedErr = s.seed() })

	if tpl, ok := s.cached(name); ok {
		return tpl, nil
	}

	tpl, err := s.read(name)
	if err != nil {
		builtin, ok := builtinPrompts[name]
		if !ok {
			return "", fmt.Errorf("load prompt %q: %w", name, err)
		}
		if s.seedErr == nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("prompt %s unreadable, using built-in: %v", name, err)
		}
		return builtin, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.cache[name]; ok {
		return prev, nil
	}
	s.cache[name] = tpl
	return tpl, nil
}

// Reload drops cached templates so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

func (s *PromptStore) cached(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.cache[name]
	return tpl, ok
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// seed creates the directory and writes any missing default files.
// Existing files are never touched.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	files := map[string]string{"README.md": promptReadme}
	for name, tpl := range builtinPrompts {
		files[name+".txt"] = tpl
	}
	for name, content := range files {
		if err := writeIfMissing(filepath.Join(s.dir, name), content); err != nil {
			logger.Debug("prompt store: %v", err)
			return err
		}
	}
	return nil
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
