// Package plaintext loads UTF-8 text files as documents.
package plaintext

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

const bom = "\ufeff"

// Loader reads plain text documents from the local filesystem.
type Loader struct {
	now func() time.Time
}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{now: time.Now}
}

// Load reads the file at path into a Document.
// A missing file returns an error wrapping domain.ErrDocumentNotFound.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty document path", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return l.Normalise(path, data), nil
}

// Normalise converts raw bytes read from uri into a Document.
// Invalid UTF-8 sequences are replaced and a leading byte order mark is dropped.
func (l *Loader) Normalise(uri string, data []byte) *domain.Document {
	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, string(utf8.RuneError))
	}
	content = strings.TrimPrefix(content, bom)

	return &domain.Document{
		ID:        DocumentID(uri),
		URI:       uri,
		Title:     extractTitle(uri),
		Content:   content,
		CreatedAt: l.now(),
	}
}

// DocumentID returns the stable identifier for a document at uri.
func DocumentID(uri string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(uri)).String()
}

// extractTitle extracts a human-readable title from a URI.
func extractTitle(uri string) string {
	filename := filepath.Base(uri)

	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
