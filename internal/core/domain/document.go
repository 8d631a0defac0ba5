package domain

import (
	"strings"
	"time"
)

// Document is the single text the pipeline answers questions about.
// It is immutable once loaded.
type Document struct {
	// ID is a stable identifier derived from the URI.
	ID string

	// URI is the source location, typically a file path.
	URI string

	// Title is a human-readable name for display.
	Title string

	// Content is the raw text.
	Content string

	// CreatedAt is when the document was loaded.
	CreatedAt time.Time
}

// IsBlank reports whether the document has no non-whitespace content.
func (d *Document) IsBlank() bool {
	return strings.TrimSpace(d.Content) == ""
}

// Chunk is a contiguous substring of a Document.
// Start and End are rune offsets into Document.Content, End exclusive.
type Chunk struct {
	// ID is unique within the document ("<documentID>:<position>").
	ID string

	// DocumentID links the chunk to its parent document.
	DocumentID string

	// Content is the chunk text, exactly Content[Start:End] in runes.
	Content string

	// Position is the chunk's index in document order.
	Position int

	// Start is the rune offset of the first character.
	Start int

	// End is the rune offset one past the last character.
	End int
}

// Len returns the chunk length in runes.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// IsBlank reports whether the chunk holds only whitespace.
func (c Chunk) IsBlank() bool {
	return strings.TrimSpace(c.Content) == ""
}
