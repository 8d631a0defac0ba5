package chunker

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Span is one window of a split, addressed by rune offsets.
type Span struct {
	Start int
	End   int
	Text  string
}

// separatorTiers are tried in order when the boundary policy is semantic.
// Within a tier the latest break wins.
var separatorTiers = [][][]rune{
	{[]rune("\n\n")},
	{[]rune("\n")},
	{[]rune(". "), []rune("! "), []rune("? ")},
	{[]rune(" ")},
}

// Split cuts text into windows of at most size runes where consecutive
// windows share exactly overlap runes. The final window may be shorter.
//
// With domain.ChunkBoundarySemantic a cut is pulled back to just after the
// last paragraph, line, sentence or word break in the window, provided the
// shortened window still extends past max(size/2, overlap). Otherwise the cut
// is made at size. Windows never grow past size.
//
// Empty or whitespace-only text yields no spans.
func Split(text string, size, overlap int, boundary domain.ChunkBoundary) ([]Span, error) {
	if err := validate(size, overlap, boundary); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	n := len(runes)
	spans := make([]Span, 0, n/(size-overlap)+1)

	start := 0
	for {
		end := n
		if n-start > size {
			end = start + size
			if boundary == domain.ChunkBoundarySemantic {
				end = snap(runes, start, end, max(size/2, overlap))
			}
		}

		spans = append(spans, Span{Start: start, End: end, Text: string(runes[start:end])})
		if end >= n {
			break
		}
		start = end - overlap
	}

	return spans, nil
}

// snap returns the semantic cut for the window runes[start:end], or end
// when no separator leaves more than minLen runes in the window.
func snap(runes []rune, start, end, minLen int) int {
	floor := start + minLen
	for _, tier := range separatorTiers {
		best := -1
		for _, sep := range tier {
			if cut := lastCut(runes, start, end, sep); cut > best {
				best = cut
			}
		}
		if best > floor {
			return best
		}
	}
	return end
}

// lastCut returns the offset just past the last occurrence of sep that lies
// entirely inside runes[start:end], or -1.
func lastCut(runes []rune, start, end int, sep []rune) int {
	for i := end - len(sep); i >= start; i-- {
		if hasPrefix(runes[i:], sep) {
			return i + len(sep)
		}
	}
	return -1
}

func hasPrefix(s, prefix []rune) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}

func validate(size, overlap int, boundary domain.ChunkBoundary) error {
	return domain.ChunkingSettings{Size: size, Overlap: overlap, Boundary: boundary}.Validate()
}

// Reconstruct rebuilds the source text from spans produced with the given
// overlap by dropping the shared prefix of every span after the first.
func Reconstruct(spans []Span, overlap int) (string, error) {
	var b strings.Builder
	for i, s := range spans {
		r := []rune(s.Text)
		if i == 0 {
			b.WriteString(s.Text)
			continue
		}
		if s.Start != spans[i-1].End-overlap {
			return "", fmt.Errorf("span %d starts at %d, want %d", i, s.Start, spans[i-1].End-overlap)
		}
		b.WriteString(string(r[overlap:]))
	}
	return b.String(), nil
}
