// Package source holds Fortran source text together with the line index used
// to turn byte offsets into line and column positions.
package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"sort"

	"github.com/leapstack-labs/fortlint/pkg/token"
)

// File is an immutable source file. Columns are 1-based byte columns.
type File struct {
	Name string
	Text []byte
	Hash [32]byte

	lineStarts []int
}

// New creates a File from in-memory text.
func New(name string, text []byte) *File {
	return &File{
		Name:       name,
		Text:       text,
		Hash:       sha256.Sum256(text),
		lineStarts: buildLineIndex(text),
	}
}

// Load reads a file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // paths come from discovery
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return New(path, data), nil
}

func buildLineIndex(text []byte) []int {
	starts := make([]int, 1, bytes.Count(text, []byte{'\n'})+1)
	for i, b := range text {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// LineCount returns the number of lines. A trailing newline does not start a
// new line unless text follows it.
func (f *File) LineCount() int {
	n := len(f.lineStarts)
	if n > 1 && f.lineStarts[n-1] == len(f.Text) {
		return n - 1
	}
	return n
}

// Position converts a byte offset to a position. Offsets outside the text are
// clamped to its bounds.
func (f *File) Position(offset int) token.Position {
	offset = max(0, min(offset, len(f.Text)))
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	return token.Position{
		Line:   line + 1,
		Column: offset - f.lineStarts[line] + 1,
		Offset: offset,
	}
}

// Span converts a byte range to a span.
func (f *File) Span(start, end int) token.Span {
	return token.Span{Start: f.Position(start), End: f.Position(end)}
}

// Offset converts a 1-based line and column back to a byte offset.
func (f *File) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(f.lineStarts) || col < 1 {
		return 0, false
	}
	off := f.lineStarts[line-1] + col - 1
	if off > f.lineEnd(line-1, true) {
		return 0, false
	}
	return off, true
}

// LineStart returns the offset of the first byte of a 1-based line.
func (f *File) LineStart(line int) int {
	return f.lineStarts[line-1]
}

// LineEnd returns the offset just past the last byte of the line's content,
// excluding the line terminator.
func (f *File) LineEnd(line int) int {
	return f.lineEnd(line-1, false)
}

func (f *File) lineEnd(idx int, withNewline bool) int {
	end := len(f.Text)
	if idx+1 < len(f.lineStarts) {
		end = f.lineStarts[idx+1] - 1
		if withNewline {
			return end
		}
	}
	if end > f.lineStarts[idx] && f.Text[end-1] == '\r' {
		end--
	}
	return end
}

// Line returns the content of a 1-based line without its terminator.
func (f *File) Line(line int) []byte {
	return f.Text[f.LineStart(line):f.LineEnd(line)]
}

// FullLineEnd returns the offset just past the line's '\n', or the end of the
// text for the last line.
func (f *File) FullLineEnd(line int) int {
	if line < len(f.lineStarts) {
		return f.lineStarts[line]
	}
	return len(f.Text)
}
