package lsp

import (
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Document represents an open text document in the editor.
type Document struct {
	URI     string // Document URI (file:///path/to/file.f90)
	Content string // Full document content
	Version int    // Version number, incremented on each change
	Lines   []int  // Byte offsets of line starts for fast position lookups
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document.
func (s *DocumentStore) Open(uri, content string, version int) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := newDocument(uri, content, version)
	s.documents[uri] = doc
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get retrieves a document by URI. Documents are replaced, never mutated,
// so the result is safe to read without the lock.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[uri]
}

// Update replaces the content of an open document. It returns nil when the
// document is not open.
func (s *DocumentStore) Update(uri, content string, version int) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[uri]; !ok {
		return nil
	}
	doc := newDocument(uri, content, version)
	s.documents[uri] = doc
	return doc
}

func newDocument(uri, content string, version int) *Document {
	return &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   computeLineOffsets(content),
	}
}

// computeLineOffsets calculates byte offsets for each line start.
func computeLineOffsets(content string) []int {
	offsets := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// lineEnd is the byte offset of the end of line, before its newline.
func (d *Document) lineEnd(line int) int {
	if line+1 < len(d.Lines) {
		return d.Lines[line+1] - 1
	}
	return len(d.Content)
}

// PositionToOffset converts a Position to a byte offset. Characters past
// the end of the line clamp to the line end.
func (d *Document) PositionToOffset(pos Position) int {
	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}
	start, end := d.Lines[line], d.lineEnd(line)
	units := int(pos.Character)
	offset := start
	for offset < end && units > 0 {
		r, size := utf8.DecodeRuneInString(d.Content[offset:end])
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if n > units {
			break
		}
		units -= n
		offset += size
	}
	return offset
}

// OffsetToPosition converts a byte offset to a Position.
func (d *Document) OffsetToPosition(offset int) Position {
	offset = max(0, min(offset, len(d.Content)))
	line := sort.Search(len(d.Lines), func(i int) bool { return d.Lines[i] > offset }) - 1

	units := 0
	for _, r := range d.Content[d.Lines[line]:offset] {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units += n
	}
	return Position{
		Line:      safecast.MustConv[uint32](line),
		Character: safecast.MustConv[uint32](units),
	}
}

// Range converts the byte range [start, end) to a Range.
func (d *Document) Range(start, end int) Range {
	return Range{Start: d.OffsetToPosition(start), End: d.OffsetToPosition(end)}
}

// GetLine returns the content of a specific line, without its newline.
func (d *Document) GetLine(line int) string {
	if line < 0 || line >= len(d.Lines) {
		return ""
	}
	return strings.TrimSuffix(d.Content[d.Lines[line]:d.lineEnd(line)], "\r")
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return filepath.FromSlash(u.Path)
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
