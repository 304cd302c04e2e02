package lint

import (
	"bytes"
	"cmp"

	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
	"github.com/leapstack-labs/fortlint/pkg/token"
)

// Applicability tells whether a fix can be applied without review.
type Applicability int

// Applicability levels.
const (
	// Safe fixes preserve the meaning of the program.
	Safe Applicability = iota
	// Unsafe fixes may change behavior and are applied only on request.
	Unsafe
)

// String returns the string representation of the applicability.
func (a Applicability) String() string {
	if a == Unsafe {
		return "unsafe"
	}
	return "safe"
}

// FixAvailability declares whether a rule offers fixes.
type FixAvailability int

// Fix availability levels.
const (
	FixNone FixAvailability = iota
	FixSometimes
	FixAlways
)

// String returns the string representation of the fix availability.
func (f FixAvailability) String() string {
	switch f {
	case FixSometimes:
		return "sometimes"
	case FixAlways:
		return "always"
	default:
		return "none"
	}
}

// Edit replaces the bytes in [Start, End) with Content. Start == End is an
// insertion.
type Edit struct {
	Start   int    `json:"start" msgpack:"s"`
	End     int    `json:"end" msgpack:"e"`
	Content string `json:"content" msgpack:"c"`
}

// Insertion returns an edit inserting content at offset.
func Insertion(offset int, content string) Edit {
	return Edit{Start: offset, End: offset, Content: content}
}

// Deletion returns an edit deleting [start, end).
func Deletion(start, end int) Edit {
	return Edit{Start: start, End: end}
}

// Replacement returns an edit replacing [start, end) with content.
func Replacement(start, end int, content string) Edit {
	return Edit{Start: start, End: end, Content: content}
}

// Fix is a set of non-overlapping edits that resolves one violation.
type Fix struct {
	Description   string        `json:"message" msgpack:"d"`
	Applicability Applicability `json:"applicability" msgpack:"a"`
	Edits         []Edit        `json:"edits" msgpack:"ed"`
}

// SafeFix builds a Safe fix.
func SafeFix(description string, edits ...Edit) *Fix {
	return &Fix{Description: description, Applicability: Safe, Edits: edits}
}

// UnsafeFix builds an Unsafe fix.
func UnsafeFix(description string, edits ...Edit) *Fix {
	return &Fix{Description: description, Applicability: Unsafe, Edits: edits}
}

// Applies reports whether the fix is applied when unsafe fixes are or are
// not allowed.
func (f *Fix) Applies(unsafe bool) bool {
	return f != nil && (f.Applicability == Safe || unsafe)
}

// Violation is a single finding. Code is stamped by the Checker from the
// rule that reported it.
type Violation struct {
	Code    string     `json:"code" msgpack:"code"`
	Message string     `json:"message" msgpack:"msg"`
	Span    token.Span `json:"span" msgpack:"span"`
	Fix     *Fix       `json:"fix,omitempty" msgpack:"fix,omitempty"`
}

// NewViolation reports msg over the byte range [start, end) of file.
func NewViolation(file *source.File, start, end int, msg string) Violation {
	return Violation{Message: msg, Span: file.Span(start, end)}
}

// NodeViolation reports msg over the range of node n.
func NodeViolation(file *source.File, n syntax.Node, msg string) Violation {
	// statements own their terminating newline
	end := n.StartByte() + len(bytes.TrimRight(n.Text(), " \t\r\n"))
	return NewViolation(file, n.StartByte(), end, msg)
}

// WithFix attaches a fix to the violation.
func (v Violation) WithFix(f *Fix) Violation {
	v.Fix = f
	return v
}

// Compare orders violations by start line, start column, then code.
func Compare(a, b Violation) int {
	return cmp.Or(
		cmp.Compare(a.Span.Start.Line, b.Span.Start.Line),
		cmp.Compare(a.Span.Start.Column, b.Span.Start.Column),
		cmp.Compare(a.Code, b.Code),
	)
}

// identity is the key violations are deduplicated on.
type identity struct {
	span      token.Span
	code, msg string
}

func (v Violation) identity() identity {
	return identity{v.Span, v.Code, v.Message}
}
