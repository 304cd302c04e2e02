package token

import "strings"

// CommentKind distinguishes plain comments from compiler directives.
type CommentKind int

// Comment kinds.
const (
	LineComment      CommentKind = iota // ! comment
	DirectiveComment                    // !$omp, !dir$, !gcc$
)

// Comment represents a Fortran comment with position.
type Comment struct {
	Kind CommentKind
	Text string // includes the leading '!'
	Span Span
}

// IsLineComment returns true if this is an ordinary '!' comment.
func (c *Comment) IsLineComment() bool {
	return c.Kind == LineComment
}

// Body returns the comment text without its delimiter and surrounding space.
func (c *Comment) Body() string {
	return strings.TrimSpace(strings.TrimLeft(c.Text, "!"))
}

// ClassifyComment returns the kind of a comment given its full text.
func ClassifyComment(text string) CommentKind {
	lower := strings.ToLower(text)
	for _, prefix := range []string{"!$", "!dir$", "!dec$", "!gcc$", "!ibm*", "!pgi$"} {
		if strings.HasPrefix(lower, prefix) {
			return DirectiveComment
		}
	}
	return LineComment
}
