// Package syntax parses free-form Fortran with the tree-sitter Fortran
// grammar and exposes the result as an immutable tree of Nodes.
//
// A module with one contained function parses as
//
//	(translation_unit
//	  (module
//	    (module_statement (name))
//	    (implicit_statement (none))
//	    (internal_procedures
//	      (contains_statement)
//	      (function
//	        (function_statement (name) ...)
//	        ...
//	        (end_function_statement)))
//	    (end_module_statement (name))))
//
// Keywords are unnamed leaves whose kind is the lowercased keyword, so END
// MODULE carries an empty "module" leaf next to the named module node.
//
// Structural patterns are matched with tree-sitter queries, see Query.
package syntax

import (
	"bytes"
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/leapstack-labs/fortlint/pkg/token"
)

// Parse parses src. A tree with syntax errors is not returned: the first
// error is reported as *ParseError instead. The caller must Close the tree.
func Parse(src []byte) (*Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(fortran); err != nil {
		return nil, fmt.Errorf("load fortran grammar: %w", err)
	}

	raw := parser.Parse(src, nil)
	if raw == nil {
		return nil, &ParseError{Pos: token.Position{Line: 1, Column: 1}, Message: "parser returned no tree"}
	}
	t := &Tree{src: src, raw: raw}
	if err := t.firstError(); err != nil {
		t.Close()
		return nil, err
	}
	t.comments = t.collectComments()
	return t, nil
}

// firstError locates the first ERROR or MISSING node in source order.
func (t *Tree) firstError() error {
	root := t.Root()
	if !root.raw.HasError() {
		return nil
	}
	c := NewCursor(root)
	defer c.Close()
	for n, ok := c.Next(); ok; n, ok = c.Next() {
		switch {
		case n.raw.IsMissing():
			return &ParseError{Pos: n.Position(), Message: "missing " + strings.ReplaceAll(n.Kind(), "_", " ")}
		case n.raw.IsError():
			return &ParseError{Pos: n.Position(), Message: unexpected(n.Text())}
		case !n.raw.HasError():
			c.SkipChildren()
		}
	}
	return &ParseError{Pos: root.Position(), Message: "invalid syntax"}
}

// maxExcerpt bounds the source quoted in a parse error.
const maxExcerpt = 40

func unexpected(text []byte) string {
	line, _, _ := bytes.Cut(bytes.TrimSpace(text), []byte{'\n'})
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return "unexpected end of input"
	}
	excerpt := string(line)
	if len(excerpt) > maxExcerpt {
		excerpt = excerpt[:maxExcerpt] + "..."
	}
	return fmt.Sprintf("unexpected %q", excerpt)
}

func (t *Tree) collectComments() []*token.Comment {
	var out []*token.Comment
	for n := range OfKind(t.Root(), KindComment) {
		text := string(n.Text())
		out = append(out, &token.Comment{
			Kind: token.ClassifyComment(text),
			Text: text,
			Span: n.Span(),
		})
	}
	return out
}
