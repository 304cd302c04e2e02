// Package ast provides syntax tree helpers shared by lint rules.
package ast

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// ProgramUnits are the scopes that can carry 'implicit none' for everything
// they contain.
var ProgramUnits = []string{syntax.KindModule, syntax.KindSubmodule, syntax.KindProgram}

// Procedures are the function and subroutine kinds.
var Procedures = []string{syntax.KindFunction, syntax.KindSubroutine}

// IsImplicitNone reports whether n is an 'implicit none' statement.
func IsImplicitNone(n syntax.Node) bool {
	return n.Kind() == syntax.KindImplicitStatement && !n.ChildOfKind(syntax.KindNone).IsNull()
}

// HasImplicitNone reports whether a direct child of n is 'implicit none'.
func HasImplicitNone(n syntax.Node) bool {
	found := false
	syntax.Walk(n, 1, func(c syntax.Node) bool {
		if c.Equal(n) {
			return true
		}
		found = found || IsImplicitNone(c)
		return false
	})
	return found
}

// Header returns the opening statement of a block, or a null node for an
// implicit main program.
func Header(n syntax.Node) syntax.Node {
	first := n.Child(0)
	if first.IsNull() || first.Kind() != n.Kind()+"_statement" {
		return syntax.Node{}
	}
	return first
}

// UnitName returns the name given in the block's opening statement.
func UnitName(n syntax.Node) string {
	h := Header(n)
	if h.IsNull() {
		return ""
	}
	name := h.ChildOfKind(syntax.KindName)
	if name.IsNull() {
		return ""
	}
	return string(name.Text())
}

// Indent returns the leading blanks of a line.
func Indent(file *source.File, line int) string {
	text := file.Line(line)
	return string(text[:len(text)-len(bytes.TrimLeft(text, " \t"))])
}

// ContentEnd returns the offset just past the last significant byte of a
// statement, before any trailing comment, blanks, newline or semicolon.
func ContentEnd(n syntax.Node) int {
	end := n.EndByte()
	kids := n.Children()
	for i := len(kids) - 1; i >= 0; i-- {
		if kids[i].Kind() != syntax.KindComment {
			end = kids[i].EndByte()
			break
		}
	}
	text := n.Text()[:end-n.StartByte()]
	return n.StartByte() + len(bytes.TrimRight(text, " \t\r\n;"))
}

// AloneOnLine reports whether n spans a single line and nothing else but
// blanks shares that line.
func AloneOnLine(file *source.File, n syntax.Node) bool {
	start, end := file.Position(n.StartByte()), file.Position(ContentEnd(n))
	if start.Line != end.Line {
		return false
	}
	line := strings.TrimSpace(string(file.Line(start.Line)))
	return line == string(file.Text[n.StartByte():ContentEnd(n)])
}
