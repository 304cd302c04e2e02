package typing

import (
	"strings"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

const extraIndent = "    "

// insertImplicitNone adds 'implicit none' to a scope, after its header and
// any use or import statements. The statement takes the indentation of the
// statement that follows it.
func insertImplicitNone(file *source.File, scope syntax.Node) *lint.Fix {
	header := ast.Header(scope)
	anchor := header
	for next := header.NextSibling(); !next.IsNull(); next = next.NextSibling() {
		if k := next.Kind(); k != syntax.KindUseStatement && k != syntax.KindImportStatement {
			break
		}
		anchor = next
	}

	if anchor.IsNull() {
		// implicit main program: insert before its first statement
		line := file.Position(scope.StartByte()).Line
		indent := ast.Indent(file, line)
		return lint.UnsafeFix("Insert `implicit none`", lint.Insertion(file.LineStart(line), indent+"implicit none\n"))
	}

	at := file.FullLineEnd(file.Position(ast.ContentEnd(anchor)).Line)
	indent := ast.Indent(file, file.Position(header.StartByte()).Line) + extraIndent
	if next := anchor.NextSibling(); !next.IsNull() && isBodyStatement(next) {
		indent = ast.Indent(file, file.Position(next.StartByte()).Line)
	}
	content := indent + "implicit none\n"
	if at == len(file.Text) && !strings.HasSuffix(string(file.Text), "\n") {
		content = "\n" + content
	}
	return lint.UnsafeFix("Insert `implicit none`", lint.Insertion(at, content))
}

func isBodyStatement(n syntax.Node) bool {
	k := n.Kind()
	return k != syntax.KindInternalProcedures && !strings.HasPrefix(k, "end_")
}
