package typing

import (
	"bytes"
	"fmt"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// superfluousQuery matches a scope with 'implicit none' and one contained
// procedure repeating it. Each repeating procedure is its own match.
const superfluousQuery = `
(%s
  (implicit_statement (none))
  (internal_procedures
    [(function (implicit_statement (none)) @inner)
     (subroutine (implicit_statement (none)) @inner)])) @scope
`

// SuperfluousImplicitNone detects 'implicit none' that is already set on the
// enclosing scope.
func SuperfluousImplicitNone(*lint.Settings) lint.RuleDef {
	queries := make([]string, 0, len(ast.ProgramUnits))
	for _, kind := range ast.ProgramUnits {
		queries = append(queries, fmt.Sprintf(superfluousQuery, kind))
	}
	return lint.RuleDef{
		Code:    "T003",
		Name:    "superfluous-implicit-none",
		Group:   "typing",
		Summary: "'implicit none' is not needed in contained procedures.",
		Explanation: `If a module, submodule or program has 'implicit none' set, it is not
necessary to set it in contained functions and subroutines. Interface
bodies are the exception, see T002.`,
		Fix: lint.FixSometimes,
		Method: lint.QueryMethod{
			Queries: queries,
			Report:  reportSuperfluousImplicitNone,
		},
	}
}

func reportSuperfluousImplicitNone(m syntax.Match, file *source.File) []lint.Violation {
	scope, ok := m.Node("scope")
	if !ok {
		return nil
	}
	msg := fmt.Sprintf("'implicit none' is set on the enclosing %s, and isn't needed here", scope.Kind())
	var out []lint.Violation
	for _, inner := range m.Nodes("inner") {
		v := lint.NodeViolation(file, inner, msg)
		if ast.AloneOnLine(file, inner) {
			v = v.WithFix(lint.SafeFix("Remove `implicit none`", removeStatementLine(file, inner)))
		}
		out = append(out, v)
	}
	return out
}

// removeStatementLine deletes the line holding n by joining it onto the line
// above. Trailing blanks of the deleted line stay in place so that a
// trailing-whitespace fix on the same line composes with this one.
func removeStatementLine(file *source.File, n syntax.Node) lint.Edit {
	line := file.Position(n.StartByte()).Line
	if line == 1 {
		return lint.Deletion(file.LineStart(line), file.FullLineEnd(line))
	}
	content := file.LineStart(line) + len(bytes.TrimRight(file.Line(line), " \t\r"))
	return lint.Deletion(file.LineEnd(line-1), content)
}
