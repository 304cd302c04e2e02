package style

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

var unitEnds = []string{
	"end_program_statement",
	"end_module_statement",
	"end_submodule_statement",
	"end_function_statement",
	"end_subroutine_statement",
}

// EndStatementWithoutName detects END statements of program units that do
// not repeat the unit's name.
func EndStatementWithoutName(*lint.Settings) lint.RuleDef {
	return lint.RuleDef{
		Code:    "S061",
		Name:    "end-statement-without-name",
		Group:   "style",
		Summary: "END statements should name the unit they close.",
		Explanation: `'end', 'end module' and the like are easy to misplace when units are long.
Writing 'end module my_module' lets the compiler check that the right unit is
being closed.`,
		Fix:     lint.FixAlways,
		Preview: true,
		Method: lint.NodeMethod{
			Entrypoints: unitEnds,
			Check:       checkEndStatement,
		},
	}
}

func checkEndStatement(n syntax.Node, file *source.File) []lint.Violation {
	if !n.ChildOfKind(syntax.KindName).IsNull() {
		return nil
	}
	name := ast.UnitName(n.Parent())
	if name == "" {
		return nil
	}
	keyword := strings.ReplaceAll(strings.TrimSuffix(strings.TrimPrefix(n.Kind(), "end_"), "_statement"), "_", " ")
	insert := " " + name
	end := ast.ContentEnd(n)
	if strings.EqualFold(strings.TrimSpace(string(file.Text[n.StartByte():end])), "end") {
		insert = " " + keyword + insert
	}
	msg := fmt.Sprintf("end statement should read 'end %s %s'", keyword, name)
	v := lint.NodeViolation(file, n, msg)
	return []lint.Violation{v.WithFix(lint.SafeFix("Add name to end statement", lint.Insertion(end, insert)))}
}
