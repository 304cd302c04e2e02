package typing

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// ImplicitTyping detects modules and programs that allow implicit typing.
func ImplicitTyping(*lint.Settings) lint.RuleDef {
	return lint.RuleDef{
		Code:    "T001",
		Name:    "implicit-typing",
		Group:   "typing",
		Summary: "Modules and programs should set 'implicit none'.",
		Explanation: `'implicit none' should be used in all modules and programs, as implicit
typing reduces the readability of code and increases the chances of typing
errors.

The fix inserts 'implicit none' after the header and any 'use' statements.
It is unsafe: variables that relied on implicit typing will no longer
compile until they are declared.`,
		Fix:    lint.FixAlways,
		Method: lint.TreeMethod{Check: checkImplicitTyping},
	}
}

func checkImplicitTyping(root syntax.Node, file *source.File) []lint.Violation {
	var out []lint.Violation
	for n := range syntax.Descendants(root) {
		if !slices.Contains(ast.ProgramUnits, n.Kind()) {
			continue
		}
		// END MODULE carries an empty 'module' keyword leaf; only scopes
		// with content count.
		if n.ChildCount() == 0 || ast.HasImplicitNone(n) {
			continue
		}
		anchor := n
		if h := ast.Header(n); !h.IsNull() {
			anchor = h
		}
		msg := fmt.Sprintf("%s missing 'implicit none'", n.Kind())
		out = append(out, lint.NodeViolation(file, anchor, msg).WithFix(insertImplicitNone(file, n)))
	}
	return out
}
