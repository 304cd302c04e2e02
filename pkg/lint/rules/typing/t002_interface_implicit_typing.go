package typing

import (
	"fmt"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// InterfaceImplicitTyping detects interface procedures that allow implicit
// typing.
func InterfaceImplicitTyping(*lint.Settings) lint.RuleDef {
	return lint.RuleDef{
		Code:    "T002",
		Name:    "interface-implicit-typing",
		Group:   "typing",
		Summary: "Interface procedures should set 'implicit none'.",
		Explanation: `Interface functions and subroutines require 'implicit none', even if they
are inside a module that uses 'implicit none'. An interface body does not
inherit the implicit rules of its host.`,
		Fix:    lint.FixAlways,
		Method: lint.TreeMethod{Check: checkInterfaceImplicitTyping},
	}
}

func checkInterfaceImplicitTyping(root syntax.Node, file *source.File) []lint.Violation {
	var out []lint.Violation
	for n := range syntax.OfKind(root, ast.Procedures...) {
		if !n.IsNamed() || n.Parent().Kind() != syntax.KindInterface || ast.HasImplicitNone(n) {
			continue
		}
		msg := fmt.Sprintf("interface %s missing 'implicit none'", n.Kind())
		out = append(out, lint.NodeViolation(file, ast.Header(n), msg).WithFix(insertImplicitNone(file, n)))
	}
	return out
}
