package modules

import (
	"fmt"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// ProcedureNotInModule detects external functions and subroutines.
func ProcedureNotInModule(*lint.Settings) lint.RuleDef {
	return lint.RuleDef{
		Code:    "M001",
		Name:    "procedure-not-in-module",
		Group:   "modules",
		Summary: "Procedures should be defined within modules or programs.",
		Explanation: `Functions and subroutines should be contained within (sub)modules or
programs. Fortran compilers are unable to perform type checks and conversions
on procedures defined outside of these scopes, and this is a common source of
bugs.

Move the procedure into a module and 'use' the module where it is called.`,
		Method: lint.NodeMethod{
			Entrypoints: ast.Procedures,
			Check:       checkProcedureNotInModule,
		},
	}
}

func checkProcedureNotInModule(n syntax.Node, file *source.File) []lint.Violation {
	if n.Parent().Kind() != syntax.KindTranslationUnit {
		return nil
	}
	anchor := n
	if h := ast.Header(n); !h.IsNull() {
		anchor = h
	}
	msg := fmt.Sprintf("%s not contained within (sub)module or program", n.Kind())
	return []lint.Violation{lint.NodeViolation(file, anchor, msg)}
}
