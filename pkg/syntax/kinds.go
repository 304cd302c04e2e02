package syntax

import (
	tree_sitter_fortran "github.com/stadelmanma/tree-sitter-fortran/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// fortran is loaded once and shared read-only by every parser and query.
var fortran = tree_sitter.NewLanguage(tree_sitter_fortran.Language())

// Language returns the Fortran grammar.
func Language() *tree_sitter.Language { return fortran }

// Node kinds of the Fortran grammar that rules refer to.
const (
	KindTranslationUnit    = "translation_unit"
	KindProgram            = "program"
	KindModule             = "module"
	KindSubmodule          = "submodule"
	KindFunction           = "function"
	KindSubroutine         = "subroutine"
	KindInterface          = "interface"
	KindInternalProcedures = "internal_procedures"

	KindProgramStatement       = "program_statement"
	KindModuleStatement        = "module_statement"
	KindFunctionStatement      = "function_statement"
	KindSubroutineStatement    = "subroutine_statement"
	KindImplicitStatement      = "implicit_statement"
	KindUseStatement           = "use_statement"
	KindImportStatement        = "import_statement"
	KindContainsStatement      = "contains_statement"
	KindVariableDeclaration    = "variable_declaration"
	KindEndProgramStatement    = "end_program_statement"
	KindEndModuleStatement     = "end_module_statement"
	KindEndSubmoduleStatement  = "end_submodule_statement"
	KindEndFunctionStatement   = "end_function_statement"
	KindEndSubroutineStatement = "end_subroutine_statement"

	KindName    = "name"
	KindNone    = "none"
	KindComment = "comment"
	KindError   = "ERROR"
)

// IsKnownKind reports whether kind is a named node kind of the grammar.
func IsKnownKind(kind string) bool {
	return fortran.IdForNodeKind(kind, true) != 0
}
