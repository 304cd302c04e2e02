package syntax

import (
	"fmt"

	"github.com/leapstack-labs/fortlint/pkg/token"
)

// ParseError represents a syntax error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}
