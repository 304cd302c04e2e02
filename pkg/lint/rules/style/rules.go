package style

import "github.com/leapstack-labs/fortlint/pkg/lint"

// Rules lists the constructors of this package's rules.
var Rules = []lint.RuleFunc{
	LineTooLong,
	EndStatementWithoutName,
	TrailingWhitespace,
}
