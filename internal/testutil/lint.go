package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/source"
)

// Finding is the comparable part of a violation.
type Finding struct {
	Line, Column int
	Message      string
}

func newChecker(t testing.TB, s *lint.Settings, ctor lint.RuleFunc) (*lint.Checker, lint.RuleSet) {
	t.Helper()
	if s == nil {
		s = lint.DefaultSettings()
	}
	reg, err := lint.NewRegistry(s, ctor)
	require.NoError(t, err)
	return lint.NewChecker(reg), lint.NewRuleSet(reg.Codes()...)
}

// CheckRule runs a single rule over src and returns its violations.
func CheckRule(t testing.TB, s *lint.Settings, ctor lint.RuleFunc, src string) []lint.Violation {
	t.Helper()
	checker, rs := newChecker(t, s, ctor)
	res, err := checker.Check(source.New("test.f90", []byte(src)), rs)
	require.NoError(t, err)
	return res.Violations
}

// Findings reduces violations to their start position and message.
func Findings(vs []lint.Violation) []Finding {
	out := make([]Finding, 0, len(vs))
	for _, v := range vs {
		out = append(out, Finding{v.Span.Start.Line, v.Span.Start.Column, v.Message})
	}
	return out
}

// FixRule applies the fixes of a single rule to src until stable and
// returns the fixed text.
func FixRule(t testing.TB, s *lint.Settings, ctor lint.RuleFunc, src string, unsafe bool) string {
	t.Helper()
	checker, rs := newChecker(t, s, ctor)
	res, err := checker.FixFile(source.New("test.f90", []byte(src)), rs, unsafe)
	require.NoError(t, err)
	return string(res.Text)
}
