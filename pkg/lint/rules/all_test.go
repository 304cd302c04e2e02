package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules"
	"github.com/leapstack-labs/fortlint/pkg/source"
)

func TestDefaultCatalog(t *testing.T) {
	reg, err := rules.Default(lint.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, []string{"M001", "S001", "S061", "S101", "T001", "T002", "T003"}, reg.Codes())
	assert.Equal(t, []string{"modules", "style", "typing"}, reg.Groups())
	assert.Equal(t, []string{"M001"}, reg.NodeRulesFor("function"))

	for _, r := range reg.Rules() {
		info := lint.GetRuleInfo(r)
		assert.NotEmpty(t, info.Summary, r.Code())
		assert.NotEmpty(t, r.Explain(), r.Code())
	}
}

func TestCatalogEndToEnd(t *testing.T) {
	src := "\n" +
		"subroutine external(x)\n" +
		"  integer :: x \n" +
		"end subroutine\n" +
		"\n" +
		"module m\n" +
		"contains\n" +
		"  subroutine s()\n" +
		"  end subroutine s\n" +
		"end module m\n"

	s := lint.DefaultSettings()
	reg, err := rules.Default(s)
	require.NoError(t, err)
	res, err := lint.NewResolver(reg, s)
	require.NoError(t, err)

	checker := lint.NewChecker(reg)
	file := source.New("a.f90", []byte(src))
	result, err := checker.Check(file, res.ForFile(file.Name))
	require.NoError(t, err)

	var codes []string
	for _, v := range result.Violations {
		codes = append(codes, v.Code)
	}
	assert.Equal(t, []string{"M001", "S101", "T001"}, codes)

	again, err := checker.Check(file, res.ForFile(file.Name))
	require.NoError(t, err)
	assert.Equal(t, result.Violations, again.Violations)
}

func TestSuperfluousImplicitNoneComposesWithTrailingWhitespace(t *testing.T) {
	src := "module m\n" +
		"  implicit none\n" +
		"contains\n" +
		"  subroutine s()\n" +
		"    implicit none   \n" +
		"  end subroutine s\n" +
		"end module m\n"

	reg, err := rules.Default(lint.DefaultSettings())
	require.NoError(t, err)
	checker := lint.NewChecker(reg)
	rs := lint.NewRuleSet("S101", "T003")

	res, err := checker.FixFile(source.New("a.f90", []byte(src)), rs, false)
	require.NoError(t, err)
	assert.Equal(t, "module m\n"+
		"  implicit none\n"+
		"contains\n"+
		"  subroutine s()\n"+
		"  end subroutine s\n"+
		"end module m\n", string(res.Text))
	assert.Empty(t, res.Remaining.Violations)
	assert.Len(t, res.Fixed, 2)
}
