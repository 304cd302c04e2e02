package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) *Query {
	t.Helper()
	q, err := CompileQuery(src)
	require.NoError(t, err)
	t.Cleanup(q.Close)
	return q
}

func TestQueryAnonymousKeyword(t *testing.T) {
	tree := mustParse(t, "module a\nend module a\nmodule b\nend module b\n")
	q := mustCompile(t, `"module" @kw`)

	matches := q.Matches(tree.Root())
	require.Len(t, matches, 4, "opening and closing keyword of each module")
	for _, m := range matches {
		kw, ok := m.Node("kw")
		require.True(t, ok)
		assert.False(t, kw.IsNamed())
		assert.Zero(t, kw.ChildCount())
	}
}

func TestQueryParenthesizedKeywordDoesNotPanic(t *testing.T) {
	tree := mustParse(t, "module a\nend module a\n")
	assert.NotPanics(t, func() {
		q, err := CompileQuery(`("module") @kw`)
		if err != nil {
			var qe *QueryError
			assert.ErrorAs(t, err, &qe)
			return
		}
		defer q.Close()
		for _, m := range q.Matches(tree.Root()) {
			for _, c := range m.Captures {
				assert.Equal(t, KindModule, c.Node.Kind())
			}
		}
	})
}

func TestQueryNested(t *testing.T) {
	src := `module m
    implicit none
contains
    subroutine s()
        implicit none
    end subroutine s
    subroutine t()
    end subroutine t
    integer function f()
        implicit none
        f = 1
    end function f
end module m
`
	tree := mustParse(t, src)
	q := mustCompile(t, `
(module
  (implicit_statement (none))
  (internal_procedures
    [(function (implicit_statement (none)) @inner)
     (subroutine (implicit_statement (none)) @inner)])) @scope
`)
	assert.Equal(t, 1, q.PatternCount())
	assert.Equal(t, []string{"inner", "scope"}, q.CaptureNames())

	var lines []int
	for _, m := range q.Matches(tree.Root()) {
		scope, ok := m.Node("scope")
		require.True(t, ok)
		assert.Equal(t, KindModule, scope.Kind())
		require.Len(t, m.Nodes("inner"), 1)
		lines = append(lines, m.Nodes("inner")[0].Position().Line)
		assert.Equal(t, KindModule, m.Captures[0].Node.Kind(), "captures are in source order")
	}
	assert.ElementsMatch(t, []int{5, 10}, lines)
}

func TestQueryNoMatch(t *testing.T) {
	tree := mustParse(t, "program p\nend program p\n")
	q := mustCompile(t, `(module) @m`)
	assert.Empty(t, q.Matches(tree.Root()))
	assert.Empty(t, q.Matches(Node{}))
}

func TestCompileQueryErrors(t *testing.T) {
	for _, src := range []string{
		"(function",
		"(not_a_kind) @x",
		"(module (not_a_kind))",
	} {
		_, err := CompileQuery(src)
		var qe *QueryError
		require.ErrorAs(t, err, &qe, src)
		assert.GreaterOrEqual(t, qe.Line, 1)
		assert.Contains(t, qe.Error(), "query error at")
	}
}

func TestQueryString(t *testing.T) {
	q := mustCompile(t, `(module) @m`)
	assert.Equal(t, `(module) @m`, q.String())
}
