package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortlint/pkg/token"
)

func namedKinds(n Node) []string {
	var out []string
	for _, c := range n.NamedChildren() {
		if c.Kind() != KindComment {
			out = append(out, c.Kind())
		}
	}
	return out
}

func mustParse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := Parse([]byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

const moduleSource = `module my_module
    implicit none
contains
    integer function double(x)
      integer, intent(in) :: x
      double = 2 * x
    end function

    subroutine triple(x)
      integer, intent(inout) :: x
      x = 3 * x
    end subroutine
end module
`

func TestParseModule(t *testing.T) {
	tree := mustParse(t, moduleSource)
	root := tree.Root()

	assert.Equal(t, KindTranslationUnit, root.Kind())
	require.Equal(t, []string{KindModule}, namedKinds(root))

	mod := root.NamedChildren()[0]
	assert.Equal(t, []string{KindModuleStatement, KindImplicitStatement, KindInternalProcedures, KindEndModuleStatement}, namedKinds(mod))
	assert.Equal(t, 0, mod.StartByte())
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, mod.Position())

	name := mod.ChildOfKind(KindModuleStatement).ChildOfKind(KindName)
	assert.Equal(t, "my_module", string(name.Text()))

	procs := mod.ChildOfKind(KindInternalProcedures)
	assert.Equal(t, []string{KindContainsStatement, KindFunction, KindSubroutine}, namedKinds(procs))
	assert.True(t, procs.Parent().Equal(mod))
	assert.False(t, procs.Equal(mod))

	fn := procs.ChildOfKind(KindFunction)
	assert.Equal(t, 4, fn.Position().Line)
	assert.Equal(t, 5, fn.Position().Column)
	assert.Equal(t, KindFunctionStatement, fn.NamedChildren()[0].Kind())
	assert.True(t, fn.NextSibling().Equal(procs.ChildOfKind(KindSubroutine)))
	assert.True(t, procs.ChildOfKind(KindSubroutine).PrevSibling().Equal(fn))

	impl := mod.ChildOfKind(KindImplicitStatement)
	assert.False(t, impl.ChildOfKind(KindNone).IsNull())
	assert.Equal(t, "implicit none", string(impl.Text()[:len("implicit none")]))
}

func TestParseEndModuleKeywordLeaf(t *testing.T) {
	tree := mustParse(t, "module a\nend module a\n")
	mod := tree.Root().NamedChildren()[0]
	end := mod.ChildOfKind(KindEndModuleStatement)
	require.False(t, end.IsNull())

	leaf := end.ChildOfKind(KindModule)
	require.False(t, leaf.IsNull(), end.String())
	assert.False(t, leaf.IsNamed())
	assert.Zero(t, leaf.ChildCount())

	var modules int
	for n := range OfKind(tree.Root(), KindModule) {
		if n.ChildCount() > 0 {
			modules++
		}
	}
	assert.Equal(t, 1, modules)
}

func TestParseError(t *testing.T) {
	for _, src := range []string{
		"subroutine s()\n  x = = 1\nend subroutine s\n",
		"subroutine s(\nend subroutine s\n",
	} {
		_, err := Parse([]byte(src))
		var pe *ParseError
		require.ErrorAs(t, err, &pe, src)
		assert.NotEmpty(t, pe.Message)
		assert.GreaterOrEqual(t, pe.Pos.Line, 1)
	}
}

func TestParseComments(t *testing.T) {
	src := "! leading\nmodule m ! noqa: T001\n  implicit none\n  !$omp barrier\nend module m\n"
	tree := mustParse(t, src)

	comments := tree.Comments()
	require.Len(t, comments, 3)
	assert.Equal(t, "! leading", comments[0].Text)
	assert.Equal(t, token.LineComment, comments[0].Kind)
	assert.Equal(t, 1, comments[0].Span.Start.Line)
	assert.Equal(t, "! noqa: T001", comments[1].Text)
	assert.Equal(t, token.LineComment, comments[1].Kind)
	assert.Equal(t, 2, comments[1].Span.Start.Line)
	assert.Equal(t, 10, comments[1].Span.Start.Column)
	assert.Equal(t, token.DirectiveComment, comments[2].Kind)
}

func TestParseEmpty(t *testing.T) {
	tree := mustParse(t, "")
	assert.Equal(t, KindTranslationUnit, tree.Root().Kind())
	assert.Empty(t, tree.Root().NamedChildren())
	assert.Empty(t, tree.Comments())
}

func TestTreeClose(t *testing.T) {
	tree, err := Parse([]byte("module m\nend module m\n"))
	require.NoError(t, err)
	tree.Close()
	tree.Close()
	assert.True(t, tree.Root().IsNull())
}

func TestNullNode(t *testing.T) {
	var n Node
	assert.True(t, n.IsNull())
	assert.Empty(t, n.Kind())
	assert.Nil(t, n.Text())
	assert.Nil(t, n.Children())
	assert.True(t, n.Parent().IsNull())
	assert.True(t, n.Child(0).IsNull())
	assert.Equal(t, "<null>", n.String())
	assert.True(t, n.Equal(Node{}))
}

func TestIsKnownKind(t *testing.T) {
	for _, kind := range []string{KindModule, KindFunction, KindImplicitStatement, KindEndModuleStatement} {
		assert.True(t, IsKnownKind(kind), kind)
	}
	assert.False(t, IsKnownKind("not_a_kind"))
}
