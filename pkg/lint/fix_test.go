package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

func fixed(code string, f *Fix) Violation {
	return Violation{Code: code, Message: code, Fix: f}
}

func TestApplyFixes(t *testing.T) {
	src := []byte("abcdefghij")
	vs := []Violation{
		fixed("A001", SafeFix("x", Replacement(0, 2, "AB"))),
		fixed("A002", SafeFix("x", Deletion(4, 6), Insertion(8, "--"))),
		fixed("A003", UnsafeFix("x", Insertion(10, "!"))),
		{Code: "A004", Message: "no fix"},
	}

	out, applied, err := ApplyFixes(src, vs, false)
	require.NoError(t, err)
	assert.Equal(t, "ABcdgh--ij", string(out))
	assert.Len(t, applied, 2)
	assert.Equal(t, "abcdefghij", string(src), "input is not modified")

	out, applied, err = ApplyFixes(src, vs, true)
	require.NoError(t, err)
	assert.Equal(t, "ABcdgh--ij!", string(out))
	assert.Len(t, applied, 3)
}

func TestApplyFixesInsertionsAtSameOffset(t *testing.T) {
	out, _, err := ApplyFixes([]byte("ab"), []Violation{
		fixed("A001", SafeFix("x", Insertion(1, "1"))),
		fixed("A002", SafeFix("x", Insertion(1, "2"))),
		fixed("A003", SafeFix("x", Deletion(1, 2))),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "a12", string(out))
}

func TestApplyFixesOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Edit
	}{
		{"overlapping ranges", Deletion(0, 4), Deletion(3, 6)},
		{"insertion inside deletion", Deletion(0, 4), Insertion(2, "x")},
		{"same range", Replacement(2, 3, "x"), Replacement(2, 3, "y")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ApplyFixes([]byte("abcdefgh"), []Violation{
				fixed("A001", SafeFix("a", tt.a)),
				fixed("A002", SafeFix("b", tt.b)),
			}, false)
			var oe *OverlapError
			require.ErrorAs(t, err, &oe)
			assert.Contains(t, oe.Error(), "A001")
		})
	}
}

func TestApplyFixesOutOfRange(t *testing.T) {
	_, _, err := ApplyFixes([]byte("ab"), []Violation{fixed("A001", SafeFix("x", Deletion(1, 5)))}, false)
	assert.Error(t, err)
}

func TestApplyFixesNothingApplicable(t *testing.T) {
	src := []byte("ab")
	out, applied, err := ApplyFixes(src, []Violation{fixed("A001", UnsafeFix("x", Deletion(0, 1)))}, false)
	require.NoError(t, err)
	assert.Equal(t, src, out)
	assert.Empty(t, applied)
}

func TestFixFileIdempotent(t *testing.T) {
	checker, rs := newChecker(t, trailingSpaceRule("B001"), nodeRule("A001", syntax.KindFunction, false))
	file := source.New("m.f90", []byte(checkerSource))

	res, err := checker.FixFile(file, rs, false)
	require.NoError(t, err)
	assert.True(t, res.Changed())
	require.Len(t, res.Fixed, 1)
	assert.Equal(t, "B001", res.Fixed[0].Code)
	assert.NotContains(t, string(res.Text), "  \n")
	require.Len(t, res.Remaining.Violations, 1)
	assert.Equal(t, "A001", res.Remaining.Violations[0].Code)

	again, err := checker.FixFile(source.New("m.f90", res.Text), rs, false)
	require.NoError(t, err)
	assert.False(t, again.Changed())
	assert.Equal(t, res.Text, again.Text)
}

func TestFixFileParseError(t *testing.T) {
	checker, rs := newChecker(t, trailingSpaceRule("B001"))
	_, err := checker.FixFile(source.New("bad.f90", []byte("subroutine s()\n  x = = 1\nend subroutine s\n")), rs, false)
	var pe *syntax.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestFixFileBreakingFixIsRejected(t *testing.T) {
	breaker := func(*Settings) RuleDef {
		return RuleDef{Code: "X001", Fix: FixAlways, Method: TreeMethod{Check: func(root syntax.Node, file *source.File) []Violation {
			end := len(file.Text)
			v := NewViolation(file, 0, end, "drop everything but the header")
			return []Violation{v.WithFix(SafeFix("truncate", Deletion(len("module m\n"), end)))}
		}}}
	}
	checker, rs := newChecker(t, breaker)
	_, err := checker.FixFile(source.New("m.f90", []byte(checkerSource)), rs, false)
	var pe *syntax.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "fixes produced invalid source")
}
