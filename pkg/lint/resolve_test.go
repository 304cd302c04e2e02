package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(nil,
		stubRule("E001", false), stubRule("E002", false), stubRule("F010", false),
		stubRule("S001", false), stubRule("S061", true))
	require.NoError(t, err)
	return reg
}

func sels(t *testing.T, s string) []Selector {
	t.Helper()
	out, err := ParseSelectors(s)
	require.NoError(t, err)
	return out
}

func TestResolverPrecedence(t *testing.T) {
	reg := testRegistry(t)
	tests := []struct {
		name     string
		settings func(s *Settings)
		want     RuleSet
	}{
		{
			name:     "defaults exclude preview",
			settings: func(*Settings) {},
			want:     RuleSet{"E001", "E002", "F010", "S001"},
		},
		{
			name:     "defaults include preview in preview mode",
			settings: func(s *Settings) { s.Preview = true },
			want:     RuleSet{"E001", "E002", "F010", "S001", "S061"},
		},
		{
			name: "select A, extend-select B, ignore A is B",
			settings: func(s *Settings) {
				s.Select = sels(t, "E001")
				s.ExtendSelect = sels(t, "F010")
				s.Ignore = sels(t, "E001")
			},
			want: RuleSet{"F010"},
		},
		{
			name:     "select replaces defaults",
			settings: func(s *Settings) { s.Select = sels(t, "E") },
			want:     RuleSet{"E001", "E002"},
		},
		{
			name:     "empty select selects nothing",
			settings: func(s *Settings) { s.Select = []Selector{} },
			want:     RuleSet{},
		},
		{
			name:     "extend-select adds to defaults",
			settings: func(s *Settings) { s.ExtendSelect = sels(t, "S061") },
			want:     RuleSet{"E001", "E002", "F010", "S001", "S061"},
		},
		{
			name: "ignore and extend-ignore both remove",
			settings: func(s *Settings) {
				s.Ignore = sels(t, "E001")
				s.ExtendIgnore = sels(t, "S")
			},
			want: RuleSet{"E002", "F010"},
		},
		{
			name: "ignore wins over extend-select",
			settings: func(s *Settings) {
				s.ExtendSelect = sels(t, "S061")
				s.Ignore = sels(t, "S06")
			},
			want: RuleSet{"E001", "E002", "F010", "S001"},
		},
		{
			name:     "ALL skips preview rules",
			settings: func(s *Settings) { s.Select = sels(t, "ALL") },
			want:     RuleSet{"E001", "E002", "F010", "S001"},
		},
		{
			name:     "exact code selects a preview rule",
			settings: func(s *Settings) { s.Select = sels(t, "S061") },
			want:     RuleSet{"S061"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.settings(s)
			res, err := NewResolver(reg, s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Global())
		})
	}
}

func TestResolverUnknownSelector(t *testing.T) {
	reg := testRegistry(t)
	for _, set := range []func(s *Settings){
		func(s *Settings) { s.Select = sels(t, "X") },
		func(s *Settings) { s.ExtendSelect = sels(t, "E003") },
		func(s *Settings) { s.Ignore = sels(t, "Q") },
		func(s *Settings) {
			s.PerFileIgnores = []PatternPrefixPair{{Pattern: "*.f90", Selector: Selector{Kind: SelectorCode, Value: "Z001"}}}
		},
	} {
		s := DefaultSettings()
		set(s)
		_, err := NewResolver(reg, s)
		var se *SelectorError
		assert.ErrorAs(t, err, &se)
	}
}

func TestResolverPerFileIgnores(t *testing.T) {
	reg := testRegistry(t)
	s := DefaultSettings()
	s.Ignore = sels(t, "F010")
	s.PerFileIgnores = []PatternPrefixPair{
		{Pattern: "legacy/**", Selector: Selector{Kind: SelectorPrefix, Value: "E"}},
	}
	s.ExtendPerFileIgnores = []PatternPrefixPair{
		{Pattern: "*_test.f90", Selector: Selector{Kind: SelectorCode, Value: "S001"}},
		{Pattern: "gen/*.f90", Selector: Selector{Kind: SelectorCode, Value: "F010"}},
	}
	res, err := NewResolver(reg, s)
	require.NoError(t, err)

	assert.Equal(t, RuleSet{"E001", "E002", "S001"}, res.ForFile("src/main.f90"))
	assert.Equal(t, RuleSet{"S001"}, res.ForFile("legacy/old/a.f90"))
	assert.Equal(t, RuleSet{"S001"}, res.ForFile("./legacy/a.f90"))
	assert.Equal(t, RuleSet{"E001", "E002"}, res.ForFile("src/solver_test.f90"))
	// F010 stays removed globally; a per-file ignore never adds it back.
	assert.Equal(t, RuleSet{"E001", "E002", "S001"}, res.ForFile("gen/x.f90"))
}

func TestRuleSet(t *testing.T) {
	rs := NewRuleSet("B", "A", "B", "C")
	assert.Equal(t, RuleSet{"A", "B", "C"}, rs)
	assert.True(t, rs.Contains("B"))
	assert.False(t, rs.Contains("D"))
	assert.Equal(t, RuleSet{"A", "C"}, rs.Without(func(c string) bool { return c == "B" }))
}
