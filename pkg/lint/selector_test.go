package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in      string
		want    Selector
		wantErr bool
	}{
		{in: "ALL", want: All},
		{in: "T001", want: Selector{Kind: SelectorCode, Value: "T001"}},
		{in: "ABC123", want: Selector{Kind: SelectorCode, Value: "ABC123"}},
		{in: "T", want: Selector{Kind: SelectorPrefix, Value: "T"}},
		{in: "T00", want: Selector{Kind: SelectorPrefix, Value: "T00"}},
		{in: "t001", wantErr: true},
		{in: "all", wantErr: true},
		{in: "T0001", wantErr: true},
		{in: "001", wantErr: true},
		{in: "T-1", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSelector(tt.in)
			if tt.wantErr {
				var se *SelectorError
				assert.ErrorAs(t, err, &se)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSelectors(t *testing.T) {
	got, err := ParseSelectors(" T001, S ,,ALL")
	require.NoError(t, err)
	assert.Equal(t, []Selector{
		{Kind: SelectorCode, Value: "T001"},
		{Kind: SelectorPrefix, Value: "S"},
		All,
	}, got)

	got, err = ParseSelectors("")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = ParseSelectors("T001,x")
	assert.Error(t, err)
}

func TestSelectorText(t *testing.T) {
	var s Selector
	require.NoError(t, s.UnmarshalText([]byte(" S1 ")))
	assert.Equal(t, Selector{Kind: SelectorPrefix, Value: "S1"}, s)

	b, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "S1", string(b))
}

func TestParsePatternPrefixPair(t *testing.T) {
	p, err := ParsePatternPrefixPair("src/legacy/*.f90:T001")
	require.NoError(t, err)
	assert.Equal(t, "src/legacy/*.f90", p.Pattern)
	assert.Equal(t, Selector{Kind: SelectorCode, Value: "T001"}, p.Selector)
	assert.Equal(t, "src/legacy/*.f90:T001", p.String())

	p, err = ParsePatternPrefixPair(`C:\code\*.f90:S`)
	require.NoError(t, err)
	assert.Equal(t, `C:\code\*.f90`, p.Pattern)

	for _, bad := range []string{"T001", ":T001", "*.f90:", "*.f90:lower"} {
		_, err := ParsePatternPrefixPair(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseOutputFormatAndProgressBar(t *testing.T) {
	f, err := ParseOutputFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, f)
	_, err = ParseOutputFormat("xml")
	assert.Error(t, err)

	p, err := ParseProgressBar("Fancy")
	require.NoError(t, err)
	assert.Equal(t, ProgressFancy, p)
	_, err = ParseProgressBar("spinner")
	assert.Error(t, err)
}
