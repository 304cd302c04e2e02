package output

import (
	"cmp"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leapstack-labs/fortlint/internal/runner"
)

type codeStat struct {
	code    string
	count   int
	fixable bool
}

// writeStatistics prints one row per rule code, most frequent first.
func writeStatistics(r *Renderer, entries []entry, opts ReportOptions) error {
	if len(entries) == 0 {
		return nil
	}
	byCode := map[string]*codeStat{}
	var stats []*codeStat
	for _, e := range entries {
		s, ok := byCode[e.v.Code]
		if !ok {
			s = &codeStat{code: e.v.Code}
			byCode[e.v.Code] = s
			stats = append(stats, s)
		}
		s.count++
		s.fixable = s.fixable || e.v.Fix.Applies(opts.UnsafeFixes)
	}
	slices.SortFunc(stats, func(a, b *codeStat) int {
		return cmp.Or(cmp.Compare(b.count, a.count), cmp.Compare(a.code, b.code))
	})

	st := r.Styles()
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	style := table.StyleDefault
	style.Options = table.OptionsNoBordersAndSeparators
	t.SetStyle(style)
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	for _, s := range stats {
		marker := ""
		if s.fixable {
			marker = st.Fixable.Render("[*]")
		}
		t.AppendRow(table.Row{s.count, st.Code.Render(s.code), marker, statName(s.code, opts.Lookup)})
	}
	t.Render()
	return nil
}

func statName(code string, lookup Lookup) string {
	if rule, ok := lookup(code); ok {
		return rule.Name()
	}
	return runner.FileDiagnosticName(code)
}
