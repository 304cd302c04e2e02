package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/source"
)

const tabWidth = 4

// writeSnippet prints the violating line with one line of context on each
// side and underlines the violation's range on its first line:
//
//	  |
//	3 |   implicit none
//	  |                ^ S101
//	  |
func writeSnippet(w io.Writer, st *Styles, file *source.File, v lint.Violation) {
	start := v.Span.Start
	if len(file.Text) == 0 || !start.IsValid() || start.Line > file.LineCount() {
		return
	}
	first := max(1, start.Line-1)
	last := min(file.LineCount(), start.Line+1)
	width := len(strconv.Itoa(last))
	blank := st.Gutter.Render(strings.Repeat(" ", width+1) + "|")

	_, _ = fmt.Fprintln(w, blank)
	for n := first; n <= last; n++ {
		line := string(file.Line(n))
		_, _ = fmt.Fprintf(w, "%s %s\n", st.Gutter.Render(fmt.Sprintf("%*d |", width, n)), expandTabs(line))
		if n != start.Line {
			continue
		}
		pad, span := underline(line, start.Column, endColumn(v, len(line)))
		_, _ = fmt.Fprintf(w, "%s %s%s\n", blank, strings.Repeat(" ", pad),
			st.Marker.Render(strings.Repeat("^", span)+" "+v.Code))
	}
	_, _ = fmt.Fprintln(w, blank)
}

// endColumn is the column just past the underlined range on the first line.
func endColumn(v lint.Violation, lineLen int) int {
	if v.Span.End.Line == v.Span.Start.Line && v.Span.End.Column > v.Span.Start.Column {
		return v.Span.End.Column
	}
	return lineLen + 1
}

// underline returns the display offset and width of byte columns
// [startCol, endCol) of line. The width is at least one cell.
func underline(line string, startCol, endCol int) (pad, width int) {
	from := min(max(startCol-1, 0), len(line))
	to := min(max(endCol-1, from), len(line))
	pad = runewidth.StringWidth(expandTabs(line[:from]))
	width = runewidth.StringWidth(expandTabs(line[:to])) - pad
	return pad, max(width, 1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
