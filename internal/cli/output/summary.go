package output

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/leapstack-labs/fortlint/internal/runner"
)

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	if strings.HasSuffix(word, "x") {
		return fmt.Sprintf("%d %ses", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// writeSummary prints the closing lines of a human-readable report.
func writeSummary(r *Renderer, rep *runner.Report, opts ReportOptions) {
	st := r.Styles()
	fixed := rep.FixedCount()
	remaining := rep.ViolationCount()

	if opts.FixOnly {
		if fixed > 0 {
			r.Printf("Fixed %s.\n", plural(fixed, "error"))
		} else {
			r.Println("No errors fixed.")
		}
		return
	}

	switch {
	case remaining == 0 && fixed == 0:
		r.Println(st.Success.Render("All checks passed!"))
		return
	case fixed > 0:
		r.Printf("Found %s (%d fixed, %d remaining).\n", plural(remaining+fixed, "error"), fixed, remaining)
	default:
		r.Printf("Found %s.\n", plural(remaining, "error"))
	}

	fixable := rep.FixableCount(opts.UnsafeFixes)
	hidden := 0
	if !opts.UnsafeFixes {
		hidden = rep.UnsafeOnlyCount()
	}
	hint := ""
	if hidden > 0 {
		hint = fmt.Sprintf("%s can be enabled with the `--unsafe-fixes` option", plural(hidden, "hidden fix"))
	}
	switch {
	case fixable > 0 && !opts.Fix:
		line := fmt.Sprintf("%s %d fixable with the `--fix` option", st.Fixable.Render("[*]"), fixable)
		if hint != "" {
			line += " (" + hint + ")"
		}
		r.Println(line + ".")
	case hint != "":
		r.Printf("No fixes available (%s).\n", hint)
	}
}

// writeFixed lists the fixes applied per file and rule.
func writeFixed(r *Renderer, rep *runner.Report, lookup Lookup) {
	st := r.Styles()
	if rep.FixedCount() == 0 {
		return
	}
	r.Printf("Fixed %s:\n", plural(rep.FixedCount(), "error"))
	for _, f := range rep.Files {
		if len(f.Fixed) == 0 {
			continue
		}
		r.Println("- " + st.Path.Render(f.Path) + ":")
		counts := map[string]int{}
		for _, v := range f.Fixed {
			counts[v.Code]++
		}
		for _, code := range slices.Sorted(maps.Keys(counts)) {
			name := ""
			if rule, ok := lookup(code); ok {
				name = " (" + rule.Name() + ")"
			}
			r.Printf("    %d × %s%s\n", counts[code], st.Code.Render(code), name)
		}
	}
	r.Println()
}
