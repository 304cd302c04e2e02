package output

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/leapstack-labs/fortlint/internal/runner"
	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/source"
)

// Lookup finds a registered rule by code.
type Lookup func(code string) (lint.Rule, bool)

// ReportOptions controls how a check report is written.
type ReportOptions struct {
	Format      lint.OutputFormat
	Fix         bool
	UnsafeFixes bool
	ShowFixes   bool
	FixOnly     bool
	// Quiet drops everything but the violations.
	Quiet  bool
	Lookup Lookup
}

// entry is one violation together with the file it belongs to.
type entry struct {
	file *source.File
	v    lint.Violation
}

// WriteReport writes the violations of rep in the requested format,
// followed by the fix listing and summary for human-readable formats.
func WriteReport(r *Renderer, rep *runner.Report, opts ReportOptions) error {
	if opts.Lookup == nil {
		opts.Lookup = func(string) (lint.Rule, bool) { return nil, false }
	}
	keep := func(lint.Violation) bool { return true }
	if opts.FixOnly {
		// remaining violations are hidden, files that failed are not
		keep = func(v lint.Violation) bool { return runner.IsFileDiagnostic(v.Code) }
	}
	entries := collect(rep, keep)

	var err error
	switch opts.Format {
	case lint.OutputJSON:
		return writeJSON(r.Writer(), entries, opts.Lookup)
	case lint.OutputGitHub:
		return writeGitHub(r.Writer(), entries)
	case lint.OutputConcise:
		writeConcise(r, entries, opts)
	case lint.OutputGrouped:
		writeGrouped(r, entries, opts)
	case lint.OutputStatistics:
		err = writeStatistics(r, entries, opts)
	default:
		writeFull(r, entries, opts)
	}
	if err != nil {
		return err
	}

	if opts.Quiet {
		return nil
	}
	if opts.ShowFixes {
		writeFixed(r, rep, opts.Lookup)
	}
	writeSummary(r, rep, opts)
	return nil
}

func collect(rep *runner.Report, keep func(lint.Violation) bool) []entry {
	var out []entry
	for _, f := range rep.Files {
		file := source.New(f.Path, f.Text)
		for _, v := range f.Violations {
			if keep(v) {
				out = append(out, entry{file: file, v: v})
			}
		}
	}
	slices.SortStableFunc(out, func(a, b entry) int {
		return cmp.Or(cmp.Compare(a.file.Name, b.file.Name), lint.Compare(a.v, b.v))
	})
	return out
}

func (e entry) location() string {
	return fmt.Sprintf("%s:%d:%d", e.file.Name, e.v.Span.Start.Line, e.v.Span.Start.Column)
}

// fixMarker flags violations the current mode could fix.
func fixMarker(st *Styles, v lint.Violation, unsafe bool) string {
	if v.Fix.Applies(unsafe) {
		return st.Fixable.Render("[*]") + " "
	}
	return ""
}

func writeConcise(r *Renderer, entries []entry, opts ReportOptions) {
	st := r.Styles()
	for _, e := range entries {
		r.Printf("%s %s %s%s\n",
			st.Path.Render(e.location()+":"),
			st.Code.Render(e.v.Code),
			fixMarker(st, e.v, opts.UnsafeFixes),
			e.v.Message)
	}
}

func writeFull(r *Renderer, entries []entry, opts ReportOptions) {
	st := r.Styles()
	for _, e := range entries {
		r.Printf("%s %s %s%s\n",
			st.Path.Render(e.location()+":"),
			st.Code.Render(e.v.Code),
			fixMarker(st, e.v, opts.UnsafeFixes),
			e.v.Message)
		writeSnippet(r.Writer(), st, e.file, e.v)
		if e.v.Fix != nil && e.v.Fix.Description != "" {
			help := "help: " + e.v.Fix.Description
			if e.v.Fix.Applicability == lint.Unsafe {
				help += " (unsafe)"
			}
			r.Println(st.FixHelp.Render(help))
		}
		r.Println()
	}
}

func writeGrouped(r *Renderer, entries []entry, opts ReportOptions) {
	st := r.Styles()
	for _, group := range groupByFile(entries) {
		r.Println(st.Path.Render(group[0].file.Name + ":"))
		width := 0
		for _, e := range group {
			width = max(width, len(locationOf(e.v)))
		}
		for _, e := range group {
			r.Printf("  %s %s %s%s\n",
				st.Location.Render(fmt.Sprintf("%-*s", width, locationOf(e.v))),
				st.Code.Render(e.v.Code),
				fixMarker(st, e.v, opts.UnsafeFixes),
				e.v.Message)
		}
		r.Println()
	}
}

func locationOf(v lint.Violation) string {
	return fmt.Sprintf("%d:%d", v.Span.Start.Line, v.Span.Start.Column)
}

func groupByFile(entries []entry) [][]entry {
	var groups [][]entry
	for i, e := range entries {
		if i == 0 || entries[i-1].file.Name != e.file.Name {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], e)
	}
	return groups
}

func writeGitHub(w io.Writer, entries []entry) error {
	for _, e := range entries {
		start, end := e.v.Span.Start, e.v.Span.End
		_, err := fmt.Fprintf(w, "::error title=fortlint (%s),file=%s,line=%d,col=%d,endLine=%d,endColumn=%d::%s: %s %s\n",
			e.v.Code, e.file.Name, start.Line, start.Column, max(end.Line, start.Line), end.Column,
			e.location(), e.v.Code, e.v.Message)
		if err != nil {
			return err
		}
	}
	return nil
}
