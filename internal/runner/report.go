package runner

import (
	"slices"
	"time"

	"github.com/leapstack-labs/fortlint/pkg/lint"
)

// FileResult is the outcome for one file.
type FileResult struct {
	Path string
	// Violations left after fixing, file diagnostics included, sorted.
	Violations []lint.Violation
	// Fixed lists the violations whose fixes were written.
	Fixed      []lint.Violation
	Suppressed int
	Cached     bool
	// Text is the file content the violations refer to. Nil when the file
	// could not be read.
	Text []byte
}

// HasFileDiagnostic reports whether the file could not be fully processed.
func (f *FileResult) HasFileDiagnostic() bool {
	return slices.ContainsFunc(f.Violations, func(v lint.Violation) bool {
		return IsFileDiagnostic(v.Code)
	})
}

// Report collects the results of one Run.
type Report struct {
	Files    []*FileResult
	Duration time.Duration
}

// ViolationCount counts remaining violations, file diagnostics included.
func (r *Report) ViolationCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Violations)
	}
	return n
}

// FixedCount counts violations fixed across all files.
func (r *Report) FixedCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Fixed)
	}
	return n
}

// FixableCount counts remaining violations that carry a fix the given mode
// would apply.
func (r *Report) FixableCount(unsafe bool) int {
	n := 0
	for _, f := range r.Files {
		for _, v := range f.Violations {
			if v.Fix.Applies(unsafe) {
				n++
			}
		}
	}
	return n
}

// UnsafeOnlyCount counts remaining violations fixable only with unsafe
// fixes enabled.
func (r *Report) UnsafeOnlyCount() int {
	return r.FixableCount(true) - r.FixableCount(false)
}

// FileDiagnosticCount counts files that hit E000, E001 or E002.
func (r *Report) FileDiagnosticCount() int {
	n := 0
	for _, f := range r.Files {
		if f.HasFileDiagnostic() {
			n++
		}
	}
	return n
}

// Exit codes.
const (
	ExitClean      = 0
	ExitViolations = 1
	ExitFatal      = 2
)

// ExitCode maps the report to the process exit code. File diagnostics are
// fatal; otherwise remaining violations give 1, unless fixOnly is set.
func (r *Report) ExitCode(fixOnly bool) int {
	if r.FileDiagnosticCount() > 0 {
		return ExitFatal
	}
	if !fixOnly && r.ViolationCount() > 0 {
		return ExitViolations
	}
	return ExitClean
}
