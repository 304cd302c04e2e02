// Package runner checks and fixes many files concurrently.
//
// Each file goes through load, rule-set resolution, check (or fix) and,
// when fixes applied, an atomic write. Problems that stop a file from being
// analyzed are reported as file diagnostics with the reserved codes E000,
// E001 and E002 rather than aborting the run.
package runner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/fortlint/internal/cache"
	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
	"github.com/leapstack-labs/fortlint/pkg/token"
)

// File diagnostic codes. They are not registry rules and cannot be selected
// or ignored.
const (
	CodeIOError     = "E000"
	CodeSyntaxError = "E001"
	CodeFixError    = "E002"
)

// IsFileDiagnostic reports whether code is one of the reserved E codes.
func IsFileDiagnostic(code string) bool {
	return code == CodeIOError || code == CodeSyntaxError || code == CodeFixError
}

// FileDiagnosticName returns the display name of a reserved code, or "".
func FileDiagnosticName(code string) string {
	switch code {
	case CodeIOError:
		return "io-error"
	case CodeSyntaxError:
		return "syntax-error"
	case CodeFixError:
		return "fix-error"
	}
	return ""
}

// Options configures a Runner.
type Options struct {
	Settings *lint.Settings
	Registry *lint.Registry
	Resolver *lint.Resolver

	// Cache is consulted when not fixing. May be nil.
	Cache *cache.Cache
	// Version is mixed into cache keys.
	Version string

	// Jobs bounds the number of files analyzed at once. Defaults to
	// GOMAXPROCS.
	Jobs int

	Logger   *slog.Logger
	Progress Progress
}

// Runner checks files. It is safe to call Run repeatedly, as watch mode does.
type Runner struct {
	opts        Options
	checker     *lint.Checker
	fingerprint []byte
}

// New validates opts and prepares a Runner.
func New(opts Options) (*Runner, error) {
	if opts.Settings == nil || opts.Registry == nil || opts.Resolver == nil {
		return nil, errors.New("runner: settings, registry and resolver are required")
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Progress == nil {
		opts.Progress = nopProgress{}
	}
	r := &Runner{opts: opts, checker: lint.NewChecker(opts.Registry)}
	if opts.Cache != nil {
		fp, err := cache.Fingerprint(opts.Version, opts.Settings, opts.Resolver.Global())
		if err != nil {
			return nil, err
		}
		r.fingerprint = fp
	}
	return r, nil
}

// Run analyzes paths and returns one FileResult per path, in path order.
// It stops early only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	start := time.Now()
	results := make([]*FileResult, len(paths))

	r.opts.Progress.Start(len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.runFile(path)
			r.opts.Progress.Advance(path)
			return nil
		})
	}
	err := g.Wait()
	r.opts.Progress.Finish()
	if err != nil {
		return nil, err
	}

	report := &Report{Files: results, Duration: time.Since(start)}
	slices.SortFunc(report.Files, func(a, b *FileResult) int {
		return cmp.Compare(a.Path, b.Path)
	})
	r.opts.Logger.Debug("run finished",
		"files", len(paths),
		"violations", report.ViolationCount(),
		"fixed", report.FixedCount(),
		"duration", report.Duration)
	return report, nil
}

func (r *Runner) runFile(path string) *FileResult {
	start := time.Now()
	rs := r.opts.Resolver.ForFile(path)
	res := &FileResult{Path: path}
	defer func() {
		r.opts.Logger.Debug("checked file",
			"file", path,
			"rules", len(rs),
			"violations", len(res.Violations),
			"cached", res.Cached,
			"duration", time.Since(start))
	}()

	file, err := source.Load(path)
	if err != nil {
		res.Violations = []lint.Violation{fileDiagnostic(CodeIOError, err.Error(), token.Position{})}
		return res
	}
	res.Text = file.Text

	if r.opts.Settings.Fix {
		r.fixFile(file, rs, res)
		return res
	}

	key := cache.KeyFor(r.fingerprint, path, file.Hash)
	if entry, ok := r.opts.Cache.Get(key); ok {
		res.Violations = entry.Violations
		res.Suppressed = entry.Suppressed
		res.Cached = true
		return res
	}

	result, err := r.checker.Check(file, rs)
	if err != nil {
		res.Violations = []lint.Violation{parseDiagnostic(err)}
		return res
	}
	res.Violations = result.Violations
	res.Suppressed = result.Suppressed
	if err := r.opts.Cache.Put(key, &cache.Entry{Violations: result.Violations, Suppressed: result.Suppressed}); err != nil {
		r.opts.Logger.Warn("cache write failed", "file", path, "error", err)
	}
	return res
}

func (r *Runner) fixFile(file *source.File, rs lint.RuleSet, res *FileResult) {
	fixed, err := r.checker.FixFile(file, rs, r.opts.Settings.UnsafeFixes)
	if err != nil {
		var pe *syntax.ParseError
		if errors.As(err, &pe) && !isFixError(err) {
			res.Violations = []lint.Violation{parseDiagnostic(err)}
			return
		}
		r.keepOriginal(file, rs, res, fileDiagnostic(CodeFixError, err.Error(), token.Position{}))
		return
	}

	res.Violations = fixed.Remaining.Violations
	res.Suppressed = fixed.Remaining.Suppressed
	res.Fixed = fixed.Fixed
	if !fixed.Changed() {
		return
	}
	if err := writeAtomic(file.Name, fixed.Text); err != nil {
		res.Fixed = nil
		r.keepOriginal(file, rs, res, fileDiagnostic(CodeIOError, err.Error(), token.Position{}))
		return
	}
	res.Text = fixed.Text
}

// keepOriginal reports the violations of the unmodified file followed by diag.
func (r *Runner) keepOriginal(file *source.File, rs lint.RuleSet, res *FileResult, diag lint.Violation) {
	res.Violations, res.Suppressed = nil, 0
	if result, err := r.checker.Check(file, rs); err == nil {
		res.Violations = result.Violations
		res.Suppressed = result.Suppressed
	}
	res.Violations = append(res.Violations, diag)
}

// isFixError tells a broken fix apart from a file that never parsed.
func isFixError(err error) bool {
	var oe *lint.OverlapError
	if errors.As(err, &oe) {
		return true
	}
	return errors.Unwrap(err) != nil
}

func parseDiagnostic(err error) lint.Violation {
	var pe *syntax.ParseError
	if errors.As(err, &pe) {
		return fileDiagnostic(CodeSyntaxError, pe.Message, pe.Pos)
	}
	return fileDiagnostic(CodeSyntaxError, err.Error(), token.Position{})
}

// fileDiagnostic anchors a diagnostic at pos, or at the start of the file.
func fileDiagnostic(code, msg string, pos token.Position) lint.Violation {
	if !pos.IsValid() {
		pos = token.Position{Line: 1, Column: 1}
	}
	return lint.Violation{Code: code, Message: msg, Span: token.Span{Start: pos, End: pos}}
}

// writeAtomic replaces path with data through a temporary file in the same
// directory, keeping the original permissions.
func writeAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Chmod(info.Mode().Perm()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
