// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortlint/internal/cli/output"
)

// Sources used by SetupTestProject.
const (
	CleanModule = "module clean\n  implicit none\nend module clean\n"
	// DirtyModule has trailing whitespace on line 2 (fixable S101) and no
	// implicit none in its subroutine.
	DirtyModule = "module dirty\n  implicit none \ncontains\n  subroutine s()\n  end subroutine s\nend module dirty\n"
	// ImplicitProgram lacks implicit none (T001, unsafe fix only).
	ImplicitProgram = "program main\n  print *, 'hi'\nend program main\n"
)

// SetupTestProject creates a temporary Fortran project and changes into it
// for the rest of the test. The layout is
//
//	fortlint.toml
//	src/clean.f90
//	src/dirty.f90
//	app/main.f90
//
// config is written to fortlint.toml; an empty config writes no file.
func SetupTestProject(t *testing.T, config string) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"src/clean.f90": CleanModule,
		"src/dirty.f90": DirtyModule,
		"app/main.f90":  ImplicitProgram,
	}
	if config != "" {
		files["fortlint.toml"] = config
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	t.Chdir(dir)
	return dir
}

// ReadFile returns the content of a project file.
func ReadFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode without color.
func NewTestRendererText() *TestRenderer {
	tr := NewTestRenderer(output.ModeText, true)
	tr.Renderer = tr.WithoutColor()
	return tr
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	assert.False(t, ansiPattern.MatchString(s), "string contains ANSI escape codes: %q", s)
}
