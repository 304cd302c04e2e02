package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortlint/internal/cli/testutil"
	"github.com/leapstack-labs/fortlint/internal/runner"
)

// execute runs fortlint with args and returns the exit status, stdout and
// stderr.
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	code := run(root, args, &errOut)
	return code, out.String(), errOut.String()
}

func TestCheckReportsViolations(t *testing.T) {
	testutil.SetupTestProject(t, "")

	code, out, _ := execute(t, "check", "--output-format", "concise")

	assert.Equal(t, runner.ExitViolations, code)
	assert.Contains(t, out, "app/main.f90:1:1: T001 ")
	assert.Contains(t, out, "src/dirty.f90:2:16: S101 [*] trailing whitespace")
	assert.NotContains(t, out, "src/clean.f90")
	assert.Contains(t, out, "Found 2 errors.")
	assert.Contains(t, out, "1 fixable with the `--fix` option (1 hidden fix can be enabled with the `--unsafe-fixes` option).")
	testutil.AssertNoANSI(t, out)
}

func TestCheckCleanFile(t *testing.T) {
	testutil.SetupTestProject(t, "")

	code, out, _ := execute(t, "check", "src/clean.f90")

	assert.Equal(t, runner.ExitClean, code)
	assert.Contains(t, out, "All checks passed!")
}

func TestCheckFix(t *testing.T) {
	dir := testutil.SetupTestProject(t, "")

	code, out, _ := execute(t, "check", "--fix", "--output-format", "concise")

	assert.Equal(t, runner.ExitViolations, code, "T001 has only an unsafe fix")
	assert.Contains(t, out, "Found 2 errors (1 fixed, 1 remaining).")
	assert.Equal(t, "module dirty\n  implicit none\ncontains\n  subroutine s()\n  end subroutine s\nend module dirty\n",
		testutil.ReadFile(t, dir, "src/dirty.f90"))
	assert.Equal(t, testutil.ImplicitProgram, testutil.ReadFile(t, dir, "app/main.f90"))
}

func TestCheckFixOnly(t *testing.T) {
	testutil.SetupTestProject(t, "")

	code, out, _ := execute(t, "check", "--fix-only")

	assert.Equal(t, runner.ExitClean, code)
	assert.Contains(t, out, "Fixed 1 error.")
	assert.NotContains(t, out, "T001")
}

func TestCheckSelection(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     []string
		notWant  []string
	}{
		{
			name:     "select prefix",
			args:     []string{"--select", "S"},
			wantCode: runner.ExitViolations,
			want:     []string{"S101"},
			notWant:  []string{"T001"},
		},
		{
			name:     "select then ignore",
			args:     []string{"--select", "S", "--ignore", "S101"},
			wantCode: runner.ExitClean,
			want:     []string{"All checks passed!"},
		},
		{
			name:     "per-file ignore",
			args:     []string{"--per-file-ignores", "app/*.f90:T001"},
			wantCode: runner.ExitViolations,
			want:     []string{"S101"},
			notWant:  []string{"T001"},
		},
		{
			name:     "unknown rule",
			args:     []string{"--select", "X999"},
			wantCode: runner.ExitFatal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.SetupTestProject(t, "")

			args := append([]string{"check", "--output-format", "concise"}, tt.args...)
			code, out, _ := execute(t, args...)

			assert.Equal(t, tt.wantCode, code)
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestCheckConfigFile(t *testing.T) {
	testutil.SetupTestProject(t, "[check]\nselect = [\"T\"]\noutput-format = \"concise\"\n")

	code, out, _ := execute(t, "check")

	assert.Equal(t, runner.ExitViolations, code)
	assert.Contains(t, out, "T001")
	assert.NotContains(t, out, "S101")
}

func TestCheckFlagOverridesConfig(t *testing.T) {
	testutil.SetupTestProject(t, "[check]\nselect = [\"T\"]\n")

	code, out, _ := execute(t, "check", "--select", "S101", "--output-format", "concise")

	assert.Equal(t, runner.ExitViolations, code)
	assert.Contains(t, out, "S101")
	assert.NotContains(t, out, "T001")
}

func TestCheckInvalidConfig(t *testing.T) {
	testutil.SetupTestProject(t, "[check]\noutput-format = \"xml\"\n")

	code, _, errOut := execute(t, "check")

	assert.Equal(t, runner.ExitFatal, code)
	assert.Contains(t, errOut, "Error:")
}

func TestCheckSyntaxError(t *testing.T) {
	dir := testutil.SetupTestProject(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "broken.f90"), []byte("subroutine s()\n  x = = 1\nend subroutine s\n"), 0o600))

	code, out, _ := execute(t, "check", "--output-format", "concise")

	assert.Equal(t, runner.ExitFatal, code)
	assert.Regexp(t, `src/broken.f90:\d+:\d+: E001`, out)
}

func TestCheckExitZero(t *testing.T) {
	testutil.SetupTestProject(t, "")

	code, _, _ := execute(t, "check", "--exit-zero")

	assert.Equal(t, runner.ExitClean, code)
}

func TestCheckJSON(t *testing.T) {
	testutil.SetupTestProject(t, "")

	code, out, _ := execute(t, "check", "--output-format", "json")
	assert.Equal(t, runner.ExitViolations, code)

	var got []struct {
		Code     string `json:"code"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "T001", got[0].Code)
	assert.Equal(t, "app/main.f90", got[0].Filename)
	assert.Equal(t, "S101", got[1].Code)
}

func TestCheckVerbosity(t *testing.T) {
	t.Run("quiet", func(t *testing.T) {
		testutil.SetupTestProject(t, "")
		code, out, _ := execute(t, "check", "-q", "--output-format", "concise")
		assert.Equal(t, runner.ExitViolations, code)
		assert.Contains(t, out, "S101")
		assert.NotContains(t, out, "Found")
	})
	t.Run("silent", func(t *testing.T) {
		testutil.SetupTestProject(t, "")
		code, out, _ := execute(t, "check", "-s")
		assert.Equal(t, runner.ExitViolations, code)
		assert.Empty(t, out)
	})
	t.Run("exclusive", func(t *testing.T) {
		testutil.SetupTestProject(t, "")
		code, _, _ := execute(t, "check", "-q", "-s")
		assert.Equal(t, runner.ExitFatal, code)
	})
}

func TestCheckShowFiles(t *testing.T) {
	testutil.SetupTestProject(t, "")

	code, out, _ := execute(t, "check", "--show-files")

	assert.Equal(t, runner.ExitClean, code)
	assert.Equal(t, "app/main.f90\nsrc/clean.f90\nsrc/dirty.f90\n", out)
}

func TestCheckShowSettings(t *testing.T) {
	testutil.SetupTestProject(t, "[check]\nline-length = 120\n")

	code, out, _ := execute(t, "check", "--show-settings")

	assert.Equal(t, runner.ExitClean, code)
	assert.Contains(t, out, "line-length: 120")
	assert.Contains(t, out, "enabled-rules:")
	assert.Contains(t, out, "- T001")
	assert.NotContains(t, out, "- S061", "preview rules stay off")
}

func TestCheckUsesCacheAndClean(t *testing.T) {
	dir := testutil.SetupTestProject(t, "")

	code, _, _ := execute(t, "check")
	assert.Equal(t, runner.ExitViolations, code)
	entries, err := os.ReadDir(filepath.Join(dir, ".fortlint_cache"))
	require.NoError(t, err)
	assert.Greater(t, len(entries), 1, "cache holds entries besides .gitignore")

	code, _, _ = execute(t, "check")
	assert.Equal(t, runner.ExitViolations, code, "cached results keep the exit status")

	code, out, _ := execute(t, "clean")
	assert.Equal(t, runner.ExitClean, code)
	assert.Contains(t, out, "Removed cached results")
	entries, err = os.ReadDir(filepath.Join(dir, ".fortlint_cache"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, e.IsDir(), "entry %s should be removed", e.Name())
	}
}

func TestExplain(t *testing.T) {
	code, out, _ := execute(t, "explain", "T001")

	assert.Equal(t, runner.ExitClean, code)
	assert.Contains(t, out, "# implicit-typing (T001)")
	assert.Contains(t, out, "Fix is always available.")
}

func TestExplainUnknown(t *testing.T) {
	code, _, errOut := execute(t, "explain", "Z001")

	assert.Equal(t, runner.ExitFatal, code)
	assert.Contains(t, errOut, "Error:")
}

func TestRulesJSON(t *testing.T) {
	code, out, _ := execute(t, "rules", "--format", "json")
	assert.Equal(t, runner.ExitClean, code)

	var got struct {
		Rules []struct {
			Code string `json:"code"`
		} `json:"rules"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, len(got.Rules), got.Count)
	assert.Equal(t, 7, got.Count)
}

func TestInitThenCheck(t *testing.T) {
	dir := testutil.SetupTestProject(t, "")

	code, _, _ := execute(t, "init")
	require.Equal(t, runner.ExitClean, code)
	assert.FileExists(t, filepath.Join(dir, "fortlint.toml"))

	code, _, _ = execute(t, "init")
	assert.Equal(t, runner.ExitFatal, code, "init refuses to overwrite")

	code, out, _ := execute(t, "check", "--output-format", "concise")
	assert.Equal(t, runner.ExitViolations, code)
	assert.Contains(t, out, "S101")
}

func TestVersion(t *testing.T) {
	code, out, _ := execute(t, "version")

	assert.Equal(t, runner.ExitClean, code)
	assert.Contains(t, out, "fortlint v"+Version)
}

func TestUnknownFlag(t *testing.T) {
	code, _, errOut := execute(t, "check", "--no-such-flag")

	assert.Equal(t, runner.ExitFatal, code)
	assert.Contains(t, errOut, "unknown flag")
}
