package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fortlint/internal/cli/testutil"
	"github.com/leapstack-labs/fortlint/internal/runner"
	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules"
)

func defaultRegistry(t *testing.T) *lint.Registry {
	t.Helper()
	reg, err := rules.Default(lint.DefaultSettings())
	require.NoError(t, err)
	return reg
}

func codes(rs []lint.Rule) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Code()
	}
	return out
}

func TestNewCommands(t *testing.T) {
	tests := []struct {
		use   string
		flags []string
	}{
		{"check", []string{"select", "ignore", "fix", "unsafe-fixes", "watch", "statistics", "exit-zero", "show-settings"}},
		{"explain", []string{"format"}},
		{"rules", []string{"group", "preview", "format"}},
		{"init", []string{"force", "format"}},
	}
	build := map[string]func() *pflag.FlagSet{
		"check":   func() *pflag.FlagSet { return NewCheckCommand("test").Flags() },
		"explain": func() *pflag.FlagSet { return NewExplainCommand().Flags() },
		"rules":   func() *pflag.FlagSet { return NewRulesCommand().Flags() },
		"init":    func() *pflag.FlagSet { return NewInitCommand().Flags() },
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			fs := build[tt.use]()
			for _, name := range tt.flags {
				assert.NotNil(t, fs.Lookup(name), "flag %q should exist", name)
			}
		})
	}
}

func TestSelectRules(t *testing.T) {
	reg := defaultRegistry(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{name: "none selects all", args: nil, want: []string{"M001", "S001", "S061", "S101", "T001", "T002", "T003"}},
		{name: "code", args: []string{"T001"}, want: []string{"T001"}},
		{name: "prefix includes preview", args: []string{"S0"}, want: []string{"S001", "S061"}},
		{name: "comma and space separated", args: []string{"T003,M", "T003"}, want: []string{"M001", "T003"}},
		{name: "unknown", args: []string{"Q001"}, wantErr: true},
		{name: "malformed", args: []string{"t001"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectRules(reg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(got))
		})
	}
}

func TestFilterRules(t *testing.T) {
	reg := defaultRegistry(t)

	typing := filterRules(reg, &RulesOptions{Group: "typing"})
	require.Len(t, typing, 3)
	for _, info := range typing {
		assert.Equal(t, "typing", info.Group)
	}

	preview := filterRules(reg, &RulesOptions{Preview: true})
	require.Len(t, preview, 1)
	assert.Equal(t, "S061", preview[0].Code)

	assert.Empty(t, filterRules(reg, &RulesOptions{Group: "nope"}))
}

func TestListRules(t *testing.T) {
	reg := defaultRegistry(t)

	t.Run("markdown", func(t *testing.T) {
		tr := testutil.NewTestRenderer("markdown", false)
		require.NoError(t, listRules(tr.Renderer, filterRules(reg, &RulesOptions{})))
		out := tr.Output()
		assert.Contains(t, out, "| Code |")
		assert.Contains(t, out, "| T001 | implicit-typing | Typing |")
		assert.Contains(t, out, "end-statement-without-name (preview)")
		testutil.AssertNoANSI(t, out)
	})

	t.Run("json empty", func(t *testing.T) {
		tr := testutil.NewTestRenderer("json", false)
		require.NoError(t, listRules(tr.Renderer, nil))
		var got RulesJSONOutput
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
		assert.NotNil(t, got.Rules)
		assert.Equal(t, 0, got.Count)
	})

	t.Run("text", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		require.NoError(t, listRules(tr.Renderer, filterRules(reg, &RulesOptions{Group: "modules"})))
		assert.Contains(t, tr.Output(), "M001")
		assert.Contains(t, tr.Output(), "1 rules.")
	})
}

func TestExplainRules(t *testing.T) {
	reg := defaultRegistry(t)
	rule, ok := reg.Get("S061")
	require.True(t, ok)

	t.Run("text", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		require.NoError(t, explainRules(tr.Renderer, []lint.Rule{rule}))
		out := tr.Output()
		assert.Contains(t, out, rule.Name()+" (S061)")
		assert.Contains(t, out, "Group: Style")
		assert.Contains(t, out, "preview")
		assert.Contains(t, out, lint.BuildDocURL("S061"))
	})

	t.Run("markdown", func(t *testing.T) {
		tr := testutil.NewTestRenderer("markdown", false)
		require.NoError(t, explainRules(tr.Renderer, []lint.Rule{rule}))
		out := tr.Output()
		assert.Contains(t, out, "# "+rule.Name()+" (S061)\n\nDerived from the **Style** rules.")
		assert.Contains(t, out, "must be enabled with `--preview`")
	})

	t.Run("json", func(t *testing.T) {
		tr := testutil.NewTestRenderer("json", false)
		require.NoError(t, explainRules(tr.Renderer, []lint.Rule{rule}))
		var got []ruleDoc
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "S061", got[0].Code)
		assert.True(t, got[0].Preview)
		assert.Equal(t, rule.Explain(), got[0].Explanation)
	})
}

func TestFixSentence(t *testing.T) {
	assert.Equal(t, "Fix is always available.", fixSentence(lint.FixAlways))
	assert.Equal(t, "Fix is sometimes available.", fixSentence(lint.FixSometimes))
	assert.Equal(t, "Fix is not available.", fixSentence(lint.FixNone))
}

func TestLogLevelFromFlags(t *testing.T) {
	newFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.BoolP("verbose", "v", false, "")
		fs.BoolP("quiet", "q", false, "")
		fs.BoolP("silent", "s", false, "")
		return fs
	}
	tests := []struct {
		args []string
		want LogLevel
	}{
		{nil, LevelDefault},
		{[]string{"-v"}, LevelVerbose},
		{[]string{"-q"}, LevelQuiet},
		{[]string{"-s"}, LevelSilent},
	}
	for _, tt := range tests {
		fs := newFlags()
		require.NoError(t, fs.Parse(tt.args))
		assert.Equal(t, tt.want, LogLevelFromFlags(fs), "args %v", tt.args)
	}
	assert.Equal(t, LevelDefault, LogLevelFromFlags(pflag.NewFlagSet("empty", pflag.ContinueOnError)))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	NewLogger(&buf, LevelDefault).Info("hidden")
	NewLogger(&buf, LevelDefault).Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewLogger(&buf, LevelVerbose).Debug("debugging")
	assert.Contains(t, buf.String(), "debugging")

	buf.Reset()
	NewLogger(&buf, LevelSilent).Error("nothing")
	assert.Empty(t, buf.String())
}

func TestExitError(t *testing.T) {
	cause := errors.New("boom")
	err := fatal(cause)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, runner.ExitFatal, exitErr.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, "exit status 1", (&ExitError{Code: 1}).Error())
}

func TestWriteStarterConfig(t *testing.T) {
	dir := t.TempDir()

	path, err := writeStarterConfig(filepath.Join(dir, "proj"), "toml", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "proj", "fortlint.toml"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[check]")

	_, err = writeStarterConfig(filepath.Join(dir, "proj"), "toml", false)
	require.ErrorContains(t, err, "already exists")

	_, err = writeStarterConfig(filepath.Join(dir, "proj"), "toml", true)
	require.NoError(t, err)

	path, err = writeStarterConfig(dir, "yaml", false)
	require.NoError(t, err)
	assert.Equal(t, "fortlint.yaml", filepath.Base(path))

	_, err = writeStarterConfig(dir, "ini", false)
	require.ErrorContains(t, err, "unknown config format")
}
