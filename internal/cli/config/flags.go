package config

import (
	"strconv"

	"github.com/knadh/koanf/providers/posflag"
	"github.com/spf13/pflag"
)

// configKeyAnnotation marks flags that feed a config key. The posflag layer
// only reads annotated flags.
const configKeyAnnotation = "fortlint/config-key"

// triState backs an --opt/--no-opt pair. pflag applies flags in command-line
// order, so the last one given wins.
type triState struct {
	set   bool
	value bool
}

// triFlag is one side of a pair. on is the value the flag stands for.
type triFlag struct {
	state *triState
	on    bool
}

func (f *triFlag) String() string {
	if f.state == nil || !f.state.set {
		return "false"
	}
	return strconv.FormatBool(f.state.value == f.on)
}

func (f *triFlag) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	f.state.set = true
	f.state.value = b == f.on
	return nil
}

func (f *triFlag) Type() string { return "bool" }

func (f *triFlag) IsBoolFlag() bool { return true }

// addTriState registers --name and --no-name, both feeding key.
func addTriState(fs *pflag.FlagSet, name, key, usage string) {
	st := &triState{}
	on := fs.VarPF(&triFlag{state: st, on: true}, name, "", usage)
	on.NoOptDefVal = "true"
	off := fs.VarPF(&triFlag{state: st, on: false}, "no-"+name, "", "")
	off.NoOptDefVal = "true"
	off.Hidden = true
	annotate(fs, name, key)
	annotate(fs, "no-"+name, key)
}

func annotate(fs *pflag.FlagSet, name, key string) {
	// Only fails for unknown flags.
	_ = fs.SetAnnotation(name, configKeyAnnotation, []string{key})
}

// AddCheckFlags registers the flags that mirror the check section of the
// config file.
func AddCheckFlags(fs *pflag.FlagSet) {
	fs.StringSlice("select", nil, "Comma-separated list of rule codes or prefixes to enable (ALL enables every rule)")
	fs.StringSlice("ignore", nil, "Comma-separated list of rule codes or prefixes to disable")
	fs.StringSlice("extend-select", nil, "Like --select, but adds to the selected rules")
	fs.StringSlice("extend-ignore", nil, "Like --ignore, but adds to the ignored rules")
	fs.StringSlice("per-file-ignores", nil, "List of PATTERN:CODE pairs disabling rules for matching files")
	fs.StringSlice("extend-per-file-ignores", nil, "Like --per-file-ignores, but adds to the existing pairs")
	fs.Int("line-length", 0, "Maximum line length for S001")
	fs.String("output-format", "", "Output format: full, concise, grouped, json, github, statistics")
	fs.String("progress-bar", "", "Progress bar style: off, ascii, fancy")
	fs.StringSlice("file-extensions", nil, "File extensions to check")
	fs.StringSlice("exclude", nil, "Paths or globs to exclude, replacing the defaults")
	fs.StringSlice("extend-exclude", nil, "Paths or globs to exclude in addition to the defaults")
	fs.String("cache-dir", "", "Directory for the results cache")
	fs.Bool("no-cache", false, "Disable the results cache")

	for _, name := range []string{
		"select", "ignore", "extend-select", "extend-ignore", "per-file-ignores",
		"extend-per-file-ignores", "line-length", "output-format", "progress-bar",
		"file-extensions", "exclude", "extend-exclude", "cache-dir",
	} {
		annotate(fs, name, "check."+name)
	}
	annotate(fs, "no-cache", "check.cache")

	addTriState(fs, "preview", "check.preview", "Enable preview rules")
	addTriState(fs, "fix", "check.fix", "Apply fixes to resolve violations")
	addTriState(fs, "unsafe-fixes", "check.unsafe-fixes", "Include fixes that may change program behavior")
	addTriState(fs, "show-fixes", "check.show-fixes", "List the violations that were fixed")
	addTriState(fs, "fix-only", "check.fix-only", "Apply fixes but do not report remaining violations")
	addTriState(fs, "force-exclude", "check.force-exclude", "Apply exclusions to paths passed on the command line")
}

// flagValue maps an annotated, changed flag to its config key and value.
func flagValue(fs *pflag.FlagSet, f *pflag.Flag) (string, any) {
	keys := f.Annotations[configKeyAnnotation]
	if len(keys) == 0 || !f.Changed {
		return "", nil
	}
	if tf, ok := f.Value.(*triFlag); ok {
		return keys[0], tf.state.value
	}
	if f.Name == "no-cache" {
		off, _ := fs.GetBool(f.Name)
		return keys[0], !off
	}
	return keys[0], posflag.FlagVal(fs, f)
}
