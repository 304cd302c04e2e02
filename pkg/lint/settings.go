package lint

import (
	"fmt"
	"strings"
)

// OutputFormat selects how violations are reported.
type OutputFormat string

// Output formats.
const (
	OutputFull       OutputFormat = "full"
	OutputConcise    OutputFormat = "concise"
	OutputGrouped    OutputFormat = "grouped"
	OutputJSON       OutputFormat = "json"
	OutputGitHub     OutputFormat = "github"
	OutputStatistics OutputFormat = "statistics"
)

// OutputFormats lists every output format in display order.
var OutputFormats = []OutputFormat{
	OutputFull, OutputConcise, OutputGrouped, OutputJSON, OutputGitHub, OutputStatistics,
}

// ParseOutputFormat validates an output format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	for _, f := range OutputFormats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *OutputFormat) UnmarshalText(b []byte) error {
	v, err := ParseOutputFormat(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ProgressBar selects the progress bar style.
type ProgressBar string

// Progress bar styles.
const (
	ProgressOff   ProgressBar = "off"
	ProgressASCII ProgressBar = "ascii"
	ProgressFancy ProgressBar = "fancy"
)

// ParseProgressBar validates a progress bar style.
func ParseProgressBar(s string) (ProgressBar, error) {
	switch p := ProgressBar(strings.ToLower(s)); p {
	case ProgressOff, ProgressASCII, ProgressFancy:
		return p, nil
	}
	return "", fmt.Errorf("unknown progress bar style %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ProgressBar) UnmarshalText(b []byte) error {
	v, err := ParseProgressBar(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// PatternPrefixPair removes the rules matching Selector from files matching
// Pattern.
type PatternPrefixPair struct {
	Pattern  string   `yaml:"pattern"`
	Selector Selector `yaml:"selector"`
}

// ParsePatternPrefixPair parses "PATTERN:SELECTOR". The pattern may itself
// contain ':' so the split is at the last one.
func ParsePatternPrefixPair(s string) (PatternPrefixPair, error) {
	i := strings.LastIndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return PatternPrefixPair{}, fmt.Errorf("expected PATTERN:CODE, got %q", s)
	}
	sel, err := ParseSelector(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return PatternPrefixPair{}, err
	}
	return PatternPrefixPair{Pattern: strings.TrimSpace(s[:i]), Selector: sel}, nil
}

// String returns "PATTERN:SELECTOR".
func (p PatternPrefixPair) String() string {
	return p.Pattern + ":" + p.Selector.String()
}

// Settings is the resolved configuration of one invocation. It is read-only
// once built.
type Settings struct {
	LineLength   int          `yaml:"line-length"`
	Preview      bool         `yaml:"preview"`
	ProgressBar  ProgressBar  `yaml:"progress-bar"`
	OutputFormat OutputFormat `yaml:"output-format"`

	// Select is nil when not given; an empty non-nil slice selects nothing.
	Select               []Selector          `yaml:"select"`
	Ignore               []Selector          `yaml:"ignore"`
	ExtendSelect         []Selector          `yaml:"extend-select"`
	ExtendIgnore         []Selector          `yaml:"extend-ignore"`
	PerFileIgnores       []PatternPrefixPair `yaml:"per-file-ignores"`
	ExtendPerFileIgnores []PatternPrefixPair `yaml:"extend-per-file-ignores"`

	Fix         bool `yaml:"fix"`
	UnsafeFixes bool `yaml:"unsafe-fixes"`
	ShowFixes   bool `yaml:"show-fixes"`
	FixOnly     bool `yaml:"fix-only"`

	FileExtensions []string `yaml:"file-extensions"`
	Exclude        []string `yaml:"exclude"`
	ExtendExclude  []string `yaml:"extend-exclude"`
	ForceExclude   bool     `yaml:"force-exclude"`

	// RuleOptions holds per-rule options keyed by rule code.
	RuleOptions map[string]map[string]any `yaml:"rules,omitempty"`
}

// Default values.
const (
	DefaultLineLength = 100
)

// DefaultFileExtensions are the free-form Fortran suffixes checked by
// default. Fixed-form suffixes (f, for, ftn) are left out since the parser
// only reads free-form source.
var DefaultFileExtensions = []string{
	"f90", "F90", "f95", "F95", "f03", "F03", "f08", "F08", "f18", "F18", "f23", "F23",
}

// DefaultExclude lists directories skipped by discovery.
var DefaultExclude = []string{
	".git", ".hg", ".svn", ".venv", "venv", "build", "_build", "node_modules", "dist",
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		LineLength:     DefaultLineLength,
		ProgressBar:    ProgressOff,
		OutputFormat:   OutputFull,
		FileExtensions: append([]string(nil), DefaultFileExtensions...),
		Exclude:        append([]string(nil), DefaultExclude...),
	}
}

// Options returns the options configured for a rule, or nil.
func (s *Settings) Options(code string) map[string]any {
	if s == nil {
		return nil
	}
	return s.RuleOptions[code]
}

// AllPerFileIgnores merges per-file-ignores with extend-per-file-ignores.
func (s *Settings) AllPerFileIgnores() []PatternPrefixPair {
	out := make([]PatternPrefixPair, 0, len(s.PerFileIgnores)+len(s.ExtendPerFileIgnores))
	out = append(out, s.PerFileIgnores...)
	return append(out, s.ExtendPerFileIgnores...)
}
