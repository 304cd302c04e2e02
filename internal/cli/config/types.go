// Package config loads fortlint configuration.
//
// Values are layered with koanf: built-in defaults, then a config file
// (fortlint.toml, .fortlint.toml, fortlint.yaml, .fortlint.yaml or the
// [extra.fortlint] table of fpm.toml), then FORTLINT_* environment
// variables, then command-line flags. Every layer writes below the "check"
// key, so a file looks like
//
//	[check]
//	line-length = 120
//	select = ["T", "M001"]
//
// or, in YAML,
//
//	check:
//	  line-length: 120
//	  select: [T, M001]
package config

import (
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/fortlint/pkg/lint"
)

// DefaultCacheDir is the cache directory, relative to the project root.
const DefaultCacheDir = ".fortlint_cache"

// Config holds the loaded configuration.
type Config struct {
	Check CheckConfig `koanf:"check"`

	// File is the config file that was loaded, or "".
	File string `koanf:"-"`
	// ProjectRoot anchors relative paths: the config file's directory or
	// the working directory.
	ProjectRoot string `koanf:"-"`
}

// CheckConfig mirrors the flags of the check command.
type CheckConfig struct {
	LineLength   int               `koanf:"line-length"`
	Preview      bool              `koanf:"preview"`
	ProgressBar  lint.ProgressBar  `koanf:"progress-bar"`
	OutputFormat lint.OutputFormat `koanf:"output-format"`

	Select               []lint.Selector          `koanf:"select"`
	Ignore               []lint.Selector          `koanf:"ignore"`
	ExtendSelect         []lint.Selector          `koanf:"extend-select"`
	ExtendIgnore         []lint.Selector          `koanf:"extend-ignore"`
	PerFileIgnores       []lint.PatternPrefixPair `koanf:"per-file-ignores"`
	ExtendPerFileIgnores []lint.PatternPrefixPair `koanf:"extend-per-file-ignores"`

	Fix         bool `koanf:"fix"`
	UnsafeFixes bool `koanf:"unsafe-fixes"`
	ShowFixes   bool `koanf:"show-fixes"`
	FixOnly     bool `koanf:"fix-only"`

	FileExtensions []string `koanf:"file-extensions"`
	Exclude        []string `koanf:"exclude"`
	ExtendExclude  []string `koanf:"extend-exclude"`
	ForceExclude   bool     `koanf:"force-exclude"`

	Rules map[string]map[string]any `koanf:"rules"`

	DocsBaseURL string `koanf:"docs-base-url"`
	Cache       bool   `koanf:"cache"`
	CacheDir    string `koanf:"cache-dir"`
}

// defaults is the first koanf layer. Selector lists are absent so that an
// unset "select" stays nil.
func defaults() map[string]any {
	d := lint.DefaultSettings()
	return map[string]any{
		"check.line-length":     d.LineLength,
		"check.preview":         false,
		"check.progress-bar":    string(d.ProgressBar),
		"check.output-format":   string(d.OutputFormat),
		"check.fix":             false,
		"check.unsafe-fixes":    false,
		"check.show-fixes":      false,
		"check.fix-only":        false,
		"check.file-extensions": d.FileExtensions,
		"check.exclude":         d.Exclude,
		"check.force-exclude":   false,
		"check.docs-base-url":   lint.DefaultDocsBaseURL,
		"check.cache":           true,
		"check.cache-dir":       DefaultCacheDir,
	}
}

// Settings converts the check section into the snapshot consumed by the
// lint engine.
func (c *Config) Settings() *lint.Settings {
	cc := c.Check
	return &lint.Settings{
		LineLength:           cc.LineLength,
		Preview:              cc.Preview,
		ProgressBar:          cc.ProgressBar,
		OutputFormat:         cc.OutputFormat,
		Select:               cc.Select,
		Ignore:               cc.Ignore,
		ExtendSelect:         cc.ExtendSelect,
		ExtendIgnore:         cc.ExtendIgnore,
		PerFileIgnores:       cc.PerFileIgnores,
		ExtendPerFileIgnores: cc.ExtendPerFileIgnores,
		Fix:                  cc.Fix || cc.FixOnly,
		UnsafeFixes:          cc.UnsafeFixes,
		ShowFixes:            cc.ShowFixes,
		FixOnly:              cc.FixOnly,
		FileExtensions:       normalizeExtensions(cc.FileExtensions),
		Exclude:              trimAll(cc.Exclude),
		ExtendExclude:        trimAll(cc.ExtendExclude),
		ForceExclude:         cc.ForceExclude,
		RuleOptions:          cc.Rules,
	}
}

// CachePath returns the absolute cache directory, or "" when caching is off.
func (c *Config) CachePath() string {
	if !c.Check.Cache || c.Check.CacheDir == "" {
		return ""
	}
	return resolvePathRelativeTo(c.Check.CacheDir, c.ProjectRoot)
}

// normalizeExtensions accepts "f90", ".f90" and " f90 ".
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimPrefix(strings.TrimSpace(e), ".")
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

func trimAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, filepath.ToSlash(s))
		}
	}
	return out
}
