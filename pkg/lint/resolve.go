package lint

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// RuleSet is a sorted set of unique rule codes.
type RuleSet []string

// NewRuleSet returns the sorted, deduplicated set of codes.
func NewRuleSet(codes ...string) RuleSet {
	rs := slices.Clone(codes)
	slices.Sort(rs)
	return slices.Compact(rs)
}

// Contains reports whether code is in the set.
func (rs RuleSet) Contains(code string) bool {
	_, ok := slices.BinarySearch(rs, code)
	return ok
}

// Without returns a copy of rs without the codes matched by drop.
func (rs RuleSet) Without(drop func(code string) bool) RuleSet {
	out := make(RuleSet, 0, len(rs))
	for _, code := range rs {
		if !drop(code) {
			out = append(out, code)
		}
	}
	return out
}

type fileIgnore struct {
	pattern  string
	glob     glob.Glob
	selector Selector
}

// Resolver turns the selection settings into the rule set of each file.
// All selectors are validated by NewResolver; ForFile cannot fail.
type Resolver struct {
	registry *Registry
	global   RuleSet
	perFile  []fileIgnore
}

// NewResolver expands the selection settings against the registry:
//
//  1. start from every stable rule, plus preview rules in preview mode
//  2. select, when given, replaces that set
//  3. extend-select adds to it
//  4. ignore and extend-ignore remove from it
//
// Per-file ignores are compiled here and applied by ForFile.
func NewResolver(reg *Registry, s *Settings) (*Resolver, error) {
	if s == nil {
		s = DefaultSettings()
	}
	res := &Resolver{registry: reg}

	expand := func(sels []Selector, preview bool) ([]string, error) {
		var out []string
		for _, sel := range sels {
			codes, err := reg.Match(sel, preview)
			if err != nil {
				return nil, err
			}
			out = append(out, codes...)
		}
		return out, nil
	}

	var base []string
	if s.Select != nil {
		codes, err := expand(s.Select, s.Preview)
		if err != nil {
			return nil, err
		}
		base = codes
	} else {
		for _, code := range reg.codes {
			if s.Preview || !reg.rules[code].def.Preview {
				base = append(base, code)
			}
		}
	}
	extra, err := expand(s.ExtendSelect, s.Preview)
	if err != nil {
		return nil, err
	}
	// Ignores remove preview rules too, whatever the preview mode.
	removed, err := expand(append(slices.Clone(s.Ignore), s.ExtendIgnore...), true)
	if err != nil {
		return nil, err
	}
	res.global = NewRuleSet(append(base, extra...)...).Without(func(code string) bool {
		return slices.Contains(removed, code)
	})

	for _, pair := range s.AllPerFileIgnores() {
		if _, err := reg.Match(pair.Selector, s.Preview); err != nil {
			return nil, err
		}
		g, err := glob.Compile(pair.Pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("per-file-ignores pattern %q: %w", pair.Pattern, err)
		}
		res.perFile = append(res.perFile, fileIgnore{pattern: pair.Pattern, glob: g, selector: pair.Selector})
	}
	return res, nil
}

// Global returns the rule set before per-file ignores.
func (r *Resolver) Global() RuleSet { return r.global }

// ForFile returns the rules to run for the file at p. Per-file ignore
// patterns are matched against the slash-separated path and the base name.
func (r *Resolver) ForFile(p string) RuleSet {
	if len(r.perFile) == 0 {
		return r.global
	}
	p = strings.TrimPrefix(filepath.ToSlash(filepath.Clean(p)), "./")
	base := path.Base(p)
	var drop []Selector
	for _, fi := range r.perFile {
		if fi.glob.Match(p) || fi.glob.Match(base) {
			drop = append(drop, fi.selector)
		}
	}
	if len(drop) == 0 {
		return r.global
	}
	return r.global.Without(func(code string) bool {
		return slices.ContainsFunc(drop, func(sel Selector) bool { return sel.Matches(code) })
	})
}
