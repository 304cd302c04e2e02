package lint

import (
	"cmp"
	"fmt"
	"slices"
	"sort"

	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// Registry is the catalog of rules for one invocation. It is built once by
// NewRegistry and only read afterwards, so it can be shared between
// goroutines without locking.
type Registry struct {
	rules  map[string]*registeredRule
	codes  []string // sorted
	byKind map[string][]*registeredRule
}

// NewRegistry builds every rule from the settings, compiles their queries and
// indexes node rules by entrypoint kind. Duplicate codes, malformed queries
// and unknown entrypoint kinds are errors.
func NewRegistry(s *Settings, ctors ...RuleFunc) (*Registry, error) {
	if s == nil {
		s = DefaultSettings()
	}
	r := &Registry{
		rules:  make(map[string]*registeredRule, len(ctors)),
		byKind: make(map[string][]*registeredRule),
	}
	for _, ctor := range ctors {
		if err := r.add(ctor(s)); err != nil {
			return nil, err
		}
	}
	sort.Strings(r.codes)
	for kind, rules := range r.byKind {
		slices.SortFunc(rules, func(a, b *registeredRule) int {
			return cmp.Compare(a.def.Code, b.def.Code)
		})
		r.byKind[kind] = rules
	}
	return r, nil
}

func (r *Registry) add(def RuleDef) error {
	if _, err := ParseSelector(def.Code); err != nil || len(def.Code) < 4 {
		return fmt.Errorf("rule %q: malformed code", def.Code)
	}
	if _, dup := r.rules[def.Code]; dup {
		return fmt.Errorf("rule %s registered twice", def.Code)
	}
	rr := &registeredRule{def: def}
	switch m := def.Method.(type) {
	case NodeMethod:
		if m.Check == nil || len(m.Entrypoints) == 0 {
			return fmt.Errorf("rule %s: node method needs entrypoints and a check", def.Code)
		}
		for _, kind := range m.Entrypoints {
			if !syntax.IsKnownKind(kind) {
				return fmt.Errorf("rule %s: unknown entrypoint kind %q", def.Code, kind)
			}
		}
	case TreeMethod:
		if m.Check == nil {
			return fmt.Errorf("rule %s: tree method needs a check", def.Code)
		}
	case QueryMethod:
		if m.Report == nil || len(m.Queries) == 0 {
			return fmt.Errorf("rule %s: query method needs queries and a report", def.Code)
		}
		for _, src := range m.Queries {
			q, err := syntax.CompileQuery(src)
			if err != nil {
				return fmt.Errorf("rule %s: %w", def.Code, err)
			}
			rr.queries = append(rr.queries, q)
		}
	default:
		return fmt.Errorf("rule %s: no check method", def.Code)
	}
	r.rules[def.Code] = rr
	r.codes = append(r.codes, def.Code)
	if m, ok := def.Method.(NodeMethod); ok {
		for _, kind := range m.Entrypoints {
			r.byKind[kind] = append(r.byKind[kind], rr)
		}
	}
	return nil
}

// Len returns the number of registered rules.
func (r *Registry) Len() int { return len(r.codes) }

// Codes returns every registered code in ascending order.
func (r *Registry) Codes() []string { return slices.Clone(r.codes) }

// Get returns a rule by its code.
func (r *Registry) Get(code string) (Rule, bool) {
	rr, ok := r.rules[code]
	if !ok {
		return nil, false
	}
	return rr, true
}

// Rules returns every rule ordered by code.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.rules[code])
	}
	return out
}

// Groups returns the distinct rule groups in ascending order.
func (r *Registry) Groups() []string {
	var groups []string
	for _, code := range r.codes {
		g := r.rules[code].def.Group
		if !slices.Contains(groups, g) {
			groups = append(groups, g)
		}
	}
	sort.Strings(groups)
	return groups
}

// ByGroup returns the rules of one group ordered by code.
func (r *Registry) ByGroup(group string) []Rule {
	var out []Rule
	for _, code := range r.codes {
		if rr := r.rules[code]; rr.def.Group == group {
			out = append(out, rr)
		}
	}
	return out
}

// nodeRules returns the node rules subscribed to kind, ordered by code.
func (r *Registry) nodeRules(kind string) []*registeredRule {
	return r.byKind[kind]
}

// NodeRulesFor returns the codes of node rules subscribed to kind.
func (r *Registry) NodeRulesFor(kind string) []string {
	rules := r.byKind[kind]
	out := make([]string, len(rules))
	for i, rr := range rules {
		out[i] = rr.def.Code
	}
	return out
}

// Match expands a selector to registered codes in ascending order. ALL and
// prefixes include preview rules only when preview is set; an exact code
// always selects its rule. A selector that matches no registered code at
// all is a *SelectorError.
func (r *Registry) Match(sel Selector, preview bool) ([]string, error) {
	var out []string
	matched := false
	for _, code := range r.codes {
		if !sel.Matches(code) {
			continue
		}
		matched = true
		if sel.Kind != SelectorCode && r.rules[code].def.Preview && !preview {
			continue
		}
		out = append(out, code)
	}
	if !matched && sel.Kind != SelectorAll {
		return nil, &SelectorError{Selector: sel.Value, Reason: "no rule matches"}
	}
	return out, nil
}
