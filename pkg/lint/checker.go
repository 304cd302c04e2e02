package lint

import (
	"slices"

	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// Result is the outcome of checking one file.
type Result struct {
	// Violations are sorted by position then code, without duplicates.
	Violations []Violation
	// Suppressed counts violations silenced by noqa comments.
	Suppressed int
}

// Checker runs rule sets against files. It holds no per-file state and is
// safe for concurrent use.
type Checker struct {
	registry *Registry
}

// NewChecker returns a checker for the rules of reg.
func NewChecker(reg *Registry) *Checker {
	return &Checker{registry: reg}
}

// Check parses file and runs the rules of rs over it. A parse failure is
// returned as *syntax.ParseError and no rule runs.
func (c *Checker) Check(file *source.File, rs RuleSet) (*Result, error) {
	tree, err := syntax.Parse(file.Text)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return c.CheckTree(tree, file, rs), nil
}

// CheckTree runs the rules of rs over an already parsed file. Node rules are
// dispatched through the registry's kind index.
func (c *Checker) CheckTree(tree *syntax.Tree, file *source.File, rs RuleSet) *Result {
	var out []Violation
	report := func(code string, vs []Violation) {
		for _, v := range vs {
			v.Code = code
			out = append(out, v)
		}
	}

	var treeRules, queryRules []*registeredRule
	walkNodes := false
	for _, code := range rs {
		rr, ok := c.registry.rules[code]
		if !ok {
			continue
		}
		switch rr.def.Method.(type) {
		case NodeMethod:
			walkNodes = true
		case TreeMethod:
			treeRules = append(treeRules, rr)
		case QueryMethod:
			queryRules = append(queryRules, rr)
		}
	}

	root := tree.Root()
	if walkNodes {
		cur := syntax.NewCursor(root)
		defer cur.Close()
		for n, ok := cur.Next(); ok; n, ok = cur.Next() {
			if !n.IsNamed() {
				continue
			}
			for _, rr := range c.registry.nodeRules(n.Kind()) {
				if rs.Contains(rr.def.Code) {
					report(rr.def.Code, rr.def.Method.(NodeMethod).Check(n, file))
				}
			}
		}
	}
	for _, rr := range treeRules {
		report(rr.def.Code, rr.def.Method.(TreeMethod).Check(root, file))
	}
	for _, rr := range queryRules {
		m := rr.def.Method.(QueryMethod)
		for _, q := range rr.queries {
			for _, match := range q.Matches(root) {
				report(rr.def.Code, m.Report(match, file))
			}
		}
	}

	res := &Result{}
	out, res.Suppressed = suppress(out, file, tree.Comments())
	res.Violations = Normalize(out)
	return res
}

// Normalize sorts violations by position then code and drops duplicates of
// the same span, code and message.
func Normalize(vs []Violation) []Violation {
	slices.SortStableFunc(vs, Compare)
	seen := make(map[identity]bool, len(vs))
	out := vs[:0]
	for _, v := range vs {
		id := v.identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, v)
	}
	return out
}
