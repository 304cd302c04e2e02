package lint

import (
	"github.com/leapstack-labs/fortlint/pkg/source"
	"github.com/leapstack-labs/fortlint/pkg/syntax"
)

// NodeCheckFunc inspects one named node whose kind is an entrypoint of the
// rule.
type NodeCheckFunc func(n syntax.Node, file *source.File) []Violation

// TreeCheckFunc inspects a whole file once.
type TreeCheckFunc func(root syntax.Node, file *source.File) []Violation

// QueryReportFunc turns one query match into violations.
type QueryReportFunc func(m syntax.Match, file *source.File) []Violation

// Method is how a rule inspects a file. It is one of NodeMethod, TreeMethod
// or QueryMethod.
type Method interface {
	methodKind() string
}

// NodeMethod is called for every named node whose kind is in Entrypoints.
// Keyword leaves sharing a kind name, such as the "function" keyword, are
// not dispatched.
type NodeMethod struct {
	Entrypoints []string
	Check       NodeCheckFunc
}

// TreeMethod is called once per file with the root node.
type TreeMethod struct {
	Check TreeCheckFunc
}

// QueryMethod compiles Queries once and calls Report for every match.
type QueryMethod struct {
	Queries []string
	Report  QueryReportFunc
}

func (NodeMethod) methodKind() string  { return "node" }
func (TreeMethod) methodKind() string  { return "tree" }
func (QueryMethod) methodKind() string { return "query" }

// RuleDef defines a lint rule with its metadata and check method.
type RuleDef struct {
	Code        string // e.g. "T001"
	Name        string // e.g. "implicit-typing"
	Group       string // e.g. "typing"
	Summary     string // one line, shown in listings
	Explanation string // markdown, shown by explain
	Fix         FixAvailability
	Preview     bool
	Method      Method
}

// RuleFunc builds a RuleDef from the shared settings.
type RuleFunc func(s *Settings) RuleDef

// Rule is the read-only view of a registered rule.
type Rule interface {
	Code() string
	Name() string
	Group() string
	Summary() string
	Explain() string
	FixAvailability() FixAvailability
	IsPreview() bool
}

// RuleInfo provides metadata about a rule for documentation and tooling.
type RuleInfo struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Group   string `json:"group"`
	Summary string `json:"summary"`
	Fix     string `json:"fix"`
	Preview bool   `json:"preview"`
	Type    string `json:"type"` // "node", "tree" or "query"
	DocURL  string `json:"doc_url"`
}

// GetRuleInfo extracts metadata from a Rule.
func GetRuleInfo(r Rule) RuleInfo {
	info := RuleInfo{
		Code:    r.Code(),
		Name:    r.Name(),
		Group:   r.Group(),
		Summary: r.Summary(),
		Fix:     r.FixAvailability().String(),
		Preview: r.IsPreview(),
		DocURL:  BuildDocURL(r.Code()),
	}
	if rr, ok := r.(*registeredRule); ok {
		info.Type = rr.def.Method.methodKind()
	}
	return info
}

// registeredRule is a RuleDef owned by a Registry, with its queries compiled.
type registeredRule struct {
	def     RuleDef
	queries []*syntax.Query
}

func (r *registeredRule) Code() string                     { return r.def.Code }
func (r *registeredRule) Name() string                     { return r.def.Name }
func (r *registeredRule) Group() string                    { return r.def.Group }
func (r *registeredRule) Summary() string                  { return r.def.Summary }
func (r *registeredRule) Explain() string                  { return r.def.Explanation }
func (r *registeredRule) FixAvailability() FixAvailability { return r.def.Fix }
func (r *registeredRule) IsPreview() bool                  { return r.def.Preview }

// Def returns the underlying definition.
func (r *registeredRule) Def() RuleDef { return r.def }
