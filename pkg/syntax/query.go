package syntax

import (
	"cmp"
	"fmt"
	"slices"

	"fortio.org/safecast"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Query is a compiled tree-sitter query over the Fortran grammar:
//
//	(module
//	  (implicit_statement (none))
//	  (internal_procedures
//	    (function (implicit_statement (none)) @inner))) @scope
//
// A Query is immutable and may be matched from many goroutines at once.
type Query struct {
	source string
	raw    *tree_sitter.Query
	names  []string
}

// Capture is a node bound to a capture name.
type Capture struct {
	Name string
	Node Node
}

// Match is one way a pattern matched. Captures are in source order.
type Match struct {
	Pattern  int
	Captures []Capture
}

// Nodes returns the nodes bound to name.
func (m Match) Nodes(name string) []Node {
	var out []Node
	for _, c := range m.Captures {
		if c.Name == name {
			out = append(out, c.Node)
		}
	}
	return out
}

// Node returns the first node bound to name.
func (m Match) Node(name string) (Node, bool) {
	for _, c := range m.Captures {
		if c.Name == name {
			return c.Node, true
		}
	}
	return Node{}, false
}

// QueryError reports a malformed query.
type QueryError struct {
	Line, Column int
	Message      string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// CompileQuery compiles src against the Fortran grammar. Unknown node kinds
// and unbalanced patterns are reported as *QueryError.
func CompileQuery(src string) (*Query, error) {
	raw, qerr := tree_sitter.NewQuery(fortran, src)
	if qerr != nil {
		return nil, &QueryError{
			Line:    safecast.MustConv[int](qerr.Row) + 1,
			Column:  safecast.MustConv[int](qerr.Column) + 1,
			Message: qerr.Message,
		}
	}
	return &Query{source: src, raw: raw, names: raw.CaptureNames()}, nil
}

// String returns the query source.
func (q *Query) String() string { return q.source }

// PatternCount returns the number of top-level patterns.
func (q *Query) PatternCount() int { return safecast.MustConv[int](q.raw.PatternCount()) }

// CaptureNames returns the capture names in order of first appearance.
func (q *Query) CaptureNames() []string { return slices.Clone(q.names) }

// Close releases the compiled query.
func (q *Query) Close() {
	if q.raw != nil {
		q.raw.Close()
		q.raw = nil
	}
}

// Matches runs the query over root and its descendants. Matches come in
// the order tree-sitter reports them.
func (q *Query) Matches(root Node) []Match {
	if root.IsNull() {
		return nil
	}
	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	var out []Match
	matches := qc.Matches(q.raw, &root.raw, root.tree.src)
	for m := matches.Next(); m != nil; m = matches.Next() {
		match := Match{Pattern: safecast.MustConv[int](m.PatternIndex)}
		for _, c := range m.Captures {
			match.Captures = append(match.Captures, Capture{
				Name: q.names[c.Index],
				Node: Node{tree: root.tree, raw: c.Node},
			})
		}
		slices.SortStableFunc(match.Captures, func(a, b Capture) int {
			return cmp.Compare(a.Node.StartByte(), b.Node.StartByte())
		})
		out = append(out, match)
	}
	return out
}
