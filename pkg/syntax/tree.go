package syntax

import (
	"fortio.org/safecast"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/leapstack-labs/fortlint/pkg/token"
)

// Tree is a parsed file. It owns native parser memory: call Close when done,
// after which none of its nodes may be used.
type Tree struct {
	src      []byte
	raw      *tree_sitter.Tree
	comments []*token.Comment
}

// Source returns the text the tree was parsed from.
func (t *Tree) Source() []byte { return t.src }

// Root returns the translation_unit node.
func (t *Tree) Root() Node {
	if t == nil || t.raw == nil {
		return Node{}
	}
	return t.wrap(t.raw.RootNode())
}

// Comments returns the comments in source order.
func (t *Tree) Comments() []*token.Comment { return t.comments }

// Close releases the tree. It is safe to call more than once.
func (t *Tree) Close() {
	if t != nil && t.raw != nil {
		t.raw.Close()
		t.raw = nil
	}
}

func (t *Tree) wrap(n *tree_sitter.Node) Node {
	if n == nil {
		return Node{}
	}
	return Node{tree: t, raw: *n}
}

// Node is a handle to a node in a Tree. The zero Node is null; accessors on a
// null node return zero values.
type Node struct {
	tree *Tree
	raw  tree_sitter.Node
}

// IsNull reports whether n refers to no node.
func (n Node) IsNull() bool { return n.tree == nil }

// Kind returns the node kind, e.g. "module" or "implicit_statement".
func (n Node) Kind() string {
	if n.IsNull() {
		return ""
	}
	return n.raw.Kind()
}

// IsNamed reports whether the node is a named node. Keyword leaves such as
// "end" or "implicit" are unnamed.
func (n Node) IsNamed() bool {
	return !n.IsNull() && n.raw.IsNamed()
}

// StartByte returns the offset of the node's first byte.
func (n Node) StartByte() int {
	if n.IsNull() {
		return 0
	}
	return safecast.MustConv[int](n.raw.StartByte())
}

// EndByte returns the offset just past the node's last byte.
func (n Node) EndByte() int {
	if n.IsNull() {
		return 0
	}
	return safecast.MustConv[int](n.raw.EndByte())
}

// Position returns the line and byte column of the node's first byte.
func (n Node) Position() token.Position {
	if n.IsNull() {
		return token.Position{}
	}
	return position(n.raw.StartPosition(), n.StartByte())
}

// Span returns the node's range as positions.
func (n Node) Span() token.Span {
	if n.IsNull() {
		return token.Span{}
	}
	return token.Span{Start: n.Position(), End: position(n.raw.EndPosition(), n.EndByte())}
}

func position(p tree_sitter.Point, offset int) token.Position {
	return token.Position{
		Line:   safecast.MustConv[int](p.Row) + 1,
		Column: safecast.MustConv[int](p.Column) + 1,
		Offset: offset,
	}
}

// Text returns the source text covered by the node.
func (n Node) Text() []byte {
	if n.IsNull() {
		return nil
	}
	return n.tree.src[n.StartByte():n.EndByte()]
}

// Parent returns the parent node, or a null node for the root.
func (n Node) Parent() Node {
	if n.IsNull() {
		return Node{}
	}
	return n.tree.wrap(n.raw.Parent())
}

// ChildCount returns the number of children, named and unnamed.
func (n Node) ChildCount() int {
	if n.IsNull() {
		return 0
	}
	return safecast.MustConv[int](n.raw.ChildCount())
}

// Child returns the i-th child, or a null node when i is out of range.
func (n Node) Child(i int) Node {
	if i < 0 || i >= n.ChildCount() {
		return Node{}
	}
	return n.tree.wrap(n.raw.Child(uint(i)))
}

// Children returns all children in source order.
func (n Node) Children() []Node {
	if n.IsNull() {
		return nil
	}
	tc := n.raw.Walk()
	defer tc.Close()
	kids := n.raw.Children(tc)
	out := make([]Node, len(kids))
	for i := range kids {
		out[i] = Node{tree: n.tree, raw: kids[i]}
	}
	return out
}

// NamedChildren returns the named children in source order.
func (n Node) NamedChildren() []Node {
	var out []Node
	for _, c := range n.Children() {
		if c.IsNamed() {
			out = append(out, c)
		}
	}
	return out
}

// ChildOfKind returns the first child of the given kind.
func (n Node) ChildOfKind(kind string) Node {
	for _, c := range n.Children() {
		if c.Kind() == kind {
			return c
		}
	}
	return Node{}
}

// NextSibling returns the following sibling, or a null node.
func (n Node) NextSibling() Node {
	if n.IsNull() {
		return Node{}
	}
	return n.tree.wrap(n.raw.NextSibling())
}

// PrevSibling returns the preceding sibling, or a null node.
func (n Node) PrevSibling() Node {
	if n.IsNull() {
		return Node{}
	}
	return n.tree.wrap(n.raw.PrevSibling())
}

// Equal reports whether n and o are the same node of the same tree.
func (n Node) Equal(o Node) bool {
	if n.IsNull() || o.IsNull() {
		return n.IsNull() == o.IsNull()
	}
	return n.tree == o.tree && n.raw.Id() == o.raw.Id()
}

// String returns the S-expression of the subtree, for tests and debugging.
func (n Node) String() string {
	if n.IsNull() {
		return "<null>"
	}
	return n.raw.ToSexp()
}
