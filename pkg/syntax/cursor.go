package syntax

import (
	"iter"
	"slices"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Walk calls fn for n and its descendants in depth-first pre-order, going at
// most maxDepth levels below n. Children are skipped when fn returns false.
// Walk recurses, so it is meant for shallow lookups; it reports false when
// nodes below maxDepth were left unvisited. Use Descendants to traverse a
// whole file.
func Walk(n Node, maxDepth int, fn func(Node) bool) bool {
	if n.IsNull() {
		return true
	}
	return walk(n, fn, 0, maxDepth)
}

func walk(n Node, fn func(Node) bool, depth, maxDepth int) bool {
	if !fn(n) {
		return true
	}
	if n.ChildCount() == 0 {
		return true
	}
	if depth == maxDepth {
		return false
	}
	complete := true
	for _, c := range n.Children() {
		complete = walk(c, fn, depth+1, maxDepth) && complete
	}
	return complete
}

// Cursor walks a subtree in depth-first pre-order on a native tree cursor,
// so arbitrarily deep trees never grow the goroutine stack.
type Cursor struct {
	tree    *Tree
	tc      *tree_sitter.TreeCursor
	depth   int
	started bool
	skip    bool
}

// NewCursor returns a cursor positioned before n. Call Close when done.
func NewCursor(n Node) *Cursor {
	c := &Cursor{tree: n.tree}
	if !n.IsNull() {
		c.tc = n.raw.Walk()
	}
	return c
}

// Next advances to the next node in pre-order.
func (c *Cursor) Next() (Node, bool) {
	if c.tc == nil {
		return Node{}, false
	}
	if !c.started {
		c.started = true
		return c.current(), true
	}
	skip := c.skip
	c.skip = false
	if !skip && c.tc.GotoFirstChild() {
		c.depth++
		return c.current(), true
	}
	for c.depth > 0 {
		if c.tc.GotoNextSibling() {
			return c.current(), true
		}
		c.tc.GotoParent()
		c.depth--
	}
	c.Close()
	return Node{}, false
}

func (c *Cursor) current() Node {
	return c.tree.wrap(c.tc.Node())
}

// SkipChildren prevents the children of the current node from being visited.
func (c *Cursor) SkipChildren() {
	c.skip = true
}

// Close releases the cursor. Next reports no further nodes afterwards.
func (c *Cursor) Close() {
	if c.tc != nil {
		c.tc.Close()
		c.tc = nil
	}
}

// Descendants yields n and every node below it in pre-order.
func Descendants(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		c := NewCursor(n)
		defer c.Close()
		for {
			node, ok := c.Next()
			if !ok || !yield(node) {
				return
			}
		}
	}
}

// OfKind yields the nodes below n, n included, whose kind is one of kinds.
func OfKind(n Node, kinds ...string) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for node := range Descendants(n) {
			if slices.Contains(kinds, node.Kind()) && !yield(node) {
				return
			}
		}
	}
}

// Ancestor returns the closest proper ancestor of n with one of the given
// kinds, or a null node.
func Ancestor(n Node, kinds ...string) Node {
	for p := n.Parent(); !p.IsNull(); p = p.Parent() {
		if slices.Contains(kinds, p.Kind()) {
			return p
		}
	}
	return Node{}
}
