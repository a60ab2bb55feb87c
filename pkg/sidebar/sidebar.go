// Package sidebar builds the navigation tree of a sorted catalog.
package sidebar

import (
	"strings"

	"github.com/macropower/storysort/pkg/catalog"
	"github.com/macropower/storysort/pkg/order"
)

// Node is a single path segment of the tree.
type Node struct {
	// Name is the path segment.
	Name string
	// Path is the kind prefix up to and including this segment.
	Path string
	// Children are the nested segments, in first-seen order.
	Children []*Node
	// Entries are the entries whose kind ends at this node.
	Entries []catalog.Entry
	// Depth is the zero-based depth of the segment.
	Depth int
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// child returns the child called name, creating it if needed.
func (n *Node) child(name, sep string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}

	path := name
	if n.Depth >= 0 {
		path = n.Path + sep + name
	}

	c := &Node{Name: name, Path: path, Depth: n.Depth + 1}

	n.Children = append(n.Children, c)

	return c
}

// Tree is the sidebar hierarchy. Siblings appear in the order their first
// entry appears, so a sorted catalog gives a sorted tree.
type Tree struct {
	root      *Node
	separator string
}

// Build creates a [Tree] from entries. Empty segments, as in "Forms//Input",
// are kept as unnamed nodes.
func Build(entries []catalog.Entry, sep string) *Tree {
	if sep == "" {
		sep = order.DefaultSeparator
	}

	t := &Tree{root: &Node{Depth: -1}, separator: sep}
	for _, e := range entries {
		n := t.root
		for seg := range strings.SplitSeq(e.Kind, sep) {
			n = n.child(seg, sep)
		}

		n.Entries = append(n.Entries, e)
	}

	return t
}

// Roots returns the top-level nodes.
func (t *Tree) Roots() []*Node {
	return t.root.Children
}

// Separator returns the kind separator the tree was built with.
func (t *Tree) Separator() string {
	return t.separator
}

// Walk calls fn for every node in display order. Returning false from fn
// skips the node's children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if fn(n) {
				walk(n.Children)
			}
		}
	}

	walk(t.root.Children)
}

// Entries returns all entries in display order. Entries of a node come
// before those of its children.
func (t *Tree) Entries() []catalog.Entry {
	out := []catalog.Entry{}
	t.Walk(func(n *Node) bool {
		out = append(out, n.Entries...)

		return true
	})

	return out
}
