// File: internal/tree/find.go
package tree

import "unicode/utf8"

// Find returns the first node called name below n, or nil.
//
// Direct children are checked in insertion order before any child List is
// searched, so a shallow match always wins over a deeper one. Duplicate names
// are allowed but which one is returned beyond that rule should not be relied
// upon. Each List is searched at most once, so shared or cyclic references
// terminate.
func (n *Node) Find(name string) *Node {
	if n.kind != List {
		n.warn("find", "tried to find a node in a non-List node")
		return nil
	}
	p, ok := n.value.(*listPayload)
	if !ok {
		n.warn("find", "List node has no data")
		return nil
	}
	return findIn(p, name, map[*Node]struct{}{n: {}})
}

func findIn(p *listPayload, name string, seen map[*Node]struct{}) *Node {
	for _, c := range p.children {
		if c.name == name {
			return c
		}
	}
	for _, c := range p.children {
		cp, ok := c.value.(*listPayload)
		if !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if hit := findIn(cp, name, seen); hit != nil {
			return hit
		}
	}
	return nil
}

// Find is the free-function form of (*Node).Find. A nil root yields nil.
func Find(root *Node, name string) *Node {
	if root == nil {
		return nil
	}
	return root.Find(name)
}

// MaxWidth returns the length, in runes, of the longest name among the
// direct children of a List node. It is 0 for empty lists and for any other
// kind, and never logs.
func MaxWidth(n *Node) int {
	if n == nil {
		return 0
	}
	p, ok := n.value.(*listPayload)
	if !ok {
		return 0
	}
	width := 0
	for _, c := range p.children {
		width = max(width, utf8.RuneCountInString(c.name))
	}
	return width
}

// Walk calls fn for n and then, in pre-order, every node below it. depth is 0
// for n. Returning false from fn skips that node's children. Nodes reachable
// through more than one List are visited once. Walk never logs.
func Walk(n *Node, fn func(node *Node, depth int) bool) {
	if n == nil {
		return
	}
	walk(n, 0, fn, make(map[*Node]struct{}))
}

func walk(n *Node, depth int, fn func(*Node, int) bool, seen map[*Node]struct{}) {
	if _, dup := seen[n]; dup {
		return
	}
	seen[n] = struct{}{}
	if !fn(n, depth) {
		return
	}
	p, ok := n.value.(*listPayload)
	if !ok {
		return
	}
	for _, c := range p.children {
		walk(c, depth+1, fn, seen)
	}
}
