// File: internal/tree/node.go
package tree

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
)

// Node is a named, typed value in an output tree. The kind is chosen at
// construction and never changes; the payload always matches it.
//
// Nodes are handed around by pointer. A node is normally appended to exactly
// one List, but nothing prevents sharing a node between lists; in that case
// mutations are visible through every parent.
//
// Misuse (calling an accessor that does not apply to the node's kind, or
// reading a payload that was never set) is reported as a warning on the
// logger the node was built with and answered with an empty value.
type Node struct {
	name   string
	kind   Kind
	hint   DisplayHint
	value  payload
	logger *zap.Logger
}

// Name returns the name given at construction.
func (n *Node) Name() string { return n.name }

// Kind returns the node's fixed kind.
func (n *Node) Kind() Kind { return n.kind }

// Hint returns the display hint.
func (n *Node) Hint() DisplayHint { return n.hint }

// SetHint replaces the display hint.
func (n *Node) SetHint(h DisplayHint) { n.hint = h }

// IsSet reports whether the payload has been allocated. A List that was
// cleared is set; a scalar created with New and never assigned is not.
func (n *Node) IsSet() bool { return n.value != nil }

// Len returns the number of children or strings of a container node and 0
// for everything else.
func (n *Node) Len() int {
	switch p := n.value.(type) {
	case *listPayload:
		return len(p.children)
	case *stringsPayload:
		return len(p.items)
	}
	return 0
}

func (n *Node) warn(op, msg string) {
	l := n.logger
	if l == nil {
		return
	}
	l.Warn(msg,
		zap.String("node", n.name),
		zap.Stringer("kind", n.kind),
		zap.String("op", op),
	)
}

// Render returns the textual form of a scalar payload. Strings are returned
// verbatim. Integers honor the Hexadecimal hint ("0xFF", upper-case digits).
// Floating point values use the shortest representation that round-trips at
// their precision.
func (n *Node) Render() string {
	if n.kind.IsContainer() {
		n.warn("render", "cannot render a List or StringList node as a string")
		return ""
	}
	switch p := n.value.(type) {
	case nil:
		n.warn("render", "node has no value to render")
		return ""
	case stringPayload:
		return p.v
	case uint32Payload:
		return n.formatUint(uint64(p.v))
	case uint16Payload:
		return n.formatUint(uint64(p.v))
	case uint64Payload:
		return n.formatUint(p.v)
	case floatPayload:
		return strconv.FormatFloat(float64(p.v), 'g', -1, 32)
	case doublePayload:
		return strconv.FormatFloat(p.v, 'g', -1, 64)
	case threatPayload:
		return p.v.String()
	default:
		n.warn("render", "no string rendering for this kind")
		return ""
	}
}

func (n *Node) formatUint(v uint64) string {
	if n.hint == Hexadecimal {
		return "0x" + strings.ToUpper(strconv.FormatUint(v, 16))
	}
	return strconv.FormatUint(v, 10)
}

// Scalar returns the raw scalar value (uint32, uint16, uint64, float32,
// float64, string or schemas.ThreatLevel). ok is false for containers and
// unset scalars. It never logs.
func (n *Node) Scalar() (v any, ok bool) {
	switch p := n.value.(type) {
	case uint32Payload:
		return p.v, true
	case uint16Payload:
		return p.v, true
	case uint64Payload:
		return p.v, true
	case floatPayload:
		return p.v, true
	case doublePayload:
		return p.v, true
	case stringPayload:
		return p.v, true
	case threatPayload:
		return p.v, true
	}
	return nil, false
}

// ThreatLevel returns the stored verdict, or ThreatNoOpinion if the node is
// not a set ThreatLevel node.
func (n *Node) ThreatLevel() schemas.ThreatLevel {
	if n.kind != ThreatLevel {
		n.warn("threat_level", "tried to get a threat level from a non-ThreatLevel node")
		return schemas.ThreatNoOpinion
	}
	p, ok := n.value.(threatPayload)
	if !ok {
		n.warn("threat_level", "ThreatLevel node has no value")
		return schemas.ThreatNoOpinion
	}
	return p.v
}

// UpdateThreatLevel replaces the verdict of a ThreatLevel node that already
// holds one.
func (n *Node) UpdateThreatLevel(level schemas.ThreatLevel) {
	if n.kind != ThreatLevel {
		n.warn("update", "tried to set a threat level in a non-ThreatLevel node")
		return
	}
	if _, ok := n.value.(threatPayload); !ok {
		n.warn("update", "ThreatLevel node has no value to update")
		return
	}
	n.value = threatPayload{v: level}
}

// UpdateString replaces the value of a String node that already holds one.
// Nodes created with New(name, String) stay unset and refuse updates.
func (n *Node) UpdateString(s string) {
	if n.kind != String {
		n.warn("update", "tried to set a string in a non-String node")
		return
	}
	if _, ok := n.value.(stringPayload); !ok {
		n.warn("update", "String node has no value to update")
		return
	}
	n.value = stringPayload{v: s}
}

// -- List --

// Append adds child at the end of a List node.
func (n *Node) Append(child *Node) {
	if n.kind != List {
		n.warn("append", "tried to append a node, but is not a List node")
		return
	}
	if child == nil {
		n.warn("append", "ignoring nil child")
		return
	}
	p, ok := n.value.(*listPayload)
	if !ok {
		p = &listPayload{}
		n.value = p
	}
	p.children = append(p.children, child)
}

// Children returns a snapshot of a List node's children. The slice is a copy;
// the nodes are shared.
func (n *Node) Children() []*Node {
	if n.kind != List {
		n.warn("children", "tried to get the children of a non-List node")
		return []*Node{}
	}
	p, ok := n.value.(*listPayload)
	if !ok {
		n.warn("children", "List node has no data")
		return []*Node{}
	}
	return append([]*Node{}, p.children...)
}

// Clear empties a List node in place.
func (n *Node) Clear() {
	if n.kind != List {
		n.warn("clear", "tried to clear a non-List node")
		return
	}
	p, ok := n.value.(*listPayload)
	if !ok {
		n.warn("clear", "List node has no data")
		return
	}
	clear(p.children)
	p.children = p.children[:0]
}

// -- StringList --

// Strings returns a copy of a StringList node's strings.
func (n *Node) Strings() []string {
	if n.kind != StringList {
		n.warn("strings", "tried to get the strings of a non-StringList node")
		return []string{}
	}
	p, ok := n.value.(*stringsPayload)
	if !ok {
		n.warn("strings", "StringList node has no data")
		return []string{}
	}
	return append([]string{}, p.items...)
}

// AppendString adds s at the end of a StringList node.
func (n *Node) AppendString(s string) {
	n.AppendStrings([]string{s})
}

// AppendStrings concatenates ss to a StringList node.
func (n *Node) AppendStrings(ss []string) {
	if n.kind != StringList {
		n.warn("append", "tried to append strings, but is not a StringList node")
		return
	}
	p, ok := n.value.(*stringsPayload)
	if !ok {
		p = &stringsPayload{}
		n.value = p
	}
	p.items = append(p.items, ss...)
}

// -- Copying --

// Clone deep-copies the subtree rooted at n. Nodes reachable more than once
// are copied once, so aliasing and cycles inside the subtree are preserved.
func (n *Node) Clone() *Node {
	return n.cloneInto(make(map[*Node]*Node))
}

func (n *Node) cloneInto(done map[*Node]*Node) *Node {
	if c, ok := done[n]; ok {
		return c
	}
	c := &Node{name: n.name, kind: n.kind, hint: n.hint, logger: n.logger}
	done[n] = c
	if n.value == nil {
		return c
	}
	c.value = n.value.clone()
	if lp, ok := c.value.(*listPayload); ok {
		for i, child := range lp.children {
			lp.children[i] = child.cloneInto(done)
		}
	}
	return c
}
