// File: internal/tree/builder.go
package tree

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
)

// Builder creates nodes bound to one diagnostic logger. Every warning a node
// emits goes to the logger of the Builder that created it.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder returns a Builder that reports misuse to logger. A nil logger
// discards warnings.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger.Named("output_tree")}
}

// Logger returns the logger nodes built by b warn into.
func (b *Builder) Logger() *zap.Logger { return b.logger }

// Option adjusts a node at construction. Only the integer constructors and
// New accept options, since the display hint means nothing to other kinds.
type Option func(*Node)

// WithHint sets the display hint.
func WithHint(h DisplayHint) Option {
	return func(n *Node) { n.hint = h }
}

// AsHex renders integers as 0x-prefixed hexadecimal.
func AsHex() Option { return WithHint(Hexadecimal) }

// AsDecimal renders integers in base 10.
func AsDecimal() Option { return WithHint(Decimal) }

func (b *Builder) node(name string, kind Kind, hint DisplayHint, v payload, opts []Option) *Node {
	n := &Node{name: name, kind: kind, hint: hint, value: v, logger: b.logger}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Uint32 creates a UInt32 node, rendered in decimal unless an option says otherwise.
func (b *Builder) Uint32(name string, v uint32, opts ...Option) *Node {
	return b.node(name, UInt32, Decimal, uint32Payload{v: v}, opts)
}

// Uint16 creates a UInt16 node.
func (b *Builder) Uint16(name string, v uint16, opts ...Option) *Node {
	return b.node(name, UInt16, Decimal, uint16Payload{v: v}, opts)
}

// Uint64 creates a UInt64 node.
func (b *Builder) Uint64(name string, v uint64, opts ...Option) *Node {
	return b.node(name, UInt64, Decimal, uint64Payload{v: v}, opts)
}

// Float creates a single-precision Float node.
func (b *Builder) Float(name string, v float32) *Node {
	return b.node(name, Float, Default, floatPayload{v: v}, nil)
}

// Double creates a Double node.
func (b *Builder) Double(name string, v float64) *Node {
	return b.node(name, Double, Default, doublePayload{v: v}, nil)
}

// String creates a String node.
func (b *Builder) String(name, v string) *Node {
	return b.node(name, String, Default, stringPayload{v: v}, nil)
}

// ThreatLevel creates a ThreatLevel node holding a verdict.
func (b *Builder) ThreatLevel(name string, level schemas.ThreatLevel) *Node {
	return b.node(name, ThreatLevel, Default, threatPayload{v: level}, nil)
}

// List creates a List node holding children in order.
func (b *Builder) List(name string, children ...*Node) *Node {
	n := b.node(name, List, Default, &listPayload{}, nil)
	for _, c := range children {
		n.Append(c)
	}
	return n
}

// Strings creates a StringList node. The values are copied.
func (b *Builder) Strings(name string, values ...string) *Node {
	return b.node(name, StringList, Default, &stringsPayload{items: append([]string{}, values...)}, nil)
}

// StringSet creates a StringList node from a set, sorted.
func (b *Builder) StringSet(name string, set map[string]struct{}) *Node {
	return b.node(name, StringList, Default, &stringsPayload{items: slices.Sorted(maps.Keys(set))}, nil)
}

// New creates a node of the given kind without a value. List and StringList
// nodes start out empty; scalar nodes stay unset, and because updates require
// an existing value they cannot be filled in later. Options only apply to the
// integer kinds; every other kind keeps the Default hint.
func (b *Builder) New(name string, kind Kind, opts ...Option) *Node {
	var v payload
	switch kind {
	case List:
		v = &listPayload{}
	case StringList:
		v = &stringsPayload{}
	}
	if !kind.IsInteger() {
		return b.node(name, kind, Default, v, nil)
	}
	return b.node(name, kind, Decimal, v, opts)
}
