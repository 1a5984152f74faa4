// File: internal/tree/payload.go
package tree

import "github.com/xkilldash9x/scalpel-tree/api/schemas"

// payload is the sealed union of node contents. A nil payload means the
// value was never set; for containers that is distinct from an empty one.
type payload interface {
	kind() Kind
	clone() payload
}

type uint32Payload struct{ v uint32 }
type uint16Payload struct{ v uint16 }
type uint64Payload struct{ v uint64 }
type floatPayload struct{ v float32 }
type doublePayload struct{ v float64 }
type stringPayload struct{ v string }
type threatPayload struct{ v schemas.ThreatLevel }

type listPayload struct{ children []*Node }
type stringsPayload struct{ items []string }

func (uint32Payload) kind() Kind   { return UInt32 }
func (uint16Payload) kind() Kind   { return UInt16 }
func (uint64Payload) kind() Kind   { return UInt64 }
func (floatPayload) kind() Kind    { return Float }
func (doublePayload) kind() Kind   { return Double }
func (stringPayload) kind() Kind   { return String }
func (threatPayload) kind() Kind   { return ThreatLevel }
func (*listPayload) kind() Kind    { return List }
func (*stringsPayload) kind() Kind { return StringList }

func (p uint32Payload) clone() payload { return p }
func (p uint16Payload) clone() payload { return p }
func (p uint64Payload) clone() payload { return p }
func (p floatPayload) clone() payload  { return p }
func (p doublePayload) clone() payload { return p }
func (p stringPayload) clone() payload { return p }
func (p threatPayload) clone() payload { return p }

// clone on a list copies the slice only; Node.Clone deep-copies children.
func (p *listPayload) clone() payload {
	return &listPayload{children: append([]*Node(nil), p.children...)}
}

func (p *stringsPayload) clone() payload {
	return &stringsPayload{items: append([]string(nil), p.items...)}
}
