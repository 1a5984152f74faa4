// File: internal/tree/kind.go
package tree

import "fmt"

// Kind is the payload tag of a Node. It is fixed at construction.
type Kind int

const (
	List Kind = iota
	UInt32
	UInt16
	UInt64
	Float
	Double
	String
	StringList
	ThreatLevel
)

var kindNames = map[Kind]string{
	List:        "List",
	UInt32:      "UInt32",
	UInt16:      "UInt16",
	UInt64:      "UInt64",
	Float:       "Float",
	Double:      "Double",
	String:      "String",
	StringList:  "StringList",
	ThreatLevel: "ThreatLevel",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	for kind, name := range kindNames {
		if name == string(d) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unrecognized kind %q", d)
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{List, UInt32, UInt16, UInt64, Float, Double, String, StringList, ThreatLevel}
}

// IsContainer reports whether nodes of this kind hold a sequence.
func (k Kind) IsContainer() bool {
	return k == List || k == StringList
}

// IsInteger reports whether the display hint is meaningful for this kind.
func (k Kind) IsInteger() bool {
	switch k {
	case UInt16, UInt32, UInt64:
		return true
	default:
		return false
	}
}

// DisplayHint is advisory rendering information. Only integer kinds honor it.
type DisplayHint int

const (
	Default DisplayHint = iota
	Decimal
	Hexadecimal
)

func (h DisplayHint) String() string {
	switch h {
	case Default:
		return "Default"
	case Decimal:
		return "Decimal"
	case Hexadecimal:
		return "Hexadecimal"
	default:
		return "<unknown hint>"
	}
}

func (h DisplayHint) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *DisplayHint) UnmarshalText(d []byte) error {
	switch string(d) {
	case "Default":
		*h = Default
	case "Decimal":
		*h = Decimal
	case "Hexadecimal":
		*h = Hexadecimal
	default:
		return fmt.Errorf("unrecognized display hint %q", d)
	}
	return nil
}
