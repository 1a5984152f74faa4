// File: internal/reporting/json.go
package reporting

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
	"github.com/xkilldash9x/scalpel-tree/internal/tree"
)

// jsonAPI is used for its streaming writer, which keeps object keys in
// insertion order.
var jsonAPI = jsoniter.Config{
	IndentionStep: 2,
	EscapeHTML:    true,
}.Froze()

// JSONFormatter renders Lists as objects, StringLists as arrays and scalars
// as native JSON values. Hex-hinted integers become strings ("0xFF") so the
// hint survives; unset scalars become null.
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter { return &JSONFormatter{} }

// Format writes root's children as the top-level object. A root that is not
// a List is wrapped as {name: value}.
func (f *JSONFormatter) Format(w io.Writer, root *tree.Node) error {
	stream := jsoniter.NewStream(jsonAPI, w, 4096)
	seen := map[*tree.Node]struct{}{}
	if root.Kind() == tree.List {
		writeJSONValue(stream, root, seen)
	} else {
		stream.WriteObjectStart()
		stream.WriteObjectField(root.Name())
		writeJSONValue(stream, root, seen)
		stream.WriteObjectEnd()
	}
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return fmt.Errorf("failed to encode JSON report: %w", stream.Error)
	}
	if err := stream.Flush(); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

func writeJSONValue(stream *jsoniter.Stream, n *tree.Node, seen map[*tree.Node]struct{}) {
	switch n.Kind() {
	case tree.List:
		if _, dup := seen[n]; dup {
			stream.WriteNil()
			return
		}
		seen[n] = struct{}{}
		children := n.Children()
		if len(children) == 0 {
			stream.WriteEmptyObject()
			return
		}
		stream.WriteObjectStart()
		for i, c := range children {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(c.Name())
			writeJSONValue(stream, c, seen)
		}
		stream.WriteObjectEnd()
	case tree.StringList:
		strs := n.Strings()
		if len(strs) == 0 {
			stream.WriteEmptyArray()
			return
		}
		stream.WriteArrayStart()
		for i, s := range strs {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteString(s)
		}
		stream.WriteArrayEnd()
	default:
		writeJSONScalar(stream, n)
	}
}

func writeJSONScalar(stream *jsoniter.Stream, n *tree.Node) {
	v, ok := n.Scalar()
	if !ok {
		stream.WriteNil()
		return
	}
	if n.Kind().IsInteger() && n.Hint() == tree.Hexadecimal {
		stream.WriteString(n.Render())
		return
	}
	switch v := v.(type) {
	case uint32:
		stream.WriteUint32(v)
	case uint16:
		stream.WriteUint16(v)
	case uint64:
		stream.WriteUint64(v)
	case float32:
		stream.WriteFloat32(v)
	case float64:
		stream.WriteFloat64(v)
	case string:
		stream.WriteString(v)
	case schemas.ThreatLevel:
		stream.WriteString(v.String())
	default:
		stream.WriteNil()
	}
}
