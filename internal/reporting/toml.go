// File: internal/reporting/toml.go
package reporting

import (
	"fmt"
	"io"
	"math"

	"github.com/BurntSushi/toml"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
	"github.com/xkilldash9x/scalpel-tree/internal/tree"
)

// TOMLFormatter renders Lists as tables. TOML tables are unordered and have
// no null, so keys come out sorted, unset scalars are dropped and of several
// siblings sharing a name only the last survives. Unsigned values beyond
// the signed 64-bit range are written as decimal strings.
type TOMLFormatter struct{}

func NewTOMLFormatter() *TOMLFormatter { return &TOMLFormatter{} }

func (f *TOMLFormatter) Format(w io.Writer, root *tree.Node) error {
	seen := map[*tree.Node]struct{}{}
	v := tomlValue(root, seen)
	doc, ok := v.(map[string]any)
	if !ok {
		doc = map[string]any{}
		if v != nil {
			doc[root.Name()] = v
		}
	}
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode TOML report: %w", err)
	}
	return nil
}

func tomlValue(n *tree.Node, seen map[*tree.Node]struct{}) any {
	switch n.Kind() {
	case tree.List:
		if _, dup := seen[n]; dup {
			return nil
		}
		seen[n] = struct{}{}
		table := map[string]any{}
		for _, c := range n.Children() {
			if v := tomlValue(c, seen); v != nil {
				table[c.Name()] = v
			}
		}
		return table
	case tree.StringList:
		return n.Strings()
	}
	v, ok := n.Scalar()
	if !ok {
		return nil
	}
	if n.Kind().IsInteger() && n.Hint() == tree.Hexadecimal {
		return n.Render()
	}
	switch x := v.(type) {
	case schemas.ThreatLevel:
		return x.String()
	case uint64:
		// TOML integers are signed 64-bit.
		if x > math.MaxInt64 {
			return n.Render()
		}
	}
	return v
}
