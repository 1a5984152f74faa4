// File: internal/reporting/yaml.go
package reporting

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
	"github.com/xkilldash9x/scalpel-tree/internal/tree"
)

// YAMLFormatter renders the same mapping as JSONFormatter, using ordered
// mappings so keys keep their insertion order.
type YAMLFormatter struct{}

func NewYAMLFormatter() *YAMLFormatter { return &YAMLFormatter{} }

func (f *YAMLFormatter) Format(w io.Writer, root *tree.Node) error {
	seen := map[*tree.Node]struct{}{}
	var doc any
	if root.Kind() == tree.List {
		doc = yamlValue(root, seen)
	} else {
		doc = yaml.MapSlice{{Key: root.Name(), Value: yamlValue(root, seen)}}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write YAML report: %w", err)
	}
	return nil
}

func yamlValue(n *tree.Node, seen map[*tree.Node]struct{}) any {
	switch n.Kind() {
	case tree.List:
		if _, dup := seen[n]; dup {
			return nil
		}
		seen[n] = struct{}{}
		children := n.Children()
		m := make(yaml.MapSlice, 0, len(children))
		for _, c := range children {
			m = append(m, yaml.MapItem{Key: c.Name(), Value: yamlValue(c, seen)})
		}
		return m
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
	if level, isLevel := v.(schemas.ThreatLevel); isLevel {
		return level.String()
	}
	return v
}
