// File: internal/reporting/dot.go
package reporting

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
	"github.com/xkilldash9x/scalpel-tree/internal/tree"
)

// threatFill is the node fill color for each verdict in graph output.
var threatFill = map[schemas.ThreatLevel]string{
	schemas.ThreatMalicious:  "lightcoral",
	schemas.ThreatSuspicious: "khaki",
	schemas.ThreatSafe:       "palegreen",
}

// DOTFormatter renders the tree as a Graphviz digraph, one box per node and
// one edge per parent/child link. A node shared by several Lists appears once
// with several incoming edges.
type DOTFormatter struct{}

func NewDOTFormatter() *DOTFormatter { return &DOTFormatter{} }

func (f *DOTFormatter) Format(w io.Writer, root *tree.Node) error {
	if _, err := io.WriteString(w, toDOT(root)); err != nil {
		return fmt.Errorf("failed to write DOT report: %w", err)
	}
	return nil
}

// SVGFormatter lays out the DOT graph with Graphviz and writes SVG.
type SVGFormatter struct{}

func NewSVGFormatter() *SVGFormatter { return &SVGFormatter{} }

func (f *SVGFormatter) Format(w io.Writer, root *tree.Node) error {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(toDOT(root)))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, graphviz.SVG, w); err != nil {
		return fmt.Errorf("render SVG: %w", err)
	}
	return nil
}

func toDOT(root *tree.Node) string {
	var nodes, edges bytes.Buffer
	ids := map[*tree.Node]string{}

	var visit func(n *tree.Node) string
	visit = func(n *tree.Node) string {
		if id, ok := ids[n]; ok {
			return id
		}
		id := "n" + strconv.Itoa(len(ids))
		ids[n] = id
		fmt.Fprintf(&nodes, "  %s [%s];\n", id, strings.Join(dotAttrs(n), ", "))
		if n.Kind() == tree.List && n.IsSet() {
			for _, c := range n.Children() {
				child := visit(c)
				fmt.Fprintf(&edges, "  %s -> %s;\n", id, child)
			}
		}
		return id
	}
	visit(root)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=monospace];\n")
	buf.WriteString("\n")
	buf.Write(nodes.Bytes())
	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(n *tree.Node) []string {
	attrs := []string{"label=" + dotQuote(dotLabel(n))}
	switch {
	case n.Kind() == tree.List:
		attrs = append(attrs, "fillcolor=lightgrey")
	case n.Kind() == tree.ThreatLevel && n.IsSet():
		if fill, ok := threatFill[n.ThreatLevel()]; ok {
			attrs = append(attrs, "fillcolor="+fill)
		}
	}
	return attrs
}

func dotLabel(n *tree.Node) string {
	switch {
	case n.Kind() == tree.List:
		return n.Name()
	case n.Kind() == tree.StringList:
		return n.Name() + "\n" + strings.Join(n.Strings(), "\n")
	case !n.IsSet():
		return n.Name() + " (unset)"
	default:
		return n.Name() + " = " + n.Render()
	}
}

// dotQuote quotes s as a DOT string. Newlines become centered line breaks.
func dotQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
