// File: internal/reporting/raw.go
package reporting

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
	"github.com/xkilldash9x/scalpel-tree/internal/tree"
)

const rawIndent = "  "

// RawFormatter writes a human readable, column-aligned report. Labels of
// siblings are padded to the widest sibling name:
//
//	Size   : 1024
//	Format : PE
//	Files:
//	  a.exe:
//	    ...
type RawFormatter struct {
	threatColors map[schemas.ThreatLevel]*color.Color
}

// NewRawFormatter returns a raw formatter. When colored is true threat
// levels are painted regardless of whether the output is a terminal.
func NewRawFormatter(colored bool) *RawFormatter {
	f := &RawFormatter{}
	if !colored {
		return f
	}
	f.threatColors = map[schemas.ThreatLevel]*color.Color{
		schemas.ThreatMalicious:  color.New(color.FgRed, color.Bold),
		schemas.ThreatSuspicious: color.New(color.FgYellow),
		schemas.ThreatSafe:       color.New(color.FgGreen),
	}
	for _, c := range f.threatColors {
		c.EnableColor()
	}
	return f
}

// Format writes root's children at the top level. A root that is not a List
// is written as a single line.
func (f *RawFormatter) Format(w io.Writer, root *tree.Node) error {
	bw := bufio.NewWriter(w)
	seen := map[*tree.Node]struct{}{root: {}}
	if root.Kind() == tree.List {
		f.writeChildren(bw, root, 0, seen)
	} else {
		f.writeNode(bw, root, 0, utf8.RuneCountInString(root.Name()), seen)
	}
	return bw.Flush()
}

func (f *RawFormatter) writeChildren(w *bufio.Writer, list *tree.Node, depth int, seen map[*tree.Node]struct{}) {
	width := tree.MaxWidth(list)
	for _, child := range list.Children() {
		f.writeNode(w, child, depth, width, seen)
	}
}

func (f *RawFormatter) writeNode(w *bufio.Writer, n *tree.Node, depth, width int, seen map[*tree.Node]struct{}) {
	indent := strings.Repeat(rawIndent, depth)
	switch n.Kind() {
	case tree.List:
		w.WriteString(indent + n.Name() + ":\n")
		if _, dup := seen[n]; dup {
			w.WriteString(indent + rawIndent + "...\n")
			return
		}
		seen[n] = struct{}{}
		f.writeChildren(w, n, depth+1, seen)
	case tree.StringList:
		label := indent + pad(n.Name(), width) + " : "
		strs := n.Strings()
		if len(strs) == 0 {
			w.WriteString(strings.TrimRight(label, " ") + "\n")
			return
		}
		continuation := "\n" + strings.Repeat(" ", utf8.RuneCountInString(label))
		w.WriteString(label + strings.Join(strs, continuation) + "\n")
	default:
		w.WriteString(indent + pad(n.Name(), width) + " : " + f.value(n) + "\n")
	}
}

func (f *RawFormatter) value(n *tree.Node) string {
	text := n.Render()
	if f.threatColors == nil || n.Kind() != tree.ThreatLevel || !n.IsSet() {
		return text
	}
	if c, ok := f.threatColors[n.ThreatLevel()]; ok {
		return c.Sprint(text)
	}
	return text
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
