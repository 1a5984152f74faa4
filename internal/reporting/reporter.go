// File: internal/reporting/reporter.go
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/xkilldash9x/scalpel-tree/internal/tree"
)

// Formatter renders an output tree to a stream. Formatters only read the
// tree; a tree may be formatted several times, by several formatters.
type Formatter interface {
	Format(w io.Writer, root *tree.Node) error
}

// Options tune formatter construction.
type Options struct {
	// Color enables terminal colors where the format supports them.
	Color bool
	// ToolVersion is stamped into formats that carry tool metadata.
	ToolVersion string
	// VerdictName names the ThreatLevel nodes that SARIF reports as results.
	// Empty means DefaultVerdictName.
	VerdictName string
}

// New returns the formatter registered for format.
func New(format string, opts Options) (Formatter, error) {
	switch format {
	case "raw", "text":
		return NewRawFormatter(opts.Color), nil
	case "json":
		return NewJSONFormatter(), nil
	case "yaml":
		return NewYAMLFormatter(), nil
	case "toml":
		return NewTOMLFormatter(), nil
	case "sarif":
		return NewSARIFFormatter(opts.ToolVersion, opts.VerdictName), nil
	case "dot":
		return NewDOTFormatter(), nil
	case "svg":
		return NewSVGFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// IsStdout reports whether outputPath designates standard output.
func IsStdout(outputPath string) bool {
	return outputPath == "" || outputPath == "stdout" || outputPath == "-"
}

// Open returns the destination for a report. Standard output is wrapped so
// that Close is a no-op; anything else is created (or truncated) as a file.
func Open(outputPath string) (io.WriteCloser, error) {
	if IsStdout(outputPath) {
		return &nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	return f, nil
}

// ColorEnabled resolves a color mode ("always", "never" or "auto") for w.
// In auto mode colors are used only when w is a terminal.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if nwc, ok := w.(*nopWriteCloser); ok {
		w = nwc.Writer
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
