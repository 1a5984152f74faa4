// File: internal/reporting/sarif_formatter.go
package reporting

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
	"github.com/xkilldash9x/scalpel-tree/internal/reporting/sarif"
	"github.com/xkilldash9x/scalpel-tree/internal/tree"
)

// Constants for tool identification in the SARIF report.
const (
	ToolName     = "Scalpel Tree"
	ToolInfoURI  = "https://github.com/xkilldash9x/scalpel-tree"
	SARIFVersion = "2.1.0"
	SARIFSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"

	// DefaultVerdictName is the name of the per-artifact verdict nodes.
	DefaultVerdictName = "Verdict"
)

// ruleIDSanitizer replaces characters not typically safe or allowed in SARIF
// rule IDs. Alphanumerics, underscore and dot are kept; every other run of
// characters collapses into a single hyphen.
var ruleIDSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_.]+`)

// SARIFFormatter turns every Suspicious or Malicious verdict node into a
// SARIF result. Only ThreatLevel nodes named verdictName count, so aggregates
// such as a summary's highest threat are not reported twice. The List holding
// the verdict is the result's location, so a tree laid out as one List per
// inspected file yields one location per file.
type SARIFFormatter struct {
	toolVersion string
	verdictName string
}

// NewSARIFFormatter returns a SARIF formatter. An empty verdictName selects
// DefaultVerdictName.
func NewSARIFFormatter(toolVersion, verdictName string) *SARIFFormatter {
	if verdictName == "" {
		verdictName = DefaultVerdictName
	}
	return &SARIFFormatter{toolVersion: toolVersion, verdictName: verdictName}
}

func (f *SARIFFormatter) Format(w io.Writer, root *tree.Node) error {
	log := f.newLog()
	run := log.Runs[0]
	rules := map[string]bool{}

	tree.Walk(root, func(n *tree.Node, _ int) bool {
		if n.Kind() != tree.List {
			return false
		}
		for _, c := range n.Children() {
			if c.Kind() != tree.ThreatLevel || c.Name() != f.verdictName || !c.IsSet() {
				continue
			}
			level := c.ThreatLevel()
			if level.Rank() < schemas.ThreatSuspicious.Rank() {
				continue
			}
			ruleID := ruleIDFor(c.Name(), level)
			if !rules[ruleID] {
				rules[ruleID] = true
				run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, newRule(ruleID, c.Name(), level))
			}
			run.Results = append(run.Results, newResult(ruleID, n.Name(), c.Name(), level))
		}
		return true
	})

	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode SARIF output: %w", err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}
	return nil
}

func (f *SARIFFormatter) newLog() *sarif.Log {
	driver := &sarif.ToolComponent{
		Name:           ToolName,
		InformationURI: pString(ToolInfoURI),
		// Empty, not nil, so the JSON carries [] rather than null.
		Rules: []*sarif.ReportingDescriptor{},
	}
	if f.toolVersion != "" {
		driver.Version = pString(f.toolVersion)
	}
	return &sarif.Log{
		Version: SARIFVersion,
		Schema:  SARIFSchema,
		Runs: []*sarif.Run{{
			Tool:    &sarif.Tool{Driver: driver},
			Results: []*sarif.Result{},
		}},
	}
}

// ruleIDFor derives a stable rule ID from the verdict's name and level,
// e.g. "SCALPEL-TREE-VERDICT-MALICIOUS".
func ruleIDFor(name string, level schemas.ThreatLevel) string {
	base := strings.Trim(ruleIDSanitizer.ReplaceAllString(strings.ToUpper(name), "-"), "-")
	if base == "" {
		base = "UNNAMED"
	}
	return "SCALPEL-TREE-" + base + "-" + level.String()
}

func newRule(id, name string, level schemas.ThreatLevel) *sarif.ReportingDescriptor {
	text := fmt.Sprintf("%s reported %s", name, level)
	return &sarif.ReportingDescriptor{
		ID:               id,
		Name:             pString(name),
		ShortDescription: &sarif.MultiformatMessageString{Text: pString(text)},
		Properties: &sarif.PropertyBag{
			"tags":     []string{"security", "scalpel-tree"},
			"severity": string(level.Severity()),
		},
	}
}

func newResult(ruleID, location, verdictName string, level schemas.ThreatLevel) *sarif.Result {
	return &sarif.Result{
		RuleID:  ruleID,
		Message: &sarif.Message{Text: pString(fmt.Sprintf("%s: %s is %s", location, verdictName, level))},
		Level:   mapSeverityToSARIFLevel(level.Severity()),
		Locations: []*sarif.Location{{
			PhysicalLocation: &sarif.PhysicalLocation{
				ArtifactLocation: &sarif.ArtifactLocation{URI: pString(location)},
			},
		}},
	}
}

// mapSeverityToSARIFLevel converts a finding severity to the SARIF standard.
func mapSeverityToSARIFLevel(severity schemas.Severity) sarif.Level {
	switch severity {
	case schemas.SeverityCritical, schemas.SeverityHigh:
		return sarif.LevelError
	case schemas.SeverityMedium:
		return sarif.LevelWarning
	default:
		return sarif.LevelNote
	}
}

// pString returns a pointer to the given string value. Helper for optional SARIF fields.
func pString(s string) *string {
	return &s
}
