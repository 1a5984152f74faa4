// File: cmd/inspect.go
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-tree/internal/config"
	"github.com/xkilldash9x/scalpel-tree/internal/inspect"
	"github.com/xkilldash9x/scalpel-tree/internal/observability"
	"github.com/xkilldash9x/scalpel-tree/internal/reporting"
	"github.com/xkilldash9x/scalpel-tree/internal/tree"
)

// newInspectCmd creates and configures the `inspect` command.
func newInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect [files...]",
		Short: "Inspect files and print a report tree",
		Long: `Hashes each file, guesses its format from the magic number, measures its
entropy, extracts embedded URLs and assigns a threat verdict. The result is
rendered as aligned text, JSON, YAML, TOML, SARIF or a Graphviz graph.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if err := applyInspectFlags(cmd.Flags(), cfg); err != nil {
				return err
			}

			return runInspect(ctx, logger, cfg, args, cmd.OutOrStdout())
		},
	}

	inspectCmd.Flags().StringP("format", "f", "", "Output format: raw, json, yaml, toml, sarif, dot or svg (overrides report.format)")
	inspectCmd.Flags().StringP("output", "o", "", "Output file path, or 'stdout' (overrides report.output)")
	inspectCmd.Flags().String("color", "", "Color threat levels: auto, always or never (overrides report.color)")
	inspectCmd.Flags().IntP("concurrency", "j", 0, "Number of files inspected in parallel (overrides inspect.concurrency)")

	return inspectCmd
}

// applyInspectFlags layers explicitly set flags over the loaded configuration
// and re-validates the result.
func applyInspectFlags(flags *pflag.FlagSet, cfg config.Interface) error {
	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		cfg.SetReportFormat(v)
	}
	if flags.Changed("output") {
		v, _ := flags.GetString("output")
		cfg.SetReportOutput(v)
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		cfg.SetReportColor(v)
	}
	if flags.Changed("concurrency") {
		v, _ := flags.GetInt("concurrency")
		cfg.SetInspectConcurrency(v)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// runInspect contains the core, testable logic of the inspect command.
func runInspect(ctx context.Context, logger *zap.Logger, cfg config.Interface, paths []string, stdout io.Writer) error {
	builder := tree.NewBuilder(logger)
	inspector := inspect.NewInspector(cfg.Inspect(), builder, logger)

	root, err := inspector.Inspect(ctx, paths)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}
	return writeReport(logger, cfg.Report(), root, stdout)
}

// writeReport renders root to the configured destination.
func writeReport(logger *zap.Logger, rc config.ReportConfig, root *tree.Node, stdout io.Writer) error {
	var out io.Writer = stdout
	if !reporting.IsStdout(rc.Output) {
		f, err := reporting.Open(rc.Output)
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("Failed to close report file cleanly.", zap.Error(err))
			}
		}()
		out = f
	}

	formatter, err := reporting.New(rc.Format, reporting.Options{
		Color:       reporting.ColorEnabled(rc.Color, out),
		ToolVersion: Version,
		VerdictName: inspect.NodeVerdict,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize formatter: %w", err)
	}
	if err := formatter.Format(out, root); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if !reporting.IsStdout(rc.Output) {
		logger.Info("Report successfully written to file", zap.String("path", rc.Output))
	}
	return nil
}
