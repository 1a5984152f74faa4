// File: internal/inspect/inspect.go
package inspect

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
	"github.com/xkilldash9x/scalpel-tree/internal/config"
	"github.com/xkilldash9x/scalpel-tree/internal/tree"
)

// Names of the nodes the inspector produces.
const (
	NodeReport        = "Report"
	NodeReportID      = "Report ID"
	NodeGenerated     = "Generated"
	NodeFiles         = "Files"
	NodeSummary       = "Summary"
	NodeFilesScanned  = "Files scanned"
	NodeTotalBytes    = "Total bytes"
	NodeHighestThreat = "Highest threat"
	NodeSize          = "Size"
	NodeMagic         = "Magic"
	NodeFormat        = "Format"
	NodeMD5           = "MD5"
	NodeSHA1          = "SHA1"
	NodeSHA256        = "SHA256"
	NodeEntropy       = "Entropy"
	NodeURLs          = "URLs"
	NodeVerdict       = "Verdict"
	NodeError         = "Error"
)

// ErrNoPaths is returned when Inspect is called without input.
var ErrNoPaths = errors.New("no files to inspect")

// Inspector analyzes files and describes them as an output tree.
type Inspector struct {
	cfg     config.InspectConfig
	builder *tree.Builder
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewInspector creates an inspector. Nodes are created with builder, so tree
// diagnostics land on the builder's logger.
func NewInspector(cfg config.InspectConfig, builder *tree.Builder, logger *zap.Logger) *Inspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{
		cfg:     cfg,
		builder: builder,
		logger:  logger.Named("inspector"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Inspect analyzes paths with up to cfg.Concurrency files in flight and
// returns the report tree. Files appear in the order they were given.
func (i *Inspector) Inspect(ctx context.Context, paths []string) (*tree.Node, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}
	start := i.now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(i.cfg.Concurrency, 1))

	// Each worker builds a disjoint subtree; the root is assembled afterwards.
	subtrees := make([]*tree.Node, len(paths))
	verdicts := make([]schemas.ThreatLevel, len(paths))
	sizes := make([]int64, len(paths))
	for idx, p := range paths {
		g.Go(func() error {
			path, err := homedir.Expand(p)
			if err != nil {
				return err
			}
			a, err := analyzeFile(gctx, path, i.cfg)
			if err != nil {
				return err
			}
			subtrees[idx] = i.fileNode(p, a)
			verdicts[idx] = a.verdict
			sizes[idx] = a.size
			i.logger.Debug("Inspected file",
				zap.String("path", path),
				zap.String("format", string(a.format)),
				zap.Stringer("verdict", a.verdict),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		i.logger.Error("Inspection failed", zap.Error(err))
		return nil, err
	}

	b := i.builder
	files := b.List(NodeFiles, subtrees...)

	highest := schemas.ThreatNoOpinion
	var total uint64
	for idx := range paths {
		highest = highest.Max(verdicts[idx])
		total += uint64(sizes[idx])
	}
	summary := b.List(NodeSummary,
		b.Uint32(NodeFilesScanned, uint32(len(paths))),
		b.Uint64(NodeTotalBytes, total),
		b.ThreatLevel(NodeHighestThreat, highest),
	)

	root := b.List(NodeReport,
		b.String(NodeReportID, i.newID()),
		b.String(NodeGenerated, start.UTC().Format(time.RFC3339)),
		files,
		summary,
	)
	i.logger.Info("Inspection complete",
		zap.Int("files", len(paths)),
		zap.Stringer("highest_threat", highest),
		zap.Duration("duration", i.now().Sub(start)),
	)
	return root, nil
}

// fileNode describes one analyzed file. name is the path as the caller gave it.
func (i *Inspector) fileNode(name string, a *analysis) *tree.Node {
	b := i.builder
	n := b.List(name, b.Uint64(NodeSize, uint64(a.size)))
	if a.skipped != "" {
		n.Append(b.String(NodeError, a.skipped))
		n.Append(b.ThreatLevel(NodeVerdict, a.verdict))
		return n
	}
	if a.hasMagic {
		n.Append(b.Uint32(NodeMagic, a.magic, tree.AsHex()))
	}
	n.Append(b.String(NodeFormat, string(a.format)))
	n.Append(b.String(NodeMD5, a.md5))
	n.Append(b.String(NodeSHA1, a.sha1))
	n.Append(b.String(NodeSHA256, a.sha256))
	n.Append(b.Double(NodeEntropy, roundTo(a.entropy, 4)))
	if len(a.urls) > 0 {
		n.Append(b.StringSet(NodeURLs, a.urls))
	}
	n.Append(b.ThreatLevel(NodeVerdict, a.verdict))
	return n
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for range places {
		scale *= 10
	}
	return float64(int64(v*scale+0.5)) / scale
}
