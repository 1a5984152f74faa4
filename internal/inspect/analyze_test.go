// File: internal/inspect/analyze_test.go
package inspect

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
	"github.com/xkilldash9x/scalpel-tree/internal/config"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pe", []byte("MZ\x90\x00"), FormatPE},
		{"elf", []byte("\x7fELF\x02\x01"), FormatELF},
		{"macho 64", []byte{0xcf, 0xfa, 0xed, 0xfe, 0x07}, FormatMachO},
		{"macho big endian", []byte{0xfe, 0xed, 0xfa, 0xce}, FormatMachO},
		{"zip", []byte("PK\x03\x04rest"), FormatZIP},
		{"pdf", []byte("%PDF-1.7"), FormatPDF},
		{"script", []byte("#!/bin/sh\necho hi\n"), FormatScript},
		{"text", []byte("hello"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.data))
		})
	}
}

func TestFormat_Executable(t *testing.T) {
	assert.True(t, FormatPE.Executable())
	assert.True(t, FormatScript.Executable())
	assert.False(t, FormatPDF.Executable())
	assert.False(t, FormatUnknown.Executable())
}

func TestEntropy(t *testing.T) {
	assert.Zero(t, Entropy(nil))
	assert.Zero(t, Entropy([]byte("aaaaaaaa")))
	assert.InDelta(t, 1.0, Entropy([]byte("abababab")), 1e-9)

	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	assert.InDelta(t, 8.0, Entropy(all), 1e-9)
}

func TestExtractURLs(t *testing.T) {
	data := []byte(`GET https://example.com/a?x=1 then "http://evil.test/p" and https://example.com/a?x=1 again`)
	urls := ExtractURLs(data, 10)
	assert.Len(t, urls, 2)
	assert.Contains(t, urls, "https://example.com/a?x=1")
	assert.Contains(t, urls, "http://evil.test/p")

	assert.Len(t, ExtractURLs(data, 1), 1, "the limit caps distinct urls")
	assert.Empty(t, ExtractURLs(data, 0))
	assert.Empty(t, ExtractURLs([]byte("no links here"), 10))
}

func TestVerdict(t *testing.T) {
	const threshold = 7.2
	tests := []struct {
		name    string
		size    int64
		format  Format
		entropy float64
		urls    int
		want    schemas.ThreatLevel
	}{
		{"empty", 0, FormatUnknown, 0, 0, schemas.ThreatNoOpinion},
		{"packed executable", 100, FormatPE, 7.9, 0, schemas.ThreatMalicious},
		{"high entropy data", 100, FormatZIP, 7.9, 0, schemas.ThreatSuspicious},
		{"entropy at threshold", 100, FormatUnknown, threshold, 0, schemas.ThreatSuspicious},
		{"executable with urls", 100, FormatELF, 5.0, 2, schemas.ThreatSuspicious},
		{"document with urls", 100, FormatPDF, 5.0, 2, schemas.ThreatSafe},
		{"plain", 100, FormatUnknown, 4.0, 0, schemas.ThreatSafe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verdict(tt.size, tt.format, tt.entropy, threshold, tt.urls))
		})
	}
}

func TestAnalyzeFile(t *testing.T) {
	cfg := config.NewDefaultConfig().Inspect()
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o600))

	a, err := analyzeFile(context.Background(), path, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(6), a.size)
	assert.True(t, a.hasMagic)
	assert.Equal(t, uint32(0x68656C6C), a.magic)
	assert.Equal(t, FormatUnknown, a.format)
	assert.Equal(t, "b1946ac92492d2347c6235b4d2611184", a.md5)
	assert.Equal(t, "f572d396fae9206628714fb2ce00f72e94f2258f", a.sha1)
	assert.Equal(t, "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03", a.sha256)
	assert.Equal(t, schemas.ThreatSafe, a.verdict)
}

func TestAnalyzeFile_ShortFileHasNoMagic(t *testing.T) {
	cfg := config.NewDefaultConfig().Inspect()
	path := filepath.Join(t.TempDir(), "short")
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0o600))

	a, err := analyzeFile(context.Background(), path, cfg)
	require.NoError(t, err)
	assert.False(t, a.hasMagic)
	assert.Equal(t, FormatPE, a.format)
}

func TestAnalyzeFile_Oversized(t *testing.T) {
	cfg := config.NewDefaultConfig().Inspect()
	cfg.MaxFileSize = 4
	path := filepath.Join(t.TempDir(), "big")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o600))

	a, err := analyzeFile(context.Background(), path, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(10), a.size)
	assert.Contains(t, a.skipped, "max_file_size")
	assert.Empty(t, a.sha256)
	assert.Equal(t, schemas.ThreatNoOpinion, a.verdict)
}

func TestAnalyzeFile_Failures(t *testing.T) {
	cfg := config.NewDefaultConfig().Inspect()
	dir := t.TempDir()

	_, err := analyzeFile(context.Background(), filepath.Join(dir, "missing"), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat")

	_, err = analyzeFile(context.Background(), dir, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = analyzeFile(ctx, filepath.Join(dir, "missing"), cfg)
	assert.ErrorIs(t, err, context.Canceled)
}
