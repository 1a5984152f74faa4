// File: internal/inspect/analyze.go
package inspect

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"regexp"

	"github.com/xkilldash9x/scalpel-tree/api/schemas"
	"github.com/xkilldash9x/scalpel-tree/internal/config"
)

// Format is the container type guessed from a file's leading bytes.
type Format string

const (
	FormatPE      Format = "PE"
	FormatELF     Format = "ELF"
	FormatMachO   Format = "Mach-O"
	FormatZIP     Format = "ZIP"
	FormatPDF     Format = "PDF"
	FormatScript  Format = "Script"
	FormatUnknown Format = "unknown"
)

// Executable reports whether files of this format run directly.
func (f Format) Executable() bool {
	switch f {
	case FormatPE, FormatELF, FormatMachO, FormatScript:
		return true
	}
	return false
}

var signatures = []struct {
	prefix []byte
	format Format
}{
	{[]byte("MZ"), FormatPE},
	{[]byte("\x7fELF"), FormatELF},
	{[]byte{0xfe, 0xed, 0xfa, 0xce}, FormatMachO},
	{[]byte{0xfe, 0xed, 0xfa, 0xcf}, FormatMachO},
	{[]byte{0xce, 0xfa, 0xed, 0xfe}, FormatMachO},
	{[]byte{0xcf, 0xfa, 0xed, 0xfe}, FormatMachO},
	{[]byte("PK\x03\x04"), FormatZIP},
	{[]byte("%PDF"), FormatPDF},
	{[]byte("#!"), FormatScript},
}

// DetectFormat matches data against known magic numbers.
func DetectFormat(data []byte) Format {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.prefix) {
			return sig.format
		}
	}
	return FormatUnknown
}

// Entropy is the Shannon entropy of data in bits per byte, from 0 to 8.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var counts [256]int
	for _, b := range data {
		counts[b]++
	}
	total := float64(len(data))
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log2(p)
	}
	return h
}

var urlPattern = regexp.MustCompile(`https?://[A-Za-z0-9\-._~:/?#\[\]@!$&'()*+,;=%]+`)

// ExtractURLs returns up to limit distinct URLs embedded in data. A limit of
// 0 disables extraction.
func ExtractURLs(data []byte, limit int) map[string]struct{} {
	urls := make(map[string]struct{})
	if limit == 0 {
		return urls
	}
	for _, m := range urlPattern.FindAll(data, -1) {
		urls[string(m)] = struct{}{}
		if len(urls) >= limit {
			break
		}
	}
	return urls
}

// Verdict applies the inspector's heuristics.
func Verdict(size int64, format Format, entropy, threshold float64, urlCount int) schemas.ThreatLevel {
	switch {
	case size == 0:
		return schemas.ThreatNoOpinion
	case entropy >= threshold && format.Executable():
		return schemas.ThreatMalicious
	case entropy >= threshold:
		return schemas.ThreatSuspicious
	case urlCount > 0 && format.Executable():
		return schemas.ThreatSuspicious
	default:
		return schemas.ThreatSafe
	}
}

// analysis is everything learned about one file.
type analysis struct {
	path     string
	size     int64
	skipped  string // reason the content was not read, if any
	magic    uint32
	hasMagic bool
	format   Format
	md5      string
	sha1     string
	sha256   string
	entropy  float64
	urls     map[string]struct{}
	verdict  schemas.ThreatLevel
}

func analyzeFile(ctx context.Context, path string, cfg config.InspectConfig) (*analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	a := &analysis{path: path, size: info.Size(), verdict: schemas.ThreatNoOpinion}
	if a.size > cfg.MaxFileSize {
		a.skipped = fmt.Sprintf("file exceeds max_file_size (%d bytes)", cfg.MaxFileSize)
		return a, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	a.size = int64(len(data))
	if len(data) >= 4 {
		a.magic = binary.BigEndian.Uint32(data[:4])
		a.hasMagic = true
	}
	a.format = DetectFormat(data)
	md5Sum := md5.Sum(data)
	sha1Sum := sha1.Sum(data)
	sha256Sum := sha256.Sum256(data)
	a.md5 = hex.EncodeToString(md5Sum[:])
	a.sha1 = hex.EncodeToString(sha1Sum[:])
	a.sha256 = hex.EncodeToString(sha256Sum[:])
	a.entropy = Entropy(data)
	a.urls = ExtractURLs(data, cfg.MaxURLs)
	a.verdict = Verdict(a.size, a.format, a.entropy, cfg.EntropyThreshold, len(a.urls))
	return a, nil
}
