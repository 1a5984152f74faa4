// File: internal/reporting/json_test.go
package reporting_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/scalpel-tree/internal/reporting"
	"github.com/xkilldash9x/scalpel-tree/internal/tree"
)

func TestJSONFormatter_Mapping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, reporting.NewJSONFormatter().Format(&buf, newFixtureTree()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())

	want := map[string]any{
		"a.exe": map[string]any{
			"Size":    float64(1024),
			"Magic":   "0x4D5A9000",
			"Format":  "PE",
			"URLs":    []any{"http://a", "http://b"},
			"Verdict": "MALICIOUS",
		},
		"Files scanned": float64(1),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONFormatter_PreservesInsertionOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, reporting.NewJSONFormatter().Format(&buf, newFixtureTree()))
	out := buf.String()

	keys := []string{`"a.exe"`, `"Size"`, `"Magic"`, `"Format"`, `"URLs"`, `"Verdict"`, `"Files scanned"`}
	last := -1
	for _, k := range keys {
		idx := strings.Index(out, k)
		require.GreaterOrEqual(t, idx, 0, k)
		assert.Greater(t, idx, last, "%s out of order", k)
		last = idx
	}
}

func TestJSONFormatter_EdgeCases(t *testing.T) {
	b := tree.NewBuilder(nil)

	t.Run("scalar root is wrapped", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, reporting.NewJSONFormatter().Format(&buf, b.Double("ratio", 0.5)))
		assert.JSONEq(t, `{"ratio": 0.5}`, buf.String())
	})

	t.Run("empty containers and unset scalars", func(t *testing.T) {
		root := b.List("root",
			b.List("empty"),
			b.Strings("none"),
			b.New("unset", tree.UInt32),
			b.Float("f", 2.5),
			b.Uint16("port", 443),
		)
		var buf bytes.Buffer
		require.NoError(t, reporting.NewJSONFormatter().Format(&buf, root))
		assert.JSONEq(t, `{"empty": {}, "none": [], "unset": null, "f": 2.5, "port": 443}`, buf.String())
	})

	t.Run("cycle is cut", func(t *testing.T) {
		root := b.List("root")
		root.Append(root)
		var buf bytes.Buffer
		require.NoError(t, reporting.NewJSONFormatter().Format(&buf, root))
		assert.JSONEq(t, `{"root": null}`, buf.String())
	})
}
