// File: internal/tree/find_test.go
package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind_SiblingBeforeDescent(t *testing.T) {
	b, _ := newObservedBuilder(t)
	nested := b.String("target", "nested")
	sibling := b.String("target", "sibling")
	root := b.List("root",
		b.List("group", nested),
		sibling,
	)

	got := root.Find("target")
	require.NotNil(t, got)
	assert.Same(t, sibling, got)
}

func TestFind_Descends(t *testing.T) {
	b, _ := newObservedBuilder(t)
	deep := b.Uint32("deep", 1)
	root := b.List("root",
		b.String("leaf", "x"),
		b.List("first", b.List("second", deep)),
		b.List("third", b.Uint32("deep", 2)),
	)

	assert.Same(t, deep, root.Find("deep"))
	assert.Same(t, deep, Find(root, "deep"))
	assert.Nil(t, root.Find("missing"))
	assert.Nil(t, Find(nil, "deep"))
}

func TestFind_FirstDuplicateWinsAmongSiblings(t *testing.T) {
	b, _ := newObservedBuilder(t)
	first := b.String("dup", "1")
	root := b.List("root", first, b.String("dup", "2"))
	assert.Same(t, first, root.Find("dup"))
}

func TestFind_OnNonListWarns(t *testing.T) {
	b, logs := newObservedBuilder(t)
	assert.Nil(t, b.String("s", "x").Find("s"))
	assert.Nil(t, b.New("u", UInt64).Find("u"))
	assert.Equal(t, 2, logs.Len())
}

func TestFind_TerminatesOnCycle(t *testing.T) {
	b, _ := newObservedBuilder(t)
	a := b.List("a")
	c := b.List("c", a)
	a.Append(c)

	assert.Nil(t, a.Find("missing"))
	assert.Same(t, a, c.Find("a"))
}

func TestMaxWidth(t *testing.T) {
	b, logs := newObservedBuilder(t)

	assert.Equal(t, 0, MaxWidth(b.List("empty")))
	assert.Equal(t, 0, MaxWidth(b.String("s", "a long value")))
	assert.Equal(t, 0, MaxWidth(nil))

	root := b.List("root",
		b.String("ab", ""),
		b.List("nested", b.String("much longer name", "")),
		b.String("é", ""),
	)
	assert.Equal(t, 6, MaxWidth(root), "not recursive")
	assert.Equal(t, 1, MaxWidth(b.List("runes", b.String("é", ""))), "counts runes")
	assert.Zero(t, logs.Len())
}

func TestWalk_PreOrderWithDepth(t *testing.T) {
	b, _ := newObservedBuilder(t)
	root := b.List("root",
		b.String("a", ""),
		b.List("group", b.String("b", "")),
		b.String("c", ""),
	)

	type visit struct {
		Name  string
		Depth int
	}
	var got []visit
	Walk(root, func(n *Node, depth int) bool {
		got = append(got, visit{n.Name(), depth})
		return true
	})
	want := []visit{{"root", 0}, {"a", 1}, {"group", 1}, {"b", 2}, {"c", 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	b, _ := newObservedBuilder(t)
	root := b.List("root", b.List("group", b.String("hidden", "")), b.String("shown", ""))

	var seen []string
	Walk(root, func(n *Node, _ int) bool {
		seen = append(seen, n.Name())
		return n.Name() != "group"
	})
	assert.Equal(t, []string{"root", "group", "shown"}, seen)
}

func TestKind_TextRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		text, err := k.MarshalText()
		require.NoError(t, err)
		var parsed Kind
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, k, parsed)
	}
	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("Map")))
	assert.True(t, List.IsContainer())
	assert.True(t, UInt16.IsInteger())
	assert.False(t, Double.IsInteger())

	var h DisplayHint
	require.NoError(t, h.UnmarshalText([]byte("Hexadecimal")))
	assert.Equal(t, Hexadecimal, h)
	assert.Error(t, h.UnmarshalText([]byte("Octal")))
}
