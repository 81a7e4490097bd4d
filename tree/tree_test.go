package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUPGMATopology(t *testing.T) {
	names := []string{"a", "b", "c"}
	dist := DistanceMatrix{
		{0, 2, 8},
		{2, 0, 8},
		{8, 8, 0},
	}
	root := UPGMA(names, dist)
	require.NotNil(t, root)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, root.LeafNames())
	require.Len(t, root.Children(), 2)

	var abPair *Node
	for _, c := range root.Children() {
		if len(c.LeafNames()) == 2 {
			abPair = c
		}
	}
	require.NotNil(t, abPair)
	assert.ElementsMatch(t, []string{"a", "b"}, abPair.LeafNames())
}

func TestNeighborJoiningFourTaxa(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	dist := DistanceMatrix{
		{0, 5, 9, 9},
		{5, 0, 10, 10},
		{9, 10, 0, 8},
		{9, 10, 8, 0},
	}
	root := NeighborJoining(names, dist)
	require.NotNil(t, root)
	assert.ElementsMatch(t, names, root.LeafNames())
}

func TestBranchesCompatible(t *testing.T) {
	universe := newBipartition([]string{"a", "b", "c", "d"})
	ab := newBipartition([]string{"a", "b"})
	cd := newBipartition([]string{"c", "d"})
	abc := newBipartition([]string{"a", "b", "c"})

	assert.True(t, BranchesCompatible(ab, cd, universe))
	assert.True(t, BranchesCompatible(ab, abc, universe))
	assert.False(t, BranchesCompatible(ab, newBipartition([]string{"b", "c"}), universe))
}

// TestBranchesCompatibleFourthIntersection covers the case only the
// fourth intersection (a'∩b') is empty: a and b overlap, a is not a
// subset of b, and b is not a subset of a, but their complements within
// universe share nothing - a 3-condition check would wrongly call this
// incompatible.
func TestBranchesCompatibleFourthIntersection(t *testing.T) {
	universe := newBipartition([]string{"1", "2", "3", "4", "5", "6"})
	a := newBipartition([]string{"1", "2", "3", "4"})
	b := newBipartition([]string{"2", "3", "4", "5", "6"})

	assert.True(t, BranchesCompatible(a, b, universe))
}

func TestBootstrapAnnotatesSupport(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	dist := DistanceMatrix{
		{0, 2, 8, 9},
		{2, 0, 8, 9},
		{8, 8, 0, 3},
		{9, 9, 3, 0},
	}
	ref := UPGMA(names, dist)

	samples, err := Bootstrap(42, 10, 20, func(sample []int) *Node {
		return UPGMA(names, dist)
	})
	require.NoError(t, err)
	require.Len(t, samples, 20)

	Annotate(ref, samples)
	for _, bn := range branchesWithNode(ref) {
		support, ok := bn.node.Support()
		require.True(t, ok)
		assert.Equal(t, 1.0, support)
	}
}

func TestNewickWriteLeafAndInternal(t *testing.T) {
	a, b := NewLeaf("a"), NewLeaf("b")
	root := NewNode(a, b, 0.1, 0.2)
	out := String(root, SupportNone)
	assert.True(t, strings.HasPrefix(out, "("))
	assert.True(t, strings.HasSuffix(out, ";"))
	assert.Contains(t, out, "a:0.1")
	assert.Contains(t, out, "b:0.2")
}

func TestNewickSupportAsLabel(t *testing.T) {
	a, b, c := NewLeaf("a"), NewLeaf("b"), NewLeaf("c")
	inner := NewNode(a, b, 0.1, 0.1)
	inner.SetSupport(0.75)
	root := NewNode(inner, c, 0.2, 0.2)
	out := String(root, SupportAsLabel)
	assert.Contains(t, out, ")75:")
}
