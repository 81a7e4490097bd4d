package bsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/tree"
)

// TestGuideTreeGroupsSequencesByOverlap checks that two sequences sharing
// an extra block cluster together ahead of an unrelated third sequence,
// the property MakeAlnByTree relies on to merge close relatives first.
func TestGuideTreeGroupsSequencesByOverlap(t *testing.T) {
	seqA := newSeq(t, "gA&1&l", 10)
	seqB := newSeq(t, "gB&1&l", 10)
	seqC := newSeq(t, "gC&1&l", 10)

	fA, _ := fragment.New(seqA, 0, 4, 1)
	fB, _ := fragment.New(seqB, 0, 4, 1)
	fC, _ := fragment.New(seqC, 0, 4, 1)
	shared := fragment.NewBlock("shared", false)
	shared.Insert(fA)
	shared.Insert(fB)
	shared.Insert(fC)

	gA2, _ := fragment.New(seqA, 5, 9, 1)
	gB2, _ := fragment.New(seqB, 5, 9, 1)
	onlyAB := fragment.NewBlock("only-ab", false)
	onlyAB.Insert(gA2)
	onlyAB.Insert(gB2)

	partA := New("gA&1&l")
	partA.blockOf = map[*fragment.Fragment]*fragment.Block{fA: shared, gA2: onlyAB}
	partA.addRow(&BSRow{Seq: seqA, Sign: 1, Cells: []*fragment.Fragment{fA, gA2}})
	partA.length = 2

	partB := New("gB&1&l")
	partB.blockOf = map[*fragment.Fragment]*fragment.Block{fB: shared, gB2: onlyAB}
	partB.addRow(&BSRow{Seq: seqB, Sign: 1, Cells: []*fragment.Fragment{fB, gB2}})
	partB.length = 2

	partC := New("gC&1&l")
	partC.blockOf = map[*fragment.Fragment]*fragment.Block{fC: shared}
	partC.addRow(&BSRow{Seq: seqC, Sign: 1, Cells: []*fragment.Fragment{fC}})
	partC.length = 1

	parts := []*BSA{partA, partB, partC}

	root, leafKey, err := GuideTree(parts, "upgma")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gA&1&l", "gB&1&l", "gC&1&l"}, root.LeafNames())

	var abPair *tree.Node
	for _, c := range root.Children() {
		if len(c.LeafNames()) == 2 {
			abPair = c
		}
	}
	require.NotNil(t, abPair, "expected gA/gB to cluster under one inner node")
	assert.ElementsMatch(t, []string{"gA&1&l", "gB&1&l"}, abPair.LeafNames())

	for _, leaf := range abPair.Leaves() {
		idx, ok := leafKey(leaf)
		require.True(t, ok)
		assert.Equal(t, leaf.Label(), parts[idx].order[0].Name())
	}
}
