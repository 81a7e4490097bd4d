package tree

import (
	"math/rand"

	wr "github.com/mroth/weightedrand"
)

// Bootstrap draws replicates pseudo-replicate column-index samples (with
// replacement, uniformly weighted - resampling weight is a
// wr.Choice-per-column design left open for future column-quality
// weighting) from the numColumns available, and calls build on each
// sample to produce a tree. It returns one tree per replicate (spec
// §4.6 "Bootstrap(): resample alignment columns with replacement").
//
// seed reseeds the package-level math/rand source before drawing, since
// weightedrand.Chooser.Pick draws from it rather than an injectable
// source; callers derive seed from processor.NewThreadRand to keep
// replicate draws reproducible per spec §5's determinism rule.
func Bootstrap(seed int64, numColumns, replicates int, build func(sample []int) *Node) ([]*Node, error) {
	if numColumns == 0 || replicates == 0 {
		return nil, nil
	}
	rand.Seed(seed)

	choices := make([]wr.Choice, numColumns)
	for i := 0; i < numColumns; i++ {
		choices[i] = wr.NewChoice(i, 1)
	}
	chooser, err := wr.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	trees := make([]*Node, replicates)
	for r := 0; r < replicates; r++ {
		sample := make([]int, numColumns)
		for i := range sample {
			sample[i] = chooser.Pick().(int)
		}
		trees[r] = build(sample)
	}
	return trees, nil
}

// Annotate writes, onto every internal branch of ref, the fraction of
// samples whose branch table contains a bipartition compatible with that
// branch by BranchesCompatible (spec §4.6's bootstrap support values).
func Annotate(ref *Node, samples []*Node) {
	universe := newBipartition(ref.LeafNames())
	refBranches := branchesWithNode(ref)
	for _, rb := range refBranches {
		matches := 0
		for _, s := range samples {
			for _, sb := range BranchTable(s) {
				if BranchesCompatible(rb.part, sb, universe) {
					matches++
					break
				}
			}
		}
		rb.node.SetSupport(float64(matches) / float64(len(samples)))
	}
}

type branchNode struct {
	node *Node
	part Bipartition
}

func branchesWithNode(root *Node) []branchNode {
	var out []branchNode
	var walk func(n *Node, isRoot bool)
	walk = func(n *Node, isRoot bool) {
		if !n.IsLeaf() && !isRoot {
			out = append(out, branchNode{node: n, part: newBipartition(n.LeafNames())})
		}
		for _, c := range n.children {
			walk(c, false)
		}
	}
	walk(root, true)
	return out
}
