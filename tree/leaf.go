package tree

import "fmt"

// LeafNode is anything that can be clustered into a guide tree: it has a
// name and a pairwise distance to another leaf of the same concrete kind.
// Concrete leaf kinds live next to the data they wrap - fragment, genome,
// and sequence leaves each compute distance_to differently - the way
// original_source/src/util/tree.hpp declares an abstract LeafNode and lets
// FragmentLeaf (PrintTree.cpp), GenomeLeaf (GlobalTree.cpp), and
// SequenceLeaf (bsa_algo.cpp) each override distance_to_impl.
type LeafNode interface {
	Name() string
	DistanceTo(other LeafNode) float64
}

// DistanceMatrixFromLeaves builds the names/DistanceMatrix pair UPGMA and
// NeighborJoining expect by computing every pairwise LeafNode.DistanceTo.
func DistanceMatrixFromLeaves(leaves []LeafNode) ([]string, DistanceMatrix) {
	names := make([]string, len(leaves))
	for i, l := range leaves {
		names[i] = l.Name()
	}
	dist := make(DistanceMatrix, len(leaves))
	for i := range dist {
		dist[i] = make([]float64, len(leaves))
	}
	for i := range leaves {
		for j := i + 1; j < len(leaves); j++ {
			d := leaves[i].DistanceTo(leaves[j])
			dist[i][j], dist[j][i] = d, d
		}
	}
	return names, dist
}

// GuideTree clusters leaves into a tree by the named method ("upgma" or
// "nj"), the Go equivalent of PrintTree::make_tree building a guide tree
// over whatever LeafNode kind the caller supplies.
func GuideTree(leaves []LeafNode, method string) (*Node, error) {
	names, dist := DistanceMatrixFromLeaves(leaves)
	switch method {
	case "", "upgma":
		return UPGMA(names, dist), nil
	case "nj":
		return NeighborJoining(names, dist), nil
	default:
		return nil, fmt.Errorf("tree: unknown clustering method %q (want upgma or nj)", method)
	}
}
