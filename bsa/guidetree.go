package bsa

import (
	"github.com/bebop/npge/tree"
)

// SequenceLeaf is a tree.LeafNode over one BSA row: its distance to
// another sequence's row is how little their (block, orientation) content
// overlaps, so MakeAlnByTree can merge closely related parts first
// (original_source/src/algo/bsa_algo.cpp "SequenceLeaf").
type SequenceLeaf struct {
	part *BSA
	row  *BSRow
}

// NewSequenceLeaf wraps part's single row as a tree.LeafNode. part must
// hold exactly the one sequence's row, as produced by MakeRows.
func NewSequenceLeaf(part *BSA) *SequenceLeaf {
	return &SequenceLeaf{part: part, row: part.rows[part.order[0]]}
}

func (l *SequenceLeaf) Name() string { return l.row.Seq.Name() }

// DistanceTo counts how many (block, orientation) pairs the two rows
// share against how many they carry between them, 1 minus that overlap
// ratio (original_source "SequenceLeaf::distance_to_impl").
func (l *SequenceLeaf) DistanceTo(other tree.LeafNode) float64 {
	o := other.(*SequenceLeaf)
	mine := make(map[blockOriKey]bool)
	for _, f := range l.row.Cells {
		if f == nil {
			continue
		}
		if blk, ok := l.part.BlockOf(f); ok {
			mine[blockOriKey{blk, f.Ori() * l.row.Sign}] = true
		}
	}
	theirSize, inBoth := 0, 0
	for _, f := range o.row.Cells {
		if f == nil {
			continue
		}
		theirSize++
		blk, ok := o.part.BlockOf(f)
		if !ok {
			continue
		}
		if mine[blockOriKey{blk, f.Ori() * o.row.Sign}] {
			inBoth++
		}
	}
	total := len(mine) + theirSize - inBoth + 1 // +1 not to divide by 0
	return 1 - float64(inBoth)/float64(total)
}

// GuideTree builds a guide tree over parts (one BSA per sequence, as
// produced by MakeRows) by the named clustering method, along with the
// leafKey MakeAlnByTree needs to map each tree leaf back to its part
// (spec §4.5.3's guide-tree progressive merge).
func GuideTree(parts []*BSA, method string) (*tree.Node, func(*tree.Node) (int, bool), error) {
	leaves := make([]tree.LeafNode, len(parts))
	indexOf := make(map[string]int, len(parts))
	for i, part := range parts {
		leaf := NewSequenceLeaf(part)
		leaves[i] = leaf
		indexOf[leaf.Name()] = i
	}
	root, err := tree.GuideTree(leaves, method)
	if err != nil {
		return nil, nil, err
	}
	leafKey := func(n *tree.Node) (int, bool) {
		if !n.IsLeaf() {
			return 0, false
		}
		idx, ok := indexOf[n.Label()]
		return idx, ok
	}
	return root, leafKey, nil
}
