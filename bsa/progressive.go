package bsa

import (
	"errors"
	"sort"

	"github.com/bebop/npge/tree"
)

// ErrNoParts is returned by the progressive builder when given nothing
// to align.
var ErrNoParts = errors.New("bsa: no parts to align")

// MakeAln progressively merges parts (as produced by MakeRows, or
// themselves already-merged BSAs) into a single alignment by repeatedly
// merging the running result with the next part in order (spec §4.5.3,
// the simple non-guide-tree variant).
func MakeAln(name string, parts []*BSA, opts AlignOptions) (*BSA, error) {
	if len(parts) == 0 {
		return nil, ErrNoParts
	}
	current, err := mergeAll(parts[0], parts[1:], opts)
	if err != nil {
		return nil, err
	}
	current.SetName(name)
	return current, nil
}

// MakeAlnByTree progressively merges parts in the order dictated by a
// guide tree's postorder traversal (leaves first, then each internal
// node merging its children's already-built alignments), so that closely
// related sequences are aligned before distant ones (spec §4.5.3).
// leafKey maps a tree leaf to the index into parts/leaves it corresponds
// to.
func MakeAlnByTree(name string, root *tree.Node, parts []*BSA, leafKey func(*tree.Node) (int, bool), opts AlignOptions) (*BSA, error) {
	result := make(map[*tree.Node]*BSA)
	var walk func(n *tree.Node) (*BSA, error)
	walk = func(n *tree.Node) (*BSA, error) {
		if idx, ok := leafKey(n); ok {
			return parts[idx], nil
		}
		children := n.Children()
		if len(children) == 0 {
			return nil, errors.New("bsa: internal tree node with no children and no leaf mapping")
		}
		sort.Slice(children, func(i, j int) bool { return children[i].Label() < children[j].Label() })
		subs := make([]*BSA, len(children))
		for i, child := range children {
			sub, err := walk(child)
			if err != nil {
				return nil, err
			}
			subs[i] = sub
		}
		acc, err := mergeAll(subs[0], subs[1:], opts)
		if err != nil {
			return nil, err
		}
		result[n] = acc
		return acc, nil
	}
	out, err := walk(root)
	if err != nil {
		return nil, err
	}
	out.SetName(name)
	return out, nil
}

// mergeAll folds rest into current one part at a time. Each step tries
// merging the next part both as given and inverted, keeps whichever
// scores lower, then tidies the result with MoveFragments and
// RemovePureGaps before moving on (spec §4.5.3, original_source
// bsa_algo.cpp:167-192 "bsa_make_aln").
func mergeAll(current *BSA, rest []*BSA, opts AlignOptions) (*BSA, error) {
	for _, part := range rest {
		direct, scoreDirect, err := Align(current, part, opts)
		if err != nil {
			return nil, err
		}
		inverse, scoreInverse, err := Align(current, Inverse(part), opts)
		if err != nil {
			return nil, err
		}
		merged := direct
		if scoreInverse < scoreDirect {
			merged = inverse
		}
		current = RemovePureGaps(MoveFragments(merged))
	}
	return current, nil
}
