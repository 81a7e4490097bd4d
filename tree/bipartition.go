package tree

import "sort"

// Bipartition is the set of leaf labels on one side of an internal
// branch, used to compare tree topologies independent of rooting or
// child order (spec §4.6 "branch_table").
type Bipartition map[string]bool

func newBipartition(labels []string) Bipartition {
	b := make(Bipartition, len(labels))
	for _, l := range labels {
		b[l] = true
	}
	return b
}

// BranchTable lists the bipartition induced by every internal edge of
// root, one entry per non-leaf, non-root node (the edge to its parent).
func BranchTable(root *Node) []Bipartition {
	var out []Bipartition
	var walk func(n *Node, isRoot bool)
	walk = func(n *Node, isRoot bool) {
		if !n.IsLeaf() && !isRoot {
			out = append(out, newBipartition(n.LeafNames()))
		}
		for _, c := range n.children {
			walk(c, false)
		}
	}
	walk(root, true)
	return out
}

// BranchesCompatible reports whether two bipartitions of the same leaf
// universe could coexist on one tree: compatible when at least one of the
// four intersections a∩b, a∩b', a'∩b, a'∩b' is empty (a', b' being the
// complements of a, b within universe), incompatible when all four are
// non-empty (spec §4.6 "branches_compatible", the standard test used to
// build majority-rule consensus trees and score bootstrap support).
func BranchesCompatible(a, b, universe Bipartition) bool {
	disjoint := func(x, y Bipartition) bool {
		for k := range x {
			if y[k] {
				return false
			}
		}
		return true
	}
	complement := func(x Bipartition) Bipartition {
		c := make(Bipartition, len(universe))
		for k := range universe {
			if !x[k] {
				c[k] = true
			}
		}
		return c
	}
	a1, b1 := complement(a), complement(b)
	return disjoint(a, b) || disjoint(a, b1) || disjoint(a1, b) || disjoint(a1, b1)
}

// sortedKeys returns the labels in b in sorted order, giving a stable
// dump of a bipartition.
func sortedKeys(b Bipartition) []string {
	out := make([]string, 0, len(b))
	for k := range b {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
