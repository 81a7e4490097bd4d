/*
Package tree builds and annotates phylogenetic guide trees over genomes
or fragments: UPGMA and neighbor-joining construction, bipartition-based
bootstrap support, and a newick writer (spec §4.6).
*/
package tree

// Node is one node of a rooted binary (or multifurcating) tree. Leaves
// have no children and carry a label; internal nodes carry no label.
// Bootstrap support is stored apart from the label (SetSupport), and the
// newick writer can print it as an internal-node label (spec §9 "three
// ways to print bootstrap values" design note).
type Node struct {
	label    string
	length   float64
	support  float64
	hasSupp  bool
	parent   *Node
	children []*Node
}

// NewLeaf returns a labelled leaf with no branch length set.
func NewLeaf(label string) *Node { return &Node{label: label} }

// NewInner returns an internal node over the given children. Each child
// is detached from any existing parent and reattached under n, so the
// new node's parent links stay consistent with its children slice.
func NewInner(children ...*Node) *Node {
	n := &Node{}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

func (n *Node) Label() string    { return n.label }
func (n *Node) Children() []*Node { return n.children }
func (n *Node) IsLeaf() bool     { return len(n.children) == 0 }
func (n *Node) Length() float64  { return n.length }
func (n *Node) SetLength(l float64) { n.length = l }
func (n *Node) Support() (float64, bool) { return n.support, n.hasSupp }
func (n *Node) SetSupport(s float64)     { n.support, n.hasSupp = s, true }

// Parent returns n's parent, or nil if n is a root.
func (n *Node) Parent() *Node { return n.parent }

// AddChild attaches child under n, detaching it from any current parent
// first (original_source/src/util/tree.cpp "TreeNode::add_child").
func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.parent.DetachChild(child)
	}
	for _, c := range n.children {
		if c == child {
			return
		}
	}
	n.children = append(n.children, child)
	child.parent = n
}

// DetachChild removes child from n's children, leaving it parentless. It
// is a no-op if child is not one of n's children (original_source
// "TreeNode::detach_child").
func (n *Node) DetachChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// AllDescendants returns every node strictly under n, in a pre-order
// walk (original_source "TreeNode::all_descendants").
func (n *Node) AllDescendants() []*Node {
	var out []*Node
	for _, c := range n.children {
		out = append(out, c)
		out = append(out, c.AllDescendants()...)
	}
	return out
}

// TreeDistanceTo sums branch lengths along the path from n up to its
// root and back down to other, or -1000 if the two nodes don't share a
// root (original_source "TreeNode::tree_distance_to").
func (n *Node) TreeDistanceTo(other *Node) float64 {
	distToRoot := make(map[*Node]float64)
	dist := 0.0
	for node := n; node != nil; node = node.parent {
		distToRoot[node] = dist
		dist += node.length
	}
	dist2 := 0.0
	for node := other; node != nil; node = node.parent {
		if d, ok := distToRoot[node]; ok {
			return d + dist2
		}
		dist2 += node.length
	}
	return -1000.0
}

// Leaves returns every leaf under n, in a fixed left-to-right order.
func (n *Node) Leaves() []*Node {
	if n.IsLeaf() {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// LeafNames returns the labels of Leaves().
func (n *Node) LeafNames() []string {
	leaves := n.Leaves()
	out := make([]string, len(leaves))
	for i, l := range leaves {
		out[i] = l.label
	}
	return out
}
