package tree

import "math"

// DistanceMatrix is a symmetric, zero-diagonal pairwise distance matrix
// indexed the same way as the names slice passed to UPGMA/NeighborJoining.
type DistanceMatrix [][]float64

// UPGMA builds a rooted tree by unweighted pair-group clustering: at each
// step the two closest remaining clusters are merged into a new node at
// height half the clusters' distance, whose branch length to each child
// is that height minus the child's own height, and
// distances to the merged cluster become the size-weighted average of
// the children's distances (spec §4.6 "genome tree from identity
// distances").
func UPGMA(names []string, dist DistanceMatrix) *Node {
	n := len(names)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return NewLeaf(names[0])
	}

	clusters := make([]*Node, n)
	sizes := make([]int, n)
	heights := make([]float64, n)
	for i, name := range names {
		clusters[i] = NewLeaf(name)
		sizes[i] = 1
	}
	d := cloneMatrix(dist)
	alive := make([]bool, n)
	for i := range alive {
		alive[i] = true
	}

	remaining := n
	for remaining > 1 {
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !alive[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !alive[j] {
					continue
				}
				if d[i][j] < best {
					best, bi, bj = d[i][j], i, j
				}
			}
		}

		height := best / 2
		merged := NewNode(clusters[bi], clusters[bj], height-heights[bi], height-heights[bj])
		newSize := sizes[bi] + sizes[bj]

		for k := 0; k < n; k++ {
			if !alive[k] || k == bi || k == bj {
				continue
			}
			nd := (d[bi][k]*float64(sizes[bi]) + d[bj][k]*float64(sizes[bj])) / float64(newSize)
			d[bi][k], d[k][bi] = nd, nd
		}

		clusters[bi] = merged
		sizes[bi] = newSize
		heights[bi] = height
		alive[bj] = false
		remaining--
	}

	for i := 0; i < n; i++ {
		if alive[i] {
			return clusters[i]
		}
	}
	return nil
}

// NewNode returns an internal node joining a and b with the given branch
// lengths.
func NewNode(a, b *Node, lenA, lenB float64) *Node {
	a.SetLength(lenA)
	b.SetLength(lenB)
	return NewInner(a, b)
}

func cloneMatrix(m DistanceMatrix) DistanceMatrix {
	out := make(DistanceMatrix, len(m))
	for i := range m {
		out[i] = append([]float64(nil), m[i]...)
	}
	return out
}

// NeighborJoining builds an unrooted tree (returned rooted at the final
// join) by Saitou-Nei neighbor joining, which unlike UPGMA tolerates
// unequal rates of change across lineages (spec §4.6).
func NeighborJoining(names []string, dist DistanceMatrix) *Node {
	n := len(names)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return NewLeaf(names[0])
	}
	if n == 2 {
		a, b := NewLeaf(names[0]), NewLeaf(names[1])
		return NewNode(a, b, dist[0][1]/2, dist[0][1]/2)
	}

	nodes := make([]*Node, n)
	for i, name := range names {
		nodes[i] = NewLeaf(name)
	}
	d := cloneMatrix(dist)
	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	for len(active) > 2 {
		k := len(active)
		r := make([]float64, k)
		for pi, i := range active {
			sum := 0.0
			for _, m := range active {
				if m != i {
					sum += d[i][m]
				}
			}
			r[pi] = sum
		}

		posA, posB := 0, 1
		best := math.Inf(1)
		for pi := 0; pi < k; pi++ {
			for pj := pi + 1; pj < k; pj++ {
				q := float64(k-2)*d[active[pi]][active[pj]] - r[pi] - r[pj]
				if q < best {
					best, posA, posB = q, pi, pj
				}
			}
		}
		i, j := active[posA], active[posB]

		li := 0.5*d[i][j] + (r[posA]-r[posB])/float64(2*(k-2))
		lj := d[i][j] - li
		merged := NewNode(nodes[i], nodes[j], li, lj)

		newIdx := len(nodes)
		nodes = append(nodes, merged)
		for idx := range d {
			d[idx] = append(d[idx], 0)
		}
		d = append(d, make([]float64, newIdx+1))
		for _, m := range active {
			if m == i || m == j {
				continue
			}
			nd := (d[i][m] + d[j][m] - d[i][j]) / 2
			d[newIdx][m] = nd
			d[m][newIdx] = nd
		}

		next := make([]int, 0, k-1)
		for _, m := range active {
			if m != i && m != j {
				next = append(next, m)
			}
		}
		next = append(next, newIdx)
		active = next
	}

	i, j := active[0], active[1]
	return NewNode(nodes[i], nodes[j], d[i][j]/2, d[i][j]/2)
}
