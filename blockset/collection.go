/*
Package blockset implements the owning BlockSet collection and the
FragmentCollection index that answers overlap, neighbour, and
containment queries over a set of blocks — including on circular
chromosomes (spec §4.3).
*/
package blockset

import (
	"sort"

	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/sequence"
)

// ContainerKind selects how a Collection keeps its per-sequence lists
// sorted: Vector requires an explicit Prepare call after bulk inserts;
// Set keeps itself sorted on every insert.
type ContainerKind uint8

const (
	Vector ContainerKind = iota
	Set
)

// Interval is a half-open-free [Min,Max] position range, used by
// FindOverlaps to report intersections rather than whole fragments.
type Interval struct {
	Min, Max int
}

// Collection is the FragmentCollection index: a per-sequence sorted list
// of fragments answering overlap/neighbour/containment queries.
type Collection struct {
	kind          ContainerKind
	cyclesAllowed bool
	perSeq        map[*sequence.Sequence][]*fragment.Fragment
	dirty         map[*sequence.Sequence]bool
}

// New returns an empty Collection. cyclesAllowed controls whether Next/
// Prev wrap around on circular sequences.
func New(kind ContainerKind, cyclesAllowed bool) *Collection {
	return &Collection{
		kind:          kind,
		cyclesAllowed: cyclesAllowed,
		perSeq:        make(map[*sequence.Sequence][]*fragment.Fragment),
		dirty:         make(map[*sequence.Sequence]bool),
	}
}

// CyclesAllowed reports whether this collection wraps traversal on
// circular sequences.
func (c *Collection) CyclesAllowed() bool { return c.cyclesAllowed }

func less(a, b *fragment.Fragment) bool {
	if a.MinPos() != b.MinPos() {
		return a.MinPos() < b.MinPos()
	}
	if a.MaxPos() != b.MaxPos() {
		return a.MaxPos() < b.MaxPos()
	}
	return a.Ori() < b.Ori()
}

// AddFragment indexes a single fragment.
func (c *Collection) AddFragment(f *fragment.Fragment) {
	seq := f.Sequence()
	switch c.kind {
	case Vector:
		c.perSeq[seq] = append(c.perSeq[seq], f)
		c.dirty[seq] = true
	case Set:
		list := c.perSeq[seq]
		i := sort.Search(len(list), func(i int) bool { return !less(list[i], f) })
		list = append(list, nil)
		copy(list[i+1:], list[i:])
		list[i] = f
		c.perSeq[seq] = list
	}
}

// AddBlock indexes every member fragment of b.
func (c *Collection) AddBlock(b *fragment.Block) {
	for _, f := range b.Members() {
		c.AddFragment(f)
	}
}

// AddBS indexes every fragment of every block in bs.
func (c *Collection) AddBS(bs *BlockSet) {
	for _, b := range bs.Blocks() {
		c.AddBlock(b)
	}
}

// RemoveFragment removes a single fragment from the index, if present.
func (c *Collection) RemoveFragment(f *fragment.Fragment) {
	seq := f.Sequence()
	list := c.perSeq[seq]
	for i, g := range list {
		if g == f {
			c.perSeq[seq] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Prepare sorts per-sequence vectors. Required after bulk AddFragment
// calls on a Vector-kind collection; a no-op for Set-kind collections,
// which are already sorted.
func (c *Collection) Prepare() {
	if c.kind != Vector {
		return
	}
	for seq, isDirty := range c.dirty {
		if !isDirty {
			continue
		}
		list := c.perSeq[seq]
		sort.Slice(list, func(i, j int) bool { return less(list[i], list[j]) })
		c.dirty[seq] = false
	}
}

func (c *Collection) sorted(seq *sequence.Sequence) []*fragment.Fragment {
	return c.perSeq[seq]
}

// overlaps reports whether a and b share at least one position on the
// same sequence.
func overlaps(a, b *fragment.Fragment) bool {
	return a.Sequence() == b.Sequence() && a.MinPos() <= b.MaxPos() && b.MinPos() <= a.MaxPos()
}

// FindOverlapFragments appends every indexed fragment overlapping f to
// out and returns the result. Per spec §4.3, the per-sequence list is
// sorted by (min_pos, max_pos, ori); a binary search to the rightmost
// fragment whose min_pos <= f.MaxPos(), followed by a backward scan while
// the scanned fragment's max_pos >= f.MinPos(), enumerates every overlap
// for the non-deeply-nested fragment layouts a pan-genome block set
// produces.
func (c *Collection) FindOverlapFragments(out []*fragment.Fragment, f *fragment.Fragment) []*fragment.Fragment {
	list := c.sorted(f.Sequence())
	idx := sort.Search(len(list), func(i int) bool { return list[i].MinPos() > f.MaxPos() }) - 1
	for i := idx; i >= 0; i-- {
		if list[i].MaxPos() < f.MinPos() {
			break
		}
		if list[i] == f {
			continue
		}
		if overlaps(list[i], f) {
			out = append(out, list[i])
		}
	}
	return out
}

// FindOverlaps is like FindOverlapFragments but returns the intersected
// intervals rather than the fragments themselves.
func (c *Collection) FindOverlaps(out []Interval, f *fragment.Fragment) []Interval {
	var frags []*fragment.Fragment
	frags = c.FindOverlapFragments(frags, f)
	for _, g := range frags {
		lo, hi := g.MinPos(), g.MaxPos()
		if f.MinPos() > lo {
			lo = f.MinPos()
		}
		if f.MaxPos() < hi {
			hi = f.MaxPos()
		}
		out = append(out, Interval{Min: lo, Max: hi})
	}
	return out
}

// HasOverlap reports whether any indexed fragment shares a position with
// f.
func (c *Collection) HasOverlap(f *fragment.Fragment) bool {
	var out []*fragment.Fragment
	return len(c.FindOverlapFragments(out, f)) > 0
}

// BlockHasOverlap reports whether any member of b overlaps the index.
func (c *Collection) BlockHasOverlap(b *fragment.Block) bool {
	for _, f := range b.Members() {
		if c.HasOverlap(f) {
			return true
		}
	}
	return false
}

// BsHasOverlap reports whether any fragment of bs overlaps the index.
func (c *Collection) BsHasOverlap(bs *BlockSet) bool {
	for _, b := range bs.Blocks() {
		if c.BlockHasOverlap(b) {
			return true
		}
	}
	return false
}

func (c *Collection) indexOf(f *fragment.Fragment) int {
	list := c.sorted(f.Sequence())
	for i, g := range list {
		if g == f {
			return i
		}
	}
	return -1
}

// Next returns the fragment immediately after f in sorted order on its
// sequence. If f is last and the sequence is circular with
// CyclesAllowed(), it wraps to the first fragment.
func (c *Collection) Next(f *fragment.Fragment) (*fragment.Fragment, bool) {
	list := c.sorted(f.Sequence())
	i := c.indexOf(f)
	if i == -1 {
		return nil, false
	}
	if i+1 < len(list) {
		return list[i+1], true
	}
	if c.cyclesAllowed && isCircular(f.Sequence()) && len(list) > 0 {
		return list[0], true
	}
	return nil, false
}

// Prev returns the fragment immediately before f in sorted order.
func (c *Collection) Prev(f *fragment.Fragment) (*fragment.Fragment, bool) {
	list := c.sorted(f.Sequence())
	i := c.indexOf(f)
	if i == -1 {
		return nil, false
	}
	if i > 0 {
		return list[i-1], true
	}
	if c.cyclesAllowed && isCircular(f.Sequence()) && len(list) > 0 {
		return list[len(list)-1], true
	}
	return nil, false
}

func isCircular(seq *sequence.Sequence) bool {
	circular, err := seq.Circular()
	return err == nil && circular
}

// Neighbor returns Next(f) for ori == +1 and Prev(f) for ori == -1.
func (c *Collection) Neighbor(f *fragment.Fragment, ori int8) (*fragment.Fragment, bool) {
	if ori == 1 {
		return c.Next(f)
	}
	return c.Prev(f)
}

// LogicalNeighbor is like Neighbor but ori is relative to f's own
// orientation: +1 always means "the fragment following f when read in
// f's own 5'->3' direction".
func (c *Collection) LogicalNeighbor(f *fragment.Fragment, ori int8) (*fragment.Fragment, bool) {
	return c.Neighbor(f, ori*f.Ori())
}

// AreNeighbors returns +1 if b == Next(a), -1 if b == Prev(a), 0
// otherwise.
func (c *Collection) AreNeighbors(a, b *fragment.Fragment) int8 {
	if n, ok := c.Next(a); ok && n == b {
		return 1
	}
	if p, ok := c.Prev(a); ok && p == b {
		return -1
	}
	return 0
}

// AnotherNeighbor returns the neighbor of a on the side opposite b: if b
// is a's next, it returns a's prev, and vice versa.
func (c *Collection) AnotherNeighbor(a, b *fragment.Fragment) (*fragment.Fragment, bool) {
	switch c.AreNeighbors(a, b) {
	case 1:
		return c.Prev(a)
	case -1:
		return c.Next(a)
	default:
		return nil, false
	}
}
