package fragment

import "math"

// Block is an unordered set of fragments sharing a name.
type Block struct {
	name    string
	weak    bool
	members []*Fragment
	index   map[*Fragment]int
}

// NewBlock returns an empty block. A weak block borrows its fragments
// from elsewhere rather than owning them (spec §3 ownership invariants).
func NewBlock(name string, weak bool) *Block {
	return &Block{name: name, weak: weak, index: make(map[*Fragment]int)}
}

// Name is the block's canonical name.
func (b *Block) Name() string { return b.name }

// Weak reports whether this block borrows its fragments.
func (b *Block) Weak() bool { return b.weak }

// Size is the number of member fragments.
func (b *Block) Size() int { return len(b.members) }

// Members returns the block's fragments. The returned slice must not be
// mutated by the caller.
func (b *Block) Members() []*Fragment { return b.members }

// Insert adds f to the block if it is not already a member.
func (b *Block) Insert(f *Fragment) {
	if _, ok := b.index[f]; ok {
		return
	}
	b.index[f] = len(b.members)
	b.members = append(b.members, f)
}

// Erase removes f from the block.
func (b *Block) Erase(f *Fragment) {
	i, ok := b.index[f]
	if !ok {
		return
	}
	last := len(b.members) - 1
	b.members[i] = b.members[last]
	b.index[b.members[i]] = i
	b.members = b.members[:last]
	delete(b.index, f)
}

// AlignmentLength is the max over members of row.RowLength() (or
// fragment.Length() for naked fragments).
func (b *Block) AlignmentLength() int {
	length := 0
	for _, f := range b.members {
		l := f.Length()
		if f.Row() != nil {
			l = f.Row().RowLength()
		}
		if l > length {
			length = l
		}
	}
	return length
}

// Inverse inverts every member fragment (and its row, if any) in place.
func (b *Block) Inverse() {
	for _, f := range b.members {
		f.Inverse()
	}
}

// ConsensusChar returns the majority letter among {A,T,G,C} at alignment
// column col, breaking ties by the fixed order A<T<G<C, or '-' if no
// member has a letter there.
func (b *Block) ConsensusChar(col int) (byte, error) {
	var counts [4]int
	letters := [4]byte{'A', 'T', 'G', 'C'}
	seen := false
	for _, f := range b.members {
		c, err := letterAtColumn(f, col)
		if err != nil {
			return 0, err
		}
		for i, l := range letters {
			if c == l {
				counts[i]++
				seen = true
			}
		}
	}
	if !seen {
		return '-', nil
	}
	best := 0
	for i := 1; i < 4; i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	if counts[best] == 0 {
		return '-', nil
	}
	return letters[best], nil
}

// letterAtColumn returns f's letter at alignment column col: if f has a
// row, through the row; otherwise col is interpreted directly as a
// fragment-local position (valid only when the block has no gaps, i.e.
// AlignmentLength() == f.Length() for every member).
func letterAtColumn(f *Fragment, col int) (byte, error) {
	if f.Row() != nil {
		return f.Row().LetterAtColumn(col)
	}
	if col >= f.Length() {
		return '-', nil
	}
	return f.LetterAt(col)
}

// Consensus returns the consensus letters of the block as a raw byte
// slice (gaps included as '-'), for handing to sequence.NewFromConsensus.
func (b *Block) Consensus() ([]byte, error) {
	n := b.AlignmentLength()
	out := make([]byte, n)
	for col := 0; col < n; col++ {
		c, err := b.ConsensusChar(col)
		if err != nil {
			return nil, err
		}
		out[col] = c
	}
	return out, nil
}

// Slice produces a weak block whose members are the restrictions of this
// block's members to alignment columns [min(from,to), max(from,to)]. If
// from > to, members are also inverted. Members with no letters in range
// are dropped.
func (b *Block) Slice(from, to int, keepAlignment bool) (*Block, error) {
	inverted := from > to
	lo, hi := from, to
	if inverted {
		lo, hi = to, from
	}
	out := NewBlock(b.name, true)
	for _, f := range b.members {
		sliced, ok, err := sliceFragment(f, lo, hi, keepAlignment)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if inverted {
			sliced.Inverse()
		}
		out.Insert(sliced)
	}
	return out, nil
}

func sliceFragment(f *Fragment, lo, hi int, keepAlignment bool) (*Fragment, bool, error) {
	var firstFp, lastFp int
	found := false
	for col := lo; col <= hi; col++ {
		c, err := letterAtColumn(f, col)
		if err != nil {
			return nil, false, err
		}
		if c == '-' {
			continue
		}
		fp, _ := mapColToFragment(f, col)
		if !found {
			firstFp = fp
			found = true
		}
		lastFp = fp
	}
	if !found {
		return nil, false, nil
	}
	var seqLo, seqHi int
	if f.Ori() == 1 {
		seqLo, seqHi = f.MinPos()+firstFp, f.MinPos()+lastFp
	} else {
		seqLo, seqHi = f.MaxPos()-lastFp, f.MaxPos()-firstFp
	}
	nf, err := New(f.Sequence(), seqLo, seqHi, f.Ori())
	if err != nil {
		return nil, false, err
	}
	if keepAlignment && f.Row() != nil {
		row := NewRow(RowMap)
		for col := lo; col <= hi; col++ {
			c, err := letterAtColumn(f, col)
			if err != nil {
				return nil, false, err
			}
			row.Grow(string(c))
		}
		if err := nf.AttachRow(row); err != nil {
			return nil, false, err
		}
	}
	return nf, true, nil
}

func mapColToFragment(f *Fragment, col int) (int, bool) {
	if f.Row() != nil {
		return f.Row().MapToFragment(col)
	}
	return col, col < f.Length()
}

// Merge unions other's members into b. If an inversion of every one of
// other's members equals a member already in b (spec's Block.match == -1
// case), other is inverted once before merging.
func (b *Block) Merge(other *Block) error {
	if Match(b, other) == -1 {
		other.Inverse()
	}
	for _, f := range other.Members() {
		b.Insert(f)
	}
	return nil
}

// Match returns +1 if the multisets of (sequence, ori) of a and b
// coincide, -1 if they coincide after inverting one block, 0 otherwise.
func Match(a, b *Block) int8 {
	if sameMultiset(a, b, false) {
		return 1
	}
	if sameMultiset(a, b, true) {
		return -1
	}
	return 0
}

func sameMultiset(a, b *Block, invertB bool) bool {
	if a.Size() != b.Size() {
		return false
	}
	type key struct {
		seq interface{}
		ori int8
	}
	counts := make(map[key]int)
	for _, f := range a.Members() {
		counts[key{f.Sequence(), f.Ori()}]++
	}
	for _, f := range b.Members() {
		ori := f.Ori()
		if invertB {
			ori = -ori
		}
		counts[key{f.Sequence(), ori}]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// MaxShiftEnd is the minimum over every member fragment's own
// Fragment.MaxShiftEnd, the common safe extension for the whole block.
// neighborAfter, supplied by the caller (typically a blockset index), must
// return the fragment immediately following f in f's own direction, if
// any; this keeps Block free of a dependency on the index package (spec
// §9: the neighbour relation lives only in FragmentCollection). An empty
// block has no limit, so it returns math.MaxInt.
func (b *Block) MaxShiftEnd(overlap int, neighborAfter func(f *Fragment) (*Fragment, bool)) int {
	best := math.MaxInt
	for _, f := range b.members {
		if limit := f.MaxShiftEnd(overlap, neighborAfter); limit < best {
			best = limit
		}
	}
	return best
}
