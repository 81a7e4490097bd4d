package blockset

import (
	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/sequence"
)

// BSA is the narrow interface a block-set alignment must satisfy to be
// stored on a BlockSet. The concrete type lives in package bsa; BlockSet
// only needs to know a BSA has a name and a length, which keeps this
// package free of a dependency on bsa (which itself depends on
// blockset).
type BSA interface {
	Name() string
	Length() int
}

// BlockSet is an owning collection of blocks, the sequences those blocks
// reference, and a name -> BSA mapping.
type BlockSet struct {
	blocks map[string]*fragment.Block
	order  []string
	seqs   map[string]*sequence.Sequence
	bsas   map[string]BSA
}

// New returns an empty BlockSet.
func New() *BlockSet {
	return &BlockSet{
		blocks: make(map[string]*fragment.Block),
		seqs:   make(map[string]*sequence.Sequence),
		bsas:   make(map[string]BSA),
	}
}

// Insert adds b to the set, indexing the sequences of its members.
func (bs *BlockSet) Insert(b *fragment.Block) {
	if _, exists := bs.blocks[b.Name()]; !exists {
		bs.order = append(bs.order, b.Name())
	}
	bs.blocks[b.Name()] = b
	for _, f := range b.Members() {
		bs.seqs[f.Sequence().Name()] = f.Sequence()
	}
}

// Erase removes the block named name.
func (bs *BlockSet) Erase(name string) {
	if _, ok := bs.blocks[name]; !ok {
		return
	}
	delete(bs.blocks, name)
	for i, n := range bs.order {
		if n == name {
			bs.order = append(bs.order[:i], bs.order[i+1:]...)
			break
		}
	}
}

// Detach removes and returns the block named name without destroying it,
// so the caller can move it into another BlockSet.
func (bs *BlockSet) Detach(name string) (*fragment.Block, bool) {
	b, ok := bs.blocks[name]
	if ok {
		bs.Erase(name)
	}
	return b, ok
}

// Has reports whether a block named name is present.
func (bs *BlockSet) Has(name string) bool {
	_, ok := bs.blocks[name]
	return ok
}

// Block returns the block named name.
func (bs *BlockSet) Block(name string) (*fragment.Block, bool) {
	b, ok := bs.blocks[name]
	return b, ok
}

// Blocks returns every block in insertion order.
func (bs *BlockSet) Blocks() []*fragment.Block {
	out := make([]*fragment.Block, 0, len(bs.order))
	for _, n := range bs.order {
		out = append(out, bs.blocks[n])
	}
	return out
}

// SeqFromName returns the sequence with the given name, if referenced by
// any block in this set.
func (bs *BlockSet) SeqFromName(name string) (*sequence.Sequence, bool) {
	s, ok := bs.seqs[name]
	return s, ok
}

// Sequences returns every sequence referenced by this set's blocks.
func (bs *BlockSet) Sequences() []*sequence.Sequence {
	out := make([]*sequence.Sequence, 0, len(bs.seqs))
	for _, s := range bs.seqs {
		out = append(out, s)
	}
	return out
}

// FragmentFromID finds the fragment whose block name and position match
// the "<seq>_<begin>_<last>" style id used by the fasta encoding (spec
// §6.2), scanning the set's blocks. This is intended for I/O readers, not
// hot-path use.
func (bs *BlockSet) FragmentFromID(blockName string, minPos, maxPos int, seq *sequence.Sequence) (*fragment.Fragment, bool) {
	b, ok := bs.blocks[blockName]
	if !ok {
		return nil, false
	}
	for _, f := range b.Members() {
		if f.Sequence() == seq && f.MinPos() == minPos && f.MaxPos() == maxPos {
			return f, true
		}
	}
	return nil, false
}

// FindFragment scans every block for a fragment on seq spanning
// [minPos,maxPos], for readers (bsatext) whose on-disk format identifies
// a cell by position alone, without the owning block's name.
func (bs *BlockSet) FindFragment(seq *sequence.Sequence, minPos, maxPos int) (*fragment.Fragment, *fragment.Block, bool) {
	for _, name := range bs.order {
		b := bs.blocks[name]
		for _, f := range b.Members() {
			if f.Sequence() == seq && f.MinPos() == minPos && f.MaxPos() == maxPos {
				return f, b, true
			}
		}
	}
	return nil, nil, false
}

// PutBSA names and stores a block-set alignment.
func (bs *BlockSet) PutBSA(b BSA) { bs.bsas[b.Name()] = b }

// BSAByName returns the BSA stored under name.
func (bs *BlockSet) BSAByName(name string) (BSA, bool) {
	b, ok := bs.bsas[name]
	return b, ok
}

// BSANames returns every stored BSA's name.
func (bs *BlockSet) BSANames() []string {
	out := make([]string, 0, len(bs.bsas))
	for n := range bs.bsas {
		out = append(out, n)
	}
	return out
}

// Clone performs a deep copy: new blocks with new fragment/row objects on
// the same (shared) underlying sequences, and no BSAs (which would
// reference the old fragments and are therefore invalidated by spec §3's
// ownership rules).
func (bs *BlockSet) Clone() (*BlockSet, error) {
	out := New()
	for _, name := range bs.order {
		b := bs.blocks[name]
		nb := fragment.NewBlock(b.Name(), b.Weak())
		for _, f := range b.Members() {
			nf, err := fragment.New(f.Sequence(), f.MinPos(), f.MaxPos(), f.Ori())
			if err != nil {
				return nil, err
			}
			if row := f.Row(); row != nil {
				if err := nf.AttachRow(row.Clone()); err != nil {
					return nil, err
				}
			}
			nb.Insert(nf)
		}
		out.Insert(nb)
	}
	return out, nil
}

// Swap exchanges the contents of bs and other in place.
func (bs *BlockSet) Swap(other *BlockSet) {
	*bs, *other = *other, *bs
}
