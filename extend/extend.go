/*
Package extend implements a processor.Processor that grows the fragments
of every block with more than two members outward on both ends, stopping at the
sequence's edge or short of swallowing a neighboring fragment
(spec's original_source FragmentsExtender.cpp, supplementing spec.md's
distilled C5 scope).
*/
package extend

import (
	"github.com/bebop/npge/blockset"
	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/processor"
)

// Extender is a processor.Processor: for each block with more than two
// members and an attached alignment, it extends every member by the same
// number of bases on each side, bounded by Block.MaxShiftEnd so the
// extension never crosses a neighboring fragment nor runs off the
// sequence, then appends the newly covered bases to each member's row as
// plain (ungapped) columns.
type Extender struct {
	bs     *blockset.BlockSet
	opts   *processor.Options
	length *processor.Option

	index *blockset.Collection
}

// New returns an Extender bounded by the fragments currently registered
// in bs. bs must contain every block the caller will later pass to
// processor.Pool.Run, since InitializeWork indexes it once up front.
func New(bs *blockset.BlockSet) *Extender {
	e := &Extender{bs: bs, opts: processor.NewOptions()}
	opt, err := processor.NewOption("extend-length", "length of extended part on each side", processor.IntValue(10), "extend-length >= 0")
	if err != nil {
		panic(err)
	}
	e.length = opt
	e.opts.Register(opt)
	return e
}

func (e *Extender) Slots() []processor.BlockSetSlot {
	return []processor.BlockSetSlot{{Name: "target", Description: "blocks whose members should be extended"}}
}

func (e *Extender) Options() *processor.Options { return e.opts }

func (e *Extender) ChangeBlocks(blocks []*fragment.Block) []*fragment.Block { return blocks }

// InitializeWork indexes every fragment currently in the block set so
// ProcessBlock can find each fragment's logical neighbor, mirroring the
// original's Connector pass run before extension starts.
func (e *Extender) InitializeWork() error {
	idx := blockset.New(blockset.Vector, false)
	idx.AddBS(e.bs)
	idx.Prepare()
	e.index = idx
	return nil
}

func (e *Extender) BeforeThread() processor.ThreadData { return nil }

func (e *Extender) neighborAfter(f *fragment.Fragment) (*fragment.Fragment, bool) {
	return e.index.LogicalNeighbor(f, 1)
}

func (e *Extender) ProcessBlock(b *fragment.Block, td processor.ThreadData) error {
	if b.Size() <= 2 || b.Members()[0].Row() == nil {
		return nil
	}
	extendLen := int(e.length.Value().Int)
	if extendLen <= 0 {
		return nil
	}

	right := b.MaxShiftEnd(extendLen, e.neighborAfter)
	if right > extendLen {
		right = extendLen
	}
	if right > 0 {
		if err := growEnd(b, right); err != nil {
			return err
		}
	}

	b.Inverse()
	left := b.MaxShiftEnd(extendLen, e.neighborAfter)
	if left > extendLen {
		left = extendLen
	}
	if left > 0 {
		if err := growEnd(b, left); err != nil {
			return err
		}
	}
	b.Inverse()
	return nil
}

func (e *Extender) AfterThread(td processor.ThreadData) error { return nil }

func (e *Extender) FinishWork() error { return nil }

// growEnd shifts every member's end outward by amount bases and appends
// the newly covered letters to its row as plain columns.
func growEnd(b *fragment.Block, amount int) error {
	for _, f := range b.Members() {
		oldLength := f.Length()
		if err := f.ShiftEnd(amount); err != nil {
			return err
		}
		row := f.Row()
		if row == nil {
			continue
		}
		ext := make([]byte, amount)
		for i := 0; i < amount; i++ {
			c, err := f.LetterAt(oldLength + i)
			if err != nil {
				return err
			}
			ext[i] = c
		}
		row.Grow(string(ext))
	}
	return nil
}
