/*
Package geneconversion implements a processor.Processor that flags runs
of columns where two members of a block agree with each other but
disagree with the block's own consensus: the alignment signature of a
gene-conversion event (spec's original_source FindGeneConversion.cpp,
supplementing spec.md's distilled C5 scope).
*/
package geneconversion

import (
	"fmt"
	"sync"

	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/processor"
)

// Event records one run of consensus-contradicting shared substitutions
// between two members of a block.
type Event struct {
	Block      *fragment.Block
	A, B       *fragment.Fragment
	FromColumn int
	ToColumn   int
}

// Finder is a processor.Processor: for every block, every pair of
// members is compared column by column; a maximal run of columns of
// length at least the configured "min-run" where both members carry the
// same letter and that letter differs from the block consensus is
// reported as an Event.
type Finder struct {
	opts   *processor.Options
	minRun *processor.Option

	mu     sync.Mutex
	events []Event
}

// New returns a Finder with its "min-run" option defaulted to 4 columns.
func New() *Finder {
	f := &Finder{opts: processor.NewOptions()}
	opt, err := processor.NewOption("min-run", "minimum run length of shared substitutions", processor.IntValue(4), "min-run >= 1")
	if err != nil {
		panic(err)
	}
	f.minRun = opt
	f.opts.Register(opt)
	return f
}

func (f *Finder) Slots() []processor.BlockSetSlot {
	return []processor.BlockSetSlot{{Name: "target", Description: "blocks to scan for gene conversion"}}
}

func (f *Finder) Options() *processor.Options { return f.opts }

func (f *Finder) ChangeBlocks(blocks []*fragment.Block) []*fragment.Block { return blocks }

func (f *Finder) InitializeWork() error { return nil }

func (f *Finder) BeforeThread() processor.ThreadData { return &[]Event{} }

func (f *Finder) ProcessBlock(b *fragment.Block, td processor.ThreadData) error {
	members := b.Members()
	if len(members) < 2 {
		return nil
	}
	consensus, err := b.Consensus()
	if err != nil {
		return err
	}
	scratch := td.(*[]Event)
	minRun := int(f.minRun.Value().Int)

	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a, c := members[i], members[j]
			run := 0
			flush := func(endCol int) {
				if run >= minRun {
					*scratch = append(*scratch, Event{
						Block: b, A: a, B: c,
						FromColumn: endCol - run,
						ToColumn:   endCol - 1,
					})
				}
				run = 0
			}
			for col := 0; col < len(consensus); col++ {
				la, err := letterAtColumn(a, col)
				if err != nil {
					return err
				}
				lc, err := letterAtColumn(c, col)
				if err != nil {
					return err
				}
				if la != '-' && la == lc && la != consensus[col] {
					run++
					continue
				}
				flush(col)
			}
			flush(len(consensus))
		}
	}
	return nil
}

func (f *Finder) AfterThread(td processor.ThreadData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, (*td.(*[]Event))...)
	return nil
}

func (f *Finder) FinishWork() error { return nil }

// Found returns the gene-conversion events flagged by the most recent Run.
func (f *Finder) Found() []Event { return f.events }

func letterAtColumn(f *fragment.Fragment, col int) (byte, error) {
	if f.Row() != nil {
		return f.Row().LetterAtColumn(col)
	}
	if col >= f.Length() {
		return '-', nil
	}
	return f.LetterAt(col)
}

func (e Event) String() string {
	return fmt.Sprintf("%s: %s x %s [%d,%d]", e.Block.Name(), e.A.Sequence().Name(), e.B.Sequence().Name(), e.FromColumn, e.ToColumn)
}
