/*
Package lowsimilar implements a processor.Processor that flags blocks
whose identity falls below a threshold, producing one weak "low
similarity" block per flagged input (spec's original_source
FindLowSimilar.cpp, supplementing spec.md's distilled C5 scope).
*/
package lowsimilar

import (
	"sync"

	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/processor"
)

// Finder is a processor.Processor: for each input block whose Stat()
// identity is below the configured threshold, it records a weak block
// covering the same fragments, named "<original>.low".
type Finder struct {
	opts   *processor.Options
	thresh *processor.Option

	mu     sync.Mutex
	found  []*fragment.Block
}

// New returns a Finder with its "min-identity" option defaulted to 0.9.
func New() *Finder {
	f := &Finder{opts: processor.NewOptions()}
	opt, err := processor.NewOption("min-identity", "minimum acceptable block identity", processor.DecValue(0.9), "min-identity >= 0", "min-identity <= 1")
	if err != nil {
		panic(err)
	}
	f.thresh = opt
	f.opts.Register(opt)
	return f
}

func (f *Finder) Slots() []processor.BlockSetSlot {
	return []processor.BlockSetSlot{{Name: "target", Description: "blocks to scan for low similarity"}}
}

func (f *Finder) Options() *processor.Options { return f.opts }

func (f *Finder) ChangeBlocks(blocks []*fragment.Block) []*fragment.Block { return blocks }

func (f *Finder) InitializeWork() error { return nil }

func (f *Finder) BeforeThread() processor.ThreadData { return &[]*fragment.Block{} }

func (f *Finder) ProcessBlock(b *fragment.Block, td processor.ThreadData) error {
	stat, err := b.Stat()
	if err != nil {
		return err
	}
	if stat.Identity() >= f.thresh.Value().Dec {
		return nil
	}
	weak := fragment.NewBlock(b.Name()+".low", true)
	for _, member := range b.Members() {
		weak.Insert(member)
	}
	scratch := td.(*[]*fragment.Block)
	*scratch = append(*scratch, weak)
	return nil
}

func (f *Finder) AfterThread(td processor.ThreadData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.found = append(f.found, (*td.(*[]*fragment.Block))...)
	return nil
}

func (f *Finder) FinishWork() error { return nil }

// Found returns the weak low-similarity blocks discovered by the most
// recent Run, in no particular cross-worker order.
func (f *Finder) Found() []*fragment.Block { return f.found }
