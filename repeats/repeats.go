/*
Package repeats implements a processor.Processor that splits a block
into sub-blocks wherever two of its own members overlap on the same
sequence: a signature of a tandem or interspersed repeat having been
merged into one block by an earlier, coarser alignment step (spec's
original_source SplitRepeats.cpp, supplementing spec.md's distilled C5
scope).
*/
package repeats

import (
	"sort"
	"sync"

	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/processor"
)

// Splitter is a processor.Processor: for every pair of members on the
// same sequence whose positions overlap, the later-starting member is
// split at the overlap boundary and the shared segment moves into a new
// weak block named "<original>.repeat".
type Splitter struct {
	opts *processor.Options

	mu    sync.Mutex
	extra []*fragment.Block
}

// New returns a Splitter.
func New() *Splitter {
	return &Splitter{opts: processor.NewOptions()}
}

func (s *Splitter) Slots() []processor.BlockSetSlot {
	return []processor.BlockSetSlot{{Name: "target", Description: "blocks to scan for internal repeats"}}
}

func (s *Splitter) Options() *processor.Options { return s.opts }

func (s *Splitter) ChangeBlocks(blocks []*fragment.Block) []*fragment.Block { return blocks }

func (s *Splitter) InitializeWork() error { return nil }

func (s *Splitter) BeforeThread() processor.ThreadData { return &[]*fragment.Block{} }

func (s *Splitter) ProcessBlock(b *fragment.Block, td processor.ThreadData) error {
	members := append([]*fragment.Fragment(nil), b.Members()...)
	sort.Slice(members, func(i, j int) bool { return members[i].MinPos() < members[j].MinPos() })

	scratch := td.(*[]*fragment.Block)
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a, c := members[i], members[j]
			if a.Sequence() != c.Sequence() {
				continue
			}
			overlap := a.CommonPositions(c)
			if overlap <= 0 || overlap >= c.Length() {
				continue
			}
			// a's MinPos <= c's MinPos (members are sorted), so the
			// overlap always sits on c's low-position side regardless of
			// c's orientation. Split's head/tail split at the low side
			// for ori +1 and at the high side for ori -1, so which
			// returned half is the shared segment depends on c.Ori().
			var shared, keep *fragment.Fragment
			var err error
			if c.Ori() >= 0 {
				keep, err = c.Split(overlap)
				shared = c
			} else {
				shared, err = c.Split(c.Length() - overlap)
				keep = c
			}
			if err != nil {
				continue
			}
			if keep != c {
				b.Erase(c)
				b.Insert(keep)
			}
			sub := fragment.NewBlock(b.Name()+".repeat", true)
			sub.Insert(shared)
			*scratch = append(*scratch, sub)
		}
	}
	return nil
}

func (s *Splitter) AfterThread(td processor.ThreadData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extra = append(s.extra, (*td.(*[]*fragment.Block))...)
	return nil
}

func (s *Splitter) FinishWork() error { return nil }

// Extra returns the new sub-blocks split off by the most recent Run.
func (s *Splitter) Extra() []*fragment.Block { return s.extra }
