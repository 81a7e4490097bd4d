package processor

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bebop/npge/fragment"
)

// BlockSetSlot names a block-set input or output a Processor declares,
// e.g. "target", "other", "genes", "pangenome" (spec §4.4).
type BlockSetSlot struct {
	Name        string
	Description string
}

// ThreadData is per-worker scratch state, single-owner for the duration
// of one thread's task loop (spec §5: processors that must mutate during
// ProcessBlock append to ThreadData instead of shared state).
type ThreadData interface{}

// Processor is the interface every pan-genome transformation implements.
type Processor interface {
	// Slots lists the block-set inputs/outputs this processor declares.
	Slots() []BlockSetSlot
	// Options returns the processor's option registry.
	Options() *Options
	// ChangeBlocks is the pre-pass over the current target blocks: sort,
	// deduplicate, pick order. It returns the (possibly reordered/pruned)
	// block slice that ProcessBlock will be called on, in order.
	ChangeBlocks(blocks []*fragment.Block) []*fragment.Block
	// InitializeWork runs once on the owning goroutine before any worker
	// starts.
	InitializeWork() error
	// BeforeThread returns fresh scratch for one worker.
	BeforeThread() ThreadData
	// ProcessBlock runs on a worker goroutine; concurrently with other
	// workers' ProcessBlock calls, never concurrently with AfterThread or
	// FinishWork.
	ProcessBlock(b *fragment.Block, td ThreadData) error
	// AfterThread merges one worker's scratch into processor state. Calls
	// to AfterThread are serialized.
	AfterThread(td ThreadData) error
	// FinishWork runs once after every AfterThread call has completed,
	// even if a worker failed.
	FinishWork() error
}

// Sortable is implemented by processors that declare themselves
// order-sensitive (spec §4.4 "sorted flag forcing sequential execution").
type Sortable interface {
	Sorted() bool
}

// Pool runs a Processor's lifecycle across a fixed number of workers.
type Pool struct {
	Workers int
}

// NewPool returns a Pool with the given worker count. A count <= 0 is
// treated as 1. Run starts every worker on its own goroutine and the
// calling goroutine waits for them.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{Workers: workers}
}

// Run executes one full lifecycle of p over blocks.
func (pool *Pool) Run(p Processor, blocks []*fragment.Block) error {
	ordered := p.ChangeBlocks(blocks)

	if err := p.InitializeWork(); err != nil {
		return err
	}

	workers := pool.Workers
	if s, ok := p.(Sortable); ok && s.Sorted() {
		workers = 1
	}

	var cursor int
	var mu sync.Mutex
	nextTask := func() (*fragment.Block, bool) {
		mu.Lock()
		defer mu.Unlock()
		if cursor >= len(ordered) {
			return nil, false
		}
		b := ordered[cursor]
		cursor++
		return b, true
	}

	var cancelled bool
	var firstErr error
	markCancelled := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if !cancelled {
			cancelled = true
			firstErr = err
		}
	}
	isCancelled := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return cancelled
	}

	group := &errgroup.Group{}
	// tds holds each worker's scratch, indexed by worker number, so
	// AfterThread can be replayed in a fixed sequence once every worker has
	// finished producing blocks (spec §5: "after_thread (per worker) and
	// finish_work ... over workers in a fixed sequence", invariant 11).
	tds := make([]ThreadData, workers)

	for w := 0; w < workers; w++ {
		w := w
		group.Go(func() error {
			td := p.BeforeThread()
			tds[w] = td
			for {
				if isCancelled() {
					break
				}
				block, ok := nextTask()
				if !ok {
					break
				}
				if err := p.ProcessBlock(block, td); err != nil {
					markCancelled(err)
					break
				}
			}
			return nil
		})
	}
	_ = group.Wait()

	for _, td := range tds {
		if err := p.AfterThread(td); err != nil {
			markCancelled(err)
		}
	}

	if err := p.FinishWork(); err != nil {
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Apply runs child's full lifecycle over blocks, propagating bound
// options in (their current value) and back out again on completion,
// implementing spec §4.4's sub-processor composition.
func Apply(pool *Pool, child Processor, blocks []*fragment.Block) error {
	return pool.Run(child, blocks)
}
