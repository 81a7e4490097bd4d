package processor

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/sequence"
)

func TestOptionValidation(t *testing.T) {
	opt, err := NewOption("min-length", "minimum block length", IntValue(100), "min-length >= 1")
	require.NoError(t, err)

	require.NoError(t, opt.Set(IntValue(5)))
	err = opt.Set(IntValue(0))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOptionBinding(t *testing.T) {
	parent, err := NewOption("min-length", "", IntValue(50))
	require.NoError(t, err)
	child, err := NewOption("min-length", "", IntValue(10))
	require.NoError(t, err)
	child.Bind(parent)

	require.NoError(t, parent.Set(IntValue(77)))
	assert.Equal(t, 77, child.Value().Int)
}

type countingProcessor struct {
	mu      sync.Mutex
	seen    []string
	failOn  string
	sorted  bool
	initErr error
}

func (p *countingProcessor) Slots() []BlockSetSlot { return nil }
func (p *countingProcessor) Options() *Options      { return NewOptions() }
func (p *countingProcessor) ChangeBlocks(blocks []*fragment.Block) []*fragment.Block {
	out := append([]*fragment.Block(nil), blocks...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
func (p *countingProcessor) InitializeWork() error { return p.initErr }
func (p *countingProcessor) BeforeThread() ThreadData { return &[]string{} }
func (p *countingProcessor) ProcessBlock(b *fragment.Block, td ThreadData) error {
	if b.Name() == p.failOn {
		return errors.New("boom")
	}
	scratch := td.(*[]string)
	*scratch = append(*scratch, b.Name())
	return nil
}
func (p *countingProcessor) AfterThread(td ThreadData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, (*td.(*[]string))...)
	return nil
}
func (p *countingProcessor) FinishWork() error { return nil }
func (p *countingProcessor) Sorted() bool      { return p.sorted }

func makeBlocks(names ...string) []*fragment.Block {
	seq := sequence.New(sequence.AsIs, "s", "")
	seq.PushBack(make([]byte, 1000))
	var blocks []*fragment.Block
	pos := 0
	for _, n := range names {
		b := fragment.NewBlock(n, false)
		f, _ := fragment.New(seq, pos, pos+9, 1)
		pos += 10
		b.Insert(f)
		blocks = append(blocks, b)
	}
	return blocks
}

func TestPoolDeterministicMerge(t *testing.T) {
	blocks := makeBlocks("c", "a", "b")
	p := &countingProcessor{sorted: true}
	pool := NewPool(4)
	require.NoError(t, pool.Run(p, blocks))
	assert.Equal(t, []string{"a", "b", "c"}, p.seen)
}

// raceProcessor's ProcessBlock holds "active" up while it sleeps, so an
// AfterThread call that runs concurrently with any worker's ProcessBlock
// (rather than strictly after every worker has drained its queue) trips
// the violation flag.
type raceProcessor struct {
	active    int32
	mu        sync.Mutex
	violation bool
	afterSeen int
}

func (p *raceProcessor) Slots() []BlockSetSlot { return nil }
func (p *raceProcessor) Options() *Options     { return NewOptions() }
func (p *raceProcessor) ChangeBlocks(blocks []*fragment.Block) []*fragment.Block { return blocks }
func (p *raceProcessor) InitializeWork() error                                  { return nil }
func (p *raceProcessor) BeforeThread() ThreadData                               { return new(int) }
func (p *raceProcessor) ProcessBlock(b *fragment.Block, td ThreadData) error {
	atomic.AddInt32(&p.active, 1)
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&p.active, -1)
	return nil
}
func (p *raceProcessor) AfterThread(td ThreadData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.afterSeen++
	if atomic.LoadInt32(&p.active) != 0 {
		p.violation = true
	}
	return nil
}
func (p *raceProcessor) FinishWork() error { return nil }

func TestPoolAfterThreadNeverRunsConcurrentlyWithProcessBlock(t *testing.T) {
	blocks := makeBlocks("a", "b", "c", "d", "e", "f", "g", "h")
	p := &raceProcessor{}
	pool := NewPool(4)
	require.NoError(t, pool.Run(p, blocks))
	assert.False(t, p.violation, "AfterThread observed a still-running ProcessBlock")
	assert.Equal(t, 4, p.afterSeen, "AfterThread must be called once per worker")
}

func TestPoolCancellation(t *testing.T) {
	blocks := makeBlocks("a", "b", "c", "d")
	p := &countingProcessor{failOn: "b"}
	pool := NewPool(1)
	err := pool.Run(p, blocks)
	assert.Error(t, err)
}
