package repeats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/processor"
	"github.com/bebop/npge/sequence"
)

func newSeq(t *testing.T, name string, length int) *sequence.Sequence {
	t.Helper()
	s := sequence.New(sequence.AsIs, name, "")
	letters := make([]byte, length)
	for i := range letters {
		letters[i] = 'A'
	}
	s.PushBack(letters)
	return s
}

// Two members on the same sequence with a 20bp internal overlap should
// split the later-starting one: the overlapping 20bp move to a new
// sub-block and the 40bp non-overlapping tail stays in the block.
func TestSplitterSplitsOverlappingMembers(t *testing.T) {
	seq := newSeq(t, "g&1&l", 100)

	a, err := fragment.New(seq, 0, 59, 1)
	require.NoError(t, err)
	c, err := fragment.New(seq, 40, 99, 1)
	require.NoError(t, err)

	b := fragment.NewBlock("b", false)
	b.Insert(a)
	b.Insert(c)

	s := New()
	td := s.BeforeThread()
	require.NoError(t, s.ProcessBlock(b, td))
	require.NoError(t, s.AfterThread(td))

	extra := s.Extra()
	require.Len(t, extra, 1)
	require.Equal(t, 1, extra[0].Size())
	assert.Equal(t, 20, extra[0].Members()[0].Length())
	assert.Equal(t, 2, b.Size())

	for _, m := range b.Members() {
		if m == a {
			continue
		}
		assert.Equal(t, 40, m.Length())
	}
}

func TestSplitterNoOverlapLeavesBlockUntouched(t *testing.T) {
	seq := newSeq(t, "g&1&l", 100)

	a, err := fragment.New(seq, 0, 39, 1)
	require.NoError(t, err)
	c, err := fragment.New(seq, 40, 79, 1)
	require.NoError(t, err)

	b := fragment.NewBlock("b", false)
	b.Insert(a)
	b.Insert(c)

	s := New()
	td := s.BeforeThread()
	require.NoError(t, s.ProcessBlock(b, td))
	require.NoError(t, s.AfterThread(td))

	assert.Empty(t, s.Extra())
	assert.Equal(t, 2, b.Size())
}

var _ processor.Processor = (*Splitter)(nil)
