package geneconversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/processor"
	"github.com/bebop/npge/sequence"
)

func newSeq(t *testing.T, name, letters string) *sequence.Sequence {
	t.Helper()
	s := sequence.New(sequence.AsIs, name, "")
	s.PushBack([]byte(letters))
	return s
}

// Four equal-length, ungapped members: a and b share consensus letters
// everywhere except columns [4,8), where they both carry T against a
// consensus of A (c and d hold A there). That run should surface as one
// Event between a and b, and no other pair should report one.
func TestFinderFlagsSharedSubstitutionRun(t *testing.T) {
	// a and b both deviate to T across columns [4,8); c and d stay A, so
	// A remains the block's consensus there (it wins the 2-2 tie by the
	// A<T<G<C order) and a/b's shared T run contradicts it.
	seqA := newSeq(t, "a&1&l", "AAAATTTTAAAA")
	seqB := newSeq(t, "b&1&l", "AAAATTTTAAAA")
	seqC := newSeq(t, "c&1&l", "AAAAAAAAAAAA")
	seqD := newSeq(t, "d&1&l", "AAAAAAAAAAAA")

	fa, err := fragment.New(seqA, 0, 11, 1)
	require.NoError(t, err)
	fb, err := fragment.New(seqB, 0, 11, 1)
	require.NoError(t, err)
	fc, err := fragment.New(seqC, 0, 11, 1)
	require.NoError(t, err)
	fd, err := fragment.New(seqD, 0, 11, 1)
	require.NoError(t, err)

	b := fragment.NewBlock("blk", false)
	b.Insert(fa)
	b.Insert(fb)
	b.Insert(fc)
	b.Insert(fd)

	finder := New()
	td := finder.BeforeThread()
	require.NoError(t, finder.ProcessBlock(b, td))
	require.NoError(t, finder.AfterThread(td))

	events := finder.Found()
	require.Len(t, events, 1)
	assert.ElementsMatch(t, []*fragment.Fragment{fa, fb}, []*fragment.Fragment{events[0].A, events[0].B})
	assert.Equal(t, 4, events[0].FromColumn)
	assert.Equal(t, 7, events[0].ToColumn)
}

func TestFinderIgnoresShortRuns(t *testing.T) {
	// a and b share a single-column deviation to T; c and d hold A, so A
	// stays the consensus there too (it wins the 2-2 tie). The run is one
	// column long, under the default min-run of 4, so nothing is flagged.
	seqA := newSeq(t, "a&1&l", "AAATAAA")
	seqB := newSeq(t, "b&1&l", "AAATAAA")
	seqC := newSeq(t, "c&1&l", "AAAAAAA")
	seqD := newSeq(t, "d&1&l", "AAAAAAA")

	fa, err := fragment.New(seqA, 0, 6, 1)
	require.NoError(t, err)
	fb, err := fragment.New(seqB, 0, 6, 1)
	require.NoError(t, err)
	fc, err := fragment.New(seqC, 0, 6, 1)
	require.NoError(t, err)
	fd, err := fragment.New(seqD, 0, 6, 1)
	require.NoError(t, err)

	b := fragment.NewBlock("blk", false)
	b.Insert(fa)
	b.Insert(fb)
	b.Insert(fc)
	b.Insert(fd)

	finder := New()
	td := finder.BeforeThread()
	require.NoError(t, finder.ProcessBlock(b, td))
	require.NoError(t, finder.AfterThread(td))

	assert.Empty(t, finder.Found())
}

var _ processor.Processor = (*Finder)(nil)
