package extend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/npge/blockset"
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

func rowFor(t *testing.T, f *fragment.Fragment, letters string) {
	t.Helper()
	row := fragment.NewRow(fragment.RowMap)
	row.Grow(letters)
	require.NoError(t, f.AttachRow(row))
}

func TestExtenderGrowsBothEndsWithinBounds(t *testing.T) {
	seqA := newSeq(t, "a&1&l", "ATGCATGCAAAA") // size 12
	seqB := newSeq(t, "b&1&l", "ATGCATGCTTTT")
	seqC := newSeq(t, "c&1&l", "ATGCATGCGGGG")

	fa, err := fragment.New(seqA, 4, 7, 1)
	require.NoError(t, err)
	rowFor(t, fa, "ATGC")

	fb, err := fragment.New(seqB, 4, 7, 1)
	require.NoError(t, err)
	rowFor(t, fb, "ATGC")

	fc, err := fragment.New(seqC, 4, 7, 1)
	require.NoError(t, err)
	rowFor(t, fc, "ATGC")

	block := fragment.NewBlock("blk", false)
	block.Insert(fa)
	block.Insert(fb)
	block.Insert(fc)

	bs := blockset.New()
	bs.Insert(block)

	ext := New(bs)
	require.NoError(t, ext.Options().SetValue("extend-length", processor.IntValue(3)))

	pool := processor.NewPool(1)
	require.NoError(t, pool.Run(ext, []*fragment.Block{block}))

	assert.Equal(t, 1, fa.MinPos())
	assert.Equal(t, 10, fa.MaxPos())
	assert.Equal(t, 10, fa.Length())
	assert.Equal(t, 10, fa.Row().RowLength())

	assert.Equal(t, 1, fb.MinPos())
	assert.Equal(t, 10, fb.MaxPos())
}

// When a neighboring fragment already overlaps f (left over from an
// earlier, coarser alignment step), max-shift-end still permits growing
// into it, but only by extend-length bases past the overlap already
// present, not by the full extend-length past f's own end.
func TestExtenderBoundedByAnAlreadyOverlappingNeighbor(t *testing.T) {
	seqA := newSeq(t, "a&1&l", "ATGCATGCAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA") // size 38

	fa, err := fragment.New(seqA, 4, 9, 1) // length 6
	require.NoError(t, err)
	rowFor(t, fa, "ATGCAT")

	neighbor, err := fragment.New(seqA, 7, 12, 1) // overlaps fa by 3 bases
	require.NoError(t, err)

	seqB := newSeq(t, "b&1&l", "ATGCATGCAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	fb, err := fragment.New(seqB, 4, 9, 1)
	require.NoError(t, err)
	rowFor(t, fb, "ATGCAT")

	seqC := newSeq(t, "c&1&l", "ATGCATGCAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	fc, err := fragment.New(seqC, 4, 9, 1)
	require.NoError(t, err)
	rowFor(t, fc, "ATGCAT")

	block := fragment.NewBlock("blk", false)
	block.Insert(fa)
	block.Insert(fb)
	block.Insert(fc)

	other := fragment.NewBlock("other", false)
	other.Insert(neighbor)

	bs := blockset.New()
	bs.Insert(block)
	bs.Insert(other)

	ext := New(bs)
	require.NoError(t, ext.Options().SetValue("extend-length", processor.IntValue(10)))

	pool := processor.NewPool(1)
	require.NoError(t, pool.Run(ext, []*fragment.Block{block}))

	// gap = neighbor.MinPos() - fa.MaxPos() - 1 = 7-9-1 = -3, so the
	// neighbor-bound shift is -3+10 = 7, tighter than extend-length (10)
	// and than the sequence edge (far away) alike.
	assert.Equal(t, 16, fa.MaxPos())
}

var _ processor.Processor = (*Extender)(nil)
