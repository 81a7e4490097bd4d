package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebop/npge/sequence"
)

func mustSeq(t *testing.T, name, letters string) *sequence.Sequence {
	t.Helper()
	s := sequence.New(sequence.AsIs, name, "")
	s.PushBack([]byte(letters))
	return s
}

func TestInverseInvolution(t *testing.T) {
	seq := mustSeq(t, "s1", "ATGCATGC")
	f, err := New(seq, 0, 7, 1)
	require.NoError(t, err)
	before := f.Length()
	f.Inverse()
	f.Inverse()
	assert.Equal(t, int8(1), f.Ori())
	assert.Equal(t, before, f.Length())
}

func TestSplit(t *testing.T) {
	seq := mustSeq(t, "s1", "ATGCATGC")
	f, err := New(seq, 0, 7, 1)
	require.NoError(t, err)
	tail, err := f.Split(3)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Length())
	assert.Equal(t, 5, tail.Length())
	assert.Equal(t, 0, f.MinPos())
	assert.Equal(t, 2, f.MaxPos())
	assert.Equal(t, 3, tail.MinPos())
	assert.Equal(t, 7, tail.MaxPos())
}

// S1: two sequences A="ATGCATGC", B="ATGCNTGC", single block, two
// naked fragments covering [0,7] ori +1. Expected consensus "ATGCATGC",
// identity 7/8, stat {ident_nogap:7, noident_nogap:1, others:0}.
func TestScenarioS1(t *testing.T) {
	a := mustSeq(t, "A", "ATGCATGC")
	b := mustSeq(t, "B", "ATGCNTGC")
	fa, err := New(a, 0, 7, 1)
	require.NoError(t, err)
	fb, err := New(b, 0, 7, 1)
	require.NoError(t, err)

	block := NewBlock("b1", false)
	block.Insert(fa)
	block.Insert(fb)

	consensus, err := block.Consensus()
	require.NoError(t, err)
	assert.Equal(t, "ATGCATGC", string(consensus))

	stat, err := block.Stat()
	require.NoError(t, err)
	assert.InDelta(t, 7.0/8.0, stat.Identity(), 1e-9)
	assert.Equal(t, 7, stat.IdentNogap())
	assert.Equal(t, 1, stat.NoidentNogap())
	assert.Equal(t, 0, stat.IdentGap())
	assert.Equal(t, 0, stat.NoidentGap())
	assert.Equal(t, 0, stat.PureGap())
}

func rowFrom(t *testing.T, gapped string) *AlignmentRow {
	t.Helper()
	r := NewRow(RowMap)
	r.Grow(gapped)
	return r
}

// S2: sequence s="TAGTCCGA", three fragments with rows "TAGTCCG-",
// "TGTT-CG-", "TG---CG-".
func TestScenarioS2(t *testing.T) {
	s := mustSeq(t, "s", "TAGTCCGA")

	f1, err := New(s, 0, 6, 1) // 7 letters: TAGTCCG
	require.NoError(t, err)
	require.NoError(t, f1.AttachRow(rowFrom(t, "TAGTCCG-")))

	// second/third fragments are synthetic alternate alleles living on
	// their own copies of the sequence content for test purposes; what
	// matters here is the row's gap pattern against the shared width.
	s2 := mustSeq(t, "s2", "TGTTCG")
	f2, err := New(s2, 0, 5, 1)
	require.NoError(t, err)
	require.NoError(t, f2.AttachRow(rowFrom(t, "TGTT-CG-")))

	s3 := mustSeq(t, "s3", "TGCG")
	f3, err := New(s3, 0, 3, 1)
	require.NoError(t, err)
	require.NoError(t, f3.AttachRow(rowFrom(t, "TG---CG-")))

	block := NewBlock("b2", false)
	block.Insert(f1)
	block.Insert(f2)
	block.Insert(f3)

	stat, err := block.Stat()
	require.NoError(t, err)
	assert.Equal(t, 3, stat.IdentNogap())
	assert.Equal(t, 2, stat.IdentGap())
	assert.Equal(t, 1, stat.NoidentNogap())
	assert.Equal(t, 1, stat.NoidentGap())
	assert.Equal(t, 1, stat.PureGap())

	slice := stat.Slice(5, 6)
	assert.Equal(t, 2, slice.IdentNogap())
	assert.Greater(t, slice.GCRatio(), 0.99)
}

// Mirrors original_source's Fragment_max_shift_two_fragments
// (src/test/fragment.cpp:144-186): f1 is connected to f2 as its logical
// neighbor in the forward direction; flipping either fragment's
// orientation changes which pointer (next/prev) that direction resolves
// to, without re-wiring the connection itself.
func TestMaxShiftEndTwoFragments(t *testing.T) {
	s := mustSeq(t, "s", "ggtGGTcCGAga") // size 12
	f1, err := New(s, 3, 5, 1)
	require.NoError(t, err)
	f2, err := New(s, 7, 9, 1)
	require.NoError(t, err)

	next := map[*Fragment]*Fragment{}
	prev := map[*Fragment]*Fragment{}
	connect := func(a, b *Fragment) { next[a] = b; prev[b] = a }
	neighborAfter := func(f *Fragment) (*Fragment, bool) {
		if f.Ori() == 1 {
			n, ok := next[f]
			return n, ok
		}
		n, ok := prev[f]
		return n, ok
	}

	connect(f1, f2)
	assert.Equal(t, 6, f1.MaxShiftEnd(-1, neighborAfter))
	assert.Equal(t, 1, f1.MaxShiftEnd(0, neighborAfter))
	assert.Equal(t, 2, f1.MaxShiftEnd(1, neighborAfter))
	assert.Equal(t, 5, f1.MaxShiftEnd(4, neighborAfter))
	assert.Equal(t, 6, f1.MaxShiftEnd(100, neighborAfter))
	assert.Equal(t, 2, f2.MaxShiftEnd(-1, neighborAfter))
	assert.Equal(t, 2, f2.MaxShiftEnd(0, neighborAfter))

	f1.Inverse()
	assert.Equal(t, 3, f1.MaxShiftEnd(-1, neighborAfter))
	assert.Equal(t, 3, f1.MaxShiftEnd(0, neighborAfter))
	assert.Equal(t, 2, f2.MaxShiftEnd(-1, neighborAfter))
	assert.Equal(t, 2, f2.MaxShiftEnd(0, neighborAfter))

	f2.Inverse()
	assert.Equal(t, 3, f1.MaxShiftEnd(-1, neighborAfter))
	assert.Equal(t, 3, f1.MaxShiftEnd(0, neighborAfter))
	assert.Equal(t, 7, f2.MaxShiftEnd(-1, neighborAfter))
	assert.Equal(t, 1, f2.MaxShiftEnd(0, neighborAfter))
}

func TestMatch(t *testing.T) {
	seq := mustSeq(t, "s", "ATGCATGC")
	fa, _ := New(seq, 0, 3, 1)
	fb, _ := New(seq, 4, 7, 1)

	a := NewBlock("a", false)
	a.Insert(fa)
	a.Insert(fb)

	b := NewBlock("b", false)
	fb2, _ := New(seq, 4, 7, 1)
	fa2, _ := New(seq, 0, 3, 1)
	b.Insert(fb2)
	b.Insert(fa2)

	assert.Equal(t, int8(1), Match(a, b))

	c := NewBlock("c", false)
	fa3, _ := New(seq, 0, 3, -1)
	fb3, _ := New(seq, 4, 7, -1)
	c.Insert(fa3)
	c.Insert(fb3)
	assert.Equal(t, int8(-1), Match(a, c))
}
