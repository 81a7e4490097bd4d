package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAsIs(t *testing.T, letters string) *Sequence {
	t.Helper()
	s := New(AsIs, "s1", "")
	s.PushBack([]byte(letters))
	return s
}

// Invariant 1: sequence round-trip.
func TestRoundTrip(t *testing.T) {
	letters := "ATGCATGCN"
	for _, kind := range []Kind{AsIs, Compact} {
		s := New(kind, "s", "")
		s.PushBack([]byte(letters))
		forward, err := s.Substr(0, s.Size(), 1)
		require.NoError(t, err)
		if kind == AsIs {
			assert.Equal(t, letters, forward)
		}

		reverse, err := s.Substr(0, s.Size(), -1)
		require.NoError(t, err)
		assert.Equal(t, len(letters), len(reverse))
		// reverse-complementing twice gets back the forward read (for AsIs,
		// exactly; for Compact, N has already collapsed so only round-trips
		// the collapsed letters).
		s2 := New(AsIs, "s2", "")
		s2.PushBack([]byte(reverse))
		back, err := s2.Substr(0, s2.Size(), -1)
		require.NoError(t, err)
		if kind == AsIs {
			assert.Equal(t, letters, back)
		}
	}
}

func TestCompactCollapsesN(t *testing.T) {
	s := New(Compact, "s", "")
	s.PushBack([]byte("ATGCN"))
	c, err := s.CharAt(4)
	require.NoError(t, err)
	assert.Equal(t, byte(CompactFallback), c)
}

func TestCharAtOutOfRange(t *testing.T) {
	s := buildAsIs(t, "ATGC")
	_, err := s.CharAt(10)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

// Invariant 2: rolling hash contract.
func TestRollingHash(t *testing.T) {
	s := buildAsIs(t, "ATGCATGCATGC")
	length := 4
	for start := 0; start+length+1 <= s.Size(); start++ {
		h0, err := s.Hash(start, length, 1)
		require.NoError(t, err)
		h1, err := s.Hash(start+1, length, 1)
		require.NoError(t, err)

		outgoing, err := s.CharAt(start)
		require.NoError(t, err)
		incoming, err := s.CharAt(start + length)
		require.NoError(t, err)

		got := ReuseHash(h0, length, outgoing, incoming, true)
		assert.Equal(t, h1, got, "start=%d", start)
	}
}

func TestGenomeChromosomeCircular(t *testing.T) {
	s := New(AsIs, "ecoli&chr1&c", "")
	genome, err := s.Genome()
	require.NoError(t, err)
	assert.Equal(t, "ecoli", genome)

	chr, err := s.Chromosome()
	require.NoError(t, err)
	assert.Equal(t, "chr1", chr)

	circ, err := s.Circular()
	require.NoError(t, err)
	assert.True(t, circ)
}

func TestMalformedName(t *testing.T) {
	s := New(AsIs, "not-a-meta-name", "")
	_, err := s.Genome()
	assert.ErrorIs(t, err, ErrMalformedName)
}

func TestToATGCN(t *testing.T) {
	got := ToATGCN([]byte("atgcnXYZ"))
	assert.Equal(t, "ATGCNNNN", string(got))
}

func TestContentHashStable(t *testing.T) {
	s1 := buildAsIs(t, "ATGCATGC")
	s2 := buildAsIs(t, "ATGCATGC")
	assert.Equal(t, s1.ContentHash(1), s2.ContentHash(1))
	assert.NotEqual(t, s1.ContentHash(1), s1.ContentHash(-1))
}
