/*
Package fragment implements the oriented-interval, alignment-row, and
block types that sit above a sequence buffer: Fragment, AlignmentRow,
and Block (spec §4.2).
*/
package fragment

import (
	"errors"
	"fmt"

	"github.com/bebop/npge/sequence"
)

// ErrInvalidFragment is returned when a fragment's bounds violate the
// min_pos <= max_pos < seq.Size() invariant.
var ErrInvalidFragment = errors.New("fragment: invalid bounds")

// Fragment is an oriented interval [MinPos, MaxPos] on a sequence.
type Fragment struct {
	seq          *sequence.Sequence
	minPos       int
	maxPos       int
	ori          int8
	row          *AlignmentRow
}

// New returns a fragment on seq spanning [minPos, maxPos] with the given
// orientation. ori must be +1 or -1.
func New(seq *sequence.Sequence, minPos, maxPos int, ori int8) (*Fragment, error) {
	if ori != 1 && ori != -1 {
		return nil, fmt.Errorf("fragment: ori must be +1 or -1, got %d", ori)
	}
	if minPos < 0 || maxPos < minPos || maxPos >= seq.Size() {
		return nil, fmt.Errorf("%w: [%d,%d] on sequence of size %d", ErrInvalidFragment, minPos, maxPos, seq.Size())
	}
	return &Fragment{seq: seq, minPos: minPos, maxPos: maxPos, ori: ori}, nil
}

// Sequence is the sequence this fragment is an interval of.
func (f *Fragment) Sequence() *sequence.Sequence { return f.seq }

// MinPos is the lower bound of the interval, inclusive.
func (f *Fragment) MinPos() int { return f.minPos }

// MaxPos is the upper bound of the interval, inclusive.
func (f *Fragment) MaxPos() int { return f.maxPos }

// Ori is the fragment's orientation, +1 or -1.
func (f *Fragment) Ori() int8 { return f.ori }

// BeginPos is the position of the first base read in the fragment's own
// 5'->3' direction.
func (f *Fragment) BeginPos() int {
	if f.ori == 1 {
		return f.minPos
	}
	return f.maxPos
}

// LastPos is the position of the last base read in the fragment's own
// direction.
func (f *Fragment) LastPos() int {
	if f.ori == 1 {
		return f.maxPos
	}
	return f.minPos
}

// EndPos is one past LastPos in the fragment's own direction (may be -1).
func (f *Fragment) EndPos() int {
	if f.ori == 1 {
		return f.maxPos + 1
	}
	return f.minPos - 1
}

// Length is the number of bases covered by the fragment.
func (f *Fragment) Length() int { return f.maxPos - f.minPos + 1 }

// Row is the fragment's attached alignment row, or nil if the fragment is
// naked (spec §6.2 "norow").
func (f *Fragment) Row() *AlignmentRow { return f.row }

// AttachRow installs row on the fragment and points the row back at f. It
// fails if row.RowLength() < f.Length().
func (f *Fragment) AttachRow(row *AlignmentRow) error {
	if row.length < f.Length() {
		return fmt.Errorf("fragment: row length %d shorter than fragment length %d", row.length, f.Length())
	}
	row.fragment = f
	f.row = row
	return nil
}

// LetterAt returns the letter at fragment-local position p (0-indexed in
// the fragment's own reading direction), complementing it when the
// fragment's orientation is -1.
func (f *Fragment) LetterAt(p int) (byte, error) {
	if p < 0 || p >= f.Length() {
		return 0, fmt.Errorf("%w: position %d in fragment of length %d", ErrInvalidFragment, p, f.Length())
	}
	var seqPos int
	if f.ori == 1 {
		seqPos = f.minPos + p
	} else {
		seqPos = f.maxPos - p
	}
	letters, err := f.seq.Substr(seqPos, 1, f.ori)
	if err != nil {
		return 0, err
	}
	return letters[0], nil
}

// Inverse flips the fragment's orientation in place, preserving MinPos and
// MaxPos, and inverts the attached row (if any) so that it stays
// consistent with the flipped fragment: the row's LetterAtColumn(c) then
// returns the complement of what column RowLength()-1-c returned before.
func (f *Fragment) Inverse() {
	f.ori = -f.ori
	if f.row != nil {
		f.row.inverse(f.Length())
	}
}

// Split shortens f to newLength (in its own direction) and returns a new
// fragment covering the remainder, on the same sequence and orientation.
func (f *Fragment) Split(newLength int) (*Fragment, error) {
	if newLength <= 0 || newLength >= f.Length() {
		return nil, fmt.Errorf("fragment: split length %d out of range for fragment of length %d", newLength, f.Length())
	}
	var head, tail *Fragment
	var err error
	if f.ori == 1 {
		head, err = New(f.seq, f.minPos, f.minPos+newLength-1, 1)
		if err != nil {
			return nil, err
		}
		tail, err = New(f.seq, f.minPos+newLength, f.maxPos, 1)
	} else {
		head, err = New(f.seq, f.maxPos-newLength+1, f.maxPos, -1)
		if err != nil {
			return nil, err
		}
		tail, err = New(f.seq, f.minPos, f.maxPos-newLength, -1)
	}
	if err != nil {
		return nil, err
	}
	*f = *head
	return tail, nil
}

// MaxShiftEnd returns how far f's end (in its own reading direction) can
// move before running past the sequence's edge or, when overlap is not
// -1, into the fragment immediately following f in that same direction by
// more than overlap bases. overlap == -1 skips the neighbor check
// entirely, so the result is bounded only by the sequence's edge.
// neighborAfter, supplied by the caller, must return that neighbor (the
// fragment immediately following f in f's own direction, not necessarily
// in absolute position order), if any (spec §4.2, original_source
// Fragment.cpp:209-221).
func (f *Fragment) MaxShiftEnd(overlap int, neighborAfter func(f *Fragment) (*Fragment, bool)) int {
	var result int
	if f.ori == 1 {
		result = f.seq.Size() - f.maxPos - 1
	} else {
		result = f.minPos
	}
	if overlap == -1 {
		return result
	}
	n, ok := neighborAfter(f)
	if !ok {
		return result
	}
	var shift int
	if f.ori == 1 {
		shift = n.MinPos() - f.maxPos - 1
	} else {
		shift = f.minPos - n.MaxPos() - 1
	}
	shift += overlap
	if shift < result {
		result = shift
	}
	return result
}

// ShiftEnd moves f's end (in its own reading direction) by shift bases,
// growing f when shift > 0 and shrinking it when shift < 0. It does not
// touch f's attached row; callers that grow a fragment are responsible
// for growing its row to match.
func (f *Fragment) ShiftEnd(shift int) error {
	var minPos, maxPos int
	if f.ori == 1 {
		minPos, maxPos = f.minPos, f.maxPos+shift
	} else {
		minPos, maxPos = f.minPos-shift, f.maxPos
	}
	if minPos < 0 || maxPos >= f.seq.Size() || maxPos < minPos {
		return fmt.Errorf("%w: shift_end(%d) on [%d,%d] of sequence size %d", ErrInvalidFragment, shift, f.minPos, f.maxPos, f.seq.Size())
	}
	f.minPos, f.maxPos = minPos, maxPos
	return nil
}

// CommonPositions returns the length of the 1-D interval intersection of
// f and other on their shared sequence. It is 0 when the sequences differ
// or the intervals don't overlap.
func (f *Fragment) CommonPositions(other *Fragment) int {
	if f.seq != other.seq {
		return 0
	}
	lo := max(f.minPos, other.minPos)
	hi := min(f.maxPos, other.maxPos)
	if hi < lo {
		return 0
	}
	return hi - lo + 1
}

// CommonFragment returns the overlapping interval of f and other as a new
// fragment oriented like f, or nil if they don't overlap (or differ in
// sequence).
func (f *Fragment) CommonFragment(other *Fragment) (*Fragment, error) {
	if f.seq != other.seq {
		return nil, nil
	}
	lo := max(f.minPos, other.minPos)
	hi := min(f.maxPos, other.maxPos)
	if hi < lo {
		return nil, nil
	}
	return New(f.seq, lo, hi, f.ori)
}

// IsSubfragmentOf reports whether f's interval lies entirely within
// other's interval on the same sequence.
func (f *Fragment) IsSubfragmentOf(other *Fragment) bool {
	return f.seq == other.seq && other.minPos <= f.minPos && f.maxPos <= other.maxPos
}

// IsInternalSubfragmentOf is like IsSubfragmentOf but excludes the case
// where f shares either boundary with other.
func (f *Fragment) IsInternalSubfragmentOf(other *Fragment) bool {
	return f.IsSubfragmentOf(other) && other.minPos < f.minPos && f.maxPos < other.maxPos
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
