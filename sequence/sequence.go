/*
Package sequence provides the immutable nucleotide buffer at the base of
the pan-genome data model.

A Sequence owns a buffer of upper-cased ATGCN letters, optional
genome/chromosome/circularity metadata parsed from its name, and answers
O(1) character access, oriented substrings, and a rolling positional
hash used to index fragments quickly. Two storage variants are
available at construction: AsIs (one byte per letter) and Compact (two
bits per letter, with N collapsed to a fixed code — see Kind).
*/
package sequence

import (
	"errors"
	"fmt"
	"strings"

	"lukechampine.com/blake3"
)

// Kind selects the storage layout of a Sequence.
type Kind uint8

const (
	// AsIs stores one byte per letter. Round-trips N exactly.
	AsIs Kind = iota
	// Compact packs two bits per letter. N collapses to CompactFallback.
	Compact
)

// CompactFallback is the 2-bit code an N letter is stored as under Compact.
// Callers must not rely on round-tripping N through a Compact sequence.
const CompactFallback = 'A'

// ErrMalformedName is returned when genome/chromosome/circularity metadata
// is requested from a name that does not follow the "genome&chromosome&{c|l}"
// convention.
var ErrMalformedName = errors.New("sequence: name is not genome&chromosome&{c|l}")

// ErrInvalidRange is returned by CharAt/Substr/Hash when the requested
// window falls outside the sequence.
var ErrInvalidRange = errors.New("sequence: range out of bounds")

// Sequence is an immutable buffer of ATGCN letters plus identity metadata.
type Sequence struct {
	name        string
	description string
	kind        Kind

	// asIs is populated when kind == AsIs.
	asIs []byte
	// packed is populated when kind == Compact: 4 letters per byte.
	packed []byte
	length int

	// backingBlock is the name of the block whose consensus produced this
	// sequence, if any. Empty when the sequence was built by a reader.
	backingBlock string
}

// New returns an empty Sequence of the given storage kind, identity name,
// and optional description.
func New(kind Kind, name, description string) *Sequence {
	return &Sequence{name: name, description: description, kind: kind}
}

// NewFromConsensus returns a Sequence whose content is the consensus of a
// block, recording the block's name as the backing block.
func NewFromConsensus(kind Kind, name, blockName string, letters []byte) *Sequence {
	s := New(kind, name, "")
	s.backingBlock = blockName
	s.PushBack(letters)
	return s
}

// Name is the sequence's identity name.
func (s *Sequence) Name() string { return s.name }

// Description is the free-text description attached at construction.
func (s *Sequence) Description() string { return s.description }

// BackingBlock is the name of the block this sequence is a consensus of,
// or "" if it was not built from a block.
func (s *Sequence) BackingBlock() string { return s.backingBlock }

// Size returns the number of letters in the sequence.
func (s *Sequence) Size() int { return s.length }

// ToATGCN upper-cases and maps every letter outside {A,T,G,C,N} to N.
// PushBack stores letters as given and does not call it; neither does
// the fasta reader.
func ToATGCN(letters []byte) []byte {
	out := make([]byte, len(letters))
	for i, c := range letters {
		switch c {
		case 'a':
			c = 'A'
		case 't':
			c = 'T'
		case 'g':
			c = 'G'
		case 'c':
			c = 'C'
		case 'n':
			c = 'N'
		}
		switch c {
		case 'A', 'T', 'G', 'C', 'N':
			out[i] = c
		default:
			out[i] = 'N'
		}
	}
	return out
}

func code(b byte) uint8 {
	switch b {
	case 'A':
		return 0
	case 'T':
		return 1
	case 'G':
		return 2
	case 'C':
		return 3
	default: // N and anything else folds onto CompactFallback's code
		return 0
	}
}

func decode(c uint8) byte {
	switch c & 0x3 {
	case 0:
		return 'A'
	case 1:
		return 'T'
	case 2:
		return 'G'
	default:
		return 'C'
	}
}

// PushBack appends letters to the sequence. Letters must already be
// upper-cased ATGCN; callers should run ToATGCN first if the source is
// untrusted (spec §4.1: "any other input must be rejected or mapped by
// the caller").
func (s *Sequence) PushBack(letters []byte) {
	switch s.kind {
	case AsIs:
		s.asIs = append(s.asIs, letters...)
	case Compact:
		for _, l := range letters {
			s.appendPacked(code(l))
		}
	}
	s.length += len(letters)
}

func (s *Sequence) appendPacked(c uint8) {
	bitIndex := (s.length % 4) * 2
	if bitIndex == 0 {
		s.packed = append(s.packed, 0)
	}
	s.packed[len(s.packed)-1] |= c << uint(bitIndex)
}

// CharAt returns the letter at position i in O(1).
func (s *Sequence) CharAt(i int) (byte, error) {
	if i < 0 || i >= s.length {
		return 0, fmt.Errorf("%w: char_at(%d) on sequence of length %d", ErrInvalidRange, i, s.length)
	}
	switch s.kind {
	case AsIs:
		return s.asIs[i], nil
	default:
		byteIndex := i / 4
		shift := uint((i % 4) * 2)
		c := (s.packed[byteIndex] >> shift) & 0x3
		return decode(c), nil
	}
}

func complement(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	default:
		return 'N'
	}
}

// Substr returns len letters starting at start. If ori == -1 the reverse
// complement of that window is returned instead.
func (s *Sequence) Substr(start, length int, ori int8) (string, error) {
	if length < 0 || start < 0 || start+length > s.length {
		return "", fmt.Errorf("%w: substr(%d,%d) on sequence of length %d", ErrInvalidRange, start, length, s.length)
	}
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		c, err := s.CharAt(start + i)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	if ori == -1 {
		for i, j := 0, length-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = complement(out[j]), complement(out[i])
		}
		if length%2 == 1 {
			out[length/2] = complement(out[length/2])
		}
	}
	return string(out), nil
}

const hashBase uint64 = 1000003

func powBase(n int) uint64 {
	result := uint64(1)
	b := hashBase
	for n > 0 {
		if n&1 == 1 {
			result *= b
		}
		b *= b
		n >>= 1
	}
	return result
}

// Hash computes a rolling 2-bit polynomial hash over the window
// [start, start+length) in the given orientation. For ori == -1 the
// window's reverse complement is hashed directly (no rolling contract is
// claimed for that direction).
func (s *Sequence) Hash(start, length int, ori int8) (uint64, error) {
	if length < 0 || start < 0 || start+length > s.length {
		return 0, fmt.Errorf("%w: hash(%d,%d) on sequence of length %d", ErrInvalidRange, start, length, s.length)
	}
	var h uint64
	if ori == 1 {
		for i := 0; i < length; i++ {
			c, err := s.CharAt(start + i)
			if err != nil {
				return 0, err
			}
			h = h*hashBase + uint64(code(c))
		}
		return h, nil
	}
	letters, err := s.Substr(start, length, -1)
	if err != nil {
		return 0, err
	}
	for i := 0; i < len(letters); i++ {
		h = h*hashBase + uint64(code(letters[i]))
	}
	return h, nil
}

// ReuseHash advances a forward hash computed over [start,start+length) by
// one position, given the letter that leaves the window (outgoing,
// s[start]) and the letter that enters it (incoming, s[start+length]).
// It satisfies the contract in spec §8.2:
//
//	s.Hash(start+1, length, +1) == ReuseHash(s.Hash(start, length, +1), length, s[start], s[start+length], true)
func ReuseHash(h uint64, length int, outgoing, incoming byte, forward bool) uint64 {
	if !forward {
		panic("sequence: ReuseHash backward direction is not part of the contract")
	}
	return h*hashBase - uint64(code(outgoing))*powBase(length) + uint64(code(incoming))
}

// ContentHash returns a position-independent content identifier for the
// whole sequence in the given orientation: the blake3 digest of its
// letters as Substr(0, Size(), ori) returns them.
func (s *Sequence) ContentHash(ori int8) [32]byte {
	letters, _ := s.Substr(0, s.length, ori)
	return blake3.Sum256([]byte(letters))
}

// Genome parses the "genome" component out of a "genome&chromosome&{c|l}"
// name.
func (s *Sequence) Genome() (string, error) {
	parts, err := splitMeta(s.name)
	if err != nil {
		return "", err
	}
	return parts[0], nil
}

// Chromosome parses the "chromosome" component out of the name.
func (s *Sequence) Chromosome() (string, error) {
	parts, err := splitMeta(s.name)
	if err != nil {
		return "", err
	}
	return parts[1], nil
}

// Circular parses the circularity flag out of the name: true for 'c',
// false for 'l'.
func (s *Sequence) Circular() (bool, error) {
	parts, err := splitMeta(s.name)
	if err != nil {
		return false, err
	}
	switch parts[2] {
	case "c":
		return true, nil
	case "l":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrMalformedName, s.name)
	}
}

func splitMeta(name string) ([3]string, error) {
	parts := strings.Split(name, "&")
	if len(parts) != 3 {
		return [3]string{}, fmt.Errorf("%w: %q", ErrMalformedName, name)
	}
	return [3]string{parts[0], parts[1], parts[2]}, nil
}
