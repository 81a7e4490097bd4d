/*
Package bsa implements the block-set alignment (BSA): a column-aligned
table whose rows are sequences and whose cells are fragments or gaps,
plus the progressive guide-tree-driven builder and post-processing passes
that operate on it (spec §4.5).
*/
package bsa

import (
	"fmt"
	"sort"

	"github.com/bebop/npge/blockset"
	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/sequence"
)

// BSRow is one sequence's row of a BSA: a sign giving its orientation
// relative to the underlying sequence, and a slice of fragment pointers
// (nil entries are gaps) of length BSA.Length().
type BSRow struct {
	Seq   *sequence.Sequence
	Sign  int8
	Cells []*fragment.Fragment
}

// BSA is a mapping from sequence to BSRow, all rows sharing one column
// count (Length()).
type BSA struct {
	name    string
	rows    map[*sequence.Sequence]*BSRow
	order   []*sequence.Sequence
	length  int
	blockOf map[*fragment.Fragment]*fragment.Block
}

// New returns an empty, named BSA.
func New(name string) *BSA {
	return &BSA{
		name:    name,
		rows:    make(map[*sequence.Sequence]*BSRow),
		blockOf: make(map[*fragment.Fragment]*fragment.Block),
	}
}

// Name implements blockset.BSA.
func (a *BSA) Name() string { return a.name }

// Length implements blockset.BSA; it is the common column count of every
// row (spec §8 invariant 8).
func (a *BSA) Length() int { return a.length }

// SetName renames the BSA, used when storing a freshly built alignment
// under a caller-chosen name.
func (a *BSA) SetName(name string) { a.name = name }

// Rows returns every row in a stable, sequence-name-sorted order.
func (a *BSA) Rows() []*BSRow {
	out := make([]*BSRow, 0, len(a.order))
	for _, s := range a.order {
		out = append(out, a.rows[s])
	}
	return out
}

// AddRow installs row and grows the BSA's length to match it if needed,
// for readers building a BSA up one row at a time (e.g. npgeio/bsatext).
func (a *BSA) AddRow(row *BSRow) {
	a.addRow(row)
	if len(row.Cells) > a.length {
		a.length = len(row.Cells)
	}
}

// NoteBlock records that f belongs to blk, for readers that resolve a
// cell's fragment against an already-built BlockSet and need BSA's
// column-matching (Align, FilterExactStem, ...) to see it.
func (a *BSA) NoteBlock(f *fragment.Fragment, blk *fragment.Block) {
	a.blockOf[f] = blk
}

// RowFor returns the row for seq, if present.
func (a *BSA) RowFor(seq *sequence.Sequence) (*BSRow, bool) {
	r, ok := a.rows[seq]
	return r, ok
}

// addRow installs row, keeping a.order sorted by sequence name for
// deterministic iteration (spec §5 determinism).
func (a *BSA) addRow(row *BSRow) {
	if _, exists := a.rows[row.Seq]; !exists {
		a.order = append(a.order, row.Seq)
		sort.Slice(a.order, func(i, j int) bool { return a.order[i].Name() < a.order[j].Name() })
	}
	a.rows[row.Seq] = row
}

// BlockOf returns the block f belongs to, if recorded, so the pairwise
// aligner can score columns by shared block identity without Fragment
// needing a back-pointer to its owning Block (spec §9 avoids packing a
// pointer+orientation bit on Block).
func (a *BSA) BlockOf(f *fragment.Fragment) (*fragment.Block, bool) {
	b, ok := a.blockOf[f]
	return b, ok
}

// IsCircular reports whether every row's sequence is circular (spec
// §3 "bsa_is_circular").
func (a *BSA) IsCircular() bool {
	if len(a.order) == 0 {
		return false
	}
	for _, seq := range a.order {
		circular, err := seq.Circular()
		if err != nil || !circular {
			return false
		}
	}
	return true
}

// MakeRows builds one single-row, trivial BSA per sequence referenced by
// bs: fragments sorted by MinPos, no gaps, sign +1 (spec §4.5.1). These
// are the "parts" fed into the progressive builder.
func MakeRows(bs *blockset.BlockSet, seqs []*sequence.Sequence) ([]*BSA, error) {
	byGenomeFragments := make(map[*sequence.Sequence][]*fragment.Fragment)
	blockOf := make(map[*fragment.Fragment]*fragment.Block)
	for _, b := range bs.Blocks() {
		for _, f := range b.Members() {
			byGenomeFragments[f.Sequence()] = append(byGenomeFragments[f.Sequence()], f)
			blockOf[f] = b
		}
	}

	var out []*BSA
	for _, seq := range seqs {
		frags := byGenomeFragments[seq]
		sort.Slice(frags, func(i, j int) bool { return frags[i].MinPos() < frags[j].MinPos() })
		row := &BSRow{Seq: seq, Sign: 1, Cells: append([]*fragment.Fragment(nil), frags...)}
		a := New(seq.Name())
		a.addRow(row)
		a.length = len(frags)
		for _, f := range frags {
			a.blockOf[f] = blockOf[f]
		}
		out = append(out, a)
	}
	return out, nil
}

// RemovePureGaps drops columns in which every row is a gap (spec §4.5.4).
// It is idempotent (spec §8 invariant 9).
func RemovePureGaps(a *BSA) *BSA {
	keep := make([]bool, a.length)
	for col := range keep {
		pure := true
		for _, seq := range a.order {
			if a.rows[seq].Cells[col] != nil {
				pure = false
				break
			}
		}
		keep[col] = !pure
	}
	return filterColumns(a, keep)
}

func filterColumns(a *BSA, keep []bool) *BSA {
	out := New(a.name)
	out.blockOf = a.blockOf
	newLength := 0
	for _, k := range keep {
		if k {
			newLength++
		}
	}
	for _, seq := range a.order {
		oldRow := a.rows[seq]
		newCells := make([]*fragment.Fragment, 0, newLength)
		for col, k := range keep {
			if k {
				newCells = append(newCells, oldRow.Cells[col])
			}
		}
		out.addRow(&BSRow{Seq: seq, Sign: oldRow.Sign, Cells: newCells})
	}
	out.length = newLength
	return out
}

// Print writes the BSA in the text format of spec §6.3. fragmentID must
// format a fragment the way the caller's reader will parse it back (the
// npgeio/bsatext package does this for the canonical format).
func (a *BSA) Print(w fmtStringWriter, fragmentID func(*fragment.Fragment) string, showOrientation bool) error {
	for _, seq := range a.order {
		row := a.rows[seq]
		sign := "+"
		if row.Sign == -1 {
			sign = "-"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s%s", a.name, sign, seq.Name()); err != nil {
			return err
		}
		for _, cell := range row.Cells {
			if cell == nil {
				if _, err := fmt.Fprint(w, "\t-"); err != nil {
					return err
				}
				continue
			}
			tok := fragmentID(cell)
			if showOrientation {
				if cell.Ori() == 1 {
					tok += " >"
				} else {
					tok += " <"
				}
			}
			if _, err := fmt.Fprintf(w, "\t%s", tok); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

type fmtStringWriter interface {
	Write(p []byte) (n int, err error)
}
