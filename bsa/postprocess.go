package bsa

import (
	"sort"

	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/sequence"
)

// Orient flips whole rows so the majority of fragments in each row read
// in the forward (+1) orientation, a cosmetic normalization applied
// after alignment (spec §4.5.4 "bsa_orient").
func Orient(a *BSA) *BSA {
	out := New(a.name)
	out.blockOf = a.blockOf
	out.length = a.length
	for _, seq := range a.order {
		row := a.rows[seq]
		forward, reverse := 0, 0
		for _, c := range row.Cells {
			if c == nil {
				continue
			}
			if row.Sign*c.Ori() == 1 {
				forward++
			} else {
				reverse++
			}
		}
		if reverse <= forward {
			out.addRow(&BSRow{Seq: seq, Sign: row.Sign, Cells: append([]*fragment.Fragment(nil), row.Cells...)})
			continue
		}
		flipped := make([]*fragment.Fragment, len(row.Cells))
		for i, c := range row.Cells {
			flipped[len(row.Cells)-1-i] = c
		}
		out.addRow(&BSRow{Seq: seq, Sign: -row.Sign, Cells: flipped})
	}
	return out
}

// Inverse flips every row's orientation and reverses its column order,
// the whole-alignment analog of Fragment.Inverse. The progressive merger
// uses it to try aligning the next part in its reverse-complement
// orientation and keep whichever scores lower (spec §4.5.3,
// original_source bsa_algo.cpp:65-71 "bsa_inverse").
func Inverse(a *BSA) *BSA {
	out := New(a.name)
	out.blockOf = a.blockOf
	out.length = a.length
	for _, seq := range a.order {
		row := a.rows[seq]
		reversed := make([]*fragment.Fragment, len(row.Cells))
		for i, c := range row.Cells {
			reversed[len(row.Cells)-1-i] = c
		}
		out.addRow(&BSRow{Seq: seq, Sign: -row.Sign, Cells: reversed})
	}
	return out
}

// FilterExactStem keeps only columns whose shared block (if any) is an
// exact stem under genomes: present in every row at that column, each
// exactly once, with no gaps (spec §4.5.4 "bsa_filter_exact_stem").
func FilterExactStem(a *BSA, genomes []string) *BSA {
	keep := make([]bool, a.length)
	for col := range keep {
		complete := true
		for _, seq := range a.order {
			if a.rows[seq].Cells[col] == nil {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		set := columnSet(a, col)
		if len(set) == 0 || len(set) != len(a.order) {
			continue
		}
		sameBlock := true
		for _, k := range set[1:] {
			if k.block != set[0].block {
				sameBlock = false
				break
			}
		}
		if !sameBlock {
			continue
		}
		keep[col] = isStem(set[0].block, genomes)
	}
	return filterColumns(a, keep)
}

// FilterLong discards columns whose shared block's alignment length is
// below minLength, and pure-gap columns left behind by that removal
// (spec §4.5.4 "bsa_filter_long").
func FilterLong(a *BSA, minLength int) *BSA {
	keep := make([]bool, a.length)
	for col := range keep {
		set := columnSet(a, col)
		longEnough := false
		for _, k := range set {
			if k.block.AlignmentLength() >= minLength {
				longEnough = true
				break
			}
		}
		keep[col] = longEnough
	}
	return filterColumns(a, keep)
}

// columnOccupancy is the number of non-gap cells in column col.
func columnOccupancy(rows []*BSRow, col int) int {
	n := 0
	for _, row := range rows {
		if row.Cells[col] != nil {
			n++
		}
	}
	return n
}

// MoveColumns greedily reorders columns: it normalizes the starting point
// to a fully-occupied column when one exists, then repeatedly appends
// whichever remaining column has the most occupied cells among those
// that don't "shadow" (reuse) a sequence already placed earlier in the
// current pass, so each sequence's cells stay contiguous column-order
// (spec §4.5.4 "bsa_move_columns", original_source bsa_algo.cpp:511-551).
func MoveColumns(a *BSA) *BSA {
	rows := make([]*BSRow, len(a.order))
	for i, seq := range a.order {
		rows[i] = a.rows[seq]
	}
	length := a.length

	shift := 0
	for col := 0; col < length; col++ {
		if columnOccupancy(rows, col) == len(rows) {
			shift = col
			break
		}
	}
	if shift != 0 {
		a = rotate(a, shift)
		rows = make([]*BSRow, len(a.order))
		for i, seq := range a.order {
			rows[i] = a.rows[seq]
		}
	}

	remaining := make([]int, length)
	for i := range remaining {
		remaining[i] = i
	}

	order := make([]int, 0, length)
	for len(remaining) > 0 {
		occupied := make(map[*sequence.Sequence]bool)
		bestCol, bestScore := -1, -1
		for _, col := range remaining {
			shadowed := false
			for _, row := range rows {
				if row.Cells[col] != nil && occupied[row.Seq] {
					shadowed = true
					break
				}
			}
			if !shadowed {
				if score := columnOccupancy(rows, col); score > bestScore {
					bestCol, bestScore = col, score
				}
			}
			for _, row := range rows {
				if row.Cells[col] != nil {
					occupied[row.Seq] = true
				}
			}
		}
		order = append(order, bestCol)
		for i, col := range remaining {
			if col == bestCol {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}

	out := New(a.name)
	out.blockOf = a.blockOf
	out.length = length
	for i, seq := range a.order {
		row := rows[i]
		cells := make([]*fragment.Fragment, length)
		for j, col := range order {
			cells[j] = row.Cells[col]
		}
		out.addRow(&BSRow{Seq: seq, Sign: row.Sign, Cells: cells})
	}
	return out
}

// countBlockOri tallies how strongly column col agrees with (block,
// ori): 1 per row whose fragment there belongs to block in exactly that
// orientation, 0.5 per row whose fragment belongs to block in the
// opposite orientation.
func countBlockOri(a *BSA, rows []*BSRow, col int, block *fragment.Block, ori int8) float64 {
	var total float64
	for _, row := range rows {
		f := row.Cells[col]
		if f == nil {
			continue
		}
		blk, ok := a.BlockOf(f)
		if !ok || blk != block {
			continue
		}
		if f.Ori()*row.Sign == ori {
			total++
		} else {
			total += 0.5
		}
	}
	return total
}

// moveFragment relocates row's fragment at col to the best-scoring
// column reachable through an unbroken run of gaps to its left or
// right, if doing so improves its agreement with the rest of the
// alignment. It reports whether it moved anything.
func moveFragment(a *BSA, rows []*BSRow, row *BSRow, col int) bool {
	f := row.Cells[col]
	if f == nil {
		return false
	}
	block, ok := a.BlockOf(f)
	if !ok {
		return false
	}
	ori := f.Ori() * row.Sign
	bestCol := col
	bestScore := countBlockOri(a, rows, col, block, ori) - 1 // f itself was counted
	for i := col - 1; i >= 0 && row.Cells[i] == nil; i-- {
		if s := countBlockOri(a, rows, i, block, ori); s > bestScore {
			bestCol, bestScore = i, s
		}
	}
	for i := col + 1; i < len(row.Cells) && row.Cells[i] == nil; i++ {
		if s := countBlockOri(a, rows, i, block, ori); s > bestScore {
			bestCol, bestScore = i, s
		}
	}
	if bestCol == col {
		return false
	}
	row.Cells[bestCol], row.Cells[col] = f, nil
	return true
}

// MoveFragments repeatedly relocates fragments within their own row,
// sliding each one across an unbroken run of gaps toward whichever
// reachable column has the strongest agreement with other rows about
// its (block, orientation) pair, iterating to a fixed point (spec
// §4.5.4 "bsa_move_fragments", original_source bsa_algo.cpp "move_f"/
// "bsa_move_fragments"). Since a fragment only ever trades places with a
// gap at the row's own edge of a gap run, moving it never changes what
// any other row sees at that column.
func MoveFragments(a *BSA) *BSA {
	rows := make([]*BSRow, len(a.order))
	for i, seq := range a.order {
		orig := a.rows[seq]
		rows[i] = &BSRow{Seq: seq, Sign: orig.Sign, Cells: append([]*fragment.Fragment(nil), orig.Cells...)}
	}
	length := a.length
	for goon := true; goon; {
		goon = false
		for _, row := range rows {
			for col := 0; col < length; col++ {
				if moveFragment(a, rows, row, col) {
					goon = true
				}
			}
		}
	}
	out := New(a.name)
	out.blockOf = a.blockOf
	out.length = length
	for _, row := range rows {
		out.addRow(row)
	}
	return out
}

// Unwind splits any column holding a mixture of (block, orientation)
// pairs and gaps into one pure column per distinct pair, each keeping
// only the cells that match it and gapping out the rest. A column that
// is either gap-free or already carries a single (block, orientation)
// pair throughout passes through unchanged (spec §4.5.4 "bsa_unwind",
// original_source bsa_algo.cpp "bsa_unwind").
func Unwind(a *BSA) *BSA {
	rows := make([]*BSRow, len(a.order))
	for i, seq := range a.order {
		rows[i] = a.rows[seq]
	}

	out := New(a.name)
	out.blockOf = a.blockOf
	cells := make([][]*fragment.Fragment, len(rows))
	newLength := 0

	for col := 0; col < a.length; col++ {
		var pairs []blockOriKey
		seen := make(map[blockOriKey]bool)
		gap := false
		for _, row := range rows {
			f := row.Cells[col]
			if f == nil {
				gap = true
				continue
			}
			blk, _ := a.BlockOf(f)
			bo := blockOriKey{blk, f.Ori() * row.Sign}
			if !seen[bo] {
				seen[bo] = true
				pairs = append(pairs, bo)
			}
		}
		if !gap || len(pairs) <= 1 {
			for i, row := range rows {
				cells[i] = append(cells[i], row.Cells[col])
			}
			newLength++
			continue
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].block.Name() != pairs[j].block.Name() {
				return pairs[i].block.Name() < pairs[j].block.Name()
			}
			return pairs[i].ori < pairs[j].ori
		})
		for _, bo := range pairs {
			for i, row := range rows {
				f := row.Cells[col]
				if f != nil {
					if blk, _ := a.BlockOf(f); (blockOriKey{blk, f.Ori() * row.Sign}) != bo {
						f = nil
					}
				}
				cells[i] = append(cells[i], f)
			}
			newLength++
		}
	}

	for i, seq := range a.order {
		out.addRow(&BSRow{Seq: seq, Sign: rows[i].Sign, Cells: cells[i]})
	}
	out.length = newLength
	return out
}
