package bsa

import (
	"math"

	intersect "github.com/juliangruber/go-intersect"

	"github.com/bebop/npge/fragment"
)

// blockOriKey identifies a block together with the orientation a row
// observes it in, the unit that two columns must share to "match" (spec
// §4.5.2).
type blockOriKey struct {
	block *fragment.Block
	ori   int8
}

// columnSet collects the (block, relative orientation) pairs present in
// column col of a, one per non-gap row.
func columnSet(a *BSA, col int) []blockOriKey {
	var out []blockOriKey
	for _, seq := range a.order {
		f := a.rows[seq].Cells[col]
		if f == nil {
			continue
		}
		blk, ok := a.blockOf[f]
		if !ok {
			continue
		}
		out = append(out, blockOriKey{blk, a.rows[seq].Sign * f.Ori()})
	}
	return out
}

// toInterfaceSlice adapts a []blockOriKey to the []interface{} that
// go-intersect's comparison helpers expect.
func toInterfaceSlice(keys []blockOriKey) []interface{} {
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

// sharedBlock returns a block present (under matching relative
// orientation) in both columns, using go-intersect's simple equality
// intersection over the two (block, ori) sets.
func sharedBlock(a, b []blockOriKey) (*fragment.Block, bool) {
	common := intersect.Simple(toInterfaceSlice(a), toInterfaceSlice(b))
	if len(common) == 0 {
		return nil, false
	}
	return common[0].(blockOriKey).block, true
}

// isStem reports whether blk contains exactly one fragment per genome in
// genomes, with no extras and no repeats (spec §4.5.2 "stem" bonus).
func isStem(blk *fragment.Block, genomes []string) bool {
	if blk == nil || len(genomes) == 0 {
		return false
	}
	seen := make(map[string]int, len(genomes))
	for _, f := range blk.Members() {
		g, err := f.Sequence().Genome()
		if err != nil {
			return false
		}
		seen[g]++
	}
	if len(seen) != len(genomes) {
		return false
	}
	for _, g := range genomes {
		if seen[g] != 1 {
			return false
		}
	}
	return true
}

// columnScore is the cost of aligning column ca of A against column cb of
// B: a match (the columns share a block, in the same relative
// orientation) scores -(1+log(block alignment length)), doubled when the
// shared block is a stem; otherwise the mismatch cost is +1. Lower is
// better throughout this package's DP, matching spec scenario S4's
// "score <= -(1+log 100)" acceptance criterion for a 100bp shared block.
func columnScore(a *BSA, ca int, b *BSA, cb int, genomes []string) float64 {
	blk, ok := sharedBlock(columnSet(a, ca), columnSet(b, cb))
	if !ok {
		return mismatchCost
	}
	score := -(1 + math.Log(float64(blk.AlignmentLength())))
	if isStem(blk, genomes) {
		score *= 2
	}
	return score
}

const (
	mismatchCost      = 1.0
	defaultGapPenalty = 5.0
)
