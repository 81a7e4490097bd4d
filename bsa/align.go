package bsa

import (
	"math"

	"github.com/bebop/npge/fragment"
)

// AlignOptions configures the pairwise BSA aligner (spec §4.5.2).
type AlignOptions struct {
	// GapPenalty is the cost charged per gapped column (default 5).
	GapPenalty float64
	// Local, when true, leaves leading/trailing runs of unmatched columns
	// on either side free of gap penalty and clamps every DP cell's cost
	// at 0, so a positive-cost prefix is not carried forward. The
	// traceback still emits every column of both inputs.
	Local bool
	// GapRange bands the DP to |i-j| <= GapRange when positive, the
	// banded-alignment fast path spec §4.5.2 allows.
	GapRange int
	// Genomes is the full genome universe, needed to decide whether a
	// matched block is a stem (present exactly once per genome).
	Genomes []string
}

// DefaultAlignOptions returns the npge default alignment profile.
func DefaultAlignOptions(genomes []string) AlignOptions {
	return AlignOptions{GapPenalty: defaultGapPenalty, Genomes: genomes}
}

const infCost = math.MaxFloat64 / 4

type traceDir uint8

const (
	traceDiag traceDir = iota
	traceUp            // consumes a column of A only
	traceLeft          // consumes a column of B only
)

// Align runs the pairwise BSA aligner of spec §4.5.2 and returns the
// merged BSA plus its final alignment score. Both a and b keep their own
// rows; the result's rows are the union of both.
func Align(a, b *BSA, opts AlignOptions) (*BSA, float64, error) {
	if a.IsCircular() && b.IsCircular() {
		return alignCircular(a, b, opts)
	}
	return alignLinear(a, b, opts)
}

func alignLinear(a, b *BSA, opts AlignOptions) (*BSA, float64, error) {
	m, n := a.length, b.length
	gap := opts.GapPenalty
	if gap == 0 {
		gap = defaultGapPenalty
	}

	dp := make([][]float64, m+1)
	tr := make([][]traceDir, m+1)
	for i := range dp {
		dp[i] = make([]float64, n+1)
		tr[i] = make([]traceDir, n+1)
	}
	for i := 0; i <= m; i++ {
		if opts.Local {
			dp[i][0] = 0
		} else {
			dp[i][0] = float64(i) * gap
		}
		tr[i][0] = traceUp
	}
	for j := 0; j <= n; j++ {
		if opts.Local {
			dp[0][j] = 0
		} else {
			dp[0][j] = float64(j) * gap
		}
		tr[0][j] = traceLeft
	}

	inBand := func(i, j int) bool {
		if opts.GapRange <= 0 {
			return true
		}
		d := i - j
		if d < 0 {
			d = -d
		}
		return d <= opts.GapRange
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if !inBand(i, j) {
				dp[i][j] = infCost
				continue
			}
			diag := dp[i-1][j-1] + columnScore(a, i-1, b, j-1, opts.Genomes)
			up := dp[i-1][j] + gap
			left := dp[i][j-1] + gap
			best, dir := diag, traceDiag
			if up < best {
				best, dir = up, traceUp
			}
			if left < best {
				best, dir = left, traceLeft
			}
			if opts.Local && best > 0 {
				best = 0
			}
			dp[i][j] = best
			tr[i][j] = dir
		}
	}

	iEnd, jEnd, score := m, n, dp[m][n]
	if opts.Local {
		for j := 0; j <= n; j++ {
			if dp[m][j] < score {
				score, iEnd, jEnd = dp[m][j], m, j
			}
		}
		for i := 0; i <= m; i++ {
			if dp[i][n] < score {
				score, iEnd, jEnd = dp[i][n], i, n
			}
		}
	}

	merged := newMerge(a, b)
	var steps []traceDir
	var coords [][2]int
	i, j := iEnd, jEnd
	for i > 0 || j > 0 {
		var dir traceDir
		switch {
		case i == 0:
			dir = traceLeft
		case j == 0:
			dir = traceUp
		default:
			dir = tr[i][j]
		}
		steps = append(steps, dir)
		coords = append(coords, [2]int{i, j})
		switch dir {
		case traceDiag:
			i--
			j--
		case traceUp:
			i--
		case traceLeft:
			j--
		}
	}
	for k := len(steps) - 1; k >= 0; k-- {
		dir := steps[k]
		c := coords[k]
		switch dir {
		case traceDiag:
			merged.appendDiag(a, c[0]-1, b, c[1]-1)
		case traceUp:
			merged.appendAOnly(a, c[0]-1)
		case traceLeft:
			merged.appendBOnly(b, c[1]-1)
		}
	}
	for j := jEnd; j < n; j++ {
		merged.appendBOnly(b, j)
	}
	for i := iEnd; i < m; i++ {
		merged.appendAOnly(a, i)
	}

	return merged.result(), score, nil
}

// alignCircular aligns two circular BSAs by trying every rotation of a's
// columns and keeping whichever linear alignment scores lowest (spec
// §4.5.2 "for circular BSAs, allow starting the alignment at any column").
// This is a direct, unoptimised reading of that rule.
func alignCircular(a, b *BSA, opts AlignOptions) (*BSA, float64, error) {
	if a.length == 0 {
		return alignLinear(a, b, opts)
	}
	var best *BSA
	bestScore := math.Inf(1)
	for shift := 0; shift < a.length; shift++ {
		rotated := rotate(a, shift)
		merged, score, err := alignLinear(rotated, b, opts)
		if err != nil {
			return nil, 0, err
		}
		if score < bestScore {
			best, bestScore = merged, score
		}
	}
	return best, bestScore, nil
}

func rotate(a *BSA, shift int) *BSA {
	if shift == 0 {
		return a
	}
	out := New(a.name)
	out.blockOf = a.blockOf
	out.length = a.length
	for _, seq := range a.order {
		row := a.rows[seq]
		cells := make([]*fragment.Fragment, a.length)
		for col := 0; col < a.length; col++ {
			cells[col] = row.Cells[(col+shift)%a.length]
		}
		out.addRow(&BSRow{Seq: row.Seq, Sign: row.Sign, Cells: cells})
	}
	return out
}
