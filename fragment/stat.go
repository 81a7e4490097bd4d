package fragment

// ColumnClass classifies a single alignment column for AlignmentStat.
type ColumnClass uint8

const (
	IdentNoGap ColumnClass = iota
	IdentGap
	NoidentNoGap
	NoidentGap
	PureGap
)

type columnStat struct {
	class   ColumnClass
	letters map[byte]int
}

// AlignmentStat is the per-column categorization and per-letter/per-length
// summary of a block's alignment, spec §4.2 "Alignment stat".
type AlignmentStat struct {
	columns         []columnStat
	fragmentLengths []int
}

// Stat computes the AlignmentStat of the block over its full alignment
// width.
func (b *Block) Stat() (*AlignmentStat, error) {
	width := b.AlignmentLength()
	stat := &AlignmentStat{columns: make([]columnStat, width)}
	for col := 0; col < width; col++ {
		cs, err := classifyColumn(b, col)
		if err != nil {
			return nil, err
		}
		stat.columns[col] = cs
	}
	for _, f := range b.members {
		stat.fragmentLengths = append(stat.fragmentLengths, f.Length())
	}
	return stat, nil
}

func classifyColumn(b *Block, col int) (columnStat, error) {
	letters := make(map[byte]int)
	gaps := false
	for _, f := range b.members {
		c, err := letterAtColumn(f, col)
		if err != nil {
			return columnStat{}, err
		}
		if c == '-' {
			gaps = true
			continue
		}
		letters[c]++
	}
	distinct := len(letters)
	var class ColumnClass
	switch {
	case distinct == 0:
		class = PureGap
	case distinct == 1 && !gaps:
		class = IdentNoGap
	case distinct == 1 && gaps:
		class = IdentGap
	case distinct > 1 && !gaps:
		class = NoidentNoGap
	default:
		class = NoidentGap
	}
	return columnStat{class: class, letters: letters}, nil
}

func (s *AlignmentStat) count(class ColumnClass) int {
	n := 0
	for _, c := range s.columns {
		if c.class == class {
			n++
		}
	}
	return n
}

// IdentNogap is the number of columns where every non-gap member agrees
// and no member has a gap.
func (s *AlignmentStat) IdentNogap() int { return s.count(IdentNoGap) }

// IdentGap is like IdentNogap but at least one member has a gap.
func (s *AlignmentStat) IdentGap() int { return s.count(IdentGap) }

// NoidentNogap is the number of columns with disagreeing letters and no
// gaps.
func (s *AlignmentStat) NoidentNogap() int { return s.count(NoidentNoGap) }

// NoidentGap is like NoidentNogap but at least one member has a gap.
func (s *AlignmentStat) NoidentGap() int { return s.count(NoidentGap) }

// PureGap is the number of columns where every member is a gap.
func (s *AlignmentStat) PureGap() int { return s.count(PureGap) }

// Identity implements spec §4.2's identity formula:
//
//	(ident_nogap + 1/2*ident_gap) / (ident_nogap + noident_nogap + 1/2*(ident_gap + noident_gap))
func (s *AlignmentStat) Identity() float64 {
	in, ig := float64(s.IdentNogap()), float64(s.IdentGap())
	nn, ng := float64(s.NoidentNogap()), float64(s.NoidentGap())
	denom := in + nn + 0.5*(ig+ng)
	if denom == 0 {
		return 0
	}
	return (in + 0.5*ig) / denom
}

// GCRatio is the fraction of non-gap letters that are G or C, over the
// stat's column range.
func (s *AlignmentStat) GCRatio() float64 {
	var gc, total int
	for _, c := range s.columns {
		for letter, n := range c.letters {
			total += n
			if letter == 'G' || letter == 'C' {
				gc += n
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(gc) / float64(total)
}

// MinLength, MaxLength, AvgLength, and Spreading summarize member fragment
// lengths: spreading is (max-min)/avg.
func (s *AlignmentStat) MinLength() int {
	if len(s.fragmentLengths) == 0 {
		return 0
	}
	m := s.fragmentLengths[0]
	for _, l := range s.fragmentLengths {
		if l < m {
			m = l
		}
	}
	return m
}

func (s *AlignmentStat) MaxLength() int {
	m := 0
	for _, l := range s.fragmentLengths {
		if l > m {
			m = l
		}
	}
	return m
}

func (s *AlignmentStat) AvgLength() float64 {
	if len(s.fragmentLengths) == 0 {
		return 0
	}
	total := 0
	for _, l := range s.fragmentLengths {
		total += l
	}
	return float64(total) / float64(len(s.fragmentLengths))
}

func (s *AlignmentStat) Spreading() float64 {
	avg := s.AvgLength()
	if avg == 0 {
		return 0
	}
	return float64(s.MaxLength()-s.MinLength()) / avg
}

// Slice restricts the stat to columns [from,to] inclusive, keeping the
// same fragment-length summary (lengths describe whole fragments, not the
// sliced window).
func (s *AlignmentStat) Slice(from, to int) *AlignmentStat {
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= len(s.columns) {
		hi = len(s.columns) - 1
	}
	out := &AlignmentStat{fragmentLengths: s.fragmentLengths}
	if lo <= hi {
		out.columns = append(out.columns, s.columns[lo:hi+1]...)
	}
	return out
}
