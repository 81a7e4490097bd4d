/*
Package bsatext reads and writes the BSA text format of spec §6.3: one
row per line, tab-separated, the BSA name then the signed sequence name
then one fragment token (or "-" for a gap) per column. A fragment token
is "<begin>_<last>" (orientation implicit in begin vs. last), resolved
against an already-built BlockSet on read since the format does not
repeat block identity per cell.
*/
package bsatext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bebop/npge/bsa"
	"github.com/bebop/npge/blockset"
	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/sequence"
)

// ErrMalformedRecord is returned for any row this reader cannot parse.
var ErrMalformedRecord = errors.New("bsatext: malformed record")

func fragmentToken(f *fragment.Fragment) string {
	return fmt.Sprintf("%d_%d", f.BeginPos(), f.LastPos())
}

// Write serializes a in the row-per-sequence text format.
func Write(w io.Writer, a *bsa.BSA) error {
	return a.Print(w, fragmentToken, false)
}

// Read parses one BSA's rows from r, resolving each cell's fragment
// token against bs (which must already contain every referenced
// fragment, i.e. have been populated from a companion block-set fasta
// file) and seqOf (typically bs.SeqFromName).
func Read(r io.Reader, bs *blockset.BlockSet, seqOf func(name string) (*sequence.Sequence, bool)) (*bsa.BSA, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var out *bsa.BSA
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedRecord, line)
		}
		name := fields[0]
		signed := fields[1]
		if len(signed) == 0 {
			return nil, fmt.Errorf("%w: empty row header in %q", ErrMalformedRecord, line)
		}
		sign := int8(1)
		seqName := signed
		switch signed[0] {
		case '+':
			seqName = signed[1:]
		case '-':
			sign = -1
			seqName = signed[1:]
		}
		seq, ok := seqOf(seqName)
		if !ok {
			return nil, fmt.Errorf("%w: unknown sequence %q", ErrMalformedRecord, seqName)
		}

		if out == nil {
			out = bsa.New(name)
		}

		cells := make([]*fragment.Fragment, 0, len(fields)-2)
		for _, tok := range fields[2:] {
			if tok == "-" {
				cells = append(cells, nil)
				continue
			}
			begin, last, err := parseToken(tok)
			if err != nil {
				return nil, err
			}
			minPos, maxPos := begin, last
			if begin > last {
				minPos, maxPos = last, begin
			}
			f, blk, ok := bs.FindFragment(seq, minPos, maxPos)
			if !ok {
				return nil, fmt.Errorf("%w: no fragment for %s:%d-%d", ErrMalformedRecord, seqName, minPos, maxPos)
			}
			out.NoteBlock(f, blk)
			cells = append(cells, f)
		}
		out.AddRow(&bsa.BSRow{Seq: seq, Sign: sign, Cells: cells})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseToken(tok string) (begin, last int, err error) {
	parts := strings.SplitN(tok, "_", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: malformed fragment token %q", ErrMalformedRecord, tok)
	}
	begin, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	last, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return begin, last, nil
}
