package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bebop/npge/blockset"
	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/sequence"
)

// WriteBlockSet writes bs in block-set fasta form (spec §6.2): one
// record per fragment, id "<seq>_<begin>_<last>", "block=<name>" tag,
// and a "norow" tag when the fragment carries no AlignmentRow (its
// letters are then the raw, gap-free sequence rather than alignment
// columns).
func WriteBlockSet(w io.Writer, bs *blockset.BlockSet) error {
	for _, block := range bs.Blocks() {
		for _, f := range block.Members() {
			id := fmt.Sprintf("%s_%d_%d", f.Sequence().Name(), f.BeginPos(), f.LastPos())
			tags := "block=" + block.Name()
			if f.Row() == nil {
				tags += " norow"
			}
			if _, err := fmt.Fprintf(w, ">%s %s\n", id, tags); err != nil {
				return err
			}
			letters, err := fragmentLetters(f)
			if err != nil {
				return err
			}
			for i := 0; i < len(letters); i += wrapWidth {
				end := i + wrapWidth
				if end > len(letters) {
					end = len(letters)
				}
				if _, err := fmt.Fprintln(w, letters[i:end]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func fragmentLetters(f *fragment.Fragment) (string, error) {
	if f.Row() == nil {
		return f.Sequence().Substr(f.MinPos(), f.Length(), f.Ori())
	}
	row := f.Row()
	var b strings.Builder
	for col := 0; col < row.RowLength(); col++ {
		c, err := row.LetterAtColumn(col)
		if err != nil {
			return "", err
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// ReadBlockSet parses block-set fasta records into bs, resolving each
// record's sequence by name via seqOf (typically bs.SeqFromName, with
// the caller pre-registering sequences from a companion plain-fasta
// file — spec §6.2 fragments never carry their own sequence metadata).
func ReadBlockSet(r io.Reader, bs *blockset.BlockSet, seqOf func(name string) (*sequence.Sequence, bool)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var curBlock string
	var curFrag *fragment.Fragment
	var curNorow bool
	var letters strings.Builder

	flush := func() error {
		if curFrag == nil {
			return nil
		}
		if !curNorow {
			row := fragment.NewRow(fragment.RowMap)
			row.Grow(letters.String())
			if err := curFrag.AttachRow(row); err != nil {
				return err
			}
		}
		block, ok := bs.Block(curBlock)
		if !ok {
			block = fragment.NewBlock(curBlock, false)
			bs.Insert(block)
		}
		block.Insert(curFrag)
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			if err := flush(); err != nil {
				return err
			}
			id, tags := splitHeader(line[1:])
			seqName, begin, last, err := parseFragID(id)
			if err != nil {
				return err
			}
			seq, ok := seqOf(seqName)
			if !ok {
				return fmt.Errorf("%w: unknown sequence %q", ErrMalformedRecord, seqName)
			}
			minPos, maxPos, ori := begin, last, int8(1)
			if begin > last {
				minPos, maxPos, ori = last, begin, -1
			}
			f, err := fragment.New(seq, minPos, maxPos, ori)
			if err != nil {
				return err
			}
			curFrag = f
			curBlock = ""
			curNorow = false
			for _, tag := range strings.Fields(tags) {
				switch {
				case strings.HasPrefix(tag, "block="):
					curBlock = strings.TrimPrefix(tag, "block=")
				case tag == "norow":
					curNorow = true
				}
			}
			if curBlock == "" {
				return fmt.Errorf("%w: fragment %q missing block= tag", ErrMalformedRecord, id)
			}
			letters.Reset()
			continue
		}
		letters.WriteString(strings.TrimSpace(line))
	}
	if err := flush(); err != nil {
		return err
	}
	return scanner.Err()
}

func parseFragID(id string) (seqName string, begin, last int, err error) {
	parts := strings.Split(id, "_")
	if len(parts) < 3 {
		return "", 0, 0, fmt.Errorf("%w: malformed fragment id %q", ErrMalformedRecord, id)
	}
	last, err = strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	begin, err = strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	seqName = strings.Join(parts[:len(parts)-2], "_")
	return seqName, begin, last, nil
}
