/*
Package fasta reads and writes plain fasta (spec §6.1) and block-set
fasta (spec §6.2), the two on-disk sequence formats the engine consumes
and produces.
*/
package fasta

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bebop/npge/sequence"
)

// ErrMalformedRecord is returned for any fasta record this reader cannot
// parse (spec §7 error kinds).
var ErrMalformedRecord = errors.New("fasta: malformed record")

const wrapWidth = 70

// Read parses a stream of plain fasta records into sequences. A header's
// description may carry "genome=", "chromosome=", and "circular=y|n"
// tags (space-separated, any order); missing tags default to
// genome=<record name>, chromosome=1, circular=linear, matching what a
// single-chromosome draft assembly implies.
func Read(r io.Reader) ([]*sequence.Sequence, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var out []*sequence.Sequence
	var name, desc string
	var buf []byte
	flush := func() {
		if name == "" {
			return
		}
		full := encodeName(name, desc)
		seq := sequence.New(sequence.AsIs, full, desc)
		seq.PushBack(buf)
		out = append(out, seq)
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			name, desc = splitHeader(line[1:])
			buf = nil
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("%w: sequence data before any header", ErrMalformedRecord)
		}
		buf = append(buf, []byte(strings.TrimSpace(line))...)
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func splitHeader(line string) (name, desc string) {
	fields := strings.SplitN(line, " ", 2)
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], fields[1]
}

func encodeName(name, desc string) string {
	genome, chromosome, circular := name, "1", "l"
	for _, tag := range strings.Fields(desc) {
		kv := strings.SplitN(tag, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "genome":
			genome = kv[1]
		case "chromosome":
			chromosome = kv[1]
		case "circular":
			if kv[1] == "y" {
				circular = "c"
			} else {
				circular = "l"
			}
		}
	}
	return genome + "&" + chromosome + "&" + circular
}

// Write serializes seqs as plain fasta, wrapping sequence data at 70
// columns (the teacher's io/fasta wrap width).
func Write(w io.Writer, seqs []*sequence.Sequence) error {
	for _, seq := range seqs {
		if _, err := fmt.Fprintf(w, ">%s %s\n", seq.Name(), seq.Description()); err != nil {
			return err
		}
		letters, err := seq.Substr(0, seq.Size(), 1)
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
	return nil
}
