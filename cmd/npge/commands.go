package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lunny/log"
	"github.com/urfave/cli/v2"

	"github.com/bebop/npge/blockset"
	"github.com/bebop/npge/bsa"
	"github.com/bebop/npge/extend"
	"github.com/bebop/npge/fragment"
	"github.com/bebop/npge/geneconversion"
	"github.com/bebop/npge/lowsimilar"
	"github.com/bebop/npge/npgeio/bsatext"
	"github.com/bebop/npge/npgeio/fasta"
	"github.com/bebop/npge/npgeio/newick"
	"github.com/bebop/npge/processor"
	"github.com/bebop/npge/repeats"
	"github.com/bebop/npge/sequence"
	"github.com/bebop/npge/tree"
)

/******************************************************************************

File is structured like poly's own commands.go: one function per top-level
command, plus small file-handling helpers shared between them. Each command
opens its own files rather than relying on stdin/stdout piping, since BSA
and block-set formats are multi-file (a block-set fasta plus one or more
BSA text files referencing it).

******************************************************************************/

func blocksCommand(c *cli.Context) error {
	in, err := os.Open(c.String("i"))
	if err != nil {
		return err
	}
	defer in.Close()

	seqs, err := fasta.Read(in)
	if err != nil {
		return err
	}

	bs := blockset.New()
	for _, seq := range seqs {
		f, err := fragment.New(seq, 0, seq.Size()-1, 1)
		if err != nil {
			return err
		}
		b := fragment.NewBlock(seq.Name(), false)
		b.Insert(f)
		bs.Insert(b)
	}

	out, err := os.Create(c.String("o"))
	if err != nil {
		return err
	}
	defer out.Close()

	log.Infof("wrote %d trivial blocks to %s", len(seqs), c.String("o"))
	return fasta.WriteBlockSet(out, bs)
}

func alignCommand(c *cli.Context) error {
	seqOf, err := loadSeqLookup(c.String("seqs"))
	if err != nil {
		return err
	}

	blockFile, err := os.Open(c.String("blocks"))
	if err != nil {
		return err
	}
	defer blockFile.Close()

	bs := blockset.New()
	if err := fasta.ReadBlockSet(blockFile, bs, seqOf); err != nil {
		return err
	}

	loadBSA := func(path string) (*bsa.BSA, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return bsatext.Read(f, bs, bs.SeqFromName)
	}

	a, err := loadBSA(c.String("a"))
	if err != nil {
		return err
	}
	b, err := loadBSA(c.String("b"))
	if err != nil {
		return err
	}

	genomes := genomeNames(bs)
	opts := bsa.DefaultAlignOptions(genomes)
	opts.Local = c.Bool("local")
	opts.GapPenalty = c.Float64("gap-penalty")

	merged, score, err := bsa.Align(a, b, opts)
	if err != nil {
		return err
	}
	log.Infof("aligned %s x %s: score=%g columns=%d", a.Name(), b.Name(), score, merged.Length())

	out, err := os.Create(c.String("o"))
	if err != nil {
		return err
	}
	defer out.Close()
	return bsatext.Write(out, merged)
}

// alignManyCommand progressively merges every sequence's trivial BSA into
// one block-set alignment, ordering the merges by a guide tree built over
// the sequences' own block content (spec §4.5.3's guide-tree progressive
// merge) rather than merging in whatever order the fasta listed them.
func alignManyCommand(c *cli.Context) error {
	seqOf, err := loadSeqLookup(c.String("seqs"))
	if err != nil {
		return err
	}

	blockFile, err := os.Open(c.String("blocks"))
	if err != nil {
		return err
	}
	defer blockFile.Close()

	bs := blockset.New()
	if err := fasta.ReadBlockSet(blockFile, bs, seqOf); err != nil {
		return err
	}

	seqs := bs.Sequences()
	parts, err := bsa.MakeRows(bs, seqs)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return fmt.Errorf("npge: no sequences to align")
	}

	genomes := genomeNames(bs)
	opts := bsa.DefaultAlignOptions(genomes)
	opts.Local = c.Bool("local")
	opts.GapPenalty = c.Float64("gap-penalty")

	root, leafKey, err := bsa.GuideTree(parts, c.String("method"))
	if err != nil {
		return err
	}

	merged, err := bsa.MakeAlnByTree("merged", root, parts, leafKey, opts)
	if err != nil {
		return err
	}
	log.Infof("merged %d sequences by guide tree: columns=%d", len(parts), merged.Length())

	out, err := os.Create(c.String("o"))
	if err != nil {
		return err
	}
	defer out.Close()
	return bsatext.Write(out, merged)
}

// loadSeqLookup reads a plain fasta file and returns a name-indexed
// lookup over its sequences, for resolving the bare sequence names a
// block-set fasta's fragment ids carry (spec §6.2: the format never
// repeats sequence metadata per fragment).
func loadSeqLookup(path string) (func(name string) (*sequence.Sequence, bool), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seqs, err := fasta.Read(f)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*sequence.Sequence, len(seqs))
	for _, seq := range seqs {
		byName[seq.Name()] = seq
	}
	return func(name string) (*sequence.Sequence, bool) {
		s, ok := byName[name]
		return s, ok
	}, nil
}

func genomeNames(bs *blockset.BlockSet) []string {
	seen := make(map[string]bool)
	var out []string
	for _, seq := range bs.Sequences() {
		genome, err := seq.Genome()
		if err != nil {
			continue
		}
		if !seen[genome] {
			seen[genome] = true
			out = append(out, genome)
		}
	}
	return out
}

func scanCommand(c *cli.Context) error {
	seqOf, err := loadSeqLookup(c.String("seqs"))
	if err != nil {
		return err
	}

	in, err := os.Open(c.String("i"))
	if err != nil {
		return err
	}
	defer in.Close()

	bs := blockset.New()
	if err := fasta.ReadBlockSet(in, bs, seqOf); err != nil {
		return err
	}

	pool := processor.NewPool(4)
	switch c.String("with") {
	case "low-similar":
		finder := lowsimilar.New()
		if err := finder.Options().SetValue("min-identity", processor.DecValue(c.Float64("min-identity"))); err != nil {
			return err
		}
		if err := pool.Run(finder, bs.Blocks()); err != nil {
			return err
		}
		for _, b := range finder.Found() {
			fmt.Printf("%s\t%d members\n", b.Name(), b.Size())
		}
	case "repeats":
		splitter := repeats.New()
		if err := pool.Run(splitter, bs.Blocks()); err != nil {
			return err
		}
		for _, b := range splitter.Extra() {
			fmt.Printf("%s\t%d members\n", b.Name(), b.Size())
		}
	case "gene-conversion":
		finder := geneconversion.New()
		if err := finder.Options().SetValue("min-run", processor.IntValue(c.Int("min-run"))); err != nil {
			return err
		}
		if err := pool.Run(finder, bs.Blocks()); err != nil {
			return err
		}
		for _, ev := range finder.Found() {
			fmt.Println(ev.String())
		}
	case "extend":
		// Clone before extending: unlike the other analyses, extend
		// mutates fragment bounds in place, and scanCommand otherwise
		// never touches the block set it loaded.
		working, err := bs.Clone()
		if err != nil {
			return err
		}
		extender := extend.New(working)
		if err := extender.Options().SetValue("extend-length", processor.IntValue(c.Int("extend-length"))); err != nil {
			return err
		}
		if err := pool.Run(extender, working.Blocks()); err != nil {
			return err
		}
		if out := c.String("o"); out != "" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := fasta.WriteBlockSet(f, working); err != nil {
				return err
			}
			log.Infof("wrote extended blocks to %s", out)
		}
	default:
		return fmt.Errorf("npge: unknown analysis %q (want low-similar, repeats, gene-conversion, or extend)", c.String("with"))
	}
	return nil
}

func treeCommand(c *cli.Context) error {
	in, err := os.Open(c.String("i"))
	if err != nil {
		return err
	}
	defer in.Close()

	names, dist, err := readDistanceMatrix(in)
	if err != nil {
		return err
	}

	var root *tree.Node
	switch c.String("method") {
	case "upgma":
		root = tree.UPGMA(names, dist)
	case "nj":
		root = tree.NeighborJoining(names, dist)
	default:
		return fmt.Errorf("npge: unknown clustering method %q (want upgma or nj)", c.String("method"))
	}

	var style tree.SupportStyle
	switch c.String("support") {
	case "none":
		style = tree.SupportNone
	case "label":
		style = tree.SupportAsLabel
	case "branch-length":
		style = tree.SupportAsBranchLength
	default:
		return fmt.Errorf("npge: unknown support style %q", c.String("support"))
	}

	log.Infof("built %s tree over %d taxa", c.String("method"), len(names))
	return newick.Write(os.Stdout, root, style)
}

// readDistanceMatrix parses a square, tab-separated distance matrix with
// a leading row and column of taxon names.
func readDistanceMatrix(r io.Reader) ([]string, tree.DistanceMatrix, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if len(lines) < 2 {
		return nil, nil, fmt.Errorf("npge: distance matrix needs at least two taxa")
	}

	header := strings.Split(lines[0], "\t")
	names := header[1:]
	dist := make(tree.DistanceMatrix, len(names))
	for i, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		if len(fields) != len(names)+1 {
			return nil, nil, fmt.Errorf("npge: malformed distance matrix row %q", line)
		}
		row := make([]float64, len(names))
		for j, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, err
			}
			row[j] = v
		}
		dist[i] = row
	}
	return names, dist, nil
}
