package main

import (
	"os"

	"github.com/lunny/log"
	"github.com/urfave/cli/v2"
)

/******************************************************************************

This file is the entry point for the npge command line utility. It mirrors
the argparsing/app-definition split of poly's own main.go: main.go defines
what commands exist and what flags they take; commands.go implements them.

Initial argparsing and app definition is done entirely through
"github.com/urfave/cli/v2".

******************************************************************************/

func main() {
	run(os.Args)
}

func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		log.Fatal(err)
	}
}

func application() *cli.App {
	return &cli.App{
		Name:  "npge",
		Usage: "A command line utility for building and querying nucleotide pan-genomes.",

		Commands: []*cli.Command{
			{
				Name:    "blocks",
				Aliases: []string{"b"},
				Usage:   "Wrap each sequence of a fasta file in a trivial, whole-sequence block, writing a block-set fasta.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "i", Usage: "Input plain fasta path.", Required: true},
					&cli.StringFlag{Name: "o", Usage: "Output block-set fasta path.", Required: true},
				},
				Action: func(c *cli.Context) error { return blocksCommand(c) },
			},
			{
				Name:    "align",
				Aliases: []string{"a"},
				Usage:   "Pairwise-align two BSAs against a shared block-set fasta, writing the merged BSA as text.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "seqs", Usage: "Plain fasta the block-set fasta's fragments reference.", Required: true},
					&cli.StringFlag{Name: "blocks", Usage: "Block-set fasta shared by both BSAs.", Required: true},
					&cli.StringFlag{Name: "a", Usage: "First BSA text file.", Required: true},
					&cli.StringFlag{Name: "b", Usage: "Second BSA text file.", Required: true},
					&cli.StringFlag{Name: "o", Usage: "Output merged BSA text path.", Required: true},
					&cli.BoolFlag{Name: "local", Usage: "Allow free leading/trailing end gaps."},
					&cli.Float64Flag{Name: "gap-penalty", Value: 5, Usage: "Per-column gap cost."},
				},
				Action: func(c *cli.Context) error { return alignCommand(c) },
			},
			{
				Name:    "align-many",
				Usage:   "Progressively merge every sequence of a block-set fasta into one alignment, ordered by a guide tree over their block content.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "seqs", Usage: "Plain fasta the block-set fasta's fragments reference.", Required: true},
					&cli.StringFlag{Name: "blocks", Usage: "Block-set fasta to align.", Required: true},
					&cli.StringFlag{Name: "o", Usage: "Output merged BSA text path.", Required: true},
					&cli.StringFlag{Name: "method", Value: "nj", Usage: "Guide tree clustering method: upgma or nj."},
					&cli.BoolFlag{Name: "local", Usage: "Allow free leading/trailing end gaps."},
					&cli.Float64Flag{Name: "gap-penalty", Value: 5, Usage: "Per-column gap cost."},
				},
				Action: func(c *cli.Context) error { return alignManyCommand(c) },
			},
			{
				Name:    "scan",
				Aliases: []string{"s"},
				Usage:   "Run a block-level analysis over a block-set fasta.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "seqs", Usage: "Plain fasta the block-set fasta's fragments reference.", Required: true},
					&cli.StringFlag{Name: "i", Usage: "Input block-set fasta path.", Required: true},
					&cli.StringFlag{Name: "with", Usage: "Analysis to run: low-similar, repeats, gene-conversion, extend.", Required: true},
					&cli.Float64Flag{Name: "min-identity", Value: 0.9, Usage: "low-similar: minimum acceptable block identity."},
					&cli.IntFlag{Name: "min-run", Value: 4, Usage: "gene-conversion: minimum shared-substitution run length."},
					&cli.IntFlag{Name: "extend-length", Value: 10, Usage: "extend: length of extended part on each side."},
					&cli.StringFlag{Name: "o", Usage: "extend: output block-set fasta path for the extended blocks."},
				},
				Action: func(c *cli.Context) error { return scanCommand(c) },
			},
			{
				Name:    "tree",
				Aliases: []string{"t"},
				Usage:   "Build a guide tree from a tab-separated distance matrix and print it in newick format.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "i", Usage: "Input distance matrix path.", Required: true},
					&cli.StringFlag{Name: "method", Value: "upgma", Usage: "Clustering method: upgma or nj."},
					&cli.StringFlag{Name: "support", Value: "none", Usage: "Support display: none, label, branch-length."},
				},
				Action: func(c *cli.Context) error { return treeCommand(c) },
			},
		},
	}
}
